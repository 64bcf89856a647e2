package config

// Stats are the physical traits a character brings to the actor.
type Stats struct {
	JumpForce   float64 `yaml:"jump_force"`   // max jump power
	JumpAngleX  float64 `yaml:"jump_angle_x"` // horizontal share of a sideways jump
	Gravity     float64 `yaml:"gravity"`      // gravity multiplier
	ChargeSpeed float64 `yaml:"charge_speed"` // charge gained per held millisecond
}

// Character is an unlockable playable animal.
type Character struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Price int    `yaml:"price"`
	Color string `yaml:"color"`
	Stats Stats  `yaml:"stats"`
}

// Character returns the character with the given id. Unknown ids fall back
// to the first entry of the catalogue.
func (c SkyhopConfig) Character(id string) Character {
	if ch, ok := c.FindCharacter(id); ok {
		return ch
	}
	if len(c.Characters) > 0 {
		return c.Characters[0]
	}
	return defaultCharacters()[0]
}

// FindCharacter looks up a character by id.
func (c SkyhopConfig) FindCharacter(id string) (Character, bool) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return Character{}, false
}

// StarterCharacter returns the id of the free character every profile owns.
func (c SkyhopConfig) StarterCharacter() string {
	return c.Character("").ID
}

func defaultCharacters() []Character {
	return []Character{
		{ID: "frog", Name: "Frog", Glyph: "F", Price: 0, Color: "green",
			Stats: Stats{JumpForce: 18.5, JumpAngleX: 0.6, Gravity: 1.0, ChargeSpeed: 1.0}},
		{ID: "flea", Name: "Flea", Glyph: "f", Price: 200, Color: "orange",
			Stats: Stats{JumpForce: 25, JumpAngleX: 0.25, Gravity: 0.5, ChargeSpeed: 3.5}},
		{ID: "goat", Name: "Goat", Glyph: "G", Price: 800, Color: "gray",
			Stats: Stats{JumpForce: 20, JumpAngleX: 0.65, Gravity: 1.8, ChargeSpeed: 0.9}},
		{ID: "rabbit", Name: "Rabbit", Glyph: "R", Price: 1500, Color: "white",
			Stats: Stats{JumpForce: 16.5, JumpAngleX: 0.95, Gravity: 1.1, ChargeSpeed: 1.6}},
		{ID: "grasshopper", Name: "Grasshopper", Glyph: "H", Price: 3500, Color: "green",
			Stats: Stats{JumpForce: 23, JumpAngleX: 1.2, Gravity: 0.7, ChargeSpeed: 1.3}},
		{ID: "squirrel", Name: "Squirrel", Glyph: "S", Price: 7000, Color: "brown",
			Stats: Stats{JumpForce: 16, JumpAngleX: 0.8, Gravity: 0.35, ChargeSpeed: 2.0}},
		{ID: "cat", Name: "Cat", Glyph: "C", Price: 10000, Color: "yellow",
			Stats: Stats{JumpForce: 21, JumpAngleX: 0.75, Gravity: 0.9, ChargeSpeed: 1.2}},
		{ID: "kangaroo", Name: "Kangaroo", Glyph: "K", Price: 15000, Color: "orange",
			Stats: Stats{JumpForce: 28, JumpAngleX: 0.85, Gravity: 1.4, ChargeSpeed: 0.8}},
		{ID: "eagle", Name: "Eagle", Glyph: "E", Price: 25000, Color: "brown",
			Stats: Stats{JumpForce: 15, JumpAngleX: 0.5, Gravity: 0.15, ChargeSpeed: 2.8}},
	}
}
