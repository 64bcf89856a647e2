package core

// Color is the foreground colour of a screen cell. The platform layer maps
// each value to an ANSI 256-colour code.
type Color uint8

// Palette used by the climber. Named after what they paint rather than the
// ANSI value so the simulation can emit them in effect requests.
const (
	ColorDefault Color = iota
	ColorWhite
	ColorGray
	ColorGold   // checkpoints, celebrations
	ColorBrown  // normal platforms
	ColorPink   // bounce platforms
	ColorIce    // ice platforms
	ColorCrumble
	ColorWater // currency drops
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorPurple
	ColorOrange
	ColorTeal
	ColorSky
	ColorNight
)

// String returns the palette name, used by the live feed.
func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorGray:
		return "gray"
	case ColorGold:
		return "gold"
	case ColorBrown:
		return "brown"
	case ColorPink:
		return "pink"
	case ColorIce:
		return "ice"
	case ColorCrumble:
		return "crumble"
	case ColorWater:
		return "water"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorCyan:
		return "cyan"
	case ColorPurple:
		return "purple"
	case ColorOrange:
		return "orange"
	case ColorTeal:
		return "teal"
	case ColorSky:
		return "sky"
	case ColorNight:
		return "night"
	default:
		return "default"
	}
}

// ParseColor maps a palette name back to a Color. Unknown names give
// ColorDefault.
func ParseColor(name string) Color {
	for c := ColorDefault; c <= ColorNight; c++ {
		if c.String() == name {
			return c
		}
	}
	return ColorDefault
}
