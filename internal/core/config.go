package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameMs returns the nominal duration of one tick in milliseconds.
func (c RuntimeConfig) FrameMs() float64 {
	if c.TickRate <= 0 {
		return 1000.0 / 60
	}
	return 1000.0 / float64(c.TickRate)
}

// GameState is returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score  int  // Current height in meters
	Best   int  // Best height of the current run
	Paused bool // Whether the simulation is frozen (pause or modal)
	Won    bool // Whether the victory height was reached in this run
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
