package engine

import "fmt"

// Default tuning values
const (
	DefaultTileSize       = 48
	DefaultTickRate       = 60
	DefaultEnemyStepDelay = 30
	DefaultAnimationDelay = 8
)

// Config holds the tuning values passed to the engine, the enemies and the
// simulation loop at startup
type Config struct {
	// TileSize is the edge of one cell in pixels
	TileSize int `yaml:"tile_size" json:"tile_size" env:"COLLECT_TILE_SIZE"`
	// TickRate is the number of simulation ticks per second
	TickRate int `yaml:"tick_rate" json:"tick_rate" env:"COLLECT_TICK_RATE"`
	// EnemyStepDelay is the number of ticks between two enemy step attempts
	EnemyStepDelay int `yaml:"enemy_step_delay" json:"enemy_step_delay" env:"COLLECT_ENEMY_STEP_DELAY"`
	// AnimationDelay is the number of ticks between two animation frames
	AnimationDelay int `yaml:"animation_delay" json:"animation_delay" env:"COLLECT_ANIMATION_DELAY"`
	// Seed for enemy randomness. Zero picks a time-based seed.
	Seed int64 `yaml:"seed" json:"seed" env:"COLLECT_SEED"`
}

// DefaultConfig returns the stock tuning: 48px tiles, 60 ticks per second,
// enemies stepping twice a second
func DefaultConfig() Config {
	return Config{
		TileSize:       DefaultTileSize,
		TickRate:       DefaultTickRate,
		EnemyStepDelay: DefaultEnemyStepDelay,
		AnimationDelay: DefaultAnimationDelay,
	}
}

// Validate checks that every tuning value is usable
func (c Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("config validation: tile_size must be positive, got %d", c.TileSize)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("config validation: tick_rate must be positive, got %d", c.TickRate)
	}
	if c.EnemyStepDelay < 1 {
		return fmt.Errorf("config validation: enemy_step_delay must be at least 1, got %d", c.EnemyStepDelay)
	}
	if c.AnimationDelay < 1 {
		return fmt.Errorf("config validation: animation_delay must be at least 1, got %d", c.AnimationDelay)
	}
	return nil
}
