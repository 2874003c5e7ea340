// Package config loads lavaboard settings from YAML and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/lavaflow/lavaboard/internal/game"
	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LAVABOARD_GAME_PLAYERS.
const EnvPrefix = "LAVABOARD"

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Board   BoardConfig   `mapstructure:"board"`
	Game    GameConfig    `mapstructure:"game"`
	Feed    FeedConfig    `mapstructure:"feed"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// BoardConfig describes the board layout.
type BoardConfig struct {
	Shape  string  `mapstructure:"shape"`
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Radius float64 `mapstructure:"radius"`
}

// GameConfig holds match settings.
type GameConfig struct {
	Players      int               `mapstructure:"players"`
	BaseDistance int               `mapstructure:"base_distance"`
	Seed         int64             `mapstructure:"seed"`
	HandMode     string            `mapstructure:"hand_mode"`
	HandSize     int               `mapstructure:"hand_size"`
	Deck         cards.Composition `mapstructure:"deck"`
}

// FeedConfig configures the websocket event feed.
type FeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("board.shape", string(grid.ShapeSquare))
	v.SetDefault("board.width", 16)
	v.SetDefault("board.height", 16)
	v.SetDefault("board.radius", 0)

	defaults := game.DefaultSettings()
	v.SetDefault("game.players", defaults.Players)
	v.SetDefault("game.base_distance", defaults.BaseDistance)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.hand_mode", string(defaults.HandMode))
	v.SetDefault("game.hand_size", defaults.HandSize)

	deck := defaults.Deck
	v.SetDefault("game.deck.lava_line3", deck.LavaLine3)
	v.SetDefault("game.deck.lava_square2x2", deck.LavaSquare2x2)
	v.SetDefault("game.deck.water_line3", deck.WaterLine3)
	v.SetDefault("game.deck.water_square2x2", deck.WaterSquare2x2)
	v.SetDefault("game.deck.block_two_adjacent", deck.BlockTwoAdjacent)
	v.SetDefault("game.deck.block_one_space_one", deck.BlockOneSpaceOne)
	v.SetDefault("game.deck.wind_north", deck.WindNorth)
	v.SetDefault("game.deck.wind_south", deck.WindSouth)
	v.SetDefault("game.deck.wind_east", deck.WindEast)
	v.SetDefault("game.deck.wind_west", deck.WindWest)

	v.SetDefault("feed.enabled", false)
	v.SetDefault("feed.address", ":8080")
}

// Load reads the YAML file at path, applies LAVABOARD_ environment
// overrides and validates the result. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}

	if _, err := c.Board.Layout(); err != nil {
		return err
	}

	settings, err := c.Game.Settings()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	if c.Feed.Enabled && c.Feed.Address == "" {
		return fmt.Errorf("feed.address is required when the feed is enabled")
	}
	return nil
}

// Layout converts the board section into a grid layout.
func (b BoardConfig) Layout() (grid.Layout, error) {
	shape, err := grid.ParseShape(b.Shape)
	if err != nil {
		return grid.Layout{}, fmt.Errorf("board.shape: %w", err)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return grid.Layout{}, fmt.Errorf("board size %dx%d must be positive", b.Width, b.Height)
	}
	if b.Radius < 0 {
		return grid.Layout{}, fmt.Errorf("board.radius %v must not be negative", b.Radius)
	}
	return grid.Layout{Shape: shape, Width: b.Width, Height: b.Height, Radius: b.Radius}, nil
}

// Settings converts the game section into session settings.
func (g GameConfig) Settings() (game.Settings, error) {
	mode, err := cards.ParseHandMode(g.HandMode)
	if err != nil {
		return game.Settings{}, fmt.Errorf("game.hand_mode: %w", err)
	}
	return game.Settings{
		Players:      g.Players,
		BaseDistance: g.BaseDistance,
		Seed:         g.Seed,
		HandMode:     mode,
		HandSize:     g.HandSize,
		Deck:         g.Deck,
	}, nil
}
