// Package config loads the relay server configuration: the listen address
// and the table of games the server carries. Configuration lives in a
// YAML file; every field has a sensible default so the server can start
// with no file at all.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/totemplay/gamerelay/relay"
)

var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Game describes one game family the server relays.
type Game struct {
	// Name is the routing name: upgrade endpoints are /{name}/host and
	// /{name}/client.
	Name string `yaml:"name"`

	// Kind selects the minimum-player policy: "versus" or "solo".
	Kind string `yaml:"kind"`

	// MaxPlayers overrides the default room capacity when > 0.
	MaxPlayers int `yaml:"max_players,omitempty"`

	// Allocator selects the player identifier policy: "dense" (default)
	// or "token".
	Allocator string `yaml:"allocator,omitempty"`

	// BinaryInput enables the framed binary client input path.
	BinaryInput bool `yaml:"binary_input,omitempty"`
}

// Config is the full server configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Games is the table of carried games.
	Games []Game `yaml:"games"`
}

// Default returns the built-in configuration: a two-sided game and a
// single-host shooter with binary input, both on the default port.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		Games: []Game{
			{Name: "pong", Kind: string(relay.KindVersus)},
			{Name: "galaga", Kind: string(relay.KindSolo), BinaryInput: true},
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	cfg.Games = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if len(cfg.Games) == 0 {
		cfg.Games = Default().Games
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen address required", ErrInvalidConfig)
	}

	seen := make(map[string]bool)
	for _, game := range c.Games {
		if game.Name == "" {
			return fmt.Errorf("%w: game name required", ErrInvalidConfig)
		}
		if seen[game.Name] {
			return fmt.Errorf("%w: duplicate game %q", ErrInvalidConfig, game.Name)
		}
		seen[game.Name] = true

		kind := relay.GameKind(game.Kind)
		if !kind.Valid() {
			return fmt.Errorf("%w: game %q has unknown kind %q", ErrInvalidConfig, game.Name, game.Kind)
		}
		if game.MaxPlayers < 0 {
			return fmt.Errorf("%w: game %q has negative max_players", ErrInvalidConfig, game.Name)
		}
		if game.MaxPlayers > 0 && game.MaxPlayers < kind.MinPlayers() {
			return fmt.Errorf("%w: game %q max_players %d is below the %s minimum of %d",
				ErrInvalidConfig, game.Name, game.MaxPlayers, game.Kind, kind.MinPlayers())
		}

		policy, ok := relay.PolicyByName(game.Allocator)
		if !ok {
			return fmt.Errorf("%w: game %q has unknown allocator %q", ErrInvalidConfig, game.Name, game.Allocator)
		}
		if game.BinaryInput && policy.Name() != "dense" {
			return fmt.Errorf("%w: game %q enables binary_input but allocator %q has no wire indexes",
				ErrInvalidConfig, game.Name, policy.Name())
		}
	}
	return nil
}

// Profiles converts the game table into relay game profiles.
func (c *Config) Profiles() []relay.GameProfile {
	profiles := make([]relay.GameProfile, 0, len(c.Games))
	for _, game := range c.Games {
		policy, _ := relay.PolicyByName(game.Allocator)
		profiles = append(profiles, relay.GameProfile{
			Name:        game.Name,
			Kind:        relay.GameKind(game.Kind),
			MaxPlayers:  game.MaxPlayers,
			Policy:      policy,
			BinaryInput: game.BinaryInput,
		})
	}
	return profiles
}
