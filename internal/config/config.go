package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"homestead/internal/domain/farming"
	"homestead/internal/domain/inventory"
	"homestead/internal/domain/item"
)

const (
	DefaultAddr     = ":8080"
	DefaultOwnerID  = "player-1"
	DefaultSeedCost = 1
)

// Config holds all server configuration
type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Database  DatabaseConfig    `yaml:"database"`
	Inventory InventoryConfig   `yaml:"inventory"`
	Farming   FarmingConfig     `yaml:"farming"`
	Items     []item.Definition `yaml:"items"`
	Scenes    []SceneConfig     `yaml:"scenes"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"        env:"HOMESTEAD_ADDR"`
	LogLevel   string `yaml:"log_level"   env:"HOMESTEAD_LOG_LEVEL"`
	OwnerID    string `yaml:"owner_id"    env:"HOMESTEAD_OWNER_ID"`
	CORSOrigin string `yaml:"cors_origin" env:"HOMESTEAD_CORS_ORIGIN"`
}

// DatabaseConfig enables postgres persistence when DSN is set.
type DatabaseConfig struct {
	DSN           string `yaml:"dsn"            env:"HOMESTEAD_DB_DSN"`
	MigrationsDir string `yaml:"migrations_dir" env:"HOMESTEAD_MIGRATIONS_DIR"`
}

type InventoryConfig struct {
	StartingCapacity int `yaml:"starting_capacity" env:"HOMESTEAD_INVENTORY_CAPACITY"`
}

type FarmingConfig struct {
	// InteractMaxDistance is a pointer so an explicit 0 can be told apart
	// from an omitted value; only the latter gets the default.
	InteractMaxDistance *float64 `yaml:"interact_max_distance"`
	SeedCost            int      `yaml:"seed_cost"`
	Tillable            []string `yaml:"tillable"`
	InitialScene        string   `yaml:"initial_scene"`
}

type SceneConfig struct {
	Key          string            `yaml:"key"`
	CellSize     float64           `yaml:"cell_size"`
	OriginX      float64           `yaml:"origin_x"`
	OriginY      float64           `yaml:"origin_y"`
	Legend       map[string]string `yaml:"legend"`
	Rows         []string          `yaml:"rows"`
	Farmable     bool              `yaml:"farmable"`
	TilledToken  string            `yaml:"tilled_token"`
	PlantedToken string            `yaml:"planted_token"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes, defaults and validates a YAML config.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.OwnerID == "" {
		c.Server.OwnerID = DefaultOwnerID
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Inventory.StartingCapacity == 0 {
		c.Inventory.StartingCapacity = inventory.DefaultCapacity
	}
	if c.Farming.InteractMaxDistance == nil {
		d := farming.DefaultInteractDistance
		c.Farming.InteractMaxDistance = &d
	}
	if c.Farming.SeedCost == 0 {
		c.Farming.SeedCost = DefaultSeedCost
	}
	for i := range c.Scenes {
		if c.Scenes[i].CellSize == 0 {
			c.Scenes[i].CellSize = 1
		}
	}
	if c.Farming.InitialScene == "" && len(c.Scenes) > 0 {
		c.Farming.InitialScene = c.Scenes[0].Key
	}
}

// Validate returns every problem found, joined.
func Validate(c *Config) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if _, err := ParseLogLevel(c.Server.LogLevel); err != nil {
		invalid("server.log_level: %v", err)
	}
	if c.Inventory.StartingCapacity < 1 {
		invalid("inventory.starting_capacity must be at least 1, got %d", c.Inventory.StartingCapacity)
	}
	if d := c.Farming.InteractMaxDistance; d != nil && *d <= 0 {
		invalid("farming.interact_max_distance must be positive, got %v (there is no unbounded setting)", *d)
	}
	if c.Farming.SeedCost < 1 {
		invalid("farming.seed_cost must be at least 1, got %d", c.Farming.SeedCost)
	}
	if len(c.Farming.Tillable) == 0 {
		invalid("farming.tillable must list at least one terrain")
	}

	seen := map[string]bool{}
	for i, s := range c.Scenes {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			invalid("scenes[%d].key is required", i)
			continue
		}
		if seen[key] {
			invalid("scenes[%d].key %q is duplicated", i, key)
		}
		seen[key] = true
		if s.CellSize <= 0 {
			invalid("scenes[%d].cell_size must be positive, got %v", i, s.CellSize)
		}
		if s.Farmable && s.TilledToken == "" {
			invalid("scenes[%d] is farmable but has no tilled_token", i)
		}
		for k := range s.Legend {
			if len([]rune(k)) != 1 {
				invalid("scenes[%d].legend key %q must be a single character", i, k)
			}
		}
	}
	if c.Farming.InitialScene != "" && len(c.Scenes) > 0 && !seen[c.Farming.InitialScene] {
		invalid("farming.initial_scene %q is not a configured scene", c.Farming.InitialScene)
	}

	return errors.Join(errs...)
}

// ApplyEnv overrides file values with HOMESTEAD_* variables from environ,
// or from the process environment when environ is nil. Unset variables
// keep the file value.
func ApplyEnv(c *Config, environ map[string]string) error {
	opts := env.Options{Environment: environ}
	if environ == nil {
		opts.Environment = env.ToMap(os.Environ())
	}
	for _, target := range []any{&c.Server, &c.Database, &c.Inventory} {
		if err := env.ParseWithOptions(target, opts); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

func ParseLogLevel(raw string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%q is invalid; valid values: debug, info, warn, error", raw)
	}
	return lvl, nil
}

func (c *Config) InteractDistance() float64 {
	if c.Farming.InteractMaxDistance == nil {
		return farming.DefaultInteractDistance
	}
	return *c.Farming.InteractMaxDistance
}
