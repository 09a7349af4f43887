// Package config loads the herd configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/goap"
	"github.com/WiegerWolf/minecraft-bots-sub005/internal/roles"
)

// Duration wraps time.Duration so YAML can carry "250ms" style strings.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Config is the full botherd configuration.
type Config struct {
	Seed         int64    `yaml:"seed"`
	WorldSize    int      `yaml:"world_size"`
	TickInterval Duration `yaml:"tick_interval"`
	ListenAddr   string   `yaml:"listen_addr"`
	DBPath       string   `yaml:"db_path"`
	JournalDir   string   `yaml:"journal_dir"`

	Arbiter ArbiterSpec `yaml:"arbiter"`
	Planner PlannerSpec `yaml:"planner"`
	Bots    []BotSpec   `yaml:"bots"`
}

// ArbiterSpec tunes goal switching.
type ArbiterSpec struct {
	HysteresisFactor float64 `yaml:"hysteresis_factor"`
	PreemptionMargin float64 `yaml:"preemption_margin"`
}

// PlannerSpec bounds the plan search.
type PlannerSpec struct {
	MaxDepth      int `yaml:"max_depth"`
	MaxExpansions int `yaml:"max_expansions"`
}

// BotSpec declares one bot in the herd.
type BotSpec struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Default returns a runnable single-farmer configuration.
func Default() Config {
	return Config{
		Seed:         1,
		WorldSize:    48,
		TickInterval: Duration(250 * time.Millisecond),
		ListenAddr:   ":8080",
		DBPath:       "botherd.db",
		JournalDir:   "journal",
		Arbiter: ArbiterSpec{
			HysteresisFactor: goap.DefaultHysteresisFactor,
			PreemptionMargin: goap.DefaultPreemptionMargin,
		},
		Planner: PlannerSpec{
			MaxDepth:      goap.DefaultMaxDepth,
			MaxExpansions: goap.DefaultMaxExpansions,
		},
		Bots: []BotSpec{
			{Name: "wheatley", Role: roles.RoleFarmer},
		},
	}
}

// Load reads a config file, filling gaps with defaults. An empty path yields
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the herd cannot run with.
func (c Config) Validate() error {
	if c.WorldSize < 8 {
		return fmt.Errorf("world_size %d too small, need at least 8", c.WorldSize)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.Arbiter.HysteresisFactor < 1 {
		return fmt.Errorf("hysteresis_factor %.2f must be at least 1", c.Arbiter.HysteresisFactor)
	}
	if c.Arbiter.PreemptionMargin < 0 {
		return fmt.Errorf("preemption_margin %.2f must not be negative", c.Arbiter.PreemptionMargin)
	}
	if c.Planner.MaxDepth < 1 {
		return fmt.Errorf("planner max_depth %d must be at least 1", c.Planner.MaxDepth)
	}
	if c.Planner.MaxExpansions < 1 {
		return fmt.Errorf("planner max_expansions %d must be at least 1", c.Planner.MaxExpansions)
	}
	if len(c.Bots) == 0 {
		return fmt.Errorf("no bots configured")
	}

	seen := make(map[string]bool, len(c.Bots))
	for _, b := range c.Bots {
		if b.Name == "" {
			return fmt.Errorf("bot with empty name")
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate bot name %q", b.Name)
		}
		seen[b.Name] = true
		if _, err := roles.ForRole(b.Role, nil); err != nil {
			return fmt.Errorf("bot %q: %w", b.Name, err)
		}
	}
	return nil
}
