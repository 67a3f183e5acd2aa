package config

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/strrl/agentsim/internal/simulator"
)

// Config holds all agentsim configuration.
type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Logging   LoggingConfig   `yaml:"logging"`
	Replay    ReplayConfig    `yaml:"replay"`
	Chat      ChatConfig      `yaml:"chat"`
}

// SimulatorConfig configures response timing and randomness.
type SimulatorConfig struct {
	// Per-category delay in milliseconds, keyed by category name.
	DelaysMS        map[string]int `yaml:"delays_ms"`
	ThinkingDelayMS int            `yaml:"thinking_delay_ms"`
	// Seed fixes the random choices of general responses. 0 means unseeded.
	Seed uint64 `yaml:"seed"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

type ReplayConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Column      string `yaml:"column"`
}

type ChatConfig struct {
	WordWrap int    `yaml:"word_wrap"`
	Style    string `yaml:"style"` // glamour style: auto, dark, light, notty
}

func DefaultConfig() *Config {
	delays := make(map[string]int)
	for cat, d := range simulator.DefaultDelays() {
		delays[string(cat)] = int(d / time.Millisecond)
	}

	return &Config{
		Simulator: SimulatorConfig{
			DelaysMS: delays,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Replay: ReplayConfig{
			Concurrency: 4,
			Column:      "message",
		},
		Chat: ChatConfig{
			WordWrap: 80,
			Style:    "auto",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv("AGENTSIM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if seed := os.Getenv("AGENTSIM_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid AGENTSIM_SEED: %w", err)
		}
		c.Simulator.Seed = v
	}

	if noDelay := os.Getenv("AGENTSIM_NO_DELAY"); noDelay != "" {
		v, err := strconv.ParseBool(noDelay)
		if err != nil {
			return fmt.Errorf("invalid AGENTSIM_NO_DELAY: %w", err)
		}
		if v {
			c.DisableDelays()
		}
	}

	return nil
}

// DisableDelays zeroes every simulated delay.
func (c *Config) DisableDelays() {
	c.Simulator.DelaysMS = map[string]int{}
	c.Simulator.ThinkingDelayMS = 0
}

func (c *Config) Validate() error {
	for name, ms := range c.Simulator.DelaysMS {
		if _, err := simulator.ParseCategory(name); err != nil {
			return fmt.Errorf("simulator.delays_ms: %w", err)
		}
		if ms < 0 {
			return fmt.Errorf("simulator.delays_ms.%s must not be negative", name)
		}
	}
	if c.Simulator.ThinkingDelayMS < 0 {
		return fmt.Errorf("simulator.thinking_delay_ms must not be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error: got %q", c.Logging.Level)
	}

	if c.Replay.Concurrency < 1 {
		return fmt.Errorf("replay.concurrency must be at least 1")
	}
	if c.Replay.Column == "" {
		return fmt.Errorf("replay.column is required")
	}

	return nil
}

// SimulatorConfig converts the file representation into simulator settings.
func (c *Config) SimulatorConfig() simulator.Config {
	cfg := simulator.DefaultConfig()

	cfg.Delays = make(map[simulator.Category]time.Duration, len(c.Simulator.DelaysMS))
	for name, ms := range c.Simulator.DelaysMS {
		cfg.Delays[simulator.Category(name)] = time.Duration(ms) * time.Millisecond
	}
	cfg.ThinkingDelay = time.Duration(c.Simulator.ThinkingDelayMS) * time.Millisecond

	if c.Simulator.Seed != 0 {
		cfg.Rand = rand.New(rand.NewPCG(c.Simulator.Seed, c.Simulator.Seed))
	}

	return cfg
}
