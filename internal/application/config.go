package application

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/laneops/freightwatch/internal/domain/finance"
	"github.com/laneops/freightwatch/internal/domain/inventory"
	"github.com/laneops/freightwatch/internal/domain/risk"
	"github.com/laneops/freightwatch/internal/domain/scenario"
	"github.com/laneops/freightwatch/internal/domain/sla"
)

// InputsConfig names the input tables. The warehouse tables are optional:
// when a path is blank the corresponding order fields stay nil and the
// inventory proxy degrades to median fills.
type InputsConfig struct {
	Orders            string `yaml:"orders"`
	RateCard          string `yaml:"rate_card"`
	WarehouseCapacity string `yaml:"warehouse_capacity"`
	WarehouseCost     string `yaml:"warehouse_cost"`
}

// QueueConfig controls the exception queue.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// Config is the full pipeline configuration.
type Config struct {
	Inputs    InputsConfig             `yaml:"inputs"`
	OutputDir string                   `yaml:"output_dir"`
	Queue     QueueConfig              `yaml:"queue"`
	Risk      *risk.ScorerConfig       `yaml:"risk"`
	Margin    *finance.EstimatorConfig `yaml:"margin"`
	Inventory *inventory.ProxyConfig   `yaml:"inventory"`
	SLA       *sla.Config              `yaml:"sla"`
	Scenarios []scenario.Definition    `yaml:"scenarios"`
}

// DefaultConfig returns the production pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "out/analytics",
		Queue:     QueueConfig{Capacity: risk.DefaultQueueCapacity},
		Risk:      risk.DefaultScorerConfig(),
		Margin:    finance.DefaultEstimatorConfig(),
		Inventory: inventory.DefaultProxyConfig(),
		SLA:       sla.DefaultConfig(),
		Scenarios: scenario.DefaultDefinitions(),
	}
}

// LoadConfig reads a YAML config file over the defaults, so sections the
// file leaves out keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for sections the file nulled out. A bare
// section key ("margin:") decodes as an explicit null, overwriting the
// preloaded default with nil.
func (c *Config) fillDefaults() {
	if c.Risk == nil {
		c.Risk = risk.DefaultScorerConfig()
	}
	if c.Margin == nil {
		c.Margin = finance.DefaultEstimatorConfig()
	}
	if c.Inventory == nil {
		c.Inventory = inventory.DefaultProxyConfig()
	}
	if c.SLA == nil {
		c.SLA = sla.DefaultConfig()
	}
	if c.Scenarios == nil {
		c.Scenarios = scenario.DefaultDefinitions()
	}
}

// Validate checks the sections that carry invariants.
func (c *Config) Validate() error {
	if c.Risk != nil {
		if err := c.Risk.Validate(); err != nil {
			return err
		}
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue capacity must not be negative, got %d", c.Queue.Capacity)
	}
	return nil
}

// Marshal renders the effective configuration; the run manifest hashes it so
// snapshots from different configs are distinguishable.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
