// Package config holds the aggregator configuration: the agent roster and
// its phase grouping, the health/activity thresholds, and the progress
// scoring weights. Defaults match the farmstand test-fixing swarm; a YAML
// file and SWARMSTATUS_* environment variables can override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/farmstand/swarmstatus/internal/types"
)

// DefaultBaseDir is the shared communication directory the agent swarm
// writes into.
const DefaultBaseDir = "docker/volumes/communication"

// DefaultInterval is the continuous-mode cycle period.
const DefaultInterval = 30 * time.Second

// AggregateFileName is the snapshot written at the base directory root.
const AggregateFileName = "aggregate-status.json"

// Phase is one named grouping of agents. Order matters: phases and their
// agents are reported in declaration order.
type Phase struct {
	Name   string   `yaml:"name"`
	Agents []string `yaml:"agents"`
}

// Thresholds holds the time and count boundaries used by health and
// activity derivation.
type Thresholds struct {
	// ActiveWindow bounds lastUpdate age for an agent to count as active.
	// Default: 120s
	ActiveWindow time.Duration `yaml:"-"`

	// HeartbeatSlow is the heartbeat age past which health is "slow".
	// Default: 180s
	HeartbeatSlow time.Duration `yaml:"-"`

	// HeartbeatStale is the heartbeat age past which health is "stale".
	// Default: 300s
	HeartbeatStale time.Duration `yaml:"-"`

	// ErrorsDegraded is the error count past which health is "degraded".
	// Default: 5
	ErrorsDegraded int `yaml:"errors_degraded"`

	// ErrorsUnhealthy is the error count past which health is "unhealthy".
	// Default: 10
	ErrorsUnhealthy int `yaml:"errors_unhealthy"`

	// LowPassRate is the alert boundary: pass rates strictly between zero
	// and this value raise a warning. Exactly zero never alerts (no test
	// visibility is not the same as failing tests).
	// Default: 85
	LowPassRate int `yaml:"low_pass_rate"`
}

// Weights holds the progress scoring constants. These are tuning knobs
// inherited from the original tooling, not business rules.
type Weights struct {
	// PointsPerFile / FileCap: each modified file is worth PointsPerFile,
	// capped at FileCap. Defaults: 5 / 30.
	PointsPerFile int `yaml:"points_per_file"`
	FileCap       int `yaml:"file_cap"`

	// PointsPerTest / TestCap: each passing test is worth PointsPerTest,
	// capped at TestCap. Defaults: 2 / 40.
	PointsPerTest int `yaml:"points_per_test"`
	TestCap       int `yaml:"test_cap"`

	// PointsPerTenMinutes / TimeCap: elapsed wall clock since startTime
	// earns PointsPerTenMinutes per full 10 minutes, capped at TimeCap.
	// Defaults: 5 / 20.
	PointsPerTenMinutes int `yaml:"points_per_ten_minutes"`
	TimeCap             int `yaml:"time_cap"`

	// ActiveBonus is a flat bonus for currently-active agents. Default: 10.
	ActiveBonus int `yaml:"active_bonus"`

	// MaxInFlight caps the summed progress of any non-terminal agent.
	// Only an explicit completed status reaches 100. Default: 95.
	MaxInFlight int `yaml:"max_in_flight"`
}

// Config is the full aggregator configuration.
type Config struct {
	// BaseDir contains the status/, progress/, and logs/ subdirectories
	// plus the aggregate snapshot.
	BaseDir string `yaml:"base_dir"`

	// Interval is the continuous-mode cycle period.
	Interval time.Duration `yaml:"-"`

	// Phases is the agent roster in phase grouping order. Agents not
	// listed here are invisible to the aggregator.
	Phases []Phase `yaml:"phases"`

	Thresholds Thresholds `yaml:"thresholds"`
	Weights    Weights    `yaml:"weights"`
}

// Default returns the configuration for the farmstand test-fixing swarm:
// six agents across the three fixed phases.
func Default() *Config {
	return &Config{
		BaseDir:  DefaultBaseDir,
		Interval: DefaultInterval,
		Phases: []Phase{
			{Name: "foundation", Agents: []string{"role-types", "role-services", "role-utils"}},
			{Name: "extension", Agents: []string{"role-hooks", "role-screens"}},
			{Name: "integration", Agents: []string{"role-integration"}},
		},
		Thresholds: Thresholds{
			ActiveWindow:    120 * time.Second,
			HeartbeatSlow:   180 * time.Second,
			HeartbeatStale:  300 * time.Second,
			ErrorsDegraded:  5,
			ErrorsUnhealthy: 10,
			LowPassRate:     85,
		},
		Weights: Weights{
			PointsPerFile:       5,
			FileCap:             30,
			PointsPerTest:       2,
			TestCap:             40,
			PointsPerTenMinutes: 5,
			TimeCap:             20,
			ActiveBonus:         10,
			MaxInFlight:         95,
		},
	}
}

// Agents returns the full roster in phase order.
func (c *Config) Agents() []string {
	var names []string
	for _, p := range c.Phases {
		names = append(names, p.Agents...)
	}
	return names
}

// AgentType returns the phase classification for an agent. Names outside
// the configured roster, and phases outside the three known groupings,
// classify as unknown.
func (c *Config) AgentType(name string) types.AgentType {
	for _, p := range c.Phases {
		for _, a := range p.Agents {
			if a != name {
				continue
			}
			switch t := types.AgentType(p.Name); t {
			case types.AgentFoundation, types.AgentExtension, types.AgentIntegration:
				return t
			default:
				return types.AgentUnknown
			}
		}
	}
	return types.AgentUnknown
}

// StatusPath returns the agent's status JSON path.
func (c *Config) StatusPath(agent string) string {
	return filepath.Join(c.BaseDir, "status", agent+".json")
}

// ProgressPath returns the agent's progress markdown path.
func (c *Config) ProgressPath(agent string) string {
	return filepath.Join(c.BaseDir, "progress", agent+".md")
}

// LogPath returns the agent's tool-invocation log path.
func (c *Config) LogPath(agent string) string {
	return filepath.Join(c.BaseDir, "logs", agent+".log")
}

// AggregatePath returns the snapshot output path.
func (c *Config) AggregatePath() string {
	return filepath.Join(c.BaseDir, AggregateFileName)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if len(c.Agents()) == 0 {
		return fmt.Errorf("at least one agent must be configured")
	}
	seen := make(map[string]bool)
	for _, p := range c.Phases {
		if p.Name == "" {
			return fmt.Errorf("phase name is required")
		}
		for _, a := range p.Agents {
			if a == "" {
				return fmt.Errorf("phase %q has an empty agent name", p.Name)
			}
			if seen[a] {
				return fmt.Errorf("agent %q appears in more than one phase", a)
			}
			seen[a] = true
		}
	}
	if c.Weights.MaxInFlight < 0 || c.Weights.MaxInFlight > 100 {
		return fmt.Errorf("max_in_flight must be in [0,100], got %d", c.Weights.MaxInFlight)
	}
	return nil
}

// configFile mirrors Config for YAML decoding. Durations are strings like
// "30s" so the file stays readable.
type configFile struct {
	BaseDir  string  `yaml:"base_dir"`
	Interval string  `yaml:"interval"`
	Phases   []Phase `yaml:"phases"`

	Thresholds struct {
		ActiveWindow    string `yaml:"active_window"`
		HeartbeatSlow   string `yaml:"heartbeat_slow"`
		HeartbeatStale  string `yaml:"heartbeat_stale"`
		ErrorsDegraded  *int   `yaml:"errors_degraded"`
		ErrorsUnhealthy *int   `yaml:"errors_unhealthy"`
		LowPassRate     *int   `yaml:"low_pass_rate"`
	} `yaml:"thresholds"`

	Weights struct {
		PointsPerFile       *int `yaml:"points_per_file"`
		FileCap             *int `yaml:"file_cap"`
		PointsPerTest       *int `yaml:"points_per_test"`
		TestCap             *int `yaml:"test_cap"`
		PointsPerTenMinutes *int `yaml:"points_per_ten_minutes"`
		TimeCap             *int `yaml:"time_cap"`
		ActiveBonus         *int `yaml:"active_bonus"`
		MaxInFlight         *int `yaml:"max_in_flight"`
	} `yaml:"weights"`
}

// Load reads a YAML config file and layers it over the defaults. A missing
// file is not an error: defaults are returned unchanged, matching how the
// rest of the swarm tooling treats optional configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if file.BaseDir != "" {
		cfg.BaseDir = file.BaseDir
	}
	if file.Interval != "" {
		d, err := time.ParseDuration(file.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", file.Interval, err)
		}
		cfg.Interval = d
	}
	if len(file.Phases) > 0 {
		cfg.Phases = file.Phases
	}

	if err := overrideDuration(&cfg.Thresholds.ActiveWindow, file.Thresholds.ActiveWindow, "active_window"); err != nil {
		return nil, err
	}
	if err := overrideDuration(&cfg.Thresholds.HeartbeatSlow, file.Thresholds.HeartbeatSlow, "heartbeat_slow"); err != nil {
		return nil, err
	}
	if err := overrideDuration(&cfg.Thresholds.HeartbeatStale, file.Thresholds.HeartbeatStale, "heartbeat_stale"); err != nil {
		return nil, err
	}
	overrideInt(&cfg.Thresholds.ErrorsDegraded, file.Thresholds.ErrorsDegraded)
	overrideInt(&cfg.Thresholds.ErrorsUnhealthy, file.Thresholds.ErrorsUnhealthy)
	overrideInt(&cfg.Thresholds.LowPassRate, file.Thresholds.LowPassRate)

	overrideInt(&cfg.Weights.PointsPerFile, file.Weights.PointsPerFile)
	overrideInt(&cfg.Weights.FileCap, file.Weights.FileCap)
	overrideInt(&cfg.Weights.PointsPerTest, file.Weights.PointsPerTest)
	overrideInt(&cfg.Weights.TestCap, file.Weights.TestCap)
	overrideInt(&cfg.Weights.PointsPerTenMinutes, file.Weights.PointsPerTenMinutes)
	overrideInt(&cfg.Weights.TimeCap, file.Weights.TimeCap)
	overrideInt(&cfg.Weights.ActiveBonus, file.Weights.ActiveBonus)
	overrideInt(&cfg.Weights.MaxInFlight, file.Weights.MaxInFlight)

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies SWARMSTATUS_* environment overrides. Environment wins
// over both defaults and the config file.
func (c *Config) ApplyEnv() {
	if val := os.Getenv("SWARMSTATUS_BASE_DIR"); val != "" {
		c.BaseDir = val
	}
	if val := os.Getenv("SWARMSTATUS_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.Interval = d
		}
	}
}

func overrideDuration(dst *time.Duration, val, field string) error {
	if val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, val, err)
	}
	*dst = d
	return nil
}

func overrideInt(dst *int, val *int) {
	if val != nil {
		*dst = *val
	}
}
