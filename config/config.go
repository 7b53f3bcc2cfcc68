// Package config holds the scheduler's construction-time numeric knobs —
// functional-unit pool sizes and latencies, register-file size, and
// memory size — loadable from JSON with the reference defaults applied
// underneath whatever the file overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds every construction-time knob named in the spec's external
// interfaces section.
type Config struct {
	// AddUnits is the number of add/sub functional units.
	AddUnits int `json:"add_units"`
	// MulUnits is the number of mul/div functional units.
	MulUnits int `json:"mul_units"`
	// SWUnits is the number of load/store functional units.
	SWUnits int `json:"sw_units"`

	// AddLatency is the execute-stage latency, in cycles, of the add pool.
	AddLatency int `json:"add_latency"`
	// MulLatency is the execute-stage latency, in cycles, of the mul pool.
	MulLatency int `json:"mul_latency"`
	// SWLatency is the execute-stage latency, in cycles, of the sw pool.
	SWLatency int `json:"sw_latency"`

	// RegisterCount is the number of architectural registers (F0..Fn-1).
	// The rename pool (R0..Rn-1) is the same size, so the register file
	// holds 2*RegisterCount entries in total.
	RegisterCount int `json:"register_count"`

	// MemorySize is the number of slots in the direct-mapped scratch array.
	MemorySize int `json:"memory_size"`
	// MemoryInit is the value every memory slot is initialized to.
	MemoryInit int64 `json:"memory_init"`
}

// Default returns the reference configuration from the spec's external
// interfaces section: pools of 2 each, latencies 4/4/2, 16 architectural
// registers, and 32 memory slots initialized to 2.
func Default() *Config {
	return &Config{
		AddUnits:      2,
		MulUnits:      2,
		SWUnits:       2,
		AddLatency:    4,
		MulLatency:    4,
		SWLatency:     2,
		RegisterCount: 16,
		MemorySize:    32,
		MemoryInit:    2,
	}
}

// Load reads a Config from a JSON file. Fields absent from the file keep
// their Default() value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheduler config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scheduler config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}

	return cfg, nil
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize scheduler config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scheduler config file: %w", err)
	}

	return nil
}

// Validate checks that every knob is within the range the scheduler can
// actually run with.
func (c *Config) Validate() error {
	if c.AddUnits <= 0 {
		return fmt.Errorf("add_units must be > 0")
	}
	if c.MulUnits <= 0 {
		return fmt.Errorf("mul_units must be > 0")
	}
	if c.SWUnits <= 0 {
		return fmt.Errorf("sw_units must be > 0")
	}
	if c.AddLatency <= 0 {
		return fmt.Errorf("add_latency must be > 0")
	}
	if c.MulLatency <= 0 {
		return fmt.Errorf("mul_latency must be > 0")
	}
	if c.SWLatency <= 0 {
		return fmt.Errorf("sw_latency must be > 0")
	}
	if c.RegisterCount <= 0 {
		return fmt.Errorf("register_count must be > 0")
	}
	if c.MemorySize <= 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
