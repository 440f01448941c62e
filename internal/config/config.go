// Package config defines the seed profile that drives dictionary
// generation: the operator-supplied seed material, the generation
// policy, and the run plumbing (output, checkpoint, cadences).
// Profiles are YAML files; every field can also be set from CLI flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Generation modes.
const (
	ModeFull   = "full"   // accept every deduplicated candidate
	ModeStrong = "strong" // accept only candidates at or above the strength threshold
)

// Defaults.
const (
	DefaultOutput             = "passbot_dictionary.txt"
	DefaultCheckpointPath     = "passbot_checkpoint.json"
	DefaultStrengthThreshold  = 60
	DefaultCheckpointInterval = 5000
	DefaultFlushInterval      = 2000
)

// SeedProfile is the immutable per-run input to generation.
//
// Seed material fields feed the seed expander; policy fields select
// filtering and separator behavior; plumbing fields locate the sink and
// checkpoint and tune durability cadences. Only seed material and
// policy participate in the resume fingerprint (see Fingerprint).
type SeedProfile struct {
	// Seed material
	Words          []string `yaml:"words"`
	MobileNumbers  []string `yaml:"mobile_numbers,omitempty"`
	BirthDate      string   `yaml:"birth_date,omitempty"` // DDMMYYYY, separators tolerated
	YearRange      string   `yaml:"year_range,omitempty"` // "YYYY-YYYY" inclusive
	Symbols        []string `yaml:"symbols,omitempty"`
	NumberPatterns []string `yaml:"number_patterns,omitempty"` // "00", "000", "0000"

	// Policy
	UnderscoreSeparator bool    `yaml:"underscore_separator"`
	Mode                string  `yaml:"mode"`
	StrengthThreshold   float64 `yaml:"strength_threshold"`
	MaxOutput           int64   `yaml:"max_output"` // 0 = unlimited

	// Plumbing
	Output             string `yaml:"output"`
	CheckpointPath     string `yaml:"checkpoint_path"`
	CheckpointInterval int64  `yaml:"checkpoint_interval"` // accepted candidates between checkpoints
	FlushInterval      int64  `yaml:"flush_interval"`      // accepted candidates between sink flushes
}

// Default returns a profile with policy and plumbing defaults and no
// seed material.
func Default() *SeedProfile {
	return &SeedProfile{
		Mode:               ModeFull,
		StrengthThreshold:  DefaultStrengthThreshold,
		Output:             DefaultOutput,
		CheckpointPath:     DefaultCheckpointPath,
		CheckpointInterval: DefaultCheckpointInterval,
		FlushInterval:      DefaultFlushInterval,
	}
}

// Load reads a profile from a YAML file. Fields absent from the file
// keep their Default() values.
func Load(path string) (*SeedProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Save writes the profile as YAML.
func (p *SeedProfile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Validate checks the fields the engine cannot tolerate being wrong.
// Malformed seed fragments (bad dates, inverted year ranges, unknown
// pattern widths) are NOT validation errors: the expander drops them
// silently and generation proceeds with what remains.
func (p *SeedProfile) Validate() error {
	if len(p.Words) == 0 {
		return fmt.Errorf("profile: at least one base word is required")
	}
	if p.Mode != ModeFull && p.Mode != ModeStrong {
		return fmt.Errorf("profile: mode must be %q or %q, got %q", ModeFull, ModeStrong, p.Mode)
	}
	if p.StrengthThreshold < 0 || p.StrengthThreshold > 100 {
		return fmt.Errorf("profile: strength_threshold must be in [0,100], got %v", p.StrengthThreshold)
	}
	if p.MaxOutput < 0 {
		return fmt.Errorf("profile: max_output must be >= 0, got %d", p.MaxOutput)
	}
	if p.CheckpointInterval <= 0 {
		return fmt.Errorf("profile: checkpoint_interval must be > 0, got %d", p.CheckpointInterval)
	}
	if p.FlushInterval <= 0 {
		return fmt.Errorf("profile: flush_interval must be > 0, got %d", p.FlushInterval)
	}
	if p.Output == "" {
		return fmt.Errorf("profile: output path is required")
	}
	return nil
}
