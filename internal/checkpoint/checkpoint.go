// Package checkpoint persists generation progress for exact resume.
// A checkpoint is a small versioned JSON record written atomically;
// loading applies a series of gating rules and falls back to a fresh
// start whenever the record cannot be trusted to reproduce the claimed
// state. Every fallback is reported, none is an error.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"passbot/internal/config"
)

// SchemaVersion is bumped whenever the record layout changes meaning.
// A version mismatch invalidates the checkpoint rather than attempting
// a duck-typed upgrade.
const SchemaVersion = 1

// State is the checkpoint lifecycle: FRESH -> RUNNING ->
// (INTERRUPTED | COMPLETED). Only RUNNING and INTERRUPTED records are
// resumable.
type State string

const (
	StateFresh       State = "fresh"
	StateRunning     State = "running"
	StateInterrupted State = "interrupted"
	StateCompleted   State = "completed"
)

// Snapshot is the persisted checkpoint record.
type Snapshot struct {
	SchemaVersion      int                 `json:"schema_version"`
	RunID              string              `json:"run_id"`
	State              State               `json:"state"`
	Phase              int                 `json:"phase"`
	Position           int64               `json:"position"`
	TotalGenerated     int64               `json:"total_generated"`
	FilteredCount      int64               `json:"filtered_count"`
	StartTime          time.Time           `json:"start_time"`
	SavedAt            time.Time           `json:"saved_at"`
	Profile            *config.SeedProfile `json:"profile"`
	ProfileFingerprint string              `json:"profile_fingerprint"`
}

// Store reads and writes checkpoint records at a fixed path.
type Store struct {
	path string
	log  *zap.Logger
}

// NewStore returns a store. A nil logger is replaced with zap.NewNop.
func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Path returns the checkpoint file path.
func (s *Store) Path() string { return s.path }

// Save writes the snapshot atomically: marshal to a temp file in the
// same directory, then rename over the target. A half-written
// checkpoint is therefore never observed.
func (s *Store) Save(snap *Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	snap.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".passbot-checkpoint-*")
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Load reads the raw record. A missing file returns (nil, nil);
// snapshot trust decisions belong to Resume.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return &snap, nil
}

// Resume returns a snapshot to resume from, or nil for a fresh start.
// Gating rules, each a reported fallback rather than an error:
//
//   - no checkpoint, or one that cannot be read or parsed
//   - schema version mismatch
//   - record already completed
//   - profile fingerprint differs from the live profile
//   - claimed progress (total_generated > 0) with an empty or missing
//     sink, which would be an unreproducible state
func (s *Store) Resume(p *config.SeedProfile, sinkPopulated bool) *Snapshot {
	snap, err := s.Load()
	if err != nil {
		s.log.Warn("checkpoint unreadable, starting fresh", zap.Error(err))
		return nil
	}
	if snap == nil {
		return nil
	}
	if snap.SchemaVersion != SchemaVersion {
		s.log.Warn("checkpoint schema version mismatch, starting fresh",
			zap.Int("found", snap.SchemaVersion),
			zap.Int("want", SchemaVersion))
		return nil
	}
	if snap.State == StateCompleted {
		s.log.Info("previous run completed, starting fresh")
		return nil
	}
	if snap.State != StateRunning && snap.State != StateInterrupted {
		s.log.Warn("checkpoint in unexpected state, starting fresh",
			zap.String("state", string(snap.State)))
		return nil
	}
	if snap.ProfileFingerprint != config.Fingerprint(p) {
		s.log.Warn("seed profile changed since checkpoint, starting fresh",
			zap.String("checkpoint_fingerprint", snap.ProfileFingerprint))
		return nil
	}
	if snap.TotalGenerated > 0 && !sinkPopulated {
		s.log.Warn("checkpoint claims progress but sink is empty or missing, starting fresh",
			zap.Int64("claimed", snap.TotalGenerated))
		return nil
	}
	if snap.Phase < 1 || snap.Phase > 7 || snap.Position < 0 {
		s.log.Warn("checkpoint cursor out of range, starting fresh",
			zap.Int("phase", snap.Phase),
			zap.Int64("position", snap.Position))
		return nil
	}
	s.log.Info("resuming from checkpoint",
		zap.String("run_id", snap.RunID),
		zap.Int("phase", snap.Phase),
		zap.Int64("position", snap.Position),
		zap.Int64("total_generated", snap.TotalGenerated))
	return snap
}

// Clear removes the checkpoint file. Called on clean completion; a
// missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}
