package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"passbot/internal/checkpoint"
	"passbot/internal/config"
	"passbot/internal/dedup"
	"passbot/internal/seed"
	"passbot/internal/sink"
	"passbot/internal/strength"
)

// Cursor is the unit of resumability: the current phase and the linear
// position of the next candidate to consider within it. The position
// counts candidates considered, accepted or not, so replaying from a
// saved cursor reproduces the identical sequence regardless of prior
// filtering.
type Cursor struct {
	Phase    int
	Position int64
}

// Progress is the per-candidate telemetry snapshot the engine exposes.
// It carries no rendering concerns; dashboards and log reporters are
// external consumers.
type Progress struct {
	Phase       int
	TotalPhases int
	PhaseLabel  string
	Position    int64
	// Completed is the cumulative number of positions consumed across
	// all phases, prior runs included; Considered counts only this
	// run. They differ on a resumed run.
	Completed      int64
	Considered     int64
	Accepted       int64
	Filtered       int64
	EstimatedTotal int64
	Current        string
}

// ProgressFunc receives a snapshot after every considered candidate.
// It runs on the generation goroutine; expensive consumers must
// throttle themselves.
type ProgressFunc func(Progress)

// Result summarizes a finished or interrupted run.
type Result struct {
	State      checkpoint.State
	Accepted   int64
	Filtered   int64
	Considered int64
	IOWarnings int64
	Elapsed    time.Duration
}

// Engine drives the seven phases over an element set, feeding dedup,
// the strength filter and the sink, and checkpointing progress. All
// mutable state is owned by the goroutine that calls Run; cancellation
// is the only asynchronous input and is observed cooperatively at the
// innermost loop point.
type Engine struct {
	profile *config.SeedProfile
	sets    *seed.ElementSets
	phases  []Phase
	filter  strength.Filter
	index   *dedup.Index
	out     sink.ReplaySink
	store   *checkpoint.Store
	log     *zap.Logger

	onProgress ProgressFunc
	estimated  int64
	offsets    []int64 // cumulative count of positions before each phase

	runID      string
	startTime  time.Time
	cursor     Cursor
	accepted   int64
	filtered   int64
	considered int64
	ioWarnings int64
	resumed    bool
}

// New builds an engine for one run. resume may be nil for a fresh
// start; when set, the cursor, counters and run identity are restored
// from it and the dedup index is rehydrated from the sink before
// generation continues.
func New(p *config.SeedProfile, sets *seed.ElementSets, index *dedup.Index,
	out sink.ReplaySink, store *checkpoint.Store, resume *checkpoint.Snapshot,
	log *zap.Logger) *Engine {

	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		profile:   p,
		sets:      sets,
		phases:    Phases(sets),
		filter:    strength.NewFilter(p.Mode, p.StrengthThreshold),
		index:     index,
		out:       out,
		store:     store,
		log:       log,
		estimated: EstimatedTotal(sets),
		runID:     uuid.NewString(),
		startTime: time.Now(),
		cursor:    Cursor{Phase: 1},
	}
	e.offsets = make([]int64, len(e.phases))
	var off int64
	for i, ph := range e.phases {
		e.offsets[i] = off
		off += ph.Count()
	}
	if p.MaxOutput > 0 && e.estimated > p.MaxOutput {
		e.estimated = p.MaxOutput
	}
	if resume != nil {
		e.runID = resume.RunID
		e.cursor = Cursor{Phase: resume.Phase, Position: resume.Position}
		e.accepted = resume.TotalGenerated
		e.filtered = resume.FilteredCount
		if !resume.StartTime.IsZero() {
			e.startTime = resume.StartTime
		}
		e.resumed = true
	}
	return e
}

// OnProgress registers the telemetry callback. Must be called before
// Run.
func (e *Engine) OnProgress(fn ProgressFunc) { e.onProgress = fn }

// EstimatedTotal returns the number of candidates this run will
// consider, capped by the profile's max output.
func (e *Engine) EstimatedTotal() int64 { return e.estimated }

// RunID identifies the run across interruptions.
func (e *Engine) RunID() string { return e.runID }

// Cursor returns the current cursor, for telemetry and tests.
func (e *Engine) Cursor() Cursor { return e.cursor }

// Run executes the enumeration until completion, output cap, or
// context cancellation. Cancellation stops at the innermost
// granularity: no candidate is considered after ctx is done, and a
// final checkpoint is always attempted. The returned Result reports
// INTERRUPTED or COMPLETED; only infrastructure failures (sink
// rehydration) surface as errors.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if len(e.sets.Words) == 0 {
		return nil, seed.ErrNoWords
	}
	if e.resumed {
		// Different phases can coincidentally reproduce the same
		// string, so the whole sink history feeds the index before any
		// new candidate is considered.
		if err := e.out.Replay(e.index.Add); err != nil {
			return nil, fmt.Errorf("rehydrate dedup index: %w", err)
		}
		e.log.Info("dedup index rehydrated",
			zap.Int("lines", e.index.Len()),
			zap.String("run_id", e.runID))
	}

	for pi := e.cursor.Phase; pi <= len(e.phases); pi++ {
		ph := e.phases[pi-1]
		total := ph.Count()
		if e.cursor.Position >= total {
			// Empty phase, or a cursor exactly at a phase boundary.
			if total == 0 {
				e.log.Debug("phase skipped, empty element set", zap.Int("phase", pi))
			}
			e.cursor = Cursor{Phase: pi + 1}
			continue
		}
		e.log.Info("phase started",
			zap.Int("phase", pi),
			zap.String("label", ph.Label()),
			zap.Int64("from", e.cursor.Position),
			zap.Int64("count", total))

		for pos := e.cursor.Position; pos < total; pos++ {
			if ctx.Err() != nil {
				return e.interrupt()
			}
			candidate := ph.At(pos)
			e.considered++

			wrote := false
			if e.index.Accept(candidate) {
				if e.filter.Accept(candidate) {
					e.write(candidate)
					e.accepted++
					wrote = true
				} else {
					e.filtered++
				}
			}
			// The sink write, dedup insert and cursor advance form one
			// logical step: checkpoints are only taken between steps,
			// after the sink has been made durable.
			e.cursor.Position = pos + 1

			if wrote {
				if e.accepted%e.profile.FlushInterval == 0 {
					if err := e.out.Flush(); err != nil {
						e.reportIO("sink flush failed", err)
					}
				}
				if e.accepted%e.profile.CheckpointInterval == 0 {
					e.saveCheckpoint(checkpoint.StateRunning)
				}
			}
			e.emit(ph, candidate)

			if e.profile.MaxOutput > 0 && e.accepted >= e.profile.MaxOutput {
				e.log.Info("output cap reached", zap.Int64("accepted", e.accepted))
				return e.complete(), nil
			}
		}
		e.cursor = Cursor{Phase: pi + 1}
	}
	return e.complete(), nil
}

// write appends a candidate to the sink. Failures are reported once
// per occurrence and generation continues: the line stays in the
// buffer, so a later successful flush is not lost.
func (e *Engine) write(candidate string) {
	if err := e.out.WriteLine(candidate); err != nil {
		e.reportIO("sink write failed", err)
	}
}

func (e *Engine) reportIO(msg string, err error) {
	e.ioWarnings++
	e.log.Warn(msg, zap.Error(err), zap.Int64("io_warnings", e.ioWarnings))
}

// saveCheckpoint makes the sink durable first so a checkpoint never
// claims a cursor ahead of the sink's content, then writes the record.
// Checkpoint failures are non-fatal: losing one only risks replaying
// candidates that dedup will no-op on the next run.
func (e *Engine) saveCheckpoint(state checkpoint.State) {
	if err := e.out.Sync(); err != nil {
		e.reportIO("sink sync before checkpoint failed", err)
	}
	snap := &checkpoint.Snapshot{
		RunID:              e.runID,
		State:              state,
		Phase:              e.cursor.Phase,
		Position:           e.cursor.Position,
		TotalGenerated:     e.accepted,
		FilteredCount:      e.filtered,
		StartTime:          e.startTime,
		Profile:            e.profile,
		ProfileFingerprint: config.Fingerprint(e.profile),
	}
	if err := e.store.Save(snap); err != nil {
		e.log.Warn("checkpoint write failed", zap.Error(err))
	}
}

// interrupt performs the shutdown sequence for a cancelled run: flush
// and sync the sink best-effort, persist a final INTERRUPTED
// checkpoint, and report what was done.
func (e *Engine) interrupt() (*Result, error) {
	e.log.Info("interrupted, persisting final checkpoint",
		zap.Int("phase", e.cursor.Phase),
		zap.Int64("position", e.cursor.Position),
		zap.Int64("accepted", e.accepted))
	e.saveCheckpoint(checkpoint.StateInterrupted)
	return e.result(checkpoint.StateInterrupted), nil
}

// complete finishes a run: durable flush, checkpoint removal, final
// accounting. With unresolved I/O warnings the run is still reported
// as completed, with the warning count carried in the result.
func (e *Engine) complete() *Result {
	if err := e.out.Sync(); err != nil {
		e.reportIO("final sink sync failed", err)
	}
	if err := e.store.Clear(); err != nil {
		e.log.Warn("checkpoint removal failed", zap.Error(err))
	}
	if e.ioWarnings > 0 {
		e.log.Warn("completed with I/O warnings", zap.Int64("io_warnings", e.ioWarnings))
	} else {
		e.log.Info("generation complete",
			zap.Int64("accepted", e.accepted),
			zap.Int64("filtered", e.filtered),
			zap.Int64("considered", e.considered))
	}
	return e.result(checkpoint.StateCompleted)
}

func (e *Engine) result(state checkpoint.State) *Result {
	return &Result{
		State:      state,
		Accepted:   e.accepted,
		Filtered:   e.filtered,
		Considered: e.considered,
		IOWarnings: e.ioWarnings,
		Elapsed:    time.Since(e.startTime),
	}
}

func (e *Engine) emit(ph Phase, candidate string) {
	if e.onProgress == nil {
		return
	}
	e.onProgress(Progress{
		Phase:          ph.Number(),
		TotalPhases:    len(e.phases),
		PhaseLabel:     ph.Label(),
		Position:       e.cursor.Position,
		Completed:      e.offsets[ph.Number()-1] + e.cursor.Position,
		Considered:     e.considered,
		Accepted:       e.accepted,
		Filtered:       e.filtered,
		EstimatedTotal: e.estimated,
		Current:        candidate,
	})
}
