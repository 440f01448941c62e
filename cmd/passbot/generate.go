package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"passbot/cmd/passbot/ui"
	"passbot/internal/checkpoint"
	"passbot/internal/config"
	"passbot/internal/dedup"
	"passbot/internal/engine"
	"passbot/internal/seed"
	"passbot/internal/sink"
)

// Bloom sizing is bounded so a huge estimate cannot balloon the
// filter; beyond this the exact set dominates memory anyway.
const maxBloomCapacity = 50_000_000

var (
	genProfilePath string
	genWords       []string
	genMobiles     []string
	genBirthDate   string
	genYearRange   string
	genSymbols     []string
	genPatterns    []string
	genUnderscore  bool
	genMode        string
	genThreshold   float64
	genMaxOutput   int64
	genOutput      string
	genCheckpoint  string
	genCkptEvery   int64
	genFlushEvery  int64
	genNoResume    bool
	genPlain       bool
	genNoBloom     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the phased dictionary generation",
	Long: `Expands the seed profile into element sets and enumerates the seven
combination phases in order, writing accepted candidates to the output
file one per line.

If a compatible checkpoint exists the run resumes at the exact phase
and position where it stopped; pass --no-resume to force a fresh
start. Ctrl+C stops safely: the sink is flushed and a final checkpoint
is written before exit.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genProfilePath, "profile", "p", "", "seed profile YAML file")
	f.StringSliceVarP(&genWords, "words", "w", nil, "base words (comma-separated)")
	f.StringSliceVar(&genMobiles, "mobile", nil, "mobile numbers to fragment")
	f.StringVar(&genBirthDate, "dob", "", "date of birth, DDMMYYYY")
	f.StringVar(&genYearRange, "years", "", "inclusive year range, YYYY-YYYY")
	f.StringSliceVar(&genSymbols, "symbols", nil, "special characters (operator-supplied only)")
	f.StringSliceVar(&genPatterns, "patterns", nil, "number patterns: 00, 000, 0000")
	f.BoolVar(&genUnderscore, "underscore", false, "also use '_' as a separator")
	f.StringVarP(&genMode, "mode", "m", "", "generation mode: full or strong")
	f.Float64Var(&genThreshold, "threshold", config.DefaultStrengthThreshold, "strong-mode acceptance score [0,100]")
	f.Int64Var(&genMaxOutput, "max", 0, "stop after this many accepted candidates (0 = unlimited)")
	f.StringVarP(&genOutput, "output", "o", "", "output dictionary file")
	f.StringVar(&genCheckpoint, "checkpoint", "", "checkpoint file path")
	f.Int64Var(&genCkptEvery, "checkpoint-interval", config.DefaultCheckpointInterval, "accepted candidates between checkpoints")
	f.Int64Var(&genFlushEvery, "flush-interval", config.DefaultFlushInterval, "accepted candidates between sink flushes")
	f.BoolVar(&genNoResume, "no-resume", false, "ignore any existing checkpoint and start fresh")
	f.BoolVar(&genPlain, "plain", false, "disable the live dashboard, log progress lines instead")
	f.BoolVar(&genNoBloom, "no-bloom", false, "disable the probabilistic dedup pre-check")
}

// buildProfile loads the YAML profile (if given) and applies every
// explicitly-set flag on top, so flags always win.
func buildProfile(cmd *cobra.Command) (*config.SeedProfile, error) {
	p := config.Default()
	if genProfilePath != "" {
		loaded, err := config.Load(genProfilePath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	set := cmd.Flags().Changed
	if set("words") {
		p.Words = genWords
	}
	if set("mobile") {
		p.MobileNumbers = genMobiles
	}
	if set("dob") {
		p.BirthDate = genBirthDate
	}
	if set("years") {
		p.YearRange = genYearRange
	}
	if set("symbols") {
		p.Symbols = genSymbols
	}
	if set("patterns") {
		p.NumberPatterns = genPatterns
	}
	if set("underscore") {
		p.UnderscoreSeparator = genUnderscore
	}
	if set("mode") {
		p.Mode = genMode
	}
	if set("threshold") {
		p.StrengthThreshold = genThreshold
	}
	if set("max") {
		p.MaxOutput = genMaxOutput
	}
	if set("output") {
		p.Output = genOutput
	}
	if set("checkpoint") {
		p.CheckpointPath = genCheckpoint
	}
	if set("checkpoint-interval") {
		p.CheckpointInterval = genCkptEvery
	}
	if set("flush-interval") {
		p.FlushInterval = genFlushEvery
	}
	return p, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	profile, err := buildProfile(cmd)
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	sets, err := seed.Expand(profile)
	if err != nil {
		return err
	}
	logger.Info("element sets expanded",
		zap.Int("words", len(sets.Words)),
		zap.Int("numbers", len(sets.Numbers)),
		zap.Int("specials", len(sets.Specials)),
		zap.Int("separators", len(sets.Separators)))

	store := checkpoint.NewStore(profile.CheckpointPath, logger)
	var snap *checkpoint.Snapshot
	if genNoResume {
		if err := store.Clear(); err != nil {
			return err
		}
	} else {
		snap = store.Resume(profile, sink.HasContent(profile.Output))
	}

	out, err := sink.OpenFile(profile.Output, snap != nil)
	if err != nil {
		return err
	}
	defer out.Close()

	estimated := engine.EstimatedTotal(sets)
	index := dedup.New(bloomOptions(estimated))

	engLog := logger
	if !genPlain {
		// The dashboard owns the terminal; run-loop logging would tear
		// the layout.
		engLog = zap.NewNop()
	}
	eng := engine.New(profile, sets, index, out, store, snap, engLog)

	ctx, stop := engine.NotifyInterrupt(cmd.Context(), engLog)
	defer stop()

	var result *engine.Result
	if genPlain {
		result, err = runPlain(ctx, eng)
	} else {
		result, err = runDashboard(ctx, eng, profile.Output)
	}
	if err != nil {
		return err
	}

	printSummary(result, profile)
	return nil
}

func bloomOptions(estimated int64) dedup.Options {
	if genNoBloom {
		return dedup.Options{}
	}
	capacity := estimated
	if capacity > maxBloomCapacity {
		capacity = maxBloomCapacity
	}
	if capacity < 1 {
		capacity = 1
	}
	return dedup.Options{BloomCapacity: uint(capacity)}
}

// runPlain executes the engine on the calling goroutine, logging a
// progress line at most every two seconds.
func runPlain(ctx context.Context, eng *engine.Engine) (*engine.Result, error) {
	var last time.Time
	eng.OnProgress(func(p engine.Progress) {
		if time.Since(last) < 2*time.Second {
			return
		}
		last = time.Now()
		logger.Info("progress",
			zap.String("phase", fmt.Sprintf("%d/%d %s", p.Phase, p.TotalPhases, p.PhaseLabel)),
			zap.Int64("considered", p.Considered),
			zap.Int64("accepted", p.Accepted),
			zap.Int64("filtered", p.Filtered),
			zap.Int64("estimated_total", p.EstimatedTotal))
	})
	return eng.Run(ctx)
}

// runDashboard runs the engine in a goroutine while the bubbletea
// dashboard owns the terminal. Ctrl+C arrives as a key event inside
// the TUI and cancels the run context; the engine then shuts down
// exactly as it would on a signal.
func runDashboard(ctx context.Context, eng *engine.Engine, output string) (*engine.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(ui.NewDashboard(cancel, output, eng.EstimatedTotal()))

	var result *engine.Result
	g := new(errgroup.Group)
	g.Go(func() error {
		var last time.Time
		eng.OnProgress(func(p engine.Progress) {
			if time.Since(last) < 100*time.Millisecond {
				return
			}
			last = time.Now()
			prog.Send(ui.ProgressMsg(p))
		})
		res, err := eng.Run(runCtx)
		result = res
		prog.Send(ui.DoneMsg{Result: res, Err: err})
		return err
	})
	g.Go(func() error {
		_, err := prog.Run()
		// The TUI exiting early (error or quit) must not leave the
		// engine running unobserved.
		cancel()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func printSummary(result *engine.Result, profile *config.SeedProfile) {
	switch result.State {
	case checkpoint.StateCompleted:
		if result.IOWarnings > 0 {
			fmt.Printf("Completed with %d I/O warnings.\n", result.IOWarnings)
		} else {
			fmt.Println("Generation complete.")
		}
	case checkpoint.StateInterrupted:
		fmt.Println("Interrupted. Re-run with the same profile to resume exactly where you stopped.")
	}
	fmt.Printf("  accepted:   %d\n", result.Accepted)
	fmt.Printf("  filtered:   %d\n", result.Filtered)
	fmt.Printf("  considered: %d\n", result.Considered)
	fmt.Printf("  elapsed:    %s\n", result.Elapsed.Round(time.Second))
	fmt.Printf("  output:     %s\n", profile.Output)
}
