package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"passbot/internal/engine"
	"passbot/internal/seed"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print per-phase candidate counts without generating",
	Long: `Expands the seed profile and prints the closed-form number of
candidates each phase will consider, plus the grand total. The total
counts candidates considered; deduplication and strength filtering
reduce the number actually written.`,
	RunE: runEstimate,
}

func init() {
	// estimate shares generate's profile/seed flags.
	estimateCmd.Flags().AddFlagSet(generateCmd.Flags())
}

func runEstimate(cmd *cobra.Command, args []string) error {
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

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Elements: %d words, %d numbers, %d specials, %d separators\n\n",
		len(sets.Words), len(sets.Numbers), len(sets.Specials), len(sets.Separators))

	var total int64
	for _, ph := range engine.Phases(sets) {
		count := ph.Count()
		total += count
		status := fmt.Sprintf("%d", count)
		if count == 0 {
			status = "skipped (empty element set)"
		}
		fmt.Fprintf(w, "  Phase %d  %-18s %s\n", ph.Number(), ph.Label(), status)
	}
	fmt.Fprintf(w, "\nTotal candidates to consider: %d\n", total)
	if profile.MaxOutput > 0 && profile.MaxOutput < total {
		fmt.Fprintf(w, "Output capped at: %d\n", profile.MaxOutput)
	}
	return nil
}
