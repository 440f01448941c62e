package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"passbot/internal/strength"
)

var scoreCmd = &cobra.Command{
	Use:   "score [candidate...]",
	Short: "Score candidates on the 0-100 strength scale",
	Long: `Computes the same complexity score strong mode uses for acceptance:
length bucket, character-class variety, Shannon-entropy bonus, and
penalties for repeated runs and common weak substrings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, candidate := range args {
			score := strength.Score(candidate)
			fmt.Fprintf(cmd.OutOrStdout(), "%6.1f  %-12s  %s\n", score, strength.Level(score), candidate)
		}
		return nil
	},
}
