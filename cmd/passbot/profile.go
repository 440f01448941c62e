package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Seed profile helpers",
}

var profileInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented starter profile",
	Long:  `Writes an annotated seed profile YAML to the given path (default profile.yaml).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "profile.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := os.WriteFile(path, []byte(starterProfile), 0644); err != nil {
			return fmt.Errorf("write profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileInitCmd)
}

const starterProfile = `# passbot seed profile
#
# Seed material. Only words are required; everything else is optional
# and malformed entries are silently skipped.
words:
  - admin
  - example

# Mobile numbers: every contiguous 2-10 digit fragment is extracted.
mobile_numbers: []
#  - "5551234567"

# Date of birth as DDMMYYYY (separators tolerated): parts, pairs and
# common arrangements become number elements.
birth_date: ""

# Inclusive year range, e.g. "1990-2025" (valid window 1900-2035).
year_range: ""

# Special characters. Only what you list here is used; there are no
# built-in symbols.
symbols: []
#  - "!"
#  - "@"

# Fixed-width number patterns: "00" (100 values), "000" (1000),
# "0000" (10000).
number_patterns: []

# Separator policy: the empty separator is always used; underscore is
# added only when enabled. No other separators exist.
underscore_separator: false

# "full" accepts every unique candidate; "strong" requires the
# strength score to reach the threshold.
mode: full
strength_threshold: 60

# Stop after this many accepted candidates (0 = unlimited).
max_output: 0

# Run plumbing.
output: passbot_dictionary.txt
checkpoint_path: passbot_checkpoint.json
checkpoint_interval: 5000
flush_interval: 2000
`
