package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	conflictsApp "github.com/cadencehq/cadence/internal/conflicts/application"
	conflictsDomain "github.com/cadencehq/cadence/internal/conflicts/domain"
)

var (
	conflictsFrom   string
	conflictsTo     string
	conflictsBuffer int
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Detect overlapping and tightly packed events",
	Long: `Check every event in a date range against its same-day neighbors,
reporting overlaps, too-small gaps, and a per-event health score.

Examples:
  cadence conflicts --ics calendar.ics
  cadence conflicts --ics calendar.ics --from 2026-03-02 --to 2026-03-06`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(conflictsFrom)
		if err != nil {
			return err
		}
		to := from
		if conflictsTo != "" {
			if to, err = parseDay(conflictsTo); err != nil {
				return err
			}
		}

		events, err := loadSnapshot()
		if err != nil {
			return err
		}

		buffer := conflictsBuffer
		if cliConfig != nil && !cmd.Flags().Changed("buffer") {
			buffer = cliConfig.BufferMinutes
		}
		detector := conflictsApp.NewDetector(conflictsApp.DetectorConfig{BufferMinutes: buffer})
		analyses, err := detector.DetectAll(events, from, to)
		if err != nil {
			return fmt.Errorf("failed to detect conflicts: %w", err)
		}

		fmt.Printf("Conflicts %s to %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		fmt.Println(strings.Repeat("=", 60))

		if len(analyses) == 0 {
			fmt.Println("\n  No conflicts found.")
			return nil
		}

		// Stable output order for scripting.
		sorted := make([]conflictsDomain.Analysis, 0, len(analyses))
		for _, analysis := range analyses {
			sorted = append(sorted, analysis)
		}
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].EventID.String() < sorted[j].EventID.String()
		})

		for _, analysis := range sorted {
			fmt.Printf("\nEvent %s  score %.0f\n", analysis.EventID, analysis.Score)
			for _, conflict := range analysis.Conflicts {
				switch conflict.Type {
				case conflictsDomain.ConflictTypeOverlap:
					fmt.Printf("  [%s] overlaps %q\n", conflict.Severity, conflict.OtherTitle)
					for _, suggestion := range conflict.Suggestions {
						fmt.Printf("      - %s\n", suggestion)
					}
				case conflictsDomain.ConflictTypeTightSchedule:
					fmt.Printf("  [%s] only %dm gap to %q\n",
						conflict.Severity, conflict.GapMinutes, conflict.OtherTitle)
				}
			}
		}

		return nil
	},
}

func init() {
	conflictsCmd.Flags().StringVar(&conflictsFrom, "from", "", "range start (YYYY-MM-DD)")
	conflictsCmd.Flags().StringVar(&conflictsTo, "to", "", "range end, inclusive (YYYY-MM-DD)")
	conflictsCmd.Flags().IntVar(&conflictsBuffer, "buffer", 15, "minimum comfortable gap in minutes")
	rootCmd.AddCommand(conflictsCmd)
}
