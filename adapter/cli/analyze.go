package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	availabilityApp "github.com/cadencehq/cadence/internal/availability/application"
	availabilityDomain "github.com/cadencehq/cadence/internal/availability/domain"
	availabilityInfra "github.com/cadencehq/cadence/internal/availability/infrastructure"
	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
)

var (
	analyzeDate     string
	analyzeOwner    string
	analyzeStart    int
	analyzeEnd      int
	analyzeMinBlock int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find and classify a day's free time blocks",
	Long: `Walk one day's events and report the free blocks between them,
classified by size, time of day, and quality.

Examples:
  cadence analyze --ics calendar.ics
  cadence analyze --ics calendar.ics --date 2026-03-02 --workday-start 9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(analyzeDate)
		if err != nil {
			return err
		}
		events, err := loadSnapshot()
		if err != nil {
			return err
		}

		analyzerCfg := availabilityApp.AnalyzerConfig{
			WorkdayStartHour: analyzeStart,
			WorkdayEndHour:   analyzeEnd,
			MinBlockMinutes:  analyzeMinBlock,
		}
		// Environment defaults apply unless the flag was given explicitly.
		if cliConfig != nil {
			if !cmd.Flags().Changed("workday-start") {
				analyzerCfg.WorkdayStartHour = cliConfig.WorkdayStartHour
			}
			if !cmd.Flags().Changed("workday-end") {
				analyzerCfg.WorkdayEndHour = cliConfig.WorkdayEndHour
			}
			if !cmd.Flags().Changed("min-block") {
				analyzerCfg.MinBlockMinutes = cliConfig.MinBlockMinutes
			}
		}
		analyzer := availabilityApp.NewAnalyzer(analyzerCfg)

		analysis, err := analyzeDay(cmd.Context(), analyzer, date, events)
		if err != nil {
			return fmt.Errorf("failed to analyze day: %w", err)
		}

		fmt.Printf("Free time on %s\n", date.Format("Monday, January 2, 2006"))
		fmt.Println(strings.Repeat("=", 60))

		if len(analysis.FreeBlocks) == 0 {
			fmt.Println("\n  No free blocks found.")
			return nil
		}

		for _, block := range analysis.FreeBlocks {
			fmt.Printf("\n%s - %s  %4dm  %-9s %-6s %s\n",
				block.Start.Format("15:04"),
				block.End.Format("15:04"),
				block.DurationMinutes,
				block.TimeOfDay,
				block.Category,
				block.Quality,
			)
		}

		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("Total free: %dm across %d blocks\n", analysis.TotalFreeMinutes, len(analysis.FreeBlocks))

		if deep := analysis.DeepWorkSlots(); len(deep) > 0 {
			fmt.Printf("Deep work:  %d block(s), first at %s (%dm)\n",
				len(deep), deep[0].Start.Format("15:04"), deep[0].DurationMinutes)
		}
		if meetings := analysis.MeetingSlots(); len(meetings) > 0 {
			fmt.Printf("Meetings:   %d slot(s) of 30-60m\n", len(meetings))
		}

		return nil
	},
}

// analyzeDay runs the analyzer, going through the Redis cache when one is
// configured. A broken cache degrades to a direct analysis.
func analyzeDay(ctx context.Context, analyzer *availabilityApp.Analyzer, date time.Time, events []calendarDomain.Event) (availabilityDomain.Analysis, error) {
	if cliConfig == nil || cliConfig.RedisURL == "" {
		return analyzer.Analyze(date, events)
	}

	cache, err := availabilityInfra.NewAnalysisCacheFromURL(cliConfig.RedisURL, cliConfig.RedisCacheTTL)
	if err != nil {
		logger.Warn("analysis cache unavailable", "error", err)
		return analyzer.Analyze(date, events)
	}
	defer cache.Close()

	return availabilityApp.NewCachedAnalyzer(analyzer, cache, logger).AnalyzeDay(ctx, analyzeOwner, date, events)
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDate, "date", "d", "", "day to analyze (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeOwner, "owner", "me", "cache owner key")
	analyzeCmd.Flags().IntVar(&analyzeStart, "workday-start", 8, "workday start hour")
	analyzeCmd.Flags().IntVar(&analyzeEnd, "workday-end", 18, "workday end hour")
	analyzeCmd.Flags().IntVar(&analyzeMinBlock, "min-block", 15, "minimum block size in minutes")
	rootCmd.AddCommand(analyzeCmd)
}
