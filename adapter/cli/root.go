// Package cli wires the scheduling engines to cobra commands. Commands read
// event snapshots from .ics files and print value-object results; nothing
// here writes to a calendar.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/calendar/infrastructure/ics"
	"github.com/cadencehq/cadence/pkg/config"
	"github.com/cadencehq/cadence/pkg/observability"
)

var (
	icsPath   string
	strict    bool
	logger    *slog.Logger
	cliConfig *config.Config
)

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - calendar availability and scheduling engine",
	Long: `Cadence analyzes calendar snapshots: free time blocks, conflicts,
meeting slots across attendees, task placement, and goal sessions.

Snapshots are read from .ics files; results are printed, never persisted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.WithCorrelationID(cmd.Context(), "")
		ctx = observability.WithOperation(ctx, cmd.Name())
		ctx = context.WithValue(ctx, commandContextKey{}, commandContext{startedAt: time.Now()})
		cmd.SetContext(ctx)
		logger.InfoContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.InfoContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command under the given context so a shutdown
// signal cancels in-flight searches.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&icsPath, "ics", "i", "", "path to an .ics event snapshot")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "abort on malformed events instead of skipping them")
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetConfig hands the loaded configuration to commands that need it.
func SetConfig(c *config.Config) {
	cliConfig = c
}

// loadSnapshot reads the snapshot named by --ics. An empty path is a valid
// empty calendar.
func loadSnapshot() ([]calendarDomain.Event, error) {
	if icsPath == "" {
		return nil, nil
	}
	loader := ics.NewLoader(logger).WithStrict(strict)
	events, err := loader.LoadFile(icsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return events, nil
}

// parseDay parses a YYYY-MM-DD flag, defaulting to today.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return day, nil
}
