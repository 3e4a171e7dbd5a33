package cli

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	calendarApp "github.com/cadencehq/cadence/internal/calendar/application"
	"github.com/cadencehq/cadence/internal/calendar/infrastructure/caldav"
	"github.com/cadencehq/cadence/internal/calendar/infrastructure/persistence"
	"github.com/cadencehq/cadence/pkg/config"
)

var (
	syncOwner string
	syncFrom  string
	syncDays  int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local snapshot from a CalDAV server",
	Long: `Fetch events from the configured CalDAV endpoint and replace the
owner's locally cached snapshot. Configuration comes from the environment:
CALDAV_ENDPOINT, CALDAV_USERNAME, CALDAV_PASSWORD or CALDAV_TOKEN, and
DATABASE_URL for the snapshot store.

Examples:
  cadence sync --owner ana --from 2026-03-02 --days 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cliConfig
		if cfg == nil {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		}
		if cfg.CalDAVEndpoint == "" {
			return fmt.Errorf("CALDAV_ENDPOINT is not set")
		}

		from, err := parseDay(syncFrom)
		if err != nil {
			return err
		}
		to := from.AddDate(0, 0, syncDays)

		ctx := cmd.Context()

		source := caldav.NewSource(cfg.CalDAVEndpoint, cfg.CalDAVUsername, cfg.CalDAVPassword, logger)
		if cfg.CalDAVToken != "" {
			source = source.WithToken(cfg.CalDAVToken)
		}

		var repo persistence.EventRepository
		switch persistence.DetectDriver(cfg.DatabaseURL) {
		case persistence.DriverPostgres:
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}
			defer pool.Close()
			pgRepo := persistence.NewPostgresEventRepository(pool)
			if err := pgRepo.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate snapshot store: %w", err)
			}
			repo = pgRepo
		default:
			db, err := persistence.OpenSQLite(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open snapshot store: %w", err)
			}
			defer db.Close()
			repo = persistence.NewSQLiteEventRepository(db)
		}

		service := calendarApp.NewSnapshotService(source, repo, logger)
		count, err := service.Refresh(ctx, syncOwner, from, to)
		if err != nil {
			return fmt.Errorf("failed to sync: %w", err)
		}

		fmt.Printf("Cached %d event(s) for %s, %s to %s.\n",
			count, syncOwner, from.Format("2006-01-02"), to.Format("2006-01-02"))
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncOwner, "owner", "me", "snapshot owner key")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "range start (YYYY-MM-DD)")
	syncCmd.Flags().IntVar(&syncDays, "days", 14, "days of events to fetch")
	rootCmd.AddCommand(syncCmd)
}
