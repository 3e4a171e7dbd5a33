package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/internal/calendar/infrastructure/ics"
	findtimeApp "github.com/cadencehq/cadence/internal/findtime/application"
	findtimeDomain "github.com/cadencehq/cadence/internal/findtime/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

var (
	findtimeDuration        int
	findtimeFrom            string
	findtimeTo              string
	findtimeStartHour       int
	findtimeEndHour         int
	findtimeInterval        int
	findtimeIncludeWeekends bool
	findtimePrefer          string
	findtimeAttendees       []string
	findtimeRequired        []string
	findtimeNext            bool
)

var findtimeCmd = &cobra.Command{
	Use:   "findtime",
	Short: "Find meeting slots across attendee calendars",
	Long: `Search a date range for meeting slots that work for every attendee.
Attendees are given as repeated --attendee id=snapshot.ics flags; with none,
a single attendee is built from --ics. Slots blocked for a required attendee
are dropped; other conflicts only lower the slot score.

Examples:
  cadence findtime --ics me.ics --duration 60
  cadence findtime --attendee ana=ana.ics --attendee raj=raj.ics \
      --required ana --duration 30 --from 2026-03-02 --to 2026-03-06`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(findtimeFrom)
		if err != nil {
			return err
		}
		to := from
		if findtimeTo != "" {
			if to, err = parseDay(findtimeTo); err != nil {
				return err
			}
		}

		attendees, err := resolveAttendees()
		if err != nil {
			return err
		}

		opts := findtimeApp.DefaultOptions(findtimeDuration, from, to)
		opts.StartHour = findtimeStartHour
		opts.EndHour = findtimeEndHour
		opts.SlotIntervalMinutes = findtimeInterval
		opts.ExcludeWeekends = !findtimeIncludeWeekends
		opts.RequiredAttendees = findtimeRequired
		if findtimePrefer != "" {
			opts.PreferredTimeOfDay = sharedDomain.TimeOfDay(findtimePrefer)
		}

		engine := findtimeApp.NewEngine()

		if findtimeNext {
			slot, err := engine.SuggestNextAvailable(cmd.Context(), attendees, findtimeDuration, from)
			if err != nil {
				return fmt.Errorf("failed to suggest a slot: %w", err)
			}
			if slot == nil {
				fmt.Println("No available slot in the next two weeks.")
				return nil
			}
			fmt.Printf("Next available: %s %s - %s (score %.2f)\n",
				slot.Start.Format("2006-01-02"),
				slot.Start.Format("15:04"), slot.End.Format("15:04"), slot.Score)
			return nil
		}

		results, err := engine.FindAvailableTimes(cmd.Context(), attendees, opts)
		if err != nil {
			return fmt.Errorf("failed to find times: %w", err)
		}

		fmt.Printf("Meeting slots (%dm) %s to %s, %d attendee(s)\n",
			findtimeDuration, from.Format("2006-01-02"), to.Format("2006-01-02"), len(attendees))
		fmt.Println(strings.Repeat("=", 60))

		for _, day := range results {
			fmt.Printf("\n%s\n", day.Date.Format("Monday 2006-01-02"))
			if len(day.BestSlots) == 0 {
				fmt.Println("  no slot works for everyone")
				continue
			}
			for _, slot := range day.BestSlots {
				fmt.Printf("  %s - %s  score %.2f\n",
					slot.Start.Format("15:04"), slot.End.Format("15:04"), slot.Score)
			}
		}

		return nil
	},
}

// resolveAttendees parses repeated id=path.ics flags, falling back to a
// single "me" attendee built from the --ics snapshot.
func resolveAttendees() ([]findtimeDomain.Attendee, error) {
	if len(findtimeAttendees) == 0 {
		events, err := loadSnapshot()
		if err != nil {
			return nil, err
		}
		return []findtimeDomain.Attendee{{ID: "me", Events: events}}, nil
	}

	loader := ics.NewLoader(logger).WithStrict(strict)
	attendees := make([]findtimeDomain.Attendee, 0, len(findtimeAttendees))
	for _, spec := range findtimeAttendees {
		id, path, ok := strings.Cut(spec, "=")
		if !ok || id == "" || path == "" {
			return nil, fmt.Errorf("invalid attendee %q, expected id=snapshot.ics", spec)
		}
		events, err := loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot for %s: %w", id, err)
		}
		attendees = append(attendees, findtimeDomain.Attendee{ID: id, Events: events})
	}
	return attendees, nil
}

func init() {
	findtimeCmd.Flags().IntVarP(&findtimeDuration, "duration", "m", 30, "meeting duration in minutes")
	findtimeCmd.Flags().StringVar(&findtimeFrom, "from", "", "search start (YYYY-MM-DD)")
	findtimeCmd.Flags().StringVar(&findtimeTo, "to", "", "search end, inclusive (YYYY-MM-DD)")
	findtimeCmd.Flags().IntVar(&findtimeStartHour, "start-hour", 9, "earliest slot start hour")
	findtimeCmd.Flags().IntVar(&findtimeEndHour, "end-hour", 17, "latest slot end hour")
	findtimeCmd.Flags().IntVar(&findtimeInterval, "interval", 30, "slot interval in minutes")
	findtimeCmd.Flags().BoolVar(&findtimeIncludeWeekends, "include-weekends", false, "consider Saturday and Sunday")
	findtimeCmd.Flags().StringVar(&findtimePrefer, "prefer", "", "preferred time of day (morning or afternoon)")
	findtimeCmd.Flags().StringArrayVar(&findtimeAttendees, "attendee", nil, "attendee as id=snapshot.ics (repeatable)")
	findtimeCmd.Flags().StringArrayVar(&findtimeRequired, "required", nil, "attendee ID that must be free (repeatable)")
	findtimeCmd.Flags().BoolVar(&findtimeNext, "next", false, "print only the next available slot within two weeks")
	rootCmd.AddCommand(findtimeCmd)
}
