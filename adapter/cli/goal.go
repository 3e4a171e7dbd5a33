package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	goalsApp "github.com/cadencehq/cadence/internal/goals/application"
	goalsDomain "github.com/cadencehq/cadence/internal/goals/domain"
)

var (
	goalName          string
	goalFrequency     string
	goalTarget        int
	goalDuration      int
	goalDays          []string
	goalFrom          string
	goalHorizon       int
	goalStartHour     int
	goalEndHour       int
	goalAllowWeekends bool
	goalAllowMornings bool
	goalAllowEvenings bool
	goalBuffer        int
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Schedule recurring goal sessions into free slots",
	Long: `Spread sessions for a recurring goal evenly across the free slots in
the coming weeks, honoring the goal's scheduling policy.

Examples:
  cadence goal --ics calendar.ics --name "morning run" --frequency daily --duration 30
  cadence goal --ics calendar.ics --name "deep reading" --frequency weekly \
      --target 3 --duration 45 --days mon,wed,fri`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(goalFrom)
		if err != nil {
			return err
		}

		policy := goalsDomain.DefaultSchedulingPolicy()
		policy.PreferredStartHour = goalStartHour
		policy.PreferredEndHour = goalEndHour
		policy.AllowWeekends = goalAllowWeekends
		policy.AllowMornings = goalAllowMornings
		policy.AllowEvenings = goalAllowEvenings
		policy.BufferMinutes = goalBuffer
		if len(goalDays) > 0 {
			days, err := parseWeekdays(goalDays)
			if err != nil {
				return err
			}
			policy.PreferredDays = days
		}

		goal, err := goalsDomain.NewGoal(goalName, goalsDomain.Frequency(goalFrequency), goalTarget, goalDuration, policy)
		if err != nil {
			return fmt.Errorf("invalid goal: %w", err)
		}

		events, err := loadSnapshot()
		if err != nil {
			return err
		}

		scheduler := goalsApp.NewScheduler()
		result, err := scheduler.ScheduleSessions(cmd.Context(), goal, events, from, goalHorizon)
		if err != nil {
			return fmt.Errorf("failed to schedule sessions: %w", err)
		}

		fmt.Printf("Sessions for %q (%s, target %d, %dm each)\n",
			goal.Name(), goal.Frequency(), goal.TargetCount(), goal.DurationMinutes())
		fmt.Println(strings.Repeat("=", 60))

		if result.ScheduledCount == 0 {
			fmt.Println("\n  No free slot matches the policy; widen the hours or days.")
			return nil
		}

		for _, session := range result.Sessions {
			end := session.ScheduledFor.Add(time.Duration(session.DurationMinutes) * time.Minute)
			fmt.Printf("  %s  %s - %s\n",
				session.ScheduledFor.Format("Mon 2006-01-02"),
				session.ScheduledFor.Format("15:04"), end.Format("15:04"))
		}
		fmt.Printf("\nScheduled %d session(s) over %d day(s).\n", result.ScheduledCount, goalHorizon)

		return nil
	},
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q, use mon..sun", name)
		}
		days = append(days, day)
	}
	return days, nil
}

func init() {
	goalCmd.Flags().StringVarP(&goalName, "name", "n", "", "goal name")
	goalCmd.Flags().StringVarP(&goalFrequency, "frequency", "f", "weekly", "daily, weekly, or monthly")
	goalCmd.Flags().IntVar(&goalTarget, "target", 1, "completions per period")
	goalCmd.Flags().IntVarP(&goalDuration, "duration", "m", 30, "session length in minutes")
	goalCmd.Flags().StringSliceVar(&goalDays, "days", nil, "preferred weekdays, e.g. mon,wed,fri")
	goalCmd.Flags().StringVar(&goalFrom, "from", "", "first day to schedule on (YYYY-MM-DD)")
	goalCmd.Flags().IntVar(&goalHorizon, "horizon", goalsApp.DefaultHorizonDays, "days to look ahead")
	goalCmd.Flags().IntVar(&goalStartHour, "start-hour", 8, "earliest session start hour")
	goalCmd.Flags().IntVar(&goalEndHour, "end-hour", 20, "latest session end hour")
	goalCmd.Flags().BoolVar(&goalAllowWeekends, "allow-weekends", false, "allow Saturday and Sunday")
	goalCmd.Flags().BoolVar(&goalAllowMornings, "allow-mornings", true, "allow sessions before 09:00")
	goalCmd.Flags().BoolVar(&goalAllowEvenings, "allow-evenings", true, "allow sessions after 18:00")
	goalCmd.Flags().IntVar(&goalBuffer, "buffer", 15, "buffer around sessions in minutes")
	_ = goalCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(goalCmd)
}
