package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	optimizerApp "github.com/cadencehq/cadence/internal/optimizer/application"
	optimizerDomain "github.com/cadencehq/cadence/internal/optimizer/domain"
)

var (
	optimizeTasks []string
	optimizeFrom  string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Place tasks into the best free calendar blocks",
	Long: `Schedule a list of tasks into free blocks over the next seven days,
highest priority first. Tasks are given as repeated --task flags in the form
title:minutes:priority:type with an optional :YYYY-MM-DD deadline.

Examples:
  cadence optimize --ics calendar.ics --task "write report:90:high:focus"
  cadence optimize --ics calendar.ics \
      --task "1:1 prep:30:medium:meeting:2026-03-06" \
      --task "expense review:45:low:routine"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(optimizeTasks) == 0 {
			return fmt.Errorf("at least one --task is required")
		}

		from, err := parseDay(optimizeFrom)
		if err != nil {
			return err
		}

		tasks := make([]optimizerDomain.Task, 0, len(optimizeTasks))
		for _, spec := range optimizeTasks {
			task, err := parseTask(spec)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}

		events, err := loadSnapshot()
		if err != nil {
			return err
		}

		optimizer := optimizerApp.NewOptimizer()
		result, err := optimizer.Optimize(cmd.Context(), tasks, events, optimizerDomain.DefaultPreferences(), from)
		if err != nil {
			return fmt.Errorf("failed to optimize: %w", err)
		}

		fmt.Printf("Schedule from %s\n", from.Format("2006-01-02"))
		fmt.Println(strings.Repeat("=", 60))

		for _, suggestion := range result.Suggestions {
			fmt.Printf("\n%s (%dm, %s %s)\n", suggestion.Task.Title,
				suggestion.Task.DurationMinutes, suggestion.Task.Priority, suggestion.Task.Type)
			fmt.Printf("  %s %s - %s  score %d\n",
				suggestion.Slot.Start.Format("Mon 2006-01-02"),
				suggestion.Slot.Start.Format("15:04"), suggestion.Slot.End.Format("15:04"),
				suggestion.Slot.Score)
			for _, reason := range suggestion.Reasoning {
				fmt.Printf("    - %s\n", reason)
			}
			for _, alt := range suggestion.Alternatives {
				fmt.Printf("  alt: %s %s  score %d\n",
					alt.Start.Format("Mon 2006-01-02"), alt.Start.Format("15:04"), alt.Score)
			}
		}

		for _, unscheduled := range result.Unscheduled {
			fmt.Printf("\n%s: could not schedule (%s)\n", unscheduled.Task.Title, unscheduled.Reason)
		}

		fmt.Printf("\nScheduled %d, unscheduled %d, average score %.1f\n",
			result.Summary.TasksScheduled, result.Summary.TasksUnscheduled, result.Summary.AverageScore)
		if result.Summary.FocusTimeProtected {
			fmt.Println("Focus time protected.")
		} else {
			fmt.Println("Warning: some focus work landed in short or late blocks.")
		}

		return nil
	},
}

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Suggest moving existing events to better slots",
	Long: `Check each moveable event against the rest of the day's schedule and
recommend a new start time when a clearly better slot exists.

Examples:
  cadence rebalance --ics calendar.ics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := loadSnapshot()
		if err != nil {
			return err
		}

		optimizer := optimizerApp.NewOptimizer()
		result, err := optimizer.RebalanceSchedule(cmd.Context(), events, optimizerDomain.DefaultPreferences())
		if err != nil {
			return fmt.Errorf("failed to rebalance: %w", err)
		}

		if len(result.Recommendations) == 0 {
			fmt.Println("Schedule looks fine; nothing worth moving.")
			return nil
		}

		fmt.Printf("Move recommendations (average score %.1f)\n", result.AverageScore)
		fmt.Println(strings.Repeat("=", 60))
		for _, rec := range result.Recommendations {
			fmt.Printf("\n%s\n", rec.Title)
			fmt.Printf("  move %s -> %s - %s  score %d\n",
				rec.CurrentStart.Format("15:04"),
				rec.SuggestedStart.Format("15:04"), rec.SuggestedEnd.Format("15:04"),
				rec.Score)
		}

		return nil
	},
}

// parseTask parses title:minutes:priority:type with an optional trailing
// :YYYY-MM-DD deadline.
func parseTask(spec string) (optimizerDomain.Task, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 4 {
		return optimizerDomain.Task{}, fmt.Errorf("invalid task %q, expected title:minutes:priority:type", spec)
	}

	// A title may itself contain colons; the last three or four fields are
	// structured, everything before them is the title.
	structured := 3
	if _, err := time.Parse("2006-01-02", parts[len(parts)-1]); err == nil && len(parts) >= 5 {
		structured = 4
	}
	titleParts := parts[:len(parts)-structured]
	fields := parts[len(parts)-structured:]

	title := strings.Join(titleParts, ":")
	if title == "" {
		return optimizerDomain.Task{}, fmt.Errorf("invalid task %q, empty title", spec)
	}

	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return optimizerDomain.Task{}, fmt.Errorf("invalid task %q, bad duration: %w", spec, err)
	}
	priority, err := optimizerDomain.ParsePriority(fields[1])
	if err != nil {
		return optimizerDomain.Task{}, fmt.Errorf("invalid task %q: %w", spec, err)
	}
	taskType, err := optimizerDomain.ParseTaskType(fields[2])
	if err != nil {
		return optimizerDomain.Task{}, fmt.Errorf("invalid task %q: %w", spec, err)
	}

	task := optimizerDomain.Task{
		ID:              uuid.New(),
		Title:           title,
		DurationMinutes: minutes,
		Priority:        priority,
		Type:            taskType,
	}
	if structured == 4 {
		deadline, err := time.Parse("2006-01-02", fields[3])
		if err != nil {
			return optimizerDomain.Task{}, fmt.Errorf("invalid task %q, bad deadline: %w", spec, err)
		}
		endOfDay := deadline.Add(24 * time.Hour)
		task.Deadline = &endOfDay
	}
	return task, nil
}

func init() {
	optimizeCmd.Flags().StringArrayVarP(&optimizeTasks, "task", "t", nil, "task as title:minutes:priority:type[:deadline] (repeatable)")
	optimizeCmd.Flags().StringVar(&optimizeFrom, "from", "", "first day to schedule on (YYYY-MM-DD)")
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(rebalanceCmd)
}
