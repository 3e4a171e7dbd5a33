package application

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	availabilityApp "github.com/cadencehq/cadence/internal/availability/application"
	availabilityDomain "github.com/cadencehq/cadence/internal/availability/domain"
	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/optimizer/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

const (
	searchDays      = 7
	maxAlternatives = 3

	rebalanceMinScore = 70
)

// Optimizer assigns tasks to free calendar blocks with a greedy, scored
// search. Placement is strictly sequential: each task sees every earlier
// placement as busy time, so reordering or parallelizing the task loop
// changes results.
type Optimizer struct{}

// NewOptimizer creates a schedule optimizer.
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// candidate is one scored placement option for a task.
type candidate struct {
	slot    domain.Slot
	reasons []string
}

// Optimize places each task into its best free block over the seven days
// following from. Tasks are sorted high priority first, then by deadline;
// a task with a deadline outranks one without. Each chosen placement is
// injected into the working event list before the next task is scored.
func (o *Optimizer) Optimize(
	ctx context.Context,
	tasks []domain.Task,
	events []calendarDomain.Event,
	prefs domain.Preferences,
	from time.Time,
) (domain.OptimizeResult, error) {
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return domain.OptimizeResult{}, err
		}
	}
	if err := calendarDomain.ValidateSnapshot(events); err != nil {
		return domain.OptimizeResult{}, err
	}

	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Priority != b.Priority {
			return a.Priority.Weight() > b.Priority.Weight()
		}
		if a.Deadline != nil && b.Deadline != nil {
			return a.Deadline.Before(*b.Deadline)
		}
		return a.Deadline != nil && b.Deadline == nil
	})

	analyzer := analyzerFor(prefs)
	working := make([]calendarDomain.Event, len(events))
	copy(working, events)

	result := domain.OptimizeResult{}

	for _, task := range sorted {
		candidates, err := o.collectCandidates(ctx, analyzer, task, working, prefs, from)
		if err != nil {
			return domain.OptimizeResult{}, err
		}

		if len(candidates) == 0 {
			result.Unscheduled = append(result.Unscheduled, domain.UnscheduledTask{
				Task: task,
				Reason: fmt.Sprintf("no free block of %d minutes or more within the next %d days",
					task.DurationMinutes, searchDays),
			})
			continue
		}

		best := 0
		for i, c := range candidates {
			if c.slot.Score > candidates[best].slot.Score {
				best = i
			}
		}
		chosen := candidates[best]

		result.Suggestions = append(result.Suggestions, domain.ScheduleSuggestion{
			Task:         task,
			Slot:         chosen.slot,
			Reasoning:    chosen.reasons,
			Alternatives: alternativesFor(candidates, best),
		})

		// Later tasks must see this placement as busy time.
		working = append(working, calendarDomain.Event{
			ID:     task.ID,
			Title:  task.Title,
			Start:  chosen.slot.Start,
			End:    chosen.slot.End,
			Status: calendarDomain.EventStatusConfirmed,
		})
	}

	result.Summary = summarize(result)
	return result, nil
}

// RebalanceSchedule looks for better homes for existing events. Each event is
// treated as a medium-priority focus task and searched against the remaining
// events; a move is recommended only when the candidate scores above 70 and
// starts in a different hour than the event does today. The hour comparison
// deliberately ignores minutes.
func (o *Optimizer) RebalanceSchedule(
	ctx context.Context,
	events []calendarDomain.Event,
	prefs domain.Preferences,
) (domain.RebalanceResult, error) {
	if err := calendarDomain.ValidateSnapshot(events); err != nil {
		return domain.RebalanceResult{}, err
	}

	analyzer := analyzerFor(prefs)
	result := domain.RebalanceResult{}

	for i, event := range events {
		others := make([]calendarDomain.Event, 0, len(events)-1)
		others = append(others, events[:i]...)
		others = append(others, events[i+1:]...)

		task := domain.Task{
			ID:              event.ID,
			Title:           event.Title,
			DurationMinutes: int(event.Duration().Minutes()),
			Priority:        domain.PriorityMedium,
			Type:            domain.TaskTypeFocus,
		}
		if task.DurationMinutes <= 0 {
			continue
		}

		candidates, err := o.collectCandidates(ctx, analyzer, task, others, prefs, sharedDomain.DayStart(event.Start))
		if err != nil {
			return domain.RebalanceResult{}, err
		}
		if len(candidates) == 0 {
			continue
		}

		best := 0
		for j, c := range candidates {
			if c.slot.Score > candidates[best].slot.Score {
				best = j
			}
		}
		chosen := candidates[best].slot

		if chosen.Score > rebalanceMinScore && chosen.Start.Hour() != event.Start.Hour() {
			result.Recommendations = append(result.Recommendations, domain.MoveRecommendation{
				EventID:        event.ID,
				Title:          event.Title,
				CurrentStart:   event.Start,
				SuggestedStart: chosen.Start,
				SuggestedEnd:   chosen.End,
				Score:          chosen.Score,
			})
		}
	}

	if n := len(result.Recommendations); n > 0 {
		sum := 0
		for _, r := range result.Recommendations {
			sum += r.Score
		}
		result.AverageScore = float64(sum) / float64(n)
	}

	return result, nil
}

// collectCandidates gathers every fitting free block over the search horizon,
// in day-then-block order, scored for the given task. Returns nil and the
// context error when the search is cancelled mid-flight.
func (o *Optimizer) collectCandidates(
	ctx context.Context,
	analyzer *availabilityApp.Analyzer,
	task domain.Task,
	working []calendarDomain.Event,
	prefs domain.Preferences,
	from time.Time,
) ([]candidate, error) {
	var candidates []candidate

	for day := 0; day < searchDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := sharedDomain.DayStart(from).AddDate(0, 0, day)
		analysis, err := analyzer.Analyze(date, working)
		if err != nil {
			return nil, err
		}

		for _, block := range analysis.FreeBlocks {
			if block.DurationMinutes < task.DurationMinutes {
				continue
			}
			score, reasons := scoreBlock(task, block, prefs, from)
			candidates = append(candidates, candidate{
				slot: domain.Slot{
					Start: block.Start,
					End:   block.Start.Add(time.Duration(task.DurationMinutes) * time.Minute),
					Score: score,
				},
				reasons: reasons,
			})
		}
	}

	return candidates, nil
}

// scoreBlock rates how well a free block suits a task. Scores start at 50
// and are clamped to [0, 100].
func scoreBlock(task domain.Task, block availabilityDomain.TimeBlock, prefs domain.Preferences, from time.Time) (int, []string) {
	score := 50
	var reasons []string

	if task.Priority == domain.PriorityHigh {
		if block.Quality == availabilityDomain.QualityHigh {
			score += 20
			reasons = append(reasons, "high-priority task in a high-quality block")
		}
		if slices.Contains(prefs.FocusHours, block.Start.Hour()) {
			score += 15
			reasons = append(reasons, "within preferred focus hours")
		}
	}

	slack := block.DurationMinutes - task.DurationMinutes

	switch task.Type {
	case domain.TaskTypeFocus:
		if slack >= 30 {
			score += 10
			reasons = append(reasons, "block leaves room to overrun")
		}
		switch block.TimeOfDay {
		case sharedDomain.TimeOfDayMorning, sharedDomain.TimeOfDayAfternoon:
			score += 10
			reasons = append(reasons, "daytime block suits focused work")
		case sharedDomain.TimeOfDayEvening, sharedDomain.TimeOfDayNight:
			score -= 15
		}
	case domain.TaskTypeMeeting:
		if prefs.PreferMorningMeetings && block.TimeOfDay == sharedDomain.TimeOfDayMorning {
			score += 10
			reasons = append(reasons, "morning slot for a meeting")
		}
		if !slices.Contains(prefs.AvoidMeetingHours, block.Start.Hour()) {
			score += 5
		}
	}

	if task.PreferredTimeOfDay != "" && block.TimeOfDay == task.PreferredTimeOfDay {
		score += 15
		reasons = append(reasons, fmt.Sprintf("matches preferred time of day (%s)", task.PreferredTimeOfDay))
	}

	switch {
	case slack >= 0 && slack <= 30:
		score += 10
		reasons = append(reasons, "snug duration fit")
	case slack >= 31 && slack <= 60:
		score += 5
	}

	if task.Deadline != nil {
		remaining := task.Deadline.Sub(from)
		switch {
		case remaining <= 24*time.Hour:
			score += 20
			reasons = append(reasons, "deadline within a day")
		case remaining <= 72*time.Hour:
			score += 10
			reasons = append(reasons, "deadline within three days")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}

// alternativesFor returns up to three runner-up slots, best first.
func alternativesFor(candidates []candidate, chosen int) []domain.Slot {
	rest := make([]domain.Slot, 0, len(candidates)-1)
	for i, c := range candidates {
		if i == chosen {
			continue
		}
		rest = append(rest, c.slot)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Score > rest[j].Score
	})
	if len(rest) > maxAlternatives {
		rest = rest[:maxAlternatives]
	}
	return rest
}

func summarize(result domain.OptimizeResult) domain.Summary {
	summary := domain.Summary{
		TasksScheduled:     len(result.Suggestions),
		TasksUnscheduled:   len(result.Unscheduled),
		FocusTimeProtected: true,
	}

	sum := 0
	for _, s := range result.Suggestions {
		sum += s.Slot.Score
		if s.Task.Type == domain.TaskTypeFocus && s.Slot.Score < 60 {
			summary.FocusTimeProtected = false
		}
	}
	if summary.TasksScheduled > 0 {
		summary.AverageScore = float64(sum) / float64(summary.TasksScheduled)
	}

	return summary
}

func analyzerFor(prefs domain.Preferences) *availabilityApp.Analyzer {
	config := availabilityApp.DefaultAnalyzerConfig()
	if prefs.WorkdayStartHour != 0 || prefs.WorkdayEndHour != 0 {
		config.WorkdayStartHour = prefs.WorkdayStartHour
		config.WorkdayEndHour = prefs.WorkdayEndHour
	}
	return availabilityApp.NewAnalyzer(config)
}
