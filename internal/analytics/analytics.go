// Package analytics derives habit and task statistics from the store.
// Nothing here is persisted; every call recomputes from current data.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/utils"
	"github.com/julianstephens/habitflow/internal/validation"
)

// Engine computes analytics over a store
type Engine struct {
	store storage.AnalyticsReader
	now   func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock that decides what "today" is
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine reading from store
func New(store storage.AnalyticsReader, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) today() time.Time {
	return utils.Day(e.now())
}

// DashboardStatistics summarises today and the trailing week
func (e *Engine) DashboardStatistics(ctx context.Context) (models.Stats, error) {
	today := e.today()
	todayStr := utils.FormatDate(today)

	total, err := e.store.CountHabits(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	weekStart := utils.AddDays(today, -(constants.WeekLength - 1))
	counts, err := e.store.CompletionCountsByDate(ctx, utils.FormatDate(weekStart), todayStr)
	if err != nil {
		return models.Stats{}, err
	}

	taskCounts, err := e.store.TaskCountsByDate(ctx, todayStr, todayStr)
	if err != nil {
		return models.Stats{}, err
	}
	todayTasks := taskCounts[todayStr]

	windowStart := utils.AddDays(today, -(constants.DashboardStreakWindowDays - 1))
	active, err := e.store.CompletionDatesInRange(ctx, utils.FormatDate(windowStart), todayStr)
	if err != nil {
		return models.Stats{}, err
	}

	weekly := make([]models.DayCompletion, 0, constants.WeekLength)
	for i := constants.WeekLength - 1; i >= 0; i-- {
		day := utils.AddDays(today, -i)
		weekly = append(weekly, dayCompletion(day, counts, total))
	}

	todayCompletions := counts[todayStr]
	return models.Stats{
		TotalHabits:      total,
		TodayCompletions: todayCompletions,
		TodayTasksTotal:  todayTasks.Total,
		TodayTasksDone:   todayTasks.Done,
		Streak:           lenientStreak(dateSet(active), today, constants.DashboardStreakWindowDays),
		WeeklyData:       weekly,
		CompletionRate:   percentage(todayCompletions, total),
	}, nil
}

func dayCompletion(day time.Time, counts map[string]int, totalHabits int) models.DayCompletion {
	date := utils.FormatDate(day)
	completed := counts[date]
	return models.DayCompletion{
		Date:       date,
		Day:        utils.WeekdayAbbrev(day),
		Percentage: percentage(completed, totalHabits),
		Completed:  completed,
	}
}

// WeeklyData returns seven consecutive days starting at startDate
func (e *Engine) WeeklyData(ctx context.Context, startDate string) ([]models.WeekDay, error) {
	start, err := validation.Date(startDate)
	if err != nil {
		return nil, err
	}

	total, err := e.store.CountHabits(ctx)
	if err != nil {
		return nil, err
	}

	end := utils.AddDays(start, constants.WeekLength-1)
	counts, err := e.store.CompletionCountsByDate(ctx, startDate, utils.FormatDate(end))
	if err != nil {
		return nil, err
	}

	days := make([]models.WeekDay, 0, constants.WeekLength)
	for i := 0; i < constants.WeekLength; i++ {
		day := utils.AddDays(start, i)
		days = append(days, models.WeekDay{
			DayCompletion: dayCompletion(day, counts, total),
			DayNum:        day.Day(),
		})
	}
	return days, nil
}

// DailyReport annotates every habit with its completion on date and lists
// the day's tasks by start time, untimed tasks first.
func (e *Engine) DailyReport(ctx context.Context, date string) (models.DailyReport, error) {
	if _, err := validation.Date(date); err != nil {
		return models.DailyReport{}, err
	}

	habits, err := e.store.ListHabits(ctx)
	if err != nil {
		return models.DailyReport{}, err
	}
	done, err := e.store.CompletedHabitIDs(ctx, date)
	if err != nil {
		return models.DailyReport{}, err
	}
	tasks, err := e.store.TasksForDate(ctx, date)
	if err != nil {
		return models.DailyReport{}, err
	}

	report := models.DailyReport{
		Date:   date,
		Habits: make([]models.ReportHabit, 0, len(habits)),
		Tasks:  scheduleOrder(tasks),
	}

	for _, h := range habits {
		completed := done[h.ID]
		if completed {
			report.HabitsCompleted++
		}
		report.Habits = append(report.Habits, models.ReportHabit{
			ID:        h.ID,
			Name:      h.Name,
			Icon:      h.Icon,
			Color:     h.Color,
			Completed: completed,
		})
	}
	for _, t := range report.Tasks {
		if t.Completed {
			report.TasksCompleted++
		}
	}

	report.HabitsTotal = len(report.Habits)
	report.TasksTotal = len(report.Tasks)

	habitRate := rate(report.HabitsCompleted, report.HabitsTotal)
	taskRate := rate(report.TasksCompleted, report.TasksTotal)
	report.HabitRate = round1(habitRate)
	report.TaskRate = round1(taskRate)
	if report.HabitsTotal > 0 || report.TasksTotal > 0 {
		report.OverallScore = round1((habitRate + taskRate) / 2)
	}

	return report, nil
}

// scheduleOrder sorts tasks by start time then id, untimed tasks first
func scheduleOrder(tasks []models.Task) []models.Task {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].StartTime, ordered[j].StartTime
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a < *b
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// MonthlyTrends returns one entry per calendar day of the month. The task
// average only counts days that had tasks.
func (e *Engine) MonthlyTrends(ctx context.Context, year, month int) (models.MonthlyTrends, error) {
	if err := validation.YearMonth(year, month); err != nil {
		return models.MonthlyTrends{}, err
	}

	total, err := e.store.CountHabits(ctx)
	if err != nil {
		return models.MonthlyTrends{}, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := utils.DaysInMonth(year, time.Month(month))
	from, to := utils.FormatDate(first), utils.FormatDate(utils.AddDays(first, days-1))

	completions, err := e.store.CompletionCountsByDate(ctx, from, to)
	if err != nil {
		return models.MonthlyTrends{}, err
	}
	taskCounts, err := e.store.TaskCountsByDate(ctx, from, to)
	if err != nil {
		return models.MonthlyTrends{}, err
	}

	trends := models.MonthlyTrends{
		Year:      year,
		Month:     month,
		DailyData: make([]models.TrendDay, 0, days),
	}

	var habitSum, taskSum float64
	taskDays := 0
	for i := 0; i < days; i++ {
		date := utils.FormatDate(utils.AddDays(first, i))
		habitsDone := completions[date]
		tasks := taskCounts[date]

		day := models.TrendDay{
			Date:        date,
			Day:         i + 1,
			HabitsDone:  habitsDone,
			HabitsTotal: total,
			HabitRate:   percentage(habitsDone, total),
			TasksDone:   tasks.Done,
			TasksTotal:  tasks.Total,
			TaskRate:    percentage(tasks.Done, tasks.Total),
		}
		trends.DailyData = append(trends.DailyData, day)

		habitSum += day.HabitRate
		if tasks.Total > 0 {
			taskSum += day.TaskRate
			taskDays++
		}
	}

	trends.AvgHabitRate = round1(habitSum / float64(days))
	if taskDays > 0 {
		trends.AvgTaskRate = round1(taskSum / float64(taskDays))
	}
	return trends, nil
}

// HabitStreaks reports current and best streaks for every habit in list order
func (e *Engine) HabitStreaks(ctx context.Context) ([]models.HabitStreak, error) {
	habits, err := e.store.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	dates, err := e.store.CompletionDatesByHabit(ctx)
	if err != nil {
		return nil, err
	}

	today := e.today()
	streaks := make([]models.HabitStreak, 0, len(habits))
	for _, h := range habits {
		habitDates := dates[h.ID]
		set := dateSet(habitDates)
		streaks = append(streaks, models.HabitStreak{
			ID:               h.ID,
			Name:             h.Name,
			Icon:             h.Icon,
			Color:            h.Color,
			CurrentStreak:    strictStreak(set, today),
			BestStreak:       bestStreak(habitDates),
			TotalCompletions: len(set),
		})
	}
	return streaks, nil
}

// AnalyticsSummary is the all-time overview. Ties for best streak and most
// completions go to the habit listed first.
func (e *Engine) AnalyticsSummary(ctx context.Context) (models.Summary, error) {
	streaks, err := e.HabitStreaks(ctx)
	if err != nil {
		return models.Summary{}, err
	}

	summary := models.Summary{HabitStreaks: streaks}

	var bestHolder, consistent *models.HabitStreak
	for i := range streaks {
		s := &streaks[i]
		if bestHolder == nil || s.BestStreak > bestHolder.BestStreak {
			bestHolder = s
		}
		if consistent == nil || s.TotalCompletions > consistent.TotalCompletions {
			consistent = s
		}
	}
	if bestHolder != nil {
		name := bestHolder.Name
		summary.BestStreak = bestHolder.BestStreak
		summary.BestStreakHabit = &name
	}
	if consistent != nil {
		name := consistent.Name
		summary.MostConsistentHabit = &name
		summary.MostConsistentCompletions = consistent.TotalCompletions
	}

	if summary.TotalHabitCompletions, err = e.store.CountCompletions(ctx, ""); err != nil {
		return models.Summary{}, err
	}
	if summary.TotalTasksCompleted, err = e.store.CountCompletedTasks(ctx, ""); err != nil {
		return models.Summary{}, err
	}

	today := e.today()
	weekStart := utils.FormatDate(utils.WeekStart(today))
	if summary.WeekHabitCompletions, err = e.store.CountCompletions(ctx, weekStart); err != nil {
		return models.Summary{}, err
	}
	if summary.WeekTasksCompleted, err = e.store.CountCompletedTasks(ctx, weekStart); err != nil {
		return models.Summary{}, err
	}

	total, err := e.store.CountHabits(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	done, err := e.store.CompletedHabitIDs(ctx, utils.FormatDate(today))
	if err != nil {
		return models.Summary{}, err
	}
	summary.TodayCompletionRate = percentage(len(done), total)

	return summary, nil
}
