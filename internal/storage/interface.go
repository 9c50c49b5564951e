package storage

import (
	"context"

	"github.com/julianstephens/habitflow/internal/models"
)

// HabitRepository owns habits and their daily completions
type HabitRepository interface {
	// ListHabits returns habits by (sort_order, id) with icon and color
	// exactly as stored.
	ListHabits(ctx context.Context) ([]models.Habit, error)
	// CreateHabit stores a habit, substituting the default icon and color
	// for empty values.
	CreateHabit(ctx context.Context, name, icon, color string) (models.Habit, error)
	// DeleteHabit removes the habit and its completions. It reports false
	// when no habit had that id.
	DeleteHabit(ctx context.Context, id int64) (bool, error)
	// ReorderHabits assigns sort_order = index to each listed id. Unlisted
	// habits keep their position and unknown ids are ignored.
	ReorderHabits(ctx context.Context, ids []int64) (bool, error)
	// ToggleHabitCompletion flips the completion of a habit on date and
	// returns the resulting state.
	ToggleHabitCompletion(ctx context.Context, habitID int64, date string) (bool, error)
	// MonthCompletions maps habit id to the sorted days of month it was completed.
	MonthCompletions(ctx context.Context, year, month int) (map[int64][]int, error)
}

// TaskRepository owns dated tasks
type TaskRepository interface {
	TasksForDate(ctx context.Context, date string) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.NewTask) (models.Task, error)
	ToggleTask(ctx context.Context, id int64) (bool, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)
}

// SettingsStore is an opaque key/value store
type SettingsStore interface {
	GetSetting(ctx context.Context, key, def string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// AnalyticsReader exposes the aggregate reads derived statistics are built from.
// Date bounds are inclusive YYYY-MM-DD strings; an empty bound is open.
type AnalyticsReader interface {
	ListHabits(ctx context.Context) ([]models.Habit, error)
	CountHabits(ctx context.Context) (int, error)
	// CompletedHabitIDs returns the set of habits completed on date.
	CompletedHabitIDs(ctx context.Context, date string) (map[int64]bool, error)
	// CompletionCountsByDate counts completions per date. Dates without
	// completions are absent from the map.
	CompletionCountsByDate(ctx context.Context, from, to string) (map[string]int, error)
	// CompletionDatesByHabit lists each habit's distinct completion dates, ascending.
	CompletionDatesByHabit(ctx context.Context) (map[int64][]string, error)
	// CompletionDatesInRange lists the distinct dates with any completion, ascending.
	CompletionDatesInRange(ctx context.Context, from, to string) ([]string, error)
	// CountCompletions counts completion rows dated on or after since.
	CountCompletions(ctx context.Context, since string) (int, error)
	TasksForDate(ctx context.Context, date string) ([]models.Task, error)
	// TaskCountsByDate returns total and done task counts per date.
	TaskCountsByDate(ctx context.Context, from, to string) (map[string]models.TaskCount, error)
	// CountCompletedTasks counts completed tasks dated on or after since.
	CountCompletedTasks(ctx context.Context, since string) (int, error)
}

// Provider is the full store surface used by the command line
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	HabitRepository
	TaskRepository
	SettingsStore
	AnalyticsReader

	// Diagnostics
	Ping(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	LatestSchemaVersion() (int, error)
	IntegrityCheck(ctx context.Context) ([]string, error)

	// Utils
	GetPath() string
}
