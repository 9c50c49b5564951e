package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/models"
)

func createHabits(t *testing.T, store *Store, names ...string) []models.Habit {
	t.Helper()
	var habits []models.Habit
	for _, name := range names {
		h, err := store.CreateHabit(context.Background(), name, "", "")
		require.NoError(t, err)
		habits = append(habits, h)
	}
	return habits
}

func habitIDs(habits []models.Habit) []int64 {
	ids := make([]int64, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestCreateHabitDefaults(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	habit, err := store.CreateHabit(ctx, "  Read  ", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), habit.ID)
	assert.Equal(t, "Read", habit.Name)
	assert.Equal(t, "✓", habit.Icon)
	assert.Equal(t, "#6366F1", habit.Color)
	assert.True(t, testNow.Equal(habit.CreatedAt))

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	got := habits[0]
	assert.Equal(t, habit.ID, got.ID)
	assert.Equal(t, habit.Name, got.Name)
	assert.Equal(t, habit.Icon, got.Icon)
	assert.Equal(t, habit.Color, got.Color)
	assert.Equal(t, habit.SortOrder, got.SortOrder)
	assert.True(t, habit.CreatedAt.Equal(got.CreatedAt), "created_at %v, stored %v", habit.CreatedAt, got.CreatedAt)
}

func TestCreateHabitCustomIconAndColor(t *testing.T) {
	store := setupTestStore(t)

	habit, err := store.CreateHabit(context.Background(), "Run", "🏃", "#FF0000")
	require.NoError(t, err)
	assert.Equal(t, "🏃", habit.Icon)
	assert.Equal(t, "#FF0000", habit.Color)
}

func TestCreateHabitRejectsEmptyName(t *testing.T) {
	store := setupTestStore(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := store.CreateHabit(context.Background(), name, "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrValidation), "expected validation error for %q, got %v", name, err)
	}

	count, err := store.CountHabits(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateHabitAppends(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	created := createHabits(t, store, "A", "B", "C")

	// Reorder so the max sort_order is no longer the last id
	_, err := store.ReorderHabits(ctx, []int64{created[2].ID, created[1].ID, created[0].ID})
	require.NoError(t, err)

	d, err := store.CreateHabit(ctx, "D", "", "")
	require.NoError(t, err)

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 4)
	assert.Equal(t, d.ID, habits[3].ID)
}

func TestReorderHabits(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createHabits(t, store, "A", "B", "C")

	ok, err := store.ReorderHabits(ctx, []int64{3, 1, 2})
	require.NoError(t, err)
	assert.True(t, ok)

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, habitIDs(habits))
}

func TestReorderHabitsIgnoresUnknownIDs(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createHabits(t, store, "A", "B")

	ok, err := store.ReorderHabits(ctx, []int64{2, 99, 1})
	require.NoError(t, err)
	assert.True(t, ok)

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, habitIDs(habits))
}

func TestReorderHabitsRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	createHabits(t, store, "A", "B")

	ok, err := store.ReorderHabits(ctx, []int64{1, 2, 1})
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, habitIDs(habits))
}

func TestToggleHabitCompletionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	habit := createHabits(t, store, "Read")[0]

	completed, err := store.ToggleHabitCompletion(ctx, habit.ID, "2024-01-15")
	require.NoError(t, err)
	assert.True(t, completed)

	done, err := store.CompletedHabitIDs(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.True(t, done[habit.ID])

	completed, err = store.ToggleHabitCompletion(ctx, habit.ID, "2024-01-15")
	require.NoError(t, err)
	assert.False(t, completed)

	count, err := store.CountCompletions(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestToggleHabitCompletionUnknownHabit(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	completed, err := store.ToggleHabitCompletion(ctx, 42, "2024-01-15")
	require.NoError(t, err)
	assert.False(t, completed)

	count, err := store.CountCompletions(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestToggleHabitCompletionInvalidDate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	habit := createHabits(t, store, "Read")[0]

	for _, date := range []string{"", "2024-1-5", "2024-02-30", "15/01/2024"} {
		_, err := store.ToggleHabitCompletion(ctx, habit.ID, date)
		assert.True(t, errors.Is(err, errors.ErrValidation), "date %q: got %v", date, err)
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	habits := createHabits(t, store, "Read", "Walk")

	for _, date := range []string{"2024-01-13", "2024-01-14"} {
		_, err := store.ToggleHabitCompletion(ctx, habits[0].ID, date)
		require.NoError(t, err)
	}
	_, err := store.ToggleHabitCompletion(ctx, habits[1].ID, "2024-01-14")
	require.NoError(t, err)

	deleted, err := store.DeleteHabit(ctx, habits[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	dates, err := store.CompletionDatesByHabit(ctx)
	require.NoError(t, err)
	assert.NotContains(t, dates, habits[0].ID)
	assert.Equal(t, []string{"2024-01-14"}, dates[habits[1].ID])

	deleted, err = store.DeleteHabit(ctx, habits[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMonthCompletionsPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	habits := createHabits(t, store, "Read", "Walk")

	for _, date := range []string{"2024-01-20", "2024-01-03", "2024-10-05", "2023-01-07", "2024-02-01"} {
		_, err := store.ToggleHabitCompletion(ctx, habits[0].ID, date)
		require.NoError(t, err)
	}
	_, err := store.ToggleHabitCompletion(ctx, habits[1].ID, "2024-01-31")
	require.NoError(t, err)

	got, err := store.MonthCompletions(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64][]int{
		habits[0].ID: {3, 20},
		habits[1].ID: {31},
	}, got)

	empty, err := store.MonthCompletions(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMonthCompletionsInvalidMonth(t *testing.T) {
	store := setupTestStore(t)

	for _, month := range []int{0, 13, -1} {
		_, err := store.MonthCompletions(context.Background(), 2024, month)
		assert.True(t, errors.Is(err, errors.ErrValidation), "month %d: got %v", month, err)
	}
}

func TestCompletionAggregates(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	habits := createHabits(t, store, "Read", "Walk")

	toggles := []struct {
		habit int64
		date  string
	}{
		{habits[0].ID, "2024-01-13"},
		{habits[0].ID, "2024-01-14"},
		{habits[1].ID, "2024-01-14"},
		{habits[1].ID, "2024-01-16"},
	}
	for _, tg := range toggles {
		_, err := store.ToggleHabitCompletion(ctx, tg.habit, tg.date)
		require.NoError(t, err)
	}

	counts, err := store.CompletionCountsByDate(ctx, "2024-01-14", "2024-01-16")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2024-01-14": 2, "2024-01-16": 1}, counts)

	dates, err := store.CompletionDatesInRange(ctx, "", "2024-01-14")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-13", "2024-01-14"}, dates)

	total, err := store.CountCompletions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	since, err := store.CountCompletions(ctx, "2024-01-14")
	require.NoError(t, err)
	assert.Equal(t, 3, since)

	byHabit, err := store.CompletionDatesByHabit(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64][]string{
		habits[0].ID: {"2024-01-13", "2024-01-14"},
		habits[1].ID: {"2024-01-14", "2024-01-16"},
	}, byHabit)

	n, err := store.CountHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListHabitsReturnsStoredIconAndColor(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.db.ExecContext(ctx,
		"INSERT INTO habits (name, icon, color, sort_order) VALUES ('Plain', '', '', 1)")
	require.NoError(t, err)

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "", habits[0].Icon)
	assert.Equal(t, "", habits[0].Color)
}
