package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/utils"
	"github.com/julianstephens/habitflow/internal/validation"
)

type habitRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Icon      string `db:"icon"`
	Color     string `db:"color"`
	SortOrder int    `db:"sort_order"`
	CreatedAt dbTime `db:"created_at"`
}

func (r habitRow) toModel() models.Habit {
	h := models.Habit{
		ID:        r.ID,
		Name:      r.Name,
		Icon:      r.Icon,
		Color:     r.Color,
		SortOrder: r.SortOrder,
		CreatedAt: r.CreatedAt.Time,
	}
	return h
}

var habitColumns = []string{
	"id",
	"name",
	"COALESCE(icon, '') AS icon",
	"COALESCE(color, '') AS color",
	"COALESCE(sort_order, 0) AS sort_order",
	"created_at",
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var rows []habitRow
	q := sq.Select(habitColumns...).From("habits").OrderBy("sort_order", "id")
	if err := s.selectAll(ctx, "list habits", &rows, q); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(rows))
	for _, r := range rows {
		habits = append(habits, r.toModel())
	}
	return habits, nil
}

func (s *Store) CreateHabit(ctx context.Context, name, icon, color string) (models.Habit, error) {
	name, err := validation.HabitName(name)
	if err != nil {
		return models.Habit{}, err
	}
	if strings.TrimSpace(icon) == "" {
		icon = constants.DefaultHabitIcon
	}
	if strings.TrimSpace(color) == "" {
		color = constants.DefaultHabitColor
	}

	habit := models.Habit{Name: name, Icon: icon, Color: color}
	err = s.withTx(ctx, "create habit", func(tx *sqlx.Tx) error {
		// New habits go to the end of the list
		var next int
		if err := tx.GetContext(ctx, &next, "SELECT COALESCE(MAX(sort_order), 0) + 1 FROM habits"); err != nil {
			return err
		}

		stamp, created := s.timestamp()
		res, err := execTx(ctx, tx, sq.Insert("habits").
			Columns("name", "icon", "color", "sort_order", "created_at").
			Values(name, icon, color, next, stamp))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		habit.ID = id
		habit.SortOrder = next
		habit.CreatedAt = created
		return nil
	})
	if err != nil {
		return models.Habit{}, err
	}

	logger.Debug("Created habit", "id", habit.ID, "name", habit.Name)
	return habit, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, "delete habit", func(tx *sqlx.Tx) error {
		if _, err := execTx(ctx, tx, sq.Delete("habit_completions").Where(sq.Eq{"habit_id": id})); err != nil {
			return err
		}
		res, err := execTx(ctx, tx, sq.Delete("habits").Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Deleted habit", "id", id, "found", deleted)
	return deleted, nil
}

func (s *Store) ReorderHabits(ctx context.Context, ids []int64) (bool, error) {
	if err := validation.HabitOrder(ids); err != nil {
		return false, err
	}

	err := s.withTx(ctx, "reorder habits", func(tx *sqlx.Tx) error {
		for index, id := range ids {
			if _, err := execTx(ctx, tx, sq.Update("habits").Set("sort_order", index).Where(sq.Eq{"id": id})); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Reordered habits", "count", len(ids))
	return true, nil
}

func (s *Store) ToggleHabitCompletion(ctx context.Context, habitID int64, date string) (bool, error) {
	if _, err := validation.Date(date); err != nil {
		return false, err
	}

	var completed bool
	err := s.withTx(ctx, "toggle habit completion", func(tx *sqlx.Tx) error {
		var habits int
		if err := getTx(ctx, tx, &habits, sq.Select("COUNT(*)").From("habits").Where(sq.Eq{"id": habitID})); err != nil {
			return err
		}
		if habits == 0 {
			return nil
		}

		var existing int64
		err := getTx(ctx, tx, &existing, sq.Select("id").From("habit_completions").
			Where(sq.Eq{"habit_id": habitID, "date": date}))
		switch {
		case err == nil:
			_, err = execTx(ctx, tx, sq.Delete("habit_completions").Where(sq.Eq{"id": existing}))
			return err
		case errors.Is(err, sql.ErrNoRows):
			_, err = execTx(ctx, tx, sq.Insert("habit_completions").
				Columns("habit_id", "date", "completed").
				Values(habitID, date, 1))
			if err != nil {
				return err
			}
			completed = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Toggled habit completion", "habit", habitID, "date", date, "completed", completed)
	return completed, nil
}

func (s *Store) MonthCompletions(ctx context.Context, year, month int) (map[int64][]int, error) {
	if err := validation.YearMonth(year, month); err != nil {
		return nil, err
	}

	// Stored dates are zero padded, so the prefix selects exactly this month
	prefix := utils.MonthPrefix(year, time.Month(month)) + "-"

	var rows []models.HabitCompletion
	q := sq.Select("habit_id", "date").From("habit_completions").
		Where(sq.Like{"date": prefix + "%"})
	if err := s.selectAll(ctx, "month completions", &rows, q); err != nil {
		return nil, err
	}

	result := make(map[int64][]int)
	for _, r := range rows {
		day, err := strconv.Atoi(strings.TrimPrefix(r.Date, prefix))
		if err != nil {
			logger.Warn("Skipping malformed completion date", "habit", r.HabitID, "date", r.Date)
			continue
		}
		result[r.HabitID] = append(result[r.HabitID], day)
	}
	for _, days := range result {
		sort.Ints(days)
	}
	return result, nil
}

func (s *Store) CountHabits(ctx context.Context) (int, error) {
	var count int
	if err := s.getOne(ctx, "count habits", &count, sq.Select("COUNT(*)").From("habits")); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CompletedHabitIDs(ctx context.Context, date string) (map[int64]bool, error) {
	var ids []int64
	q := sq.Select("habit_id").From("habit_completions").Where(sq.Eq{"date": date})
	if err := s.selectAll(ctx, "completed habits", &ids, q); err != nil {
		return nil, err
	}

	done := make(map[int64]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

type dateCount struct {
	Date  string `db:"date"`
	Count int    `db:"count"`
}

func (s *Store) CompletionCountsByDate(ctx context.Context, from, to string) (map[string]int, error) {
	var rows []dateCount
	q := dateRange(sq.Select("date", "COUNT(*) AS count").From("habit_completions"), from, to).
		GroupBy("date")
	if err := s.selectAll(ctx, "completion counts", &rows, q); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Date] = r.Count
	}
	return counts, nil
}

func (s *Store) CompletionDatesByHabit(ctx context.Context) (map[int64][]string, error) {
	var rows []models.HabitCompletion
	q := sq.Select("habit_id", "date").Distinct().From("habit_completions").OrderBy("habit_id", "date")
	if err := s.selectAll(ctx, "completion dates", &rows, q); err != nil {
		return nil, err
	}

	dates := make(map[int64][]string)
	for _, r := range rows {
		dates[r.HabitID] = append(dates[r.HabitID], r.Date)
	}
	return dates, nil
}

func (s *Store) CompletionDatesInRange(ctx context.Context, from, to string) ([]string, error) {
	dates := []string{}
	q := dateRange(sq.Select("date").Distinct().From("habit_completions"), from, to).OrderBy("date")
	if err := s.selectAll(ctx, "completion dates in range", &dates, q); err != nil {
		return nil, err
	}
	return dates, nil
}

func (s *Store) CountCompletions(ctx context.Context, since string) (int, error) {
	var count int
	q := dateRange(sq.Select("COUNT(*)").From("habit_completions"), since, "")
	if err := s.getOne(ctx, "count completions", &count, q); err != nil {
		return 0, err
	}
	return count, nil
}
