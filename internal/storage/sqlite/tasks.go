package sqlite

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/validation"
)

type taskRow struct {
	ID        int64           `db:"id"`
	Title     string          `db:"title"`
	Date      string          `db:"date"`
	Completed bool            `db:"completed"`
	Priority  models.Priority `db:"priority"`
	StartTime *string         `db:"start_time"`
	EndTime   *string         `db:"end_time"`
	CreatedAt dbTime          `db:"created_at"`
}

func (r taskRow) toModel() models.Task {
	return models.Task{
		ID:        r.ID,
		Title:     r.Title,
		Date:      r.Date,
		Completed: r.Completed,
		Priority:  r.Priority,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		CreatedAt: r.CreatedAt.Time,
	}
}

var taskColumns = []string{
	"id",
	"title",
	"date",
	"COALESCE(completed, 0) AS completed",
	"priority",
	"start_time",
	"end_time",
	"created_at",
}

// priorityRank orders the stored priority names by urgency
const priorityRank = "CASE priority WHEN 'high' THEN 2 WHEN 'low' THEN 0 ELSE 1 END DESC"

// TasksForDate lists the day's tasks, most urgent first and then in creation order
func (s *Store) TasksForDate(ctx context.Context, date string) ([]models.Task, error) {
	if _, err := validation.Date(date); err != nil {
		return nil, err
	}

	var rows []taskRow
	q := sq.Select(taskColumns...).From("tasks").
		Where(sq.Eq{"date": date}).
		OrderBy(priorityRank, "created_at", "id")
	if err := s.selectAll(ctx, "list tasks", &rows, q); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toModel())
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, in models.NewTask) (models.Task, error) {
	task, err := validation.NewTask(in)
	if err != nil {
		return models.Task{}, err
	}

	err = s.withTx(ctx, "create task", func(tx *sqlx.Tx) error {
		stamp, created := s.timestamp()
		res, err := execTx(ctx, tx, sq.Insert("tasks").
			Columns("title", "date", "completed", "priority", "start_time", "end_time", "created_at").
			Values(task.Title, task.Date, 0, task.Priority, task.StartTime, task.EndTime, stamp))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		task.ID = id
		task.CreatedAt = created
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	logger.Debug("Created task", "id", task.ID, "date", task.Date, "priority", task.Priority)
	return task, nil
}

// ToggleTask flips a task's completion and returns the new state.
// An unknown id reports false.
func (s *Store) ToggleTask(ctx context.Context, id int64) (bool, error) {
	var completed bool
	err := s.withTx(ctx, "toggle task", func(tx *sqlx.Tx) error {
		res, err := execTx(ctx, tx, sq.Update("tasks").
			Set("completed", sq.Expr("CASE WHEN completed = 1 THEN 0 ELSE 1 END")).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		return getTx(ctx, tx, &completed, sq.Select("completed").From("tasks").Where(sq.Eq{"id": id}))
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Toggled task", "id", id, "completed", completed)
	return completed, nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, "delete task", func(tx *sqlx.Tx) error {
		res, err := execTx(ctx, tx, sq.Delete("tasks").Where(sq.Eq{"id": id}))
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

	logger.Debug("Deleted task", "id", id, "found", deleted)
	return deleted, nil
}

type taskCountRow struct {
	Date string `db:"date"`
	models.TaskCount
}

func (s *Store) TaskCountsByDate(ctx context.Context, from, to string) (map[string]models.TaskCount, error) {
	var rows []taskCountRow
	q := dateRange(sq.Select(
		"date",
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END), 0) AS done",
	).From("tasks"), from, to).GroupBy("date")
	if err := s.selectAll(ctx, "task counts", &rows, q); err != nil {
		return nil, err
	}

	counts := make(map[string]models.TaskCount, len(rows))
	for _, r := range rows {
		counts[r.Date] = r.TaskCount
	}
	return counts, nil
}

func (s *Store) CountCompletedTasks(ctx context.Context, since string) (int, error) {
	var count int
	q := dateRange(sq.Select("COUNT(*)").From("tasks").Where(sq.Eq{"completed": 1}), since, "")
	if err := s.getOne(ctx, "count completed tasks", &count, q); err != nil {
		return 0, err
	}
	return count, nil
}
