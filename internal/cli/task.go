package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/julianstephens/habitflow/internal/models"
)

type TaskCmd struct {
	List   TaskListCmd   `cmd:"" help:"List tasks for a day." default:"1"`
	Add    TaskAddCmd    `cmd:"" help:"Add a task."`
	Toggle TaskToggleCmd `cmd:"" help:"Toggle a task's completion."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
}

type TaskListCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	date := ctx.DateOrToday(c.Date)
	tasks, err := ctx.Store.TasksForDate(ctx, date)
	if err != nil {
		return err
	}

	return ctx.Render(tasks, func(w io.Writer) error {
		if len(tasks) == 0 {
			fmt.Fprintf(w, "No tasks for %s.\n", date)
			return nil
		}
		fmt.Fprintln(w, title("Tasks for "+date))
		fmt.Fprintln(w, taskTable(tasks))
		return nil
	})
}

func taskTable(tasks []models.Task) string {
	t := newTable("ID", "", "TITLE", "PRIORITY", "TIME")
	for _, task := range tasks {
		t.Row(strconv.FormatInt(task.ID, 10), checkmark(task.Completed), task.Title, task.Priority.String(), timeRange(task))
	}
	return t.String()
}

// timeRange renders the optional start and end of a task
func timeRange(task models.Task) string {
	switch {
	case task.StartTime != nil && task.EndTime != nil:
		return *task.StartTime + "-" + *task.EndTime
	case task.StartTime != nil:
		return *task.StartTime
	case task.EndTime != nil:
		return "until " + *task.EndTime
	default:
		return ""
	}
}

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Date     string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Priority string `help:"Priority: low, medium, or high." default:"medium"`
	Start    string `help:"Start time in HH:MM format."`
	End      string `help:"End time in HH:MM format."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	task, err := ctx.Store.CreateTask(ctx, models.NewTask{
		Title:     c.Title,
		Date:      ctx.DateOrToday(c.Date),
		Priority:  c.Priority,
		StartTime: c.Start,
		EndTime:   c.End,
	})
	if err != nil {
		return err
	}

	return ctx.Render(task, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ Added task %d: %s (%s, %s)\n", task.ID, task.Title, task.Date, task.Priority)
		return nil
	})
}

type TaskToggleCmd struct {
	ID int64 `arg:"" help:"Task ID."`
}

func (c *TaskToggleCmd) Run(ctx *Context) error {
	completed, err := ctx.Store.ToggleTask(ctx, c.ID)
	if err != nil {
		return err
	}

	return ctx.Render(map[string]any{"id": c.ID, "completed": completed}, func(w io.Writer) error {
		if completed {
			fmt.Fprintf(w, "✓ Task %d done\n", c.ID)
		} else {
			fmt.Fprintf(w, "Task %d not done\n", c.ID)
		}
		return nil
	})
}

type TaskDeleteCmd struct {
	ID int64 `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	deleted, err := ctx.Store.DeleteTask(ctx, c.ID)
	if err != nil {
		return err
	}

	return ctx.Render(map[string]any{"id": c.ID, "deleted": deleted}, func(w io.Writer) error {
		if !deleted {
			fmt.Fprintf(w, "No task with ID %d.\n", c.ID)
			return nil
		}
		fmt.Fprintf(w, "✓ Deleted task %d\n", c.ID)
		return nil
	})
}
