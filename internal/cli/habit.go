package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/utils"
)

type HabitCmd struct {
	List    HabitListCmd    `cmd:"" help:"List habits in display order." default:"1"`
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Reorder HabitReorderCmd `cmd:"" help:"Set the display order of habits."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Toggle a habit's completion for a day."`
	Month   HabitMonthCmd   `cmd:"" help:"Show a month of completions as a grid."`
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.ListHabits(ctx)
	if err != nil {
		return err
	}

	return ctx.Render(habits, func(w io.Writer) error {
		if len(habits) == 0 {
			fmt.Fprintln(w, "No habits found.")
			return nil
		}
		t := newTable("ID", "HABIT", "COLOR", "ORDER")
		for _, h := range habits {
			t.Row(strconv.FormatInt(h.ID, 10), habitLabel(h.Icon, h.Name, h.Color), h.Color, strconv.Itoa(h.SortOrder))
		}
		fmt.Fprintln(w, t)
		return nil
	})
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Icon  string `help:"Icon shown next to the habit (default ✓)."`
	Color string `help:"Display color as #RRGGBB (default #6366F1)."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	habit, err := ctx.Store.CreateHabit(ctx, c.Name, c.Icon, c.Color)
	if err != nil {
		return err
	}

	return ctx.Render(habit, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ Added habit %d: %s\n", habit.ID, habitLabel(habit.Icon, habit.Name, habit.Color))
		return nil
	})
}

type HabitDeleteCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	deleted, err := ctx.Store.DeleteHabit(ctx, c.ID)
	if err != nil {
		return err
	}

	return ctx.Render(map[string]any{"id": c.ID, "deleted": deleted}, func(w io.Writer) error {
		if !deleted {
			fmt.Fprintf(w, "No habit with ID %d.\n", c.ID)
			return nil
		}
		fmt.Fprintf(w, "✓ Deleted habit %d\n", c.ID)
		return nil
	})
}

type HabitReorderCmd struct {
	IDs []int64 `arg:"" name:"id" help:"Habit IDs in the desired order."`
}

func (c *HabitReorderCmd) Run(ctx *Context) error {
	ok, err := ctx.Store.ReorderHabits(ctx, c.IDs)
	if err != nil {
		return err
	}

	return ctx.Render(map[string]any{"success": ok}, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ Reordered %d habit(s)\n", len(c.IDs))
		return nil
	})
}

type HabitToggleCmd struct {
	ID   int64  `arg:"" help:"Habit ID."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	date := ctx.DateOrToday(c.Date)
	completed, err := ctx.Store.ToggleHabitCompletion(ctx, c.ID, date)
	if err != nil {
		return err
	}

	result := map[string]any{"habit_id": c.ID, "date": date, "completed": completed}
	return ctx.Render(result, func(w io.Writer) error {
		if completed {
			fmt.Fprintf(w, "✓ Habit %d done on %s\n", c.ID, date)
		} else {
			fmt.Fprintf(w, "Habit %d not done on %s\n", c.ID, date)
		}
		return nil
	})
}

type HabitMonthCmd struct {
	Year  int `help:"Year (default: current)."`
	Month int `help:"Month 1-12 (default: current)."`
}

func (c *HabitMonthCmd) Run(ctx *Context) error {
	now := ctx.Now()
	year, month := c.Year, c.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	completions, err := ctx.Store.MonthCompletions(ctx, year, month)
	if err != nil {
		return err
	}

	// JSON object keys must be strings
	out := make(map[string][]int, len(completions))
	for id, days := range completions {
		out[strconv.FormatInt(id, 10)] = days
	}

	return ctx.Render(out, func(w io.Writer) error {
		habits, err := ctx.Store.ListHabits(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, title(time.Month(month).String()+" "+strconv.Itoa(year)))
		fmt.Fprint(w, monthGrid(habits, completions, year, time.Month(month)))
		return nil
	})
}

// monthGrid draws one row per habit with a mark for each day of the month
func monthGrid(habits []models.Habit, completions map[int64][]int, year int, month time.Month) string {
	days := utils.DaysInMonth(year, month)

	width := 0
	for _, h := range habits {
		if n := len([]rune(h.Icon + " " + h.Name)); n > width {
			width = n
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width+1))
	for d := 1; d <= days; d++ {
		b.WriteString(labelStyle.Render(strconv.Itoa(d % 10)))
	}
	b.WriteString("\n")

	for _, h := range habits {
		done := make(map[int]bool, len(completions[h.ID]))
		for _, d := range completions[h.ID] {
			done[d] = true
		}

		label := h.Icon + " " + h.Name
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", width+1-len([]rune(label))))
		for d := 1; d <= days; d++ {
			b.WriteString(checkmark(done[d]))
		}
		fmt.Fprintf(&b, " %d/%d\n", len(done), days)
	}
	return b.String()
}
