package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/julianstephens/habitflow/internal/utils"
)

const barWidth = 20

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	stats, err := ctx.Analytics.DashboardStatistics(ctx)
	if err != nil {
		return err
	}

	return ctx.Render(stats, func(w io.Writer) error {
		fmt.Fprintln(w, title("Today"))
		fmt.Fprintln(w, field("Habits", fmt.Sprintf("%d/%d (%s)", stats.TodayCompletions, stats.TotalHabits, pct(stats.CompletionRate))))
		fmt.Fprintln(w, field("Tasks", fmt.Sprintf("%d/%d", stats.TodayTasksDone, stats.TodayTasksTotal)))
		fmt.Fprintln(w, field("Streak", fmt.Sprintf("%d day(s)", stats.Streak)))
		fmt.Fprintln(w)
		fmt.Fprintln(w, title("Last 7 days"))
		for _, d := range stats.WeeklyData {
			fmt.Fprintf(w, "%s %s %s %6s\n", d.Day, d.Date, bar(d.Percentage, barWidth), pct(d.Percentage))
		}
		return nil
	})
}

type WeekCmd struct {
	Start string `help:"First day in YYYY-MM-DD format (default: this week's Monday)." default:""`
}

func (c *WeekCmd) Run(ctx *Context) error {
	start := c.Start
	if start == "" {
		start = utils.FormatDate(utils.WeekStart(utils.Day(ctx.Now())))
	}

	days, err := ctx.Analytics.WeeklyData(ctx, start)
	if err != nil {
		return err
	}

	return ctx.Render(days, func(w io.Writer) error {
		fmt.Fprintln(w, title("Week of "+start))
		for _, d := range days {
			fmt.Fprintf(w, "%s %2d %s %6s  %d done\n", d.Day, d.DayNum, bar(d.Percentage, barWidth), pct(d.Percentage), d.Completed)
		}
		return nil
	})
}

type ReportCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ReportCmd) Run(ctx *Context) error {
	report, err := ctx.Analytics.DailyReport(ctx, ctx.DateOrToday(c.Date))
	if err != nil {
		return err
	}

	return ctx.Render(report, func(w io.Writer) error {
		fmt.Fprintln(w, title("Report for "+report.Date))
		fmt.Fprintln(w, field("Score", pct(report.OverallScore)))
		fmt.Fprintln(w)

		fmt.Fprintln(w, field("Habits", fmt.Sprintf("%d/%d (%s)", report.HabitsCompleted, report.HabitsTotal, pct(report.HabitRate))))
		for _, h := range report.Habits {
			fmt.Fprintf(w, "  %s %s\n", checkmark(h.Completed), habitLabel(h.Icon, h.Name, h.Color))
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, field("Tasks", fmt.Sprintf("%d/%d (%s)", report.TasksCompleted, report.TasksTotal, pct(report.TaskRate))))
		for _, t := range report.Tasks {
			line := fmt.Sprintf("  %s %s", checkmark(t.Completed), t.Title)
			if r := timeRange(t); r != "" {
				line += " " + labelStyle.Render(r)
			}
			fmt.Fprintln(w, line)
		}
		return nil
	})
}

type TrendsCmd struct {
	Year  int `help:"Year (default: current)."`
	Month int `help:"Month 1-12 (default: current)."`
}

func (c *TrendsCmd) Run(ctx *Context) error {
	now := ctx.Now()
	year, month := c.Year, c.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	trends, err := ctx.Analytics.MonthlyTrends(ctx, year, month)
	if err != nil {
		return err
	}

	return ctx.Render(trends, func(w io.Writer) error {
		fmt.Fprintln(w, title(time.Month(month).String()+" "+strconv.Itoa(year)))
		fmt.Fprintln(w, field("Average habit rate", pct(trends.AvgHabitRate)))
		fmt.Fprintln(w, field("Average task rate", pct(trends.AvgTaskRate)))
		fmt.Fprintln(w)
		for _, d := range trends.DailyData {
			tasks := ""
			if d.TasksTotal > 0 {
				tasks = fmt.Sprintf("  tasks %d/%d", d.TasksDone, d.TasksTotal)
			}
			fmt.Fprintf(w, "%2d %s %6s%s\n", d.Day, bar(d.HabitRate, barWidth), pct(d.HabitRate), tasks)
		}
		return nil
	})
}

type StreaksCmd struct{}

func (c *StreaksCmd) Run(ctx *Context) error {
	streaks, err := ctx.Analytics.HabitStreaks(ctx)
	if err != nil {
		return err
	}

	return ctx.Render(streaks, func(w io.Writer) error {
		if len(streaks) == 0 {
			fmt.Fprintln(w, "No habits found.")
			return nil
		}
		t := newTable("HABIT", "CURRENT", "BEST", "TOTAL")
		for _, s := range streaks {
			t.Row(habitLabel(s.Icon, s.Name, s.Color), strconv.Itoa(s.CurrentStreak), strconv.Itoa(s.BestStreak), strconv.Itoa(s.TotalCompletions))
		}
		fmt.Fprintln(w, t)
		return nil
	})
}

type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *Context) error {
	summary, err := ctx.Analytics.AnalyticsSummary(ctx)
	if err != nil {
		return err
	}

	return ctx.Render(summary, func(w io.Writer) error {
		fmt.Fprintln(w, title("Summary"))
		if summary.BestStreakHabit != nil {
			fmt.Fprintln(w, field("Best streak", fmt.Sprintf("%d day(s), %s", summary.BestStreak, *summary.BestStreakHabit)))
		}
		if summary.MostConsistentHabit != nil {
			fmt.Fprintln(w, field("Most consistent", fmt.Sprintf("%s (%d completions)", *summary.MostConsistentHabit, summary.MostConsistentCompletions)))
		}
		fmt.Fprintln(w, field("Habit completions", fmt.Sprintf("%d all time, %d this week", summary.TotalHabitCompletions, summary.WeekHabitCompletions)))
		fmt.Fprintln(w, field("Tasks completed", fmt.Sprintf("%d all time, %d this week", summary.TotalTasksCompleted, summary.WeekTasksCompleted)))
		fmt.Fprintln(w, field("Today", pct(summary.TodayCompletionRate)))
		return nil
	})
}
