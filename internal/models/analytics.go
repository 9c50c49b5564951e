package models

// DayCompletion is one point of a trailing completion series
type DayCompletion struct {
	Date       string  `json:"date" yaml:"date"`
	Day        string  `json:"day" yaml:"day"` // weekday abbreviation, e.g. "Mon"
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Completed  int     `json:"completed" yaml:"completed"`
}

// WeekDay is a DayCompletion that also carries the day of month
type WeekDay struct {
	DayCompletion `yaml:",inline"`
	DayNum        int `json:"day_num" yaml:"day_num"`
}

// Stats backs the dashboard
type Stats struct {
	TotalHabits      int             `json:"total_habits" yaml:"total_habits"`
	TodayCompletions int             `json:"today_completions" yaml:"today_completions"`
	TodayTasksTotal  int             `json:"today_tasks_total" yaml:"today_tasks_total"`
	TodayTasksDone   int             `json:"today_tasks_done" yaml:"today_tasks_done"`
	Streak           int             `json:"streak" yaml:"streak"`
	WeeklyData       []DayCompletion `json:"weekly_data" yaml:"weekly_data"`
	CompletionRate   float64         `json:"completion_rate" yaml:"completion_rate"`
}

// ReportHabit is a habit annotated with its completion state on one day
type ReportHabit struct {
	ID        int64  `json:"id" yaml:"id" db:"id"`
	Name      string `json:"name" yaml:"name" db:"name"`
	Icon      string `json:"icon" yaml:"icon" db:"icon"`
	Color     string `json:"color" yaml:"color" db:"color"`
	Completed bool   `json:"completed" yaml:"completed" db:"completed"`
}

// DailyReport summarises habits and tasks for one day
type DailyReport struct {
	Date            string        `json:"date" yaml:"date"`
	Habits          []ReportHabit `json:"habits" yaml:"habits"`
	Tasks           []Task        `json:"tasks" yaml:"tasks"`
	HabitsCompleted int           `json:"habits_completed" yaml:"habits_completed"`
	HabitsTotal     int           `json:"habits_total" yaml:"habits_total"`
	TasksCompleted  int           `json:"tasks_completed" yaml:"tasks_completed"`
	TasksTotal      int           `json:"tasks_total" yaml:"tasks_total"`
	HabitRate       float64       `json:"habit_rate" yaml:"habit_rate"`
	TaskRate        float64       `json:"task_rate" yaml:"task_rate"`
	OverallScore    float64       `json:"overall_score" yaml:"overall_score"`
}

// TrendDay is one calendar day of a monthly trend
type TrendDay struct {
	Date        string  `json:"date" yaml:"date"`
	Day         int     `json:"day" yaml:"day"`
	HabitsDone  int     `json:"habits_done" yaml:"habits_done"`
	HabitsTotal int     `json:"habits_total" yaml:"habits_total"`
	HabitRate   float64 `json:"habit_rate" yaml:"habit_rate"`
	TasksDone   int     `json:"tasks_done" yaml:"tasks_done"`
	TasksTotal  int     `json:"tasks_total" yaml:"tasks_total"`
	TaskRate    float64 `json:"task_rate" yaml:"task_rate"`
}

// MonthlyTrends holds per-day rates for a month plus month-wide averages
type MonthlyTrends struct {
	Year         int        `json:"year" yaml:"year"`
	Month        int        `json:"month" yaml:"month"`
	DailyData    []TrendDay `json:"daily_data" yaml:"daily_data"`
	AvgHabitRate float64    `json:"avg_habit_rate" yaml:"avg_habit_rate"`
	AvgTaskRate  float64    `json:"avg_task_rate" yaml:"avg_task_rate"`
}

// HabitStreak carries the streak figures of a single habit
type HabitStreak struct {
	ID               int64  `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Icon             string `json:"icon" yaml:"icon"`
	Color            string `json:"color" yaml:"color"`
	CurrentStreak    int    `json:"current_streak" yaml:"current_streak"`
	BestStreak       int    `json:"best_streak" yaml:"best_streak"`
	TotalCompletions int    `json:"total_completions" yaml:"total_completions"`
}

// Summary is the all-time analytics overview
type Summary struct {
	BestStreak                int           `json:"best_streak" yaml:"best_streak"`
	BestStreakHabit           *string       `json:"best_streak_habit" yaml:"best_streak_habit"`
	MostConsistentHabit       *string       `json:"most_consistent_habit" yaml:"most_consistent_habit"`
	MostConsistentCompletions int           `json:"most_consistent_completions" yaml:"most_consistent_completions"`
	TotalHabitCompletions     int           `json:"total_habit_completions" yaml:"total_habit_completions"`
	TotalTasksCompleted       int           `json:"total_tasks_completed" yaml:"total_tasks_completed"`
	WeekHabitCompletions      int           `json:"week_habit_completions" yaml:"week_habit_completions"`
	WeekTasksCompleted        int           `json:"week_tasks_completed" yaml:"week_tasks_completed"`
	TodayCompletionRate       float64       `json:"today_completion_rate" yaml:"today_completion_rate"`
	HabitStreaks              []HabitStreak `json:"habit_streaks" yaml:"habit_streaks"`
}
