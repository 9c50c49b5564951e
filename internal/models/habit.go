package models

import "time"

// Habit represents a recurring activity tracked per calendar day
type Habit struct {
	ID        int64     `json:"id" yaml:"id" db:"id"`
	Name      string    `json:"name" yaml:"name" db:"name"`
	Icon      string    `json:"icon" yaml:"icon" db:"icon"`
	Color     string    `json:"color" yaml:"color" db:"color"`
	SortOrder int       `json:"sort_order" yaml:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// HabitCompletion records that a habit was done on a calendar day.
// The row existing is what marks the day complete.
type HabitCompletion struct {
	ID        int64  `json:"id" yaml:"id" db:"id"`
	HabitID   int64  `json:"habit_id" yaml:"habit_id" db:"habit_id"`
	Date      string `json:"date" yaml:"date" db:"date"` // YYYY-MM-DD format
	Completed bool   `json:"completed" yaml:"completed" db:"completed"`
}
