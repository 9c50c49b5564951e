package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/logger"
)

// Priority is a task urgency tier. The numeric value is its rank.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

// ParsePriority maps a stored or user supplied name to its Priority.
// Empty input yields the default, medium.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	default:
		return PriorityMedium, false
	}
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Valid reports whether p is one of the known tiers.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, ok := ParsePriority(string(text))
	if !ok {
		return fmt.Errorf("invalid priority %q", string(text))
	}
	*p = parsed
	return nil
}

// Value stores the priority by name so existing rows stay readable.
func (p Priority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return p.String(), nil
}

func (p *Priority) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = PriorityMedium
		return nil
	case string:
		p.scanName(v)
		return nil
	case []byte:
		p.scanName(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Priority", src)
	}
}

// scanName reads a stored priority name. Unknown names read as medium.
func (p *Priority) scanName(name string) {
	parsed, ok := ParsePriority(name)
	if !ok {
		logger.Warn("Unknown stored priority, using medium", "priority", name)
	}
	*p = parsed
}

// Task is a dated to-do item, independent of habits
type Task struct {
	ID        int64     `json:"id" yaml:"id" db:"id"`
	Title     string    `json:"title" yaml:"title" db:"title"`
	Date      string    `json:"date" yaml:"date" db:"date"` // YYYY-MM-DD format
	Completed bool      `json:"completed" yaml:"completed" db:"completed"`
	Priority  Priority  `json:"priority" yaml:"priority" db:"priority"`
	StartTime *string   `json:"start_time" yaml:"start_time" db:"start_time"` // HH:MM format
	EndTime   *string   `json:"end_time" yaml:"end_time" db:"end_time"`       // HH:MM format
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// NewTask carries the caller's input for task creation before validation.
// Empty Priority means medium; empty times mean absent.
type NewTask struct {
	Title     string
	Date      string
	Priority  string
	StartTime string
	EndTime   string
}

// TaskCount summarises the tasks of one day
type TaskCount struct {
	Total int `json:"total" yaml:"total" db:"total"`
	Done  int `json:"done" yaml:"done" db:"done"`
}
