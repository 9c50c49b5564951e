// Package validation checks caller input at the repository boundary.
// Every failure is an *errors.ValidationError.
package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/utils"
)

const (
	MinYear = 1
	MaxYear = 9999
)

// HabitName trims the name and rejects it when nothing is left.
func HabitName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.Validation("name", name, "must not be empty")
	}
	return trimmed, nil
}

// TaskTitle trims the title and rejects it when nothing is left.
func TaskTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", errors.Validation("title", title, "must not be empty")
	}
	return trimmed, nil
}

// Date parses a YYYY-MM-DD date.
func Date(date string) (time.Time, error) {
	t, err := utils.ParseDate(date)
	if err != nil {
		return time.Time{}, errors.Validation("date", date, "expected YYYY-MM-DD")
	}
	return t, nil
}

// OptionalTime normalizes an optional HH:MM clock time. Empty input means absent.
func OptionalTime(field, value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := utils.ParseTime(value)
	if err != nil {
		return nil, errors.Validation(field, value, "expected HH:MM")
	}
	normalized := t.Format(constants.TimeFormat)
	return &normalized, nil
}

// Priority parses a priority name. Empty input yields medium.
func Priority(value string) (models.Priority, error) {
	p, ok := models.ParsePriority(value)
	if !ok {
		return models.PriorityMedium, errors.Validation("priority", value, "must be one of low, medium, high")
	}
	return p, nil
}

// YearMonth checks that year and month name a real calendar month.
func YearMonth(year, month int) error {
	if year < MinYear || year > MaxYear {
		return errors.Validation("year", strconv.Itoa(year), "must be between 1 and 9999")
	}
	if month < 1 || month > 12 {
		return errors.Validation("month", strconv.Itoa(month), "must be between 1 and 12")
	}
	return nil
}

// SettingKey rejects blank keys.
func SettingKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.Validation("key", key, "must not be empty")
	}
	return nil
}

// HabitOrder rejects an ordering that lists the same habit twice, since a
// repeated id could not receive a single strict rank.
func HabitOrder(ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return errors.Validation("habit_ids", strconv.FormatInt(id, 10), "listed more than once")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// NewTask validates and normalizes task creation input.
func NewTask(in models.NewTask) (models.Task, error) {
	title, err := TaskTitle(in.Title)
	if err != nil {
		return models.Task{}, err
	}
	if _, err := Date(in.Date); err != nil {
		return models.Task{}, err
	}
	priority, err := Priority(in.Priority)
	if err != nil {
		return models.Task{}, err
	}
	start, err := OptionalTime("start_time", in.StartTime)
	if err != nil {
		return models.Task{}, err
	}
	end, err := OptionalTime("end_time", in.EndTime)
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		Title:     title,
		Date:      in.Date,
		Priority:  priority,
		StartTime: start,
		EndTime:   end,
	}, nil
}
