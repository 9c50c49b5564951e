package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/utils"
)

// percentage returns count/denominator as a percentage rounded to one
// decimal. A zero denominator yields 0.
func percentage(count, denominator int) float64 {
	return round1(rate(count, denominator))
}

// rate is the unrounded form of percentage
func rate(count, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(count) / float64(denominator) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func dateSet(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set
}

// lenientStreak counts consecutive days with any completion ending at
// today, scanning at most window days back. Today itself may be empty
// without breaking the streak; any earlier gap ends it.
func lenientStreak(completed map[string]bool, today time.Time, window int) int {
	streak := 0
	for i := 0; i < window; i++ {
		day := utils.FormatDate(utils.AddDays(today, -i))
		if completed[day] {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

// strictStreak counts consecutive completed days ending at today. An
// incomplete today means no current streak.
func strictStreak(completed map[string]bool, today time.Time) int {
	streak := 0
	for day := today; completed[utils.FormatDate(day)]; day = utils.AddDays(day, -1) {
		streak++
	}
	return streak
}

// bestStreak returns the longest run of consecutive calendar days
func bestStreak(dates []string) int {
	days := make([]time.Time, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		t, err := utils.ParseDate(d)
		if err != nil {
			logger.Warn("Skipping malformed completion date", "date", d)
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.AddDays(days[i-1], 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
