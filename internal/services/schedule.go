package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/epeers/edinetfin/internal/util"
)

// SearchSchedule picks which dates of a window get a registry query.
// Only the daily schedule is exhaustive: a filing submitted on a date the
// schedule skips is never seen.
type SearchSchedule interface {
	Name() string
	// Dates returns the dates to query in [from, to], ascending.
	Dates(from, to time.Time) []time.Time
}

// DefaultFilingMonths are when March year-end filers submit annual reports (due within three months).
var DefaultFilingMonths = []time.Month{time.June, time.July, time.August}

// SeasonSchedule queries every weekday of the listed months and nothing else.
// Filers with a non-March year end mostly file outside these months and are missed.
type SeasonSchedule struct {
	Months []time.Month
}

func (s SeasonSchedule) Name() string { return "season" }

func (s SeasonSchedule) Dates(from, to time.Time) []time.Time {
	months := s.Months
	if len(months) == 0 {
		months = DefaultFilingMonths
	}
	inSeason := make(map[time.Month]bool, len(months))
	for _, m := range months {
		inSeason[m] = true
	}
	return walk(from, to, 1, func(d time.Time) bool { return inSeason[d.Month()] })
}

// StrideSchedule queries one date every Days days, starting at from.
type StrideSchedule struct {
	Days int
}

func (s StrideSchedule) Name() string { return fmt.Sprintf("stride/%dd", s.Days) }

func (s StrideSchedule) Dates(from, to time.Time) []time.Time {
	days := s.Days
	if days < 1 {
		days = 1
	}
	// Weekends are not skipped here; doing so would shift the stride.
	return walk(from, to, days, nil)
}

// DailySchedule queries every weekday in the window.
type DailySchedule struct{}

func (DailySchedule) Name() string { return "daily" }

func (DailySchedule) Dates(from, to time.Time) []time.Time {
	return walk(from, to, 1, func(time.Time) bool { return true })
}

// walk steps from from to to in Tokyo calendar days. A nil keep keeps every
// step; otherwise weekends are always dropped along with anything keep rejects.
func walk(from, to time.Time, step int, keep func(time.Time) bool) []time.Time {
	var dates []time.Time
	end := util.DateJST(to)
	for d := util.DateJST(from); !d.After(end); d = d.AddDate(0, 0, step) {
		if keep != nil && (util.IsWeekend(d) || !keep(d)) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// ScheduleByName resolves a configured schedule name.
func ScheduleByName(name string, strideDays int) (SearchSchedule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "season":
		return SeasonSchedule{Months: DefaultFilingMonths}, nil
	case "stride":
		if strideDays < 1 {
			return nil, fmt.Errorf("stride schedule needs a positive day count, got %d", strideDays)
		}
		return StrideSchedule{Days: strideDays}, nil
	case "daily":
		return DailySchedule{}, nil
	default:
		return nil, fmt.Errorf("unknown scan schedule %q", name)
	}
}
