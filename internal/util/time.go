package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

var jst = loadJST()

func loadJST() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		log.Errorf("Failed to load location 'Asia/Tokyo': %v. Falling back to fixed UTC+9.", err)
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// JST returns the registry's time zone.
func JST() *time.Location {
	return jst
}

// DateJST returns midnight of the Tokyo calendar day containing t.
// Registry listings are keyed by that day.
func DateJST(t time.Time) time.Time {
	local := t.In(jst)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, jst)
}

// IsWeekend reports whether t falls on a Saturday or Sunday in Tokyo.
// The registry accepts no submissions on those days.
func IsWeekend(t time.Time) bool {
	wd := t.In(jst).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsPastDate reports whether date is a Tokyo calendar day before the one containing now.
// A past day's listing no longer changes.
func IsPastDate(date, now time.Time) bool {
	return DateJST(date).Before(DateJST(now))
}
