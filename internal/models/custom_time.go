package models

import (
	"encoding/json"
	"strings"
	"time"
)

// registryLayouts are the timestamp shapes the registry emits:
// "2024-06-20 15:00" for submissions and "2024-03-31" for periods.
var registryLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// FlexibleDate is a custom time type that can unmarshal the registry's date and
// datetime formats. A JSON null or empty string leaves it zero.
type FlexibleDate struct {
	time.Time
}

// ParseFlexibleDate parses any of the registry layouts.
func ParseFlexibleDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range registryLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		f.Time = time.Time{}
		return nil
	}

	t, err := ParseFlexibleDate(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexibleDate) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time)
}

// Ptr returns nil for a zero date, otherwise a pointer to the time.
func (f FlexibleDate) Ptr() *time.Time {
	if f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}
