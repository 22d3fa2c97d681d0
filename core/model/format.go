package model

import "time"

// TimeLayout is the output rendering of all timestamps. Fractional seconds are
// printed only when present.
const TimeLayout = "2006-01-02 15:04:05.999999999"

// FormatTime renders t in UTC with TimeLayout. The zero time renders as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
