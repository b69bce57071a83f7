package stats

import (
	"fmt"
	"time"
)

// QuarterLabel returns the quarter label for t, e.g. "Q3 2025".
func QuarterLabel(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", q, t.Year())
}

// Time-of-day bucket names.
const (
	BucketMorning   = "morning"   // 05:00-11:59
	BucketAfternoon = "afternoon" // 12:00-16:59
	BucketEvening   = "evening"   // 17:00-21:59
	BucketNight     = "night"     // 22:00-04:59
)

// TimeOfDayBucket maps the local hour of t to one of the four buckets.
func TimeOfDayBucket(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return BucketMorning
	case h >= 12 && h < 17:
		return BucketAfternoon
	case h >= 17 && h < 22:
		return BucketEvening
	default:
		return BucketNight
	}
}

// DayCode returns the 3-letter day-of-week code for t ("Mon".."Sun").
func DayCode(t time.Time) string {
	return t.Weekday().String()[:3]
}

// DayKey returns the calendar-day key used for same-day tracking.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsNightHour reports whether the hour of t is in [22,24) or [0,5).
func IsNightHour(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h < 5
}

// IsLateNightHour reports whether the hour of t is in [2,4).
func IsLateNightHour(t time.Time) bool {
	h := t.Hour()
	return h >= 2 && h < 4
}

// IsConsecutiveDay reports whether day (YYYY-MM-DD) is exactly one
// calendar day after prevDay. Malformed keys count as not consecutive.
func IsConsecutiveDay(prevDay, day string) bool {
	prev, err := time.Parse("2006-01-02", prevDay)
	if err != nil {
		return false
	}
	cur, err := time.Parse("2006-01-02", day)
	if err != nil {
		return false
	}
	return cur.Sub(prev) == 24*time.Hour
}
