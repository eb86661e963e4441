package tasks

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidDueDate is returned when a due date string cannot be parsed.
var ErrInvalidDueDate = errors.New("invalid due date")

const day = 24 * time.Hour

// DaysUntil is the whole number of days from now to due, rounded down.
func DaysUntil(due, now time.Time) int {
	return int(math.Floor(float64(due.Sub(now)) / float64(day)))
}

// Timing classifies how soon a task is due relative to now.
func Timing(due, now time.Time) string {
	d := DaysUntil(due, now)
	switch {
	case d < 0:
		return "Overdue"
	case d == 0:
		return "Today"
	case d == 1:
		return "Tomorrow"
	case d <= 3:
		return "This Week"
	case d <= 7:
		return "This Weekend"
	case d <= 14:
		return "Next Week"
	case d <= 30:
		return "This Month"
	default:
		return fmt.Sprintf("In %d weeks", (d+6)/7)
	}
}

// ParseDueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. Plain
// dates are midnight UTC.
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
}

// TimingFromString parses due and classifies it. Unparseable input returns
// an error wrapping ErrInvalidDueDate.
func TimingFromString(due string, now time.Time) (string, error) {
	t, err := ParseDueDate(due)
	if err != nil {
		return "", err
	}
	return Timing(t, now), nil
}
