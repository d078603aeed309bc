package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidClock is returned for strings that are not 24-hour HH:mm.
var ErrInvalidClock = errors.New("time must be HH:mm")

// clockPattern accepts 00:00 through 23:59 with mandatory leading zeros.
var clockPattern = regexp.MustCompile(`^(?:[01]\d|2[0-3]):[0-5]\d$`)

// IsClock reports whether s is a valid HH:mm time of day.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockMinutes converts HH:mm to minutes since midnight.
//
// Go Learning Note — Validate Then Convert:
// The regexp guarantees two digit groups at fixed offsets, so slicing s[0:2]
// and s[3:5] is safe and Atoi cannot fail afterwards. Doing the validation
// once up front keeps the arithmetic free of error branches.
func ClockMinutes(s string) (int, error) {
	if !IsClock(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, _ := strconv.Atoi(s[0:2])
	m, _ := strconv.Atoi(s[3:5])
	return h*60 + m, nil
}

// WithinMinutes reports whether two HH:mm times are at most window minutes
// apart. The scale is linear: 23:30 and 00:10 are 1,400 minutes apart, not
// 40. Invalid input is never within any window.
func WithinMinutes(a, b string, window int) bool {
	ma, err := ClockMinutes(a)
	if err != nil {
		return false
	}
	mb, err := ClockMinutes(b)
	if err != nil {
		return false
	}
	d := ma - mb
	if d < 0 {
		d = -d
	}
	return d <= window
}

// FormatTo12Hour renders HH:mm as a 12-hour clock, e.g. "13:05" -> "1:05 PM"
// and "00:30" -> "12:30 AM". Invalid input is returned unchanged.
func FormatTo12Hour(s string) string {
	mins, err := ClockMinutes(s)
	if err != nil {
		return s
	}
	h, m := mins/60, mins%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, period)
}
