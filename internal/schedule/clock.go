package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockMinutes parses a local time of day ("15:04" or "15:04:05") into
// minutes since midnight.
func ClockMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock truncates a stored time value to "15:04". Values already in
// that form pass through unchanged.
func FormatClock(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// Overlaps reports whether the half-open time ranges [aStart,aEnd) and
// [bStart,bEnd), both on the same civil day, intersect. A range ending at
// 12:00 does not overlap one starting at 12:00. Malformed or degenerate
// (start >= end) ranges never overlap anything.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, err := ClockMinutes(aStart)
	if err != nil {
		return false
	}
	ae, err := ClockMinutes(aEnd)
	if err != nil {
		return false
	}
	bs, err := ClockMinutes(bStart)
	if err != nil {
		return false
	}
	be, err := ClockMinutes(bEnd)
	if err != nil {
		return false
	}
	if as >= ae || bs >= be {
		return false
	}
	return as < be && bs < ae
}
