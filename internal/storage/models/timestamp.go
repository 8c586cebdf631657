package models

import (
	"strings"
	"time"
)

// Wire layouts for timestamps. The short form matches what a datetime-local
// input produces; seconds are only written when non-zero.
const (
	TimestampLayout        = "2006-01-02T15:04"
	TimestampSecondsLayout = "2006-01-02T15:04:05"
)

var parseLayouts = []string{
	TimestampLayout,
	TimestampSecondsLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// FormatTimestamp renders t in wire form. Non-UTC times keep their offset
// but not their zone name: a parsed value is the same instant in a fixed
// zone, so compare round-tripped times with Equal.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Location() != time.UTC {
		return t.Format(time.RFC3339Nano)
	}
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02T15:04:05.999999999")
	}
	if t.Second() != 0 {
		return t.Format(TimestampSecondsLayout)
	}
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a wire timestamp. Values without an offset are read
// as UTC. The second return value is false for empty or unparseable input.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestampPtr is FormatTimestamp for optional values.
func FormatTimestampPtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}

// ParseTimestampPtr is ParseTimestamp for optional values.
func ParseTimestampPtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := ParseTimestamp(*s)
	if !ok {
		return nil
	}
	return &t
}
