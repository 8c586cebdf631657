package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"minutes", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), "2024-01-01T09:00"},
		{"seconds", time.Date(2024, 1, 1, 9, 0, 5, 0, time.UTC), "2024-01-01T09:00:05"},
		{"offset", time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("X", 3600)), "2024-01-01T09:00:00+01:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-01T09:00", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), true},
		{"2024-01-01T09:00:05", time.Date(2024, 1, 1, 9, 0, 5, 0, time.UTC), true},
		{"2024-01-01T09:00:05.250", time.Date(2024, 1, 1, 9, 0, 5, 250000000, time.UTC), true},
		{"2024-01-01T09:00:00Z", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), true},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseEnums(t *testing.T) {
	assert.Equal(t, RecurringDaily, ParseRecurringPattern("daily"))
	assert.Equal(t, RecurringNone, ParseRecurringPattern("BOGUS"))
	assert.Equal(t, RecurringNone, ParseRecurringPattern(""))
	assert.True(t, RecurringMonthly.Valid())
	assert.False(t, RecurringPattern("HOURLY").Valid())

	assert.Equal(t, TaskStatusDone, ParseTaskStatus("DONE"))
	assert.Equal(t, TaskStatusTodo, ParseTaskStatus("BOGUS"))
	assert.False(t, TaskStatus("").Valid())
}
