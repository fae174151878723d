package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "full month name",
			input: "July 4, 2025",
			want:  time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "abbreviated month",
			input: "Jul 4, 2025",
			want:  time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "iso date",
			input: "2025-07-04",
			want:  time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  June 30, 2025 ",
			want:  time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not a date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{input: "3:00 PM", hour: 15},
		{input: "3:30 PM", hour: 15, minute: 30},
		{input: "9:15 AM", hour: 9, minute: 15},
		{input: "3 PM", hour: 15},
		{input: "14:45", hour: 14, minute: 45},
		{input: "half past three", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, got.Hour())
			assert.Equal(t, tt.minute, got.Minute())
		})
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("July 4, 2025", "3:00 PM", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 4, 15, 0, 0, 0, time.UTC), got)
}

func TestParseTimestamp(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := ParseTimestamp("2025-07-01T10:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC), got.UTC())

	// Zone-less timestamps are interpreted in the given location.
	got, err = ParseTimestamp("2025-07-01T10:00:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 1, 10, 0, 0, 0, loc), got)

	_, err = ParseTimestamp("tomorrow", loc)
	assert.Error(t, err)
}

func TestResolveRelative(t *testing.T) {
	// Saturday, June 28, 2025
	anchor := time.Date(2025, time.June, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expr    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "tomorrow with clock",
			expr: "tomorrow at 5 PM",
			want: time.Date(2025, time.June, 29, 17, 0, 0, 0, time.UTC),
		},
		{
			name: "today",
			expr: "today",
			want: time.Date(2025, time.June, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "yesterday",
			expr: "yesterday",
			want: time.Date(2025, time.June, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "next week",
			expr: "next week",
			want: time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "next monday",
			expr: "next Monday",
			want: time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "this saturday is the anchor itself",
			expr: "this Saturday",
			want: time.Date(2025, time.June, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "in two days",
			expr: "in 2 days",
			want: time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "in three weeks",
			expr: "in 3 weeks",
			want: time.Date(2025, time.July, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "absolute date with clock",
			expr: "July 4, 2025 at 9:30 AM",
			want: time.Date(2025, time.July, 4, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "ambiguous",
			expr:    "later",
			wantErr: true,
		},
		{
			name:    "empty",
			expr:    "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRelative(tt.expr, anchor)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestResolveRelativeRoundTrip(t *testing.T) {
	// The anchor-then-resolve invariant: with an anchor of June 28, 2025,
	// "tomorrow at 5 PM" must become June 29, 2025, 5:00 PM before any tool
	// sees it.
	anchor, err := ParseDate("June 28, 2025")
	require.NoError(t, err)

	resolved, err := ResolveRelative("tomorrow at 5 PM", anchor)
	require.NoError(t, err)
	assert.Equal(t, "June 29, 2025, 5:00 PM", Human(resolved))
}

func TestHuman(t *testing.T) {
	ts := time.Date(2025, time.June, 30, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "June 30, 2025, 2:00 PM", Human(ts))
}
