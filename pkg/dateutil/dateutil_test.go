package dateutil

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		t        time.Time
		expected int
	}{
		{
			name:     "same day",
			anchor:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			t:        time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "next day",
			anchor:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			t:        time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "negative offset",
			anchor:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			t:        time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
			expected: -3,
		},
		{
			name:     "across DST spring forward",
			anchor:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
			t:        time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
			expected: 3,
		},
		{
			name:     "late evening vs early morning",
			anchor:   time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC),
			t:        time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "across year boundary",
			anchor:   time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC),
			t:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.anchor, tt.t); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDaysBetween_NonUTCInputs(t *testing.T) {
	// A late-evening time in a west-of-UTC zone lands on the next UTC date.
	loc := time.FixedZone("UTC-5", -5*3600)
	anchor := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	local := time.Date(2024, 3, 15, 22, 30, 0, 0, loc) // 2024-03-16T03:30Z

	if got := DaysBetween(anchor, local); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestClock(t *testing.T) {
	stored := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	if got := Clock(stored); got != "14:30" {
		t.Errorf("expected 14:30, got %q", got)
	}
}

func TestCombine(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	got, err := Combine(date, "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatLocal(got) != "2025-01-10T14:30:00" {
		t.Errorf("expected 2025-01-10T14:30:00, got %q", FormatLocal(got))
	}
}

func TestCombine_InvalidClock(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, clock := range []string{"", "25:00", "12:60", "noon", "9:5"} {
		if _, err := Combine(date, clock); err == nil {
			t.Errorf("expected error for clock %q", clock)
		}
	}
}

func TestAddDays(t *testing.T) {
	date := time.Date(2024, 2, 27, 10, 0, 0, 0, time.UTC)

	got := AddDays(date, 3)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) // leap year
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "9:05", "09:05", "23:59", "14:30"}
	for _, s := range valid {
		if !ValidClock(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []string{"24:00", "12:5", "1230", "12:30:00", ""}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
