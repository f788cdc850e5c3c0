package main

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, loc)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"now", now},
		{"2024-03-09T08:00:00Z", time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)},
		{"2024-03-09 08:15:30", time.Date(2024, 3, 9, 8, 15, 30, 0, loc)},
		{"2024-03-09 08:15", time.Date(2024, 3, 9, 8, 15, 0, 0, loc)},
		{"2024-03-09", time.Date(2024, 3, 9, 0, 0, 0, 0, loc)},
		{"09:45", time.Date(2024, 3, 10, 9, 45, 0, 0, loc)},
		{"-30m", now.Add(-30 * time.Minute)},
		{"1h", now.Add(time.Hour)},
	}
	for _, tc := range cases {
		got, err := parseWhen(tc.in, now)
		if err != nil {
			t.Fatalf("parseWhen(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parseWhen(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "yesterday-ish", "25:99"} {
		if _, err := parseWhen(bad, now); err == nil {
			t.Fatalf("parseWhen(%q) should fail", bad)
		}
	}
}

func TestOptionalTimeEmptyIsNil(t *testing.T) {
	t.Parallel()
	got, err := optionalTime("  ", time.Now())
	if err != nil || got != nil {
		t.Fatalf("optionalTime(blank) = %v, %v", got, err)
	}
}
