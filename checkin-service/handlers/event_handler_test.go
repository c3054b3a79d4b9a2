package handlers

import (
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"RFC3339", "2026-09-12T18:30:00Z", time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC)},
		{"datetime-local input", "2026-09-12T18:30", time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC)},
		{"date only", "2026-09-12", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseEventDate(tc.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("parseEventDate(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestParseEventDateInvalid(t *testing.T) {
	if _, err := parseEventDate("next tuesday"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
