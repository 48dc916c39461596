package journal

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 2, 2, 0, 0, 0, 0, time.Local), "2026-02-02"},
		{time.Date(2026, 2, 2, 23, 59, 59, 0, time.Local), "2026-02-02"},
		{time.Date(2025, 12, 31, 12, 0, 0, 0, time.Local), "2025-12-31"},
		{time.Date(2024, 1, 5, 8, 30, 0, 0, time.Local), "2024-01-05"},
	}
	for _, c := range cases {
		if got := Key(c.in); got != c.want {
			t.Errorf("Key(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKeySingleDigitPadding(t *testing.T) {
	got := Key(time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local))
	if got != "2026-03-07" {
		t.Errorf("Key = %q, want zero-padded 2026-03-07", got)
	}
}

func TestTodayMatchesWallClock(t *testing.T) {
	want := time.Now().Format(KeyFormat)
	if got := Today(); got != want {
		t.Errorf("Today() = %q, want %q", got, want)
	}
}
