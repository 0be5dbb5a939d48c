package dates

import (
	"testing"
	"time"
)

func TestParseNormalizesToUTCNoon(t *testing.T) {
	d, err := Parse("2024-03-10")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if d.Hour() != 12 || d.Minute() != 0 || d.Second() != 0 {
		t.Errorf("Expected 12:00:00, got %v", d)
	}
	if d.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", d.Location())
	}
	if Format(d) != "2024-03-10" {
		t.Errorf("Expected round-trip 2024-03-10, got %s", Format(d))
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2024-3-10", "10.03.2024", "not-a-date"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestNextMissingDate(t *testing.T) {
	next, err := NextMissingDate("2024-03-10")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if Format(next) != "2024-03-11" {
		t.Errorf("Expected 2024-03-11, got %s", Format(next))
	}
}

func TestAdvanceAcrossMonthAndYear(t *testing.T) {
	cases := map[string]string{
		"2024-02-28": "2024-02-29", // leap year
		"2023-02-28": "2023-03-01",
		"2024-12-31": "2025-01-01",
	}

	for in, want := range cases {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%s): %v", in, err)
		}
		if got := Format(Advance(d)); got != want {
			t.Errorf("Advance(%s) = %s, want %s", in, got, want)
		}
	}
}

// Stepping a full year lands exactly on Jan 1 of the next year, including
// across both daylight-saving transition dates.
func TestAdvanceFullYear(t *testing.T) {
	d, err := Parse("2023-01-01")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 365; i++ {
		prev := d
		d = Advance(d)
		if !d.After(prev) {
			t.Fatalf("Day did not advance at step %d: %v -> %v", i, prev, d)
		}
	}

	if Format(d) != "2024-01-01" {
		t.Errorf("Expected 2024-01-01 after 365 steps, got %s", Format(d))
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  string
	}{
		{2024, time.February, "2024-02-29"},
		{2023, time.February, "2023-02-28"},
		{2024, time.December, "2024-12-31"},
		{2024, time.April, "2024-04-30"},
	}

	for _, c := range cases {
		if got := Format(LastDayOfMonth(c.year, c.month)); got != c.want {
			t.Errorf("LastDayOfMonth(%d, %v) = %s, want %s", c.year, c.month, got, c.want)
		}
	}
}
