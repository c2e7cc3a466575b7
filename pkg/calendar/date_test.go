package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2024 || d.Month != time.March || d.Day != 5 {
		t.Errorf("expected 2024-03-05, got %s", d)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "05/03/2024", "2024-13-01", "2024-02-30", "not-a-date"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestDateString_ZeroPadded(t *testing.T) {
	d := Date{Year: 2024, Month: time.January, Day: 7}
	if d.String() != "2024-01-07" {
		t.Errorf("expected 2024-01-07, got %s", d)
	}
}

func TestDateBuckets(t *testing.T) {
	a, _ := ParseDate("2024-03-05")
	b, _ := ParseDate("2024-03-20")
	c, _ := ParseDate("2024-04-05")

	if !a.SameMonth(b) {
		t.Error("expected same month for 2024-03-05 and 2024-03-20")
	}
	if a.SameMonth(c) {
		t.Error("expected different month for 2024-03-05 and 2024-04-05")
	}
	if !a.SameYear(c) {
		t.Error("expected same year for 2024-03-05 and 2024-04-05")
	}
	if !a.SameDay(a) || a.SameDay(b) {
		t.Error("SameDay mismatch")
	}
}

func TestPrevDay_MonthBoundary(t *testing.T) {
	d, _ := ParseDate("2024-03-01")
	if got := d.PrevDay().String(); got != "2024-02-29" {
		t.Errorf("expected 2024-02-29 (leap year), got %s", got)
	}
	d2, _ := ParseDate("2023-01-01")
	if got := d2.PrevDay().String(); got != "2022-12-31" {
		t.Errorf("expected 2022-12-31, got %s", got)
	}
}

func TestPrevMonth_Clamped(t *testing.T) {
	d, _ := ParseDate("2024-03-31")
	if got := d.PrevMonth().String(); got != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", got)
	}
	d2, _ := ParseDate("2024-01-15")
	if got := d2.PrevMonth().String(); got != "2023-12-15" {
		t.Errorf("expected 2023-12-15, got %s", got)
	}
}

func TestPrevYear_LeapDay(t *testing.T) {
	d, _ := ParseDate("2024-02-29")
	if got := d.PrevYear().String(); got != "2023-02-28" {
		t.Errorf("expected 2023-02-28, got %s", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-03-05")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-03-05"` {
		t.Errorf("expected quoted date string, got %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 9 || tod.Minute != 30 {
		t.Errorf("expected 09:30, got %s", tod)
	}
	if tod.String() != "09:30" {
		t.Errorf("expected zero-padded 09:30, got %s", tod)
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, s := range []string{"", "9h30", "25:00", "10:65"} {
		if _, err := ParseTimeOfDay(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestTimeOfDayBefore(t *testing.T) {
	a, _ := ParseTimeOfDay("08:30")
	b, _ := ParseTimeOfDay("08:45")
	c, _ := ParseTimeOfDay("14:00")
	if !a.Before(b) || !b.Before(c) || c.Before(a) {
		t.Error("Before ordering mismatch")
	}
}

func TestDateBefore(t *testing.T) {
	a, _ := ParseDate("2023-12-31")
	b, _ := ParseDate("2024-01-01")
	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering mismatch")
	}
}
