package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewCalendar_RejectsBlankNames(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := NewCalendar(name, RGB(1, 2, 3)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("NewCalendar(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestNewCalendar_EnabledByDefault(t *testing.T) {
	cal, err := NewCalendar("Work", RGB(0xff, 0, 0))
	if err != nil {
		t.Fatalf("NewCalendar() returned an error: %v", err)
	}
	if !cal.Enabled {
		t.Error("new calendar should be enabled")
	}
	if cal.Name() != "Work" {
		t.Errorf("Name() = %q, want %q", cal.Name(), "Work")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1a2b3c")
	if err != nil {
		t.Fatalf("ParseColor(#1a2b3c) returned an error: %v", err)
	}
	want := Color{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}
	if c != want {
		t.Errorf("ParseColor(#1a2b3c) = %+v, want %+v", c, want)
	}

	c, err = ParseColor("1a2b3c80")
	if err != nil {
		t.Fatalf("ParseColor(1a2b3c80) returned an error: %v", err)
	}
	if c.A != 0x80 {
		t.Errorf("alpha = %#x, want 0x80", c.A)
	}

	for _, bad := range []string{"", "#12345", "#zzzzzz", "red"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestColorHex_RoundTrip(t *testing.T) {
	for _, s := range []string{"#1a2b3c", "#1a2b3c80"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q) returned an error: %v", s, err)
		}
		if got := c.Hex(); got != s {
			t.Errorf("Hex() = %q, want %q", got, s)
		}
	}
}

func TestNewStandardAppointment_Validation(t *testing.T) {
	date := Date{Year: 2026, Month: time.March, Day: 14}
	start := ClockTime{Hour: 9, Minute: 0}
	end := ClockTime{Hour: 10, Minute: 30}

	if _, err := NewStandardAppointment("", "office", date, start, end); !errors.Is(err, ErrEmptySubject) {
		t.Errorf("empty subject: error = %v, want ErrEmptySubject", err)
	}

	badDate := Date{Year: 2026, Month: time.February, Day: 30}
	if _, err := NewStandardAppointment("Standup", "", badDate, start, end); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Feb 30: error = %v, want ErrInvalidDate", err)
	}

	if _, err := NewStandardAppointment("Standup", "", date, end, start); !errors.Is(err, ErrInvalidTimeSpan) {
		t.Errorf("end before start: error = %v, want ErrInvalidTimeSpan", err)
	}

	app, err := NewStandardAppointment("Standup", "office", date, start, end)
	if err != nil {
		t.Fatalf("valid appointment returned an error: %v", err)
	}
	if app.StartTime(time.UTC).Hour() != 9 {
		t.Errorf("StartTime hour = %d, want 9", app.StartTime(time.UTC).Hour())
	}
}

func TestNewWholeDayAppointment_Validation(t *testing.T) {
	if _, err := NewWholeDayAppointment("", Date{Year: 2026, Month: time.May, Day: 1}); !errors.Is(err, ErrEmptySubject) {
		t.Errorf("empty subject: error = %v, want ErrEmptySubject", err)
	}
	if _, err := NewWholeDayAppointment("Holiday", Date{Year: 2026, Month: 13, Day: 1}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("month 13: error = %v, want ErrInvalidDate", err)
	}
}

func TestCalendar_AppointmentSnapshots(t *testing.T) {
	cal, err := NewCalendar("Personal", RGB(0, 0xff, 0))
	if err != nil {
		t.Fatalf("NewCalendar() returned an error: %v", err)
	}

	app, err := NewWholeDayAppointment("Holiday", Date{Year: 2026, Month: time.June, Day: 6})
	if err != nil {
		t.Fatalf("NewWholeDayAppointment() returned an error: %v", err)
	}
	cal.AddWholeDayAppointment(app)

	snapshot := cal.WholeDayAppointments()
	snapshot[0] = nil
	if cal.WholeDayAppointments()[0] != app {
		t.Error("mutating the returned slice must not affect the calendar")
	}
	if cal.NumberOfWholeDayAppointments() != 1 {
		t.Errorf("NumberOfWholeDayAppointments() = %d, want 1", cal.NumberOfWholeDayAppointments())
	}
}
