package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/malvik/dagbok/pkg/models"
)

func buildCalendar(t *testing.T, name string) *models.Calendar {
	t.Helper()
	cal, err := models.NewCalendar(name, models.RGB(0x33, 0x66, 0x99))
	if err != nil {
		t.Fatalf("NewCalendar() returned an error: %v", err)
	}

	std, err := models.NewStandardAppointment(
		"Dentist", "Main street 4",
		models.Date{Year: 2026, Month: time.April, Day: 20},
		models.ClockTime{Hour: 14, Minute: 0},
		models.ClockTime{Hour: 14, Minute: 45},
	)
	if err != nil {
		t.Fatalf("NewStandardAppointment() returned an error: %v", err)
	}
	cal.AddStandardAppointment(std)

	whole, err := models.NewWholeDayAppointment("Midsummer",
		models.Date{Year: 2026, Month: time.June, Day: 19})
	if err != nil {
		t.Fatalf("NewWholeDayAppointment() returned an error: %v", err)
	}
	cal.AddWholeDayAppointment(whole)
	return cal
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	src := buildCalendar(t, "Private")

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode() returned an error: %v", err)
	}

	text := buf.String()
	if !strings.Contains(text, "X-WR-CALNAME:Private") {
		t.Error("encoded stream should carry the calendar name")
	}
	if !strings.Contains(text, "SUMMARY:Dentist") {
		t.Error("encoded stream should carry the timed event summary")
	}

	calendars, err := Decode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if len(calendars) != 1 {
		t.Fatalf("Decode() returned %d calendars, want 1", len(calendars))
	}

	got := calendars[0]
	if got.Name() != "Private" {
		t.Errorf("name = %q, want %q", got.Name(), "Private")
	}
	if got.Color != src.Color {
		t.Errorf("color = %+v, want %+v", got.Color, src.Color)
	}

	std := got.StandardAppointments()
	if len(std) != 1 {
		t.Fatalf("decoded %d standard appointments, want 1", len(std))
	}
	want := src.StandardAppointments()[0]
	if *std[0] != *want {
		t.Errorf("standard appointment = %+v, want %+v", *std[0], *want)
	}

	whole := got.WholeDayAppointments()
	if len(whole) != 1 {
		t.Fatalf("decoded %d whole-day appointments, want 1", len(whole))
	}
	if whole[0].Subject != "Midsummer" {
		t.Errorf("whole-day subject = %q, want %q", whole[0].Subject, "Midsummer")
	}
	if whole[0].Date != (models.Date{Year: 2026, Month: time.June, Day: 19}) {
		t.Errorf("whole-day date = %v, want 2026-06-19", whole[0].Date)
	}
}

func TestEncodeAll_MultipleCalendars(t *testing.T) {
	var buf bytes.Buffer
	src := []*models.Calendar{buildCalendar(t, "Work"), buildCalendar(t, "Personal")}
	if err := EncodeAll(&buf, src); err != nil {
		t.Fatalf("EncodeAll() returned an error: %v", err)
	}

	calendars, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if len(calendars) != 2 {
		t.Fatalf("Decode() returned %d calendars, want 2", len(calendars))
	}
	if calendars[0].Name() != "Work" || calendars[1].Name() != "Personal" {
		t.Errorf("calendar names = %q, %q; want Work, Personal",
			calendars[0].Name(), calendars[1].Name())
	}
}

func TestDecode_EmptyStream(t *testing.T) {
	calendars, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode() of empty input returned an error: %v", err)
	}
	if len(calendars) != 0 {
		t.Errorf("Decode() returned %d calendars, want 0", len(calendars))
	}
}
