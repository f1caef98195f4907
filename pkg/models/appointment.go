package models

import (
	"errors"
	"fmt"
	"time"
)

// Date is a calendar day without any time-of-day or timezone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Valid reports whether the date names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && t.Month() == d.Month && t.Day() == d.Day
}

// Time returns midnight of the date in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// Valid reports whether the clock time is within a single day.
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// Before reports whether c is strictly earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Hour*60+c.Minute < other.Hour*60+other.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

var (
	// ErrEmptySubject is returned when an appointment has no subject.
	ErrEmptySubject = errors.New("appointment subject must not be empty")
	// ErrInvalidDate is returned when an appointment date is not a real day.
	ErrInvalidDate = errors.New("appointment date is invalid")
	// ErrInvalidTimeSpan is returned when an appointment ends before it starts.
	ErrInvalidTimeSpan = errors.New("appointment end must not be before its start")
)

// StandardAppointment is a timed appointment on a single day.
type StandardAppointment struct {
	Subject  string
	Location string
	Date     Date
	Start    ClockTime
	End      ClockTime
}

// NewStandardAppointment builds a timed appointment, validating the subject,
// date and time span.
func NewStandardAppointment(subject, location string, date Date, start, end ClockTime) (*StandardAppointment, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}
	if !date.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	if !start.Valid() || !end.Valid() || end.Before(start) {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidTimeSpan, start, end)
	}
	return &StandardAppointment{
		Subject:  subject,
		Location: location,
		Date:     date,
		Start:    start,
		End:      end,
	}, nil
}

// StartTime returns the appointment's start as a time.Time in loc.
func (a *StandardAppointment) StartTime(loc *time.Location) time.Time {
	return time.Date(a.Date.Year, a.Date.Month, a.Date.Day, a.Start.Hour, a.Start.Minute, 0, 0, loc)
}

// EndTime returns the appointment's end as a time.Time in loc.
func (a *StandardAppointment) EndTime(loc *time.Location) time.Time {
	return time.Date(a.Date.Year, a.Date.Month, a.Date.Day, a.End.Hour, a.End.Minute, 0, 0, loc)
}

// WholeDayAppointment is an appointment that covers an entire day.
type WholeDayAppointment struct {
	Subject string
	Date    Date
}

// NewWholeDayAppointment builds a whole-day appointment, validating the
// subject and date.
func NewWholeDayAppointment(subject string, date Date) (*WholeDayAppointment, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}
	if !date.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	return &WholeDayAppointment{Subject: subject, Date: date}, nil
}
