package models

import (
	"errors"
	"strings"
)

// ErrInvalidName is returned when a calendar name is empty or blank.
var ErrInvalidName = errors.New("calendar name must not be blank")

// Calendar is a named, colored collection of appointments. The name is fixed
// at construction time since it identifies the calendar within a store.
type Calendar struct {
	name    string
	Color   Color
	Enabled bool

	standard []*StandardAppointment
	wholeDay []*WholeDayAppointment
}

// NewCalendar creates an enabled calendar with the given name and color.
// The name must contain at least one non-whitespace character.
func NewCalendar(name string, color Color) (*Calendar, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	return &Calendar{name: name, Color: color, Enabled: true}, nil
}

// Name returns the calendar's identifying name.
func (c *Calendar) Name() string {
	return c.name
}

// AddStandardAppointment appends a timed appointment to the calendar.
func (c *Calendar) AddStandardAppointment(a *StandardAppointment) {
	c.standard = append(c.standard, a)
}

// AddWholeDayAppointment appends a whole-day appointment to the calendar.
func (c *Calendar) AddWholeDayAppointment(a *WholeDayAppointment) {
	c.wholeDay = append(c.wholeDay, a)
}

// StandardAppointments returns a snapshot of the timed appointments in
// insertion order.
func (c *Calendar) StandardAppointments() []*StandardAppointment {
	out := make([]*StandardAppointment, len(c.standard))
	copy(out, c.standard)
	return out
}

// WholeDayAppointments returns a snapshot of the whole-day appointments in
// insertion order.
func (c *Calendar) WholeDayAppointments() []*WholeDayAppointment {
	out := make([]*WholeDayAppointment, len(c.wholeDay))
	copy(out, c.wholeDay)
	return out
}

// NumberOfStandardAppointments returns how many timed appointments the
// calendar holds.
func (c *Calendar) NumberOfStandardAppointments() int {
	return len(c.standard)
}

// NumberOfWholeDayAppointments returns how many whole-day appointments the
// calendar holds.
func (c *Calendar) NumberOfWholeDayAppointments() int {
	return len(c.wholeDay)
}
