// Package ics converts calendars to and from the iCalendar interchange
// format, for moving data in and out of the database file.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/malvik/dagbok/pkg/models"
)

const productID = "-//dagbok//dagbok//EN"

// Calendar name and color travel in the widely used non-standard props.
const (
	propCalendarName  = "X-WR-CALNAME"
	propCalendarColor = "X-APPLE-CALENDAR-COLOR"
)

// Encode writes one calendar as a VCALENDAR stream. Timed appointments
// become local-time events; whole-day appointments become date-valued events
// ending the following day.
func Encode(w io.Writer, cal *models.Calendar) error {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropProductID, productID)
	out.Props.SetText(propCalendarName, cal.Name())
	out.Props.SetText(propCalendarColor, cal.Color.Hex())

	now := time.Now()
	for _, app := range cal.StandardAppointments() {
		event := ical.NewComponent(ical.CompEvent)
		event.Props.SetText(ical.PropUID, uuid.New().String()+"@dagbok")
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetText(ical.PropSummary, app.Subject)
		if app.Location != "" {
			event.Props.SetText(ical.PropLocation, app.Location)
		}
		event.Props.SetDateTime(ical.PropDateTimeStart, app.StartTime(time.Local))
		event.Props.SetDateTime(ical.PropDateTimeEnd, app.EndTime(time.Local))
		out.Children = append(out.Children, event)
	}

	for _, app := range cal.WholeDayAppointments() {
		event := ical.NewComponent(ical.CompEvent)
		event.Props.SetText(ical.PropUID, uuid.New().String()+"@dagbok")
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetText(ical.PropSummary, app.Subject)

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(app.Date.Time(time.UTC))
		event.Props.Set(start)
		end := ical.NewProp(ical.PropDateTimeEnd)
		end.SetDate(app.Date.Time(time.UTC).AddDate(0, 0, 1))
		event.Props.Set(end)

		out.Children = append(out.Children, event)
	}

	return ical.NewEncoder(w).Encode(out)
}

// EncodeAll writes each calendar as its own VCALENDAR, back to back.
func EncodeAll(w io.Writer, calendars []*models.Calendar) error {
	for _, cal := range calendars {
		if err := Encode(w, cal); err != nil {
			return fmt.Errorf("encoding calendar %q: %w", cal.Name(), err)
		}
	}
	return nil
}

// Decode reads every VCALENDAR from r and rebuilds model calendars. Events
// without a summary or start time are skipped, matching how feeds in the
// wild carry placeholder components.
func Decode(r io.Reader) ([]*models.Calendar, error) {
	dec := ical.NewDecoder(r)
	var out []*models.Calendar
	for {
		in, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding iCalendar stream: %w", err)
		}
		cal, err := fromICal(in)
		if err != nil {
			return nil, err
		}
		out = append(out, cal)
	}
	return out, nil
}

func fromICal(in *ical.Calendar) (*models.Calendar, error) {
	name := "Imported calendar"
	if prop := in.Props.Get(propCalendarName); prop != nil && strings.TrimSpace(prop.Value) != "" {
		name = prop.Value
	}

	color := models.RGB(0x4c, 0x6e, 0xf5)
	if prop := in.Props.Get(propCalendarColor); prop != nil {
		if parsed, err := models.ParseColor(prop.Value); err == nil {
			color = parsed
		}
	}

	cal, err := models.NewCalendar(name, color)
	if err != nil {
		return nil, fmt.Errorf("calendar %q: %w", name, err)
	}

	for _, comp := range in.Children {
		if comp.Name != ical.CompEvent {
			continue
		}
		if err := addEvent(cal, comp); err != nil {
			return nil, fmt.Errorf("calendar %q: %w", name, err)
		}
	}
	return cal, nil
}

func addEvent(cal *models.Calendar, comp *ical.Component) error {
	summary := ""
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		summary = prop.Value
	}
	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if summary == "" || startProp == nil {
		return nil
	}

	start, err := startProp.DateTime(time.Local)
	if err != nil {
		return fmt.Errorf("event %q: start: %w", summary, err)
	}

	if isDateValued(startProp) {
		app, err := models.NewWholeDayAppointment(summary, models.DateOf(start))
		if err != nil {
			return fmt.Errorf("event %q: %w", summary, err)
		}
		cal.AddWholeDayAppointment(app)
		return nil
	}

	end := start
	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := endProp.DateTime(time.Local); err == nil {
			end = t
		}
	}
	// Multi-day timed events are clamped to their first day; the timed
	// appointment shape covers a single day only.
	endClock := models.ClockTime{Hour: end.Hour(), Minute: end.Minute()}
	if models.DateOf(end) != models.DateOf(start) {
		endClock = models.ClockTime{Hour: 23, Minute: 59}
	}

	location := ""
	if prop := comp.Props.Get(ical.PropLocation); prop != nil {
		location = prop.Value
	}

	app, err := models.NewStandardAppointment(
		summary,
		location,
		models.DateOf(start),
		models.ClockTime{Hour: start.Hour(), Minute: start.Minute()},
		endClock,
	)
	if err != nil {
		return fmt.Errorf("event %q: %w", summary, err)
	}
	cal.AddStandardAppointment(app)
	return nil
}

func isDateValued(prop *ical.Prop) bool {
	return strings.EqualFold(prop.Params.Get(ical.ParamValue), "DATE")
}
