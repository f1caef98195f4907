package store

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/malvik/dagbok/pkg/models"
)

// The database file is a flat big-endian layout with no header:
//
//	calendarCount:int32
//	repeated calendarCount times:
//	  name:string  color:4 bytes (R G B A)
//	  standardCount:int32   repeated standard records
//	  wholeDayCount:int32   repeated whole-day records
//
// standard := subject:string location:string date start:clock end:clock
// wholeDay := subject:string date
// date     := year:int32 month:int32 day:int32
// clock    := hour:int32 minute:int32
// string   := byteLen:int32 followed by that many UTF-8 bytes
//
// A format change requires a coordinated reader/writer update; there is no
// version field and no migration path.

// Both sides enforce the same limits: the decoder treats anything beyond
// them as corruption, so the encoder must refuse to write it in the first
// place or a saved database would no longer load.
const (
	// maxRecordCount bounds every count field in the file.
	maxRecordCount = 1 << 20
	// maxStringLen bounds every string length in the file.
	maxStringLen = 1 << 16
)

type encoder struct {
	w io.Writer
}

func (e *encoder) encodeCalendars(calendars []*models.Calendar) error {
	if err := e.writeCount(len(calendars), "calendar count"); err != nil {
		return err
	}
	for _, cal := range calendars {
		if err := e.encodeCalendar(cal); err != nil {
			return fmt.Errorf("calendar %q: %w", cal.Name(), err)
		}
	}
	return nil
}

func (e *encoder) encodeCalendar(cal *models.Calendar) error {
	if err := e.writeString(cal.Name()); err != nil {
		return err
	}
	if err := e.writeColor(cal.Color); err != nil {
		return err
	}

	standard := cal.StandardAppointments()
	if err := e.writeCount(len(standard), "standard appointment count"); err != nil {
		return err
	}
	for _, app := range standard {
		if err := e.encodeStandard(app); err != nil {
			return err
		}
	}

	wholeDay := cal.WholeDayAppointments()
	if err := e.writeCount(len(wholeDay), "whole-day appointment count"); err != nil {
		return err
	}
	for _, app := range wholeDay {
		if err := e.encodeWholeDay(app); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeStandard(app *models.StandardAppointment) error {
	if err := e.writeString(app.Subject); err != nil {
		return err
	}
	if err := e.writeString(app.Location); err != nil {
		return err
	}
	if err := e.writeDate(app.Date); err != nil {
		return err
	}
	if err := e.writeClock(app.Start); err != nil {
		return err
	}
	return e.writeClock(app.End)
}

func (e *encoder) encodeWholeDay(app *models.WholeDayAppointment) error {
	if err := e.writeString(app.Subject); err != nil {
		return err
	}
	return e.writeDate(app.Date)
}

func (e *encoder) writeInt32(v int32) error {
	return binary.Write(e.w, binary.BigEndian, v)
}

func (e *encoder) writeCount(n int, field string) error {
	if n > maxRecordCount {
		return fmt.Errorf("%s %d exceeds the limit of %d", field, n, maxRecordCount)
	}
	return e.writeInt32(int32(n))
}

func (e *encoder) writeString(s string) error {
	if len(s) > maxStringLen {
		return fmt.Errorf("string of %d bytes exceeds the limit of %d", len(s), maxStringLen)
	}
	if err := e.writeInt32(int32(len(s))); err != nil {
		return err
	}
	_, err := e.w.Write([]byte(s))
	return err
}

func (e *encoder) writeColor(c models.Color) error {
	_, err := e.w.Write([]byte{c.R, c.G, c.B, c.A})
	return err
}

func (e *encoder) writeDate(d models.Date) error {
	if err := e.writeInt32(int32(d.Year)); err != nil {
		return err
	}
	if err := e.writeInt32(int32(d.Month)); err != nil {
		return err
	}
	return e.writeInt32(int32(d.Day))
}

func (e *encoder) writeClock(c models.ClockTime) error {
	if err := e.writeInt32(int32(c.Hour)); err != nil {
		return err
	}
	return e.writeInt32(int32(c.Minute))
}

type decoder struct {
	r io.Reader
}

// decodeInto reads the full file layout, handing each reconstructed calendar
// to add. Appointments are rebuilt through the model constructors so that
// values that could never have been written by the encoder surface as
// decode errors instead of silently entering the store.
func (d *decoder) decodeInto(add func(*models.Calendar)) error {
	count, err := d.readCount("calendar count")
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		cal, err := d.decodeCalendar()
		if err != nil {
			return fmt.Errorf("calendar %d: %w", i, err)
		}
		add(cal)
	}
	return nil
}

func (d *decoder) decodeCalendar() (*models.Calendar, error) {
	name, err := d.readString("name")
	if err != nil {
		return nil, err
	}
	color, err := d.readColor()
	if err != nil {
		return nil, err
	}
	cal, err := models.NewCalendar(name, color)
	if err != nil {
		return nil, err
	}

	standardCount, err := d.readCount("standard appointment count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < standardCount; i++ {
		app, err := d.decodeStandard()
		if err != nil {
			return nil, fmt.Errorf("standard appointment %d: %w", i, err)
		}
		cal.AddStandardAppointment(app)
	}

	wholeDayCount, err := d.readCount("whole-day appointment count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < wholeDayCount; i++ {
		app, err := d.decodeWholeDay()
		if err != nil {
			return nil, fmt.Errorf("whole-day appointment %d: %w", i, err)
		}
		cal.AddWholeDayAppointment(app)
	}
	return cal, nil
}

func (d *decoder) decodeStandard() (*models.StandardAppointment, error) {
	subject, err := d.readString("subject")
	if err != nil {
		return nil, err
	}
	location, err := d.readString("location")
	if err != nil {
		return nil, err
	}
	date, err := d.readDate()
	if err != nil {
		return nil, err
	}
	start, err := d.readClock()
	if err != nil {
		return nil, err
	}
	end, err := d.readClock()
	if err != nil {
		return nil, err
	}
	return models.NewStandardAppointment(subject, location, date, start, end)
}

func (d *decoder) decodeWholeDay() (*models.WholeDayAppointment, error) {
	subject, err := d.readString("subject")
	if err != nil {
		return nil, err
	}
	date, err := d.readDate()
	if err != nil {
		return nil, err
	}
	return models.NewWholeDayAppointment(subject, date)
}

func (d *decoder) readInt32(field string) (int32, error) {
	var v int32
	if err := binary.Read(d.r, binary.BigEndian, &v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func (d *decoder) readCount(field string) (int, error) {
	v, err := d.readInt32(field)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > maxRecordCount {
		return 0, fmt.Errorf("%s out of range: %d", field, v)
	}
	return int(v), nil
}

func (d *decoder) readString(field string) (string, error) {
	n, err := d.readInt32(field + " length")
	if err != nil {
		return "", err
	}
	if n < 0 || n > maxStringLen {
		return "", fmt.Errorf("%s length out of range: %d", field, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return string(buf), nil
}

func (d *decoder) readColor() (models.Color, error) {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return models.Color{}, fmt.Errorf("color: %w", err)
	}
	return models.Color{R: buf[0], G: buf[1], B: buf[2], A: buf[3]}, nil
}

func (d *decoder) readDate() (models.Date, error) {
	year, err := d.readInt32("year")
	if err != nil {
		return models.Date{}, err
	}
	month, err := d.readInt32("month")
	if err != nil {
		return models.Date{}, err
	}
	day, err := d.readInt32("day")
	if err != nil {
		return models.Date{}, err
	}
	return models.Date{Year: int(year), Month: time.Month(month), Day: int(day)}, nil
}

func (d *decoder) readClock() (models.ClockTime, error) {
	hour, err := d.readInt32("hour")
	if err != nil {
		return models.ClockTime{}, err
	}
	minute, err := d.readInt32("minute")
	if err != nil {
		return models.ClockTime{}, err
	}
	return models.ClockTime{Hour: int(hour), Minute: int(minute)}, nil
}
