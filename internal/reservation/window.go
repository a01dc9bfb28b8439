package reservation

import (
    "math"
    "time"

    "github.com/iliyamo/lab-room-reservation/internal/model"
)

// Window is the concrete slot a booking occupies: one calendar date
// with a half-open [Start, End) time range.  All values are UTC and
// use the bookings table wire formats.
type Window struct {
    Date  string // YYYY-MM-DD
    Start string // HH:MM:SS inclusive
    End   string // HH:MM:SS exclusive
}

// defaultDurationHours is the booking length applied when a basket
// item carries no explicit window.
const defaultDurationHours = 2

// DefaultWindow books the top of the current hour for two hours, on
// today's date.  Near midnight the start is pulled back so the window
// stays inside the calendar date; a booking never spans two dates.
func DefaultWindow(now time.Time) Window {
    now = now.UTC()
    start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)
    if start.Hour() > 24-defaultDurationHours {
        start = time.Date(now.Year(), now.Month(), now.Day(), 24-defaultDurationHours, 0, 0, 0, time.UTC)
    }
    end := start.Add(defaultDurationHours * time.Hour)
    return Window{
        Date:  start.Format(model.DateFormat),
        Start: start.Format(model.TimeFormat),
        End:   windowEndLabel(end),
    }
}

// windowEndLabel formats an end instant as a TIME value on the window's
// date.  Midnight closes the date out as 24:00:00, which MySQL's TIME
// type accepts and which keeps End > Start.
func windowEndLabel(end time.Time) string {
    if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 {
        return model.EndOfDay
    }
    return end.Format(model.TimeFormat)
}

// Validate checks an explicitly requested window: parseable values, a
// strictly positive duration and an end instant that has not already
// passed relative to now.  The zero-value Window is not valid; callers
// decide beforehand whether to fall back to DefaultWindow.
func (w Window) Validate(now time.Time) error {
    day, err := time.Parse(model.DateFormat, w.Date)
    if err != nil {
        return &InvalidWindowError{Reason: "booking_date must be YYYY-MM-DD"}
    }
    if w.Hours() <= 0 {
        return &InvalidWindowError{Reason: "end_time must be after start_time"}
    }
    today := now.UTC().Truncate(24 * time.Hour)
    if day.Before(today) {
        return &InvalidWindowError{Reason: "booking_date is in the past"}
    }
    // Hours() > 0 guarantees both bounds parse, so the offset is exact.
    // A window on today's date that has already ended would be born
    // completed; reject it the same way as a past date.
    end, _ := parseClock(w.End)
    if !day.Add(end).After(now.UTC()) {
        return &InvalidWindowError{Reason: "booking window has already passed"}
    }
    return nil
}

// Hours returns the window duration in hours, or 0 when either bound
// is malformed.  This is the duration the commit cost is computed
// from.
func (w Window) Hours() float64 {
    start, err := parseClock(w.Start)
    if err != nil {
        return 0
    }
    end, err := parseClock(w.End)
    if err != nil {
        return 0
    }
    return (end - start).Hours()
}

// Overlaps reports whether two half-open windows on the same date
// share any instant.  Windows on different dates never overlap.
func (w Window) Overlaps(other Window) bool {
    if w.Date != other.Date {
        return false
    }
    return w.Start < other.End && other.Start < w.End
}

// Cost freezes the total for a window at the given hourly rate,
// rounded to two decimals the way the booking row stores it.
func (w Window) Cost(hourlyRate float64) float64 {
    return math.Round(hourlyRate*w.Hours()*100) / 100
}

// parseClock converts an HH:MM:SS label into an offset from midnight.
// The 24:00:00 end-of-date label is accepted as a full day.
func parseClock(s string) (time.Duration, error) {
    if s == model.EndOfDay {
        return 24 * time.Hour, nil
    }
    t, err := time.Parse(model.TimeFormat, s)
    if err != nil {
        return 0, err
    }
    return time.Duration(t.Hour())*time.Hour +
        time.Duration(t.Minute())*time.Minute +
        time.Duration(t.Second())*time.Second, nil
}
