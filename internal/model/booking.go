package model

import "time"

// Booking status values as stored in bookings.status.  A booking is
// created directly as confirmed by the reservation engine; there is no
// separate approval step.  Cancelled is terminal.  Completed is never
// written by the engine; it is derived at read time from the booking
// window (see EffectiveStatus).
const (
    BookingStatusPending   = "pending"
    BookingStatusConfirmed = "confirmed"
    BookingStatusCancelled = "cancelled"
    BookingStatusCompleted = "completed"
)

// Wire formats for the DATE and TIME columns of the bookings table.
// All values are UTC.
const (
    DateFormat = "2006-01-02"
    TimeFormat = "15:04:05"

    // EndOfDay is the TIME label a window ending at midnight carries.
    EndOfDay = "24:00:00"
)

// Booking records a committed reservation of one lab for one time
// window on one date.  Rows are written only by the reservation
// engine's commit operation; handlers never construct them directly.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – member who owns the booking.
//  LabID       – lab being reserved.
//  BookingDate – calendar date of the reservation (YYYY-MM-DD).
//  StartTime   – window start (HH:MM:SS), inclusive.
//  EndTime     – window end (HH:MM:SS), exclusive; always after StartTime.
//  Purpose     – free text supplied at commit time.
//  TotalCost   – hourly_rate × duration in hours, frozen at commit.
//  Status      – one of the BookingStatus* constants.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
    ID          uint64    // bookings.id
    UserID      uint64    // bookings.user_id
    LabID       uint64    // bookings.lab_id
    BookingDate string    // bookings.booking_date
    StartTime   string    // bookings.start_time
    EndTime     string    // bookings.end_time
    Purpose     string    // bookings.purpose
    TotalCost   float64   // bookings.total_cost
    Status      string    // bookings.status
    CreatedAt   time.Time // bookings.created_at
    UpdatedAt   time.Time // bookings.updated_at
}

// IsActive reports whether the booking still occupies its slot for
// conflict purposes, i.e. status is pending or confirmed.
func (b *Booking) IsActive() bool {
    return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// WindowEnd combines BookingDate and EndTime into a UTC instant.  The
// end-of-day label "24:00:00" resolves to midnight of the next day.
// An error is only possible when the row contains malformed values,
// which the engine never writes.
func (b *Booking) WindowEnd() (time.Time, error) {
    if b.EndTime == EndOfDay {
        day, err := time.Parse(DateFormat, b.BookingDate)
        if err != nil {
            return time.Time{}, err
        }
        return day.Add(24 * time.Hour), nil
    }
    return time.Parse(DateFormat+" "+TimeFormat, b.BookingDate+" "+b.EndTime)
}

// EffectiveStatus projects the completed state at read time: an active
// booking whose window has fully passed reads as completed.  The stored
// status is never mutated for completion; there is no sweep job.
func (b *Booking) EffectiveStatus(now time.Time) string {
    if !b.IsActive() {
        return b.Status
    }
    end, err := b.WindowEnd()
    if err != nil {
        return b.Status
    }
    if !end.After(now.UTC()) {
        return BookingStatusCompleted
    }
    return b.Status
}

// CanBeCancelled reports whether a cancel request is a legal transition
// at the given instant.  Cancelling an already cancelled booking, or
// one whose window has passed, is an invalid transition.
func (b *Booking) CanBeCancelled(now time.Time) bool {
    return b.EffectiveStatus(now) == BookingStatusPending ||
        b.EffectiveStatus(now) == BookingStatusConfirmed
}
