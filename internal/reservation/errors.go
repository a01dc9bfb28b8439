// Package reservation owns the booking lifecycle: converting a basket
// of lab picks into committed bookings atomically, and the legal
// status transitions afterwards.  It is the only writer of booking
// rows; handlers and admin tooling go through this package or through
// read-only repository queries.
package reservation

import (
    "errors"
    "fmt"
)

// ErrEmptyBasket is returned when Commit is called with no items.
// Nothing is validated or written in that case.
var ErrEmptyBasket = errors.New("reservation: basket is empty")

// ErrForbidden is returned when an actor tries to operate on a booking
// they do not own without the admin role.  Handlers translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("reservation: forbidden")

// ErrStorage wraps infrastructure failures (transaction aborts,
// connectivity).  The cause is retained for logging but callers only
// surface a generic message; the engine never retries on its own.
var ErrStorage = errors.New("reservation: storage failure")

// LabUnavailableError aborts a commit when a basket item references a
// lab that no longer exists or is not in the active state.  The whole
// batch fails; no rows are written.
type LabUnavailableError struct {
    LabID uint64
}

func (e *LabUnavailableError) Error() string {
    return fmt.Sprintf("reservation: lab %d is not available for booking", e.LabID)
}

// SlotConflictError aborts a commit when the requested slot collides
// with an existing pending or confirmed booking: either the user
// already holds a booking for the lab on that date, or the requested
// window overlaps another active booking for the lab.
type SlotConflictError struct {
    LabID uint64
    Date  string
}

func (e *SlotConflictError) Error() string {
    return fmt.Sprintf("reservation: lab %d already has a conflicting booking on %s", e.LabID, e.Date)
}

// InvalidWindowError rejects an explicitly requested window that is
// malformed, inverted, or on a past date.
type InvalidWindowError struct {
    Reason string
}

func (e *InvalidWindowError) Error() string {
    return "reservation: invalid booking window: " + e.Reason
}

// InvalidTransitionError is returned when a status change is not legal
// from the booking's current (projected) state, e.g. cancelling a
// booking that is already cancelled or whose window has passed.
type InvalidTransitionError struct {
    BookingID uint64
    From      string
    To        string
}

func (e *InvalidTransitionError) Error() string {
    return fmt.Sprintf("reservation: booking %d cannot move from %s to %s", e.BookingID, e.From, e.To)
}

// NotFoundError reports a missing entity by name and id.
type NotFoundError struct {
    Entity string
    ID     uint64
}

func (e *NotFoundError) Error() string {
    return fmt.Sprintf("reservation: %s %d not found", e.Entity, e.ID)
}
