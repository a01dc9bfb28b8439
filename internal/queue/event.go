// Package queue defines message payloads exchanged over the message broker.
package queue

// BookedLab is one line item of a committed basket: which lab, when,
// and at what frozen cost.
type BookedLab struct {
    BookingID   uint64  `json:"booking_id"`
    LabID       uint64  `json:"lab_id"`
    LabName     string  `json:"lab_name"`
    BookingDate string  `json:"booking_date"`
    StartTime   string  `json:"start_time"`
    EndTime     string  `json:"end_time"`
    TotalCost   float64 `json:"total_cost"`
}

// BookingCommittedEvent is published after a basket commit succeeds.
// It carries the whole committed batch so downstream consumers can
// log, notify, or feed analytics without querying the primary
// database.
type BookingCommittedEvent struct {
    UserID      uint64      `json:"user_id"`
    UserEmail   string      `json:"user_email"`
    Bookings    []BookedLab `json:"bookings"`
    TotalCost   float64     `json:"total_cost"`
    CommittedAt string      `json:"committed_at"`
}
