package model

import "time"

// Lab status values as stored in the labs.status column.  Only labs in
// the active state may be placed in a basket and committed; inactive
// and maintenance labs stay visible to administrators but are rejected
// by the reservation engine.
const (
    LabStatusActive      = "active"
    LabStatusInactive    = "inactive"
    LabStatusMaintenance = "maintenance"
)

// Lab represents a bookable laboratory room as stored in the `labs`
// table.  Bookings reference labs by ID and block deletion, so the
// record carries stable identity for the lifetime of its bookings.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable room name.
//  Description – optional free text shown on the browse page.
//  Capacity    – maximum number of occupants (positive).
//  HourlyRate  – price per hour in the site currency, two decimals.
//  Status      – one of the LabStatus* constants.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Lab struct {
    ID          uint64    // labs.id
    Name        string    // labs.name
    Description string    // labs.description
    Capacity    uint32    // labs.capacity
    HourlyRate  float64   // labs.hourly_rate
    Status      string    // labs.status
    CreatedAt   time.Time // labs.created_at
    UpdatedAt   time.Time // labs.updated_at
}

// IsActive reports whether the lab can currently be booked.
func (l *Lab) IsActive() bool {
    return l.Status == LabStatusActive
}

// ValidLabStatus reports whether s is one of the accepted status values.
// Used by the admin handlers before writing a lab record.
func ValidLabStatus(s string) bool {
    switch s {
    case LabStatusActive, LabStatusInactive, LabStatusMaintenance:
        return true
    }
    return false
}
