// Package repository holds the data access layer: MySQL repositories
// for labs, bookings, users and refresh tokens, the Redis-backed
// basket store, and the transactional store the reservation engine
// commits through.  Sentinel errors defined here let handlers map
// failure scenarios onto HTTP responses without string matching.
package repository

import "errors"

// ErrLabNotFound is returned when a lab lookup by id matches no row.
var ErrLabNotFound = errors.New("lab not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registration collides with an
// existing email address (unique index on users.email).
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete cannot be performed because of
// dependent records, such as removing a lab that still has bookings.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
