package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/iliyamo/lab-room-reservation/internal/model"
    "github.com/iliyamo/lab-room-reservation/internal/reservation"
)

// ReservationStore is the MySQL implementation of the reservation
// engine's transactional write surface.  Each commit runs as one
// serializable transaction; the conflict checks take row locks with
// FOR UPDATE so two concurrent commits targeting the same slot cannot
// both pass their guards.
type ReservationStore struct {
    db *sql.DB
}

// NewReservationStore returns a ReservationStore bound to the given
// database.
func NewReservationStore(db *sql.DB) *ReservationStore { return &ReservationStore{db: db} }

// InTx runs fn inside a single serializable transaction.  The
// transaction commits only when fn returns nil; on any error or panic
// it is rolled back and none of fn's writes survive.
func (s *ReservationStore) InTx(ctx context.Context, fn func(tx reservation.Tx) error) error {
    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        return fmt.Errorf("begin transaction: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := fn(&reservationTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return fmt.Errorf("commit transaction: %w", err)
    }
    committed = true
    return nil
}

type reservationTx struct {
    tx *sql.Tx
}

// ActiveBookingExists locks and counts the user's pending or confirmed
// bookings for the lab on the date.
func (t *reservationTx) ActiveBookingExists(ctx context.Context, userID, labID uint64, date string) (bool, error) {
    const q = `SELECT COUNT(*) FROM bookings
               WHERE user_id = ? AND lab_id = ? AND booking_date = ?
                 AND status IN (?, ?)
               FOR UPDATE`
    var n int
    err := t.tx.QueryRowContext(ctx, q, userID, labID, date,
        model.BookingStatusPending, model.BookingStatusConfirmed).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// OverlapExists locks and counts active bookings for the lab whose
// half-open time range intersects the requested window on the same
// date.
func (t *reservationTx) OverlapExists(ctx context.Context, labID uint64, w reservation.Window) (bool, error) {
    const q = `SELECT COUNT(*) FROM bookings
               WHERE lab_id = ? AND booking_date = ?
                 AND status IN (?, ?)
                 AND start_time < ? AND ? < end_time
               FOR UPDATE`
    var n int
    err := t.tx.QueryRowContext(ctx, q, labID, w.Date,
        model.BookingStatusPending, model.BookingStatusConfirmed,
        w.End, w.Start).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// InsertBooking persists one booking row inside the transaction and
// returns its generated id.
func (t *reservationTx) InsertBooking(ctx context.Context, b *model.Booking) (uint64, error) {
    const q = `INSERT INTO bookings (user_id, lab_id, booking_date, start_time, end_time, purpose, total_cost, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        b.UserID, b.LabID, b.BookingDate, b.StartTime, b.EndTime,
        b.Purpose, b.TotalCost, b.Status)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}
