package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/lab-room-reservation/internal/model"
)

// BookingRepo provides read and lifecycle access to the `bookings`
// table.  Rows are only ever created through the reservation engine's
// transactional store; this repository covers everything after that:
// member history, admin filtering, reports, cancellation and the
// destructive admin delete.  All timestamps are UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Get loads a booking by id.  It returns (nil, nil) when no row
// exists, which is the contract the reservation engine's lifecycle
// operations rely on.
func (r *BookingRepo) Get(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT id, user_id, lab_id, booking_date, start_time, end_time, purpose, total_cost, status, created_at, updated_at
               FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return b, nil
}

// CancelActive flips a booking to cancelled only while it is pending
// or confirmed.  The guard lives in the WHERE clause so two racing
// cancels cannot both report success.
func (r *BookingRepo) CancelActive(ctx context.Context, id uint64) (bool, error) {
    const q = `UPDATE bookings SET status = ? WHERE id = ? AND status IN (?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        model.BookingStatusCancelled, id,
        model.BookingStatusPending, model.BookingStatusConfirmed)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// Delete removes a booking row entirely.  This is the admin-only
// destructive operation; it is not a state transition and is never
// performed by the reservation engine.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrBookingNotFound
    }
    return nil
}

// BookingDetail joins a booking with the display fields the member and
// admin pages render alongside it.  Status carries the query-time
// projection: active bookings whose window has passed read as
// completed.
type BookingDetail struct {
    ID          uint64  `json:"id"`
    UserID      uint64  `json:"user_id"`
    LabID       uint64  `json:"lab_id"`
    LabName     string  `json:"lab_name"`
    UserName    string  `json:"user_name,omitempty"`
    UserEmail   string  `json:"user_email,omitempty"`
    BookingDate string  `json:"booking_date"`
    StartTime   string  `json:"start_time"`
    EndTime     string  `json:"end_time"`
    Purpose     string  `json:"purpose"`
    TotalCost   float64 `json:"total_cost"`
    Status      string  `json:"status"`
    CreatedAt   string  `json:"created_at"`
}

// AdminBookingFilter narrows the admin booking list.  Zero values mean
// no restriction.  Status filters on the projected status, so asking
// for "completed" returns active bookings whose window has ended and
// asking for "confirmed" excludes them.
type AdminBookingFilter struct {
    Status string
    Date   string // YYYY-MM-DD
    UserID uint64
}

const detailColumns = `b.id, b.user_id, b.lab_id, l.name, u.full_name, u.email,
               b.booking_date, b.start_time, b.end_time, b.purpose, b.total_cost, b.status, b.created_at`

// ListByUser returns the member's bookings, newest first, with lab
// names joined in for the history page.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT ` + detailColumns + `
               FROM bookings b
               JOIN labs l ON l.id = b.lab_id
               JOIN users u ON u.id = b.user_id
               WHERE b.user_id = ?
               ORDER BY b.booking_date DESC, b.start_time DESC`
    return r.listDetails(ctx, q, userID)
}

// ListAdmin returns bookings for the admin management page, newest
// first, honoring the optional status/date/user filters.
func (r *BookingRepo) ListAdmin(ctx context.Context, f AdminBookingFilter) ([]BookingDetail, error) {
    q := `SELECT ` + detailColumns + `
          FROM bookings b
          JOIN labs l ON l.id = b.lab_id
          JOIN users u ON u.id = b.user_id
          WHERE 1=1`
    args := make([]any, 0, 4)
    switch f.Status {
    case "":
        // no status restriction
    case model.BookingStatusCompleted:
        q += ` AND b.status IN (?, ?) AND TIMESTAMP(b.booking_date, b.end_time) <= UTC_TIMESTAMP()`
        args = append(args, model.BookingStatusPending, model.BookingStatusConfirmed)
    case model.BookingStatusPending, model.BookingStatusConfirmed:
        q += ` AND b.status = ? AND TIMESTAMP(b.booking_date, b.end_time) > UTC_TIMESTAMP()`
        args = append(args, f.Status)
    default:
        q += ` AND b.status = ?`
        args = append(args, f.Status)
    }
    if f.Date != "" {
        q += ` AND b.booking_date = ?`
        args = append(args, f.Date)
    }
    if f.UserID != 0 {
        q += ` AND b.user_id = ?`
        args = append(args, f.UserID)
    }
    q += ` ORDER BY b.booking_date DESC, b.start_time DESC`
    return r.listDetails(ctx, q, args...)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    now := time.Now().UTC()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var (
            d         BookingDetail
            day       time.Time
            createdAt time.Time
        )
        if err := rows.Scan(
            &d.ID, &d.UserID, &d.LabID, &d.LabName, &d.UserName, &d.UserEmail,
            &day, &d.StartTime, &d.EndTime, &d.Purpose, &d.TotalCost, &d.Status, &createdAt,
        ); err != nil {
            return nil, err
        }
        d.BookingDate = day.Format(model.DateFormat)
        d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
        b := model.Booking{
            BookingDate: d.BookingDate,
            StartTime:   d.StartTime,
            EndTime:     d.EndTime,
            Status:      d.Status,
        }
        d.Status = b.EffectiveStatus(now)
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// Summary aggregates the admin dashboard numbers: booking counts per
// stored status, today's bookings and total revenue over everything
// that was not cancelled.
type Summary struct {
    TotalBookings     int     `json:"total_bookings"`
    ConfirmedBookings int     `json:"confirmed_bookings"`
    PendingBookings   int     `json:"pending_bookings"`
    CancelledBookings int     `json:"cancelled_bookings"`
    TodayBookings     int     `json:"today_bookings"`
    TotalRevenue      float64 `json:"total_revenue"`
}

// Summarize computes the dashboard aggregate in one scan.
func (r *BookingRepo) Summarize(ctx context.Context) (*Summary, error) {
    const q = `SELECT
                 COUNT(*),
                 COALESCE(SUM(status = ?), 0),
                 COALESCE(SUM(status = ?), 0),
                 COALESCE(SUM(status = ?), 0),
                 COALESCE(SUM(booking_date = UTC_DATE()), 0),
                 COALESCE(SUM(CASE WHEN status <> ? THEN total_cost ELSE 0 END), 0)
               FROM bookings`
    var s Summary
    err := r.db.QueryRowContext(ctx, q,
        model.BookingStatusConfirmed,
        model.BookingStatusPending,
        model.BookingStatusCancelled,
        model.BookingStatusCancelled,
    ).Scan(&s.TotalBookings, &s.ConfirmedBookings, &s.PendingBookings, &s.CancelledBookings, &s.TodayBookings, &s.TotalRevenue)
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// DayCount is one point of the booking trend report.
type DayCount struct {
    Date  string `json:"date"`
    Count int    `json:"count"`
}

// DailyCounts returns booking counts per day over the trailing `days`
// window, oldest first.  Days without bookings are simply absent.
func (r *BookingRepo) DailyCounts(ctx context.Context, days int) ([]DayCount, error) {
    const q = `SELECT booking_date, COUNT(*)
               FROM bookings
               WHERE booking_date >= DATE_SUB(UTC_DATE(), INTERVAL ? DAY)
               GROUP BY booking_date
               ORDER BY booking_date ASC`
    rows, err := r.db.QueryContext(ctx, q, days)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    counts := make([]DayCount, 0)
    for rows.Next() {
        var (
            day time.Time
            dc  DayCount
        )
        if err := rows.Scan(&day, &dc.Count); err != nil {
            return nil, err
        }
        dc.Date = day.Format(model.DateFormat)
        counts = append(counts, dc)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return counts, nil
}

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
    var (
        b   model.Booking
        day time.Time
    )
    err := row.Scan(&b.ID, &b.UserID, &b.LabID, &day, &b.StartTime, &b.EndTime,
        &b.Purpose, &b.TotalCost, &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    b.BookingDate = day.Format(model.DateFormat)
    return &b, nil
}
