package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/lab-room-reservation/internal/model"
)

// LabRepo provides CRUD access to the `labs` table.  Labs are
// read-mostly: members browse and book them, only administrators
// mutate them.  A lab that is referenced by any booking can never be
// deleted; Delete enforces that with ErrConflict.
type LabRepo struct {
    db *sql.DB
}

// NewLabRepo returns a LabRepo bound to the given database.
func NewLabRepo(db *sql.DB) *LabRepo { return &LabRepo{db: db} }

const labColumns = `id, name, description, capacity, hourly_rate, status, created_at, updated_at`

func scanLab(row interface{ Scan(...any) error }) (*model.Lab, error) {
    var l model.Lab
    err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Capacity, &l.HourlyRate, &l.Status, &l.CreatedAt, &l.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &l, nil
}

// Create inserts a new lab and reads the row back so generated columns
// (timestamps, default status) are populated on the returned value.
func (r *LabRepo) Create(ctx context.Context, l *model.Lab) error {
    const q = `INSERT INTO labs (name, description, capacity, hourly_rate, status) VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, l.Name, l.Description, l.Capacity, l.HourlyRate, l.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    l.ID = uint64(id)
    got, err := r.GetByID(ctx, l.ID)
    if err != nil {
        return err
    }
    *l = *got
    return nil
}

// GetByID retrieves a lab by id, returning ErrLabNotFound when no row
// matches.
func (r *LabRepo) GetByID(ctx context.Context, id uint64) (*model.Lab, error) {
    const q = `SELECT ` + labColumns + ` FROM labs WHERE id = ?`
    l, err := scanLab(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrLabNotFound
        }
        return nil, err
    }
    return l, nil
}

// Resolve is the reservation engine's catalog lookup.  Unlike GetByID
// it reports a missing lab as (nil, nil) so the engine can raise its
// own LabUnavailableError without depending on this package.
func (r *LabRepo) Resolve(ctx context.Context, id uint64) (*model.Lab, error) {
    l, err := r.GetByID(ctx, id)
    if errors.Is(err, ErrLabNotFound) {
        return nil, nil
    }
    return l, err
}

// ListAll returns every lab ordered by name, for the admin catalog
// page.
func (r *LabRepo) ListAll(ctx context.Context) ([]model.Lab, error) {
    return r.list(ctx, `SELECT `+labColumns+` FROM labs ORDER BY name`)
}

// ListActive returns only bookable labs, for the public browse page
// and the member booking flow.
func (r *LabRepo) ListActive(ctx context.Context) ([]model.Lab, error) {
    return r.list(ctx, `SELECT `+labColumns+` FROM labs WHERE status = ? ORDER BY name`, model.LabStatusActive)
}

func (r *LabRepo) list(ctx context.Context, q string, args ...any) ([]model.Lab, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    labs := make([]model.Lab, 0)
    for rows.Next() {
        l, err := scanLab(rows)
        if err != nil {
            return nil, err
        }
        labs = append(labs, *l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return labs, nil
}

// Update rewrites the mutable columns of a lab.  ErrLabNotFound is
// returned when the id does not exist.
func (r *LabRepo) Update(ctx context.Context, l *model.Lab) error {
    const q = `UPDATE labs SET name = ?, description = ?, capacity = ?, hourly_rate = ?, status = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, l.Name, l.Description, l.Capacity, l.HourlyRate, l.Status, l.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected is also 0 for a no-op update; confirm existence
        if _, err := r.GetByID(ctx, l.ID); err != nil {
            return err
        }
    }
    got, err := r.GetByID(ctx, l.ID)
    if err != nil {
        return err
    }
    *l = *got
    return nil
}

// Delete removes a lab permanently.  Labs referenced by any booking,
// regardless of booking status, are protected and the call fails
// with ErrConflict.
func (r *LabRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE lab_id = ?`, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM labs WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrLabNotFound
    }
    return nil
}
