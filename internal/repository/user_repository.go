package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/lab-room-reservation/internal/model"
    "github.com/iliyamo/lab-room-reservation/internal/utils"
)

// UserRepo provides access to the 'users' table: members, admins and
// the account-toggle admins use to lock members out.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, full_name, role, is_active, created_at, updated_at`

// Create hashes the password and inserts the user, returning its ID.
// Emails are stored lowercase.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName, role string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, password_hash, full_name, role) VALUES (?,?,?,?)",
        email, hash, strings.TrimSpace(fullName), role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, q string, arg any) (*model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx, q, arg).Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }
    return &u, nil
}

// List returns every account, newest first, for the admin user page.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    users := make([]model.User, 0)
    for rows.Next() {
        var u model.User
        if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
            return nil, err
        }
        users = append(users, u)
    }
    return users, rows.Err()
}

// SetActive toggles an account.  Deactivated accounts fail the auth
// middleware and cannot log in.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE users SET is_active=? WHERE id=?", active, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // distinguish missing user from an unchanged flag
        var exists int
        if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id=?", id).Scan(&exists); err != nil {
            return err
        }
        if exists == 0 {
            return ErrUserNotFound
        }
    }
    return nil
}
