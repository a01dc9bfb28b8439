// Package handler: admin user management.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lab-room-reservation/internal/repository"
)

// AdminUserHandler bundles dependencies for user administration.
type AdminUserHandler struct {
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
}

func NewAdminUserHandler(users *repository.UserRepo, tokens *repository.TokenRepo) *AdminUserHandler {
    return &AdminUserHandler{Users: users, Tokens: tokens}
}

// adminUserPart is the account shape on the admin API; password hashes
// never leave the repository layer.
type adminUserPart struct {
    ID        uint64    `json:"id"`
    Email     string    `json:"email"`
    FullName  string    `json:"full_name"`
    Role      string    `json:"role"`
    IsActive  bool      `json:"is_active"`
    CreatedAt time.Time `json:"created_at"`
}

// List handles GET /v1/admin/users.
func (h *AdminUserHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    users, err := h.Users.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
    }
    out := make([]adminUserPart, 0, len(users))
    for _, u := range users {
        out = append(out, adminUserPart{
            ID:        u.ID,
            Email:     u.Email,
            FullName:  u.FullName,
            Role:      u.Role,
            IsActive:  u.IsActive,
            CreatedAt: u.CreatedAt,
        })
    }
    return c.JSON(http.StatusOK, out)
}

type setActiveReq struct {
    IsActive *bool `json:"is_active"`
}

// SetActive handles PATCH /v1/admin/users/:id/active.  Deactivating an
// account also revokes its refresh tokens so open sessions die with
// the access token.  Admins cannot deactivate themselves.
func (h *AdminUserHandler) SetActive(c echo.Context) error {
    actor := c.Get("user_id").(uint64)

    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req setActiveReq
    if err := c.Bind(&req); err != nil || req.IsActive == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
    }
    if id == actor && !*req.IsActive {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot deactivate own account"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.SetActive(ctx, id, *req.IsActive); err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
    }
    if !*req.IsActive {
        if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
            c.Logger().Warnf("revoke tokens for user %d: %v", id, err)
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *req.IsActive})
}
