// Package handler: admin lab management.  Only users with the ADMIN
// role reach these endpoints; the role check happens in the router.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lab-room-reservation/internal/model"
    "github.com/iliyamo/lab-room-reservation/internal/repository"
)

// AdminLabHandler bundles dependencies for lab administration.
type AdminLabHandler struct {
    Labs *repository.LabRepo
}

func NewAdminLabHandler(labs *repository.LabRepo) *AdminLabHandler {
    return &AdminLabHandler{Labs: labs}
}

type labReq struct {
    Name        string  `json:"name"`
    Description string  `json:"description"`
    Capacity    uint32  `json:"capacity"`
    HourlyRate  float64 `json:"hourly_rate"`
    Status      string  `json:"status"`
}

func (r *labReq) validate() (string, bool) {
    r.Name = strings.TrimSpace(r.Name)
    r.Description = strings.TrimSpace(r.Description)
    if r.Name == "" {
        return "name required", false
    }
    if r.Capacity == 0 {
        return "capacity must be positive", false
    }
    if r.HourlyRate < 0 {
        return "hourly_rate must not be negative", false
    }
    if r.Status == "" {
        r.Status = model.LabStatusActive
    }
    if !model.ValidLabStatus(r.Status) {
        return "status must be active, inactive or maintenance", false
    }
    return "", true
}

// Create handles POST /v1/admin/labs.
func (h *AdminLabHandler) Create(c echo.Context) error {
    var req labReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg, ok := req.validate(); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    lab := &model.Lab{
        Name:        req.Name,
        Description: req.Description,
        Capacity:    req.Capacity,
        HourlyRate:  req.HourlyRate,
        Status:      req.Status,
    }
    if err := h.Labs.Create(ctx, lab); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lab failed"})
    }
    return c.JSON(http.StatusCreated, toPublicLab(*lab))
}

// List handles GET /v1/admin/labs and includes inactive and
// maintenance labs, unlike the public browse endpoint.
func (h *AdminLabHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    labs, err := h.Labs.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list labs failed"})
    }
    out := make([]PublicLab, 0, len(labs))
    for _, l := range labs {
        out = append(out, toPublicLab(l))
    }
    return c.JSON(http.StatusOK, out)
}

// Update handles PUT /v1/admin/labs/:id with a full replacement body.
// Existing bookings keep their frozen cost when the rate changes.
func (h *AdminLabHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req labReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg, ok := req.validate(); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    lab := &model.Lab{
        ID:          id,
        Name:        req.Name,
        Description: req.Description,
        Capacity:    req.Capacity,
        HourlyRate:  req.HourlyRate,
        Status:      req.Status,
    }
    if err := h.Labs.Update(ctx, lab); err != nil {
        if errors.Is(err, repository.ErrLabNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lab failed"})
    }
    return c.JSON(http.StatusOK, toPublicLab(*lab))
}

// Delete handles DELETE /v1/admin/labs/:id.  A lab that any booking
// references can never be deleted; it should be set inactive instead.
func (h *AdminLabHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Labs.Delete(ctx, id); err != nil {
        switch {
        case errors.Is(err, repository.ErrLabNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "lab has bookings; deactivate it instead"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lab failed"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}
