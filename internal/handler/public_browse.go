// Package handler: public browse endpoints.  These allow unauthenticated
// users to see which labs exist and what they cost before registering.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lab-room-reservation/internal/model"
    "github.com/iliyamo/lab-room-reservation/internal/repository"
)

// PublicHandler exposes read-only catalog endpoints.
type PublicHandler struct {
    Labs *repository.LabRepo
}

func NewPublicHandler(labs *repository.LabRepo) *PublicHandler {
    return &PublicHandler{Labs: labs}
}

// PublicLab is the lab shape exposed on the browse API.  Only fields a
// visitor needs to decide whether to book; audit timestamps stay
// internal.
type PublicLab struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Description string  `json:"description,omitempty"`
    Capacity    uint32  `json:"capacity"`
    HourlyRate  float64 `json:"hourly_rate"`
    Status      string  `json:"status"`
}

func toPublicLab(l model.Lab) PublicLab {
    return PublicLab{
        ID:          l.ID,
        Name:        l.Name,
        Description: l.Description,
        Capacity:    l.Capacity,
        HourlyRate:  l.HourlyRate,
        Status:      l.Status,
    }
}

// ListLabs returns every bookable lab.  Inactive and maintenance labs
// are hidden here; administrators see them through the admin API.
func (h *PublicHandler) ListLabs(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    labs, err := h.Labs.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list labs failed"})
    }
    out := make([]PublicLab, 0, len(labs))
    for _, l := range labs {
        out = append(out, toPublicLab(l))
    }
    return c.JSON(http.StatusOK, out)
}

// GetLab returns one lab by id, active or not, so a stale booking page
// can still render the lab it references.
func (h *PublicHandler) GetLab(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    lab, err := h.Labs.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrLabNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
    }
    return c.JSON(http.StatusOK, toPublicLab(*lab))
}
