// Package handler: admin booking management and reports.
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
    "github.com/iliyamo/lab-room-reservation/internal/reservation"
)

// AdminBookingHandler bundles dependencies for booking administration.
type AdminBookingHandler struct {
    Engine   *reservation.Engine
    Bookings *repository.BookingRepo
}

func NewAdminBookingHandler(engine *reservation.Engine, bookings *repository.BookingRepo) *AdminBookingHandler {
    return &AdminBookingHandler{Engine: engine, Bookings: bookings}
}

// List handles GET /v1/admin/bookings with optional ?status=, ?date=
// and ?user_id= filters.  The status filter understands the projected
// "completed" state.
func (h *AdminBookingHandler) List(c echo.Context) error {
    f := repository.AdminBookingFilter{
        Status: c.QueryParam("status"),
        Date:   c.QueryParam("date"),
    }
    switch f.Status {
    case "", model.BookingStatusPending, model.BookingStatusConfirmed,
        model.BookingStatusCancelled, model.BookingStatusCompleted:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
    }
    if f.Date != "" {
        if _, err := time.Parse(model.DateFormat, f.Date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
    }
    if raw := c.QueryParam("user_id"); raw != "" {
        uid, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || uid == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
        }
        f.UserID = uid
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    details, err := h.Bookings.ListAdmin(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, details)
}

// Cancel handles POST /v1/admin/bookings/:id/cancel.  Admins may
// cancel any booking, but the state machine still applies: a finished
// or already cancelled booking stays as it is.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Engine.Cancel(ctx, id, uid, model.RoleAdmin)
    if err != nil {
        return reservationError(c, err)
    }
    return c.JSON(http.StatusOK, toBookingPart(*b))
}

// Delete handles DELETE /v1/admin/bookings/:id.  Unlike cancel this
// removes the row outright, including its slot history; it exists for
// cleaning up test or mistaken records.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Bookings.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/admin/reports/summary: the dashboard
// aggregate of booking counts and revenue.  Revenue sums the frozen
// total_cost of every booking that was not cancelled.
func (h *AdminBookingHandler) Summary(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s, err := h.Bookings.Summarize(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
    }
    return c.JSON(http.StatusOK, s)
}

// Daily handles GET /v1/admin/reports/daily?days=N, the booking count
// trend over the trailing N days (default 7, capped at 90).
func (h *AdminBookingHandler) Daily(c echo.Context) error {
    days := 7
    if raw := c.QueryParam("days"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be a positive integer"})
        }
        days = n
    }
    if days > 90 {
        days = 90
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    counts, err := h.Bookings.DailyCounts(ctx, days)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "days":   days,
        "counts": counts,
    })
}
