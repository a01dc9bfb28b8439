// Package handler: basket endpoints.  The basket is the member's
// pre-commit staging area, held in Redis and never written to MySQL.
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

// BasketHandler bundles dependencies for the basket endpoints.
type BasketHandler struct {
    Baskets *repository.BasketRepo
    Labs    *repository.LabRepo
}

func NewBasketHandler(baskets *repository.BasketRepo, labs *repository.LabRepo) *BasketHandler {
    return &BasketHandler{Baskets: baskets, Labs: labs}
}

type addItemReq struct {
    LabID       uint64 `json:"lab_id"`
    BookingDate string `json:"booking_date"` // optional, YYYY-MM-DD
    StartTime   string `json:"start_time"`   // optional, HH:MM:SS
    EndTime     string `json:"end_time"`     // optional, HH:MM:SS
}

type basketResp struct {
    Items []model.BasketItem `json:"items"`
    Count int                `json:"count"`
}

// Get returns the member's current basket; an empty basket is a 200
// with zero items, never a 404.
func (h *BasketHandler) Get(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Baskets.Load(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load basket failed"})
    }
    return c.JSON(http.StatusOK, basketResp{Items: b.Snapshot(), Count: b.Len()})
}

// AddItem appends a lab pick.  The lab must exist and be active at add
// time; the same check runs again at commit, this early check just
// keeps obviously dead picks out of the basket.  An explicit window is
// validated for shape before it goes in.
func (h *BasketHandler) AddItem(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    var req addItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.LabID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    lab, err := h.Labs.Resolve(ctx, req.LabID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
    }
    if lab == nil || !lab.IsActive() {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "lab not available"})
    }

    if req.BookingDate != "" || req.StartTime != "" || req.EndTime != "" {
        w := reservation.Window{Date: req.BookingDate, Start: req.StartTime, End: req.EndTime}
        if err := w.Validate(time.Now().UTC()); err != nil {
            var iw *reservation.InvalidWindowError
            if errors.As(err, &iw) {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": iw.Reason})
            }
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid window"})
        }
    }

    b, err := h.Baskets.Load(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load basket failed"})
    }
    b.Add(model.BasketItem{
        LabID:       lab.ID,
        LabName:     lab.Name,
        BookingDate: req.BookingDate,
        StartTime:   req.StartTime,
        EndTime:     req.EndTime,
    })
    if err := h.Baskets.Save(ctx, uid, b); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save basket failed"})
    }
    return c.JSON(http.StatusCreated, basketResp{Items: b.Snapshot(), Count: b.Len()})
}

// RemoveItem deletes the pick at the given position.  Positions are
// re-compacted on every removal, so clients always address the current
// list.  A stale index is reported as 404 and the basket is unchanged.
func (h *BasketHandler) RemoveItem(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    index, err := strconv.Atoi(c.Param("index"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid index"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Baskets.Load(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load basket failed"})
    }
    if !b.Remove(index) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no item at index"})
    }
    if err := h.Baskets.Save(ctx, uid, b); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save basket failed"})
    }
    return c.JSON(http.StatusOK, basketResp{Items: b.Snapshot(), Count: b.Len()})
}

// Clear empties the basket without booking anything.
func (h *BasketHandler) Clear(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Baskets.Delete(ctx, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear basket failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
