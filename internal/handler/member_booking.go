// Package handler: member booking endpoints.  Committing a basket is
// the only way bookings come into existence; everything here funnels
// through the reservation engine.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lab-room-reservation/internal/model"
    "github.com/iliyamo/lab-room-reservation/internal/queue"
    "github.com/iliyamo/lab-room-reservation/internal/repository"
    "github.com/iliyamo/lab-room-reservation/internal/reservation"
    queue_publisher "github.com/iliyamo/lab-room-reservation/internal/service"
)

// BookingHandler bundles dependencies for the member booking endpoints.
type BookingHandler struct {
    Engine   *reservation.Engine
    Baskets  *repository.BasketRepo
    Bookings *repository.BookingRepo
    Users    *repository.UserRepo
}

func NewBookingHandler(engine *reservation.Engine, baskets *repository.BasketRepo, bookings *repository.BookingRepo, users *repository.UserRepo) *BookingHandler {
    if engine == nil || baskets == nil || bookings == nil || users == nil {
        panic("handler: nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: engine, Baskets: baskets, Bookings: bookings, Users: users}
}

type commitReq struct {
    Purpose string `json:"purpose"`
}

type bookingPart struct {
    ID          uint64  `json:"id"`
    LabID       uint64  `json:"lab_id"`
    BookingDate string  `json:"booking_date"`
    StartTime   string  `json:"start_time"`
    EndTime     string  `json:"end_time"`
    Purpose     string  `json:"purpose"`
    TotalCost   float64 `json:"total_cost"`
    Status      string  `json:"status"`
}

func toBookingPart(b model.Booking) bookingPart {
    return bookingPart{
        ID:          b.ID,
        LabID:       b.LabID,
        BookingDate: b.BookingDate,
        StartTime:   b.StartTime,
        EndTime:     b.EndTime,
        Purpose:     b.Purpose,
        TotalCost:   b.TotalCost,
        Status:      b.Status,
    }
}

// reservationError translates the engine's error taxonomy into an HTTP
// response.  Unknown errors fall through to a 500 without leaking the
// underlying cause.
func reservationError(c echo.Context, err error) error {
    var (
        lab        *reservation.LabUnavailableError
        slot       *reservation.SlotConflictError
        window     *reservation.InvalidWindowError
        transition *reservation.InvalidTransitionError
        missing    *reservation.NotFoundError
    )
    switch {
    case errors.Is(err, reservation.ErrEmptyBasket):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "basket is empty"})
    case errors.As(err, &window):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": window.Reason})
    case errors.As(err, &lab):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
    case errors.As(err, &slot):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.As(err, &transition):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.As(err, &missing):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, reservation.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    default:
        c.Logger().Errorf("reservation: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
    }
}

// Commit books every item currently in the member's basket as one
// atomic batch.  On success the basket is cleared and a committed
// event is published for the history log; a publish failure never
// affects the response.
func (h *BookingHandler) Commit(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    var req commitReq
    _ = c.Bind(&req) // purpose is optional; an empty body is fine

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    basket, err := h.Baskets.Load(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load basket failed"})
    }

    created, err := h.Engine.Commit(ctx, uid, basket.Snapshot(), req.Purpose)
    if err != nil {
        return reservationError(c, err)
    }

    if err := h.Baskets.Delete(ctx, uid); err != nil {
        // bookings are already persisted; an expiring stale basket is
        // the lesser problem
        c.Logger().Warnf("clear basket for user %d: %v", uid, err)
    }

    go h.publishCommitted(uid, basket.Snapshot(), created)

    out := make([]bookingPart, 0, len(created))
    total := 0.0
    for _, b := range created {
        out = append(out, toBookingPart(b))
        total += b.TotalCost
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "bookings":   out,
        "total_cost": total,
    })
}

// publishCommitted emits the booking.committed event on a background
// goroutine with its own deadline; the HTTP response does not wait for
// the broker.
func (h *BookingHandler) publishCommitted(uid uint64, items []model.BasketItem, created []model.Booking) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    labNames := make(map[uint64]string, len(items))
    for _, it := range items {
        labNames[it.LabID] = it.LabName
    }

    email := ""
    if u, err := h.Users.GetByID(ctx, uid); err == nil {
        email = u.Email
    }

    ev := queue.BookingCommittedEvent{
        UserID:      uid,
        UserEmail:   email,
        CommittedAt: time.Now().UTC().Format(time.RFC3339),
    }
    for _, b := range created {
        ev.Bookings = append(ev.Bookings, queue.BookedLab{
            BookingID:   b.ID,
            LabID:       b.LabID,
            LabName:     labNames[b.LabID],
            BookingDate: b.BookingDate,
            StartTime:   b.StartTime,
            EndTime:     b.EndTime,
            TotalCost:   b.TotalCost,
        })
        ev.TotalCost += b.TotalCost
    }
    _ = queue_publisher.PublishBookingCommitted(ctx, ev)
}

// ListMine returns the member's booking history, newest first, with
// the completed projection applied.
func (h *BookingHandler) ListMine(c echo.Context) error {
    uid := c.Get("user_id").(uint64)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    details, err := h.Bookings.ListByUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, details)
}

// Get returns one booking.  Members see only their own; admins see
// any.
func (h *BookingHandler) Get(c echo.Context) error {
    uid := c.Get("user_id").(uint64)
    role, _ := c.Get("role").(string)

    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Bookings.Get(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
    }
    if b == nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    if role != model.RoleAdmin && b.UserID != uid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    part := toBookingPart(*b)
    part.Status = b.EffectiveStatus(time.Now().UTC())
    return c.JSON(http.StatusOK, part)
}

// Cancel requests the cancelled transition for a booking.  Ownership
// and state checks live in the engine; this handler only translates
// the outcome.
func (h *BookingHandler) Cancel(c echo.Context) error {
    uid := c.Get("user_id").(uint64)
    role, _ := c.Get("role").(string)

    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Engine.Cancel(ctx, id, uid, role)
    if err != nil {
        return reservationError(c, err)
    }
    return c.JSON(http.StatusOK, toBookingPart(*b))
}
