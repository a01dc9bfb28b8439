package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lab-room-reservation/internal/handler"
    "github.com/iliyamo/lab-room-reservation/internal/middleware"
)

// RegisterMember registers member-scoped endpoints under /v1.  All
// routes require a valid JWT.  Members manage their basket, commit it
// into bookings, and view or cancel their own bookings; admins are
// admitted too so they can inspect or cancel any booking through the
// same endpoints.
func RegisterMember(e *echo.Echo, basket *handler.BasketHandler, booking *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("MEMBER", "ADMIN"),
    )

    // ---- Basket ----
    g.GET("/basket", basket.Get)
    g.POST("/basket/items", basket.AddItem)
    g.DELETE("/basket/items/:index", basket.RemoveItem)
    g.DELETE("/basket", basket.Clear)

    // ---- Bookings ----
    // Committing the basket is the only way to create bookings.
    g.POST("/bookings", booking.Commit)
    g.GET("/my-bookings", booking.ListMine)
    g.GET("/bookings/:id", booking.Get)
    g.POST("/bookings/:id/cancel", booking.Cancel)
}
