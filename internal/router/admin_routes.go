package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lab-room-reservation/internal/handler"    // admin handlers
    "github.com/iliyamo/lab-room-reservation/internal/middleware" // JWT + role middlewares
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, labs *handler.AdminLabHandler, bookings *handler.AdminBookingHandler, users *handler.AdminUserHandler, jwtSecret string) {
    // Attach middlewares at group construction time for clarity.
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN"),
    )

    // ---- Labs ----
    // The public browse API hides inactive labs; admins list everything.
    g.GET("/labs", labs.List)
    g.POST("/labs", labs.Create)
    g.PUT("/labs/:id", labs.Update)
    g.PATCH("/labs/:id", labs.Update) // allow partial/semantic updates via PATCH as well
    g.DELETE("/labs/:id", labs.Delete)

    // ---- Bookings ----
    g.GET("/bookings", bookings.List)
    g.POST("/bookings/:id/cancel", bookings.Cancel)
    // DELETE removes the row outright; cancel is the normal transition.
    g.DELETE("/bookings/:id", bookings.Delete)

    // ---- Reports ----
    g.GET("/reports/summary", bookings.Summary)
    g.GET("/reports/daily", bookings.Daily)

    // ---- Users ----
    g.GET("/users", users.List)
    g.PATCH("/users/:id/active", users.SetActive)
}
