package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/lab-room-reservation/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/lab-room-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Session-less operations: register, login and the two refresh
    // variants.  Logout also lives here because it authenticates by
    // refresh token or by parsing the bearer itself, so an expired
    // access token can still close its session.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // /refresh rotates the refresh token, /refresh-access does not.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    g.POST("/logout", a.Logout)

    // Protected profile endpoint.  Both roles may read their own
    // profile.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("MEMBER", "ADMIN"))
    auth.GET("/me", a.Me)

    // Alias kept at the top level so clients can call either
    // /v1/auth/logout or /v1/logout.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests
// can inspect the lab catalog before registering; no JWT or role
// middleware applies here.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
    // List all bookable labs
    e.GET("/v1/labs", p.ListLabs)
    // Lab details by id
    e.GET("/v1/labs/:id", p.GetLab)
}
