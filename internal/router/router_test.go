package router

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/lab-room-reservation/internal/handler"
    "github.com/iliyamo/lab-room-reservation/internal/utils"
)

const testSecret = "router-test-secret"

// memberEcho wires the member routes with zero-valued handlers.  A
// request that clears the JWT and role gates panics inside the handler
// body and Recover turns that into a 500, while the gates themselves
// answer 401 or 403.  The status code alone therefore tells which
// layer stopped the request.
func memberEcho() *echo.Echo {
    e := echo.New()
    e.Use(echomw.Recover())
    RegisterMember(e, &handler.BasketHandler{}, &handler.BookingHandler{}, testSecret)
    return e
}

func getStatus(e *echo.Echo, path, token string) int {
    req := httptest.NewRequest(http.MethodGet, path, nil)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec.Code
}

func TestMemberRoutesRoleGate(t *testing.T) {
    e := memberEcho()

    if code := getStatus(e, "/v1/bookings/1", ""); code != http.StatusUnauthorized {
        t.Errorf("no token: status = %d, want 401", code)
    }

    // members and admins both pass the gates; admins inspect and
    // cancel arbitrary bookings through these endpoints
    for _, role := range []string{"MEMBER", "ADMIN"} {
        tok, err := utils.NewAccessToken(testSecret, 7, role, 5)
        if err != nil {
            t.Fatalf("%s token: %v", role, err)
        }
        for _, path := range []string{"/v1/bookings/1", "/v1/my-bookings"} {
            code := getStatus(e, path, tok.Token)
            if code == http.StatusUnauthorized || code == http.StatusForbidden {
                t.Errorf("%s %s: status = %d, rejected by an auth gate", role, path, code)
            }
        }
    }

    tok, err := utils.NewAccessToken(testSecret, 7, "GUEST", 5)
    if err != nil {
        t.Fatalf("guest token: %v", err)
    }
    if code := getStatus(e, "/v1/my-bookings", tok.Token); code != http.StatusForbidden {
        t.Errorf("unknown role: status = %d, want 403", code)
    }
}
