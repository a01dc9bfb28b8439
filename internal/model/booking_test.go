package model

import (
    "testing"
    "time"
)

func TestEffectiveStatusProjection(t *testing.T) {
    now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

    cases := []struct {
        name string
        b    Booking
        want string
    }{
        {
            "confirmed with window ahead",
            Booking{BookingDate: "2025-03-10", StartTime: "14:00:00", EndTime: "16:00:00", Status: BookingStatusConfirmed},
            BookingStatusConfirmed,
        },
        {
            "confirmed mid-window",
            Booking{BookingDate: "2025-03-10", StartTime: "11:00:00", EndTime: "13:00:00", Status: BookingStatusConfirmed},
            BookingStatusConfirmed,
        },
        {
            "confirmed window passed",
            Booking{BookingDate: "2025-03-10", StartTime: "08:00:00", EndTime: "10:00:00", Status: BookingStatusConfirmed},
            BookingStatusCompleted,
        },
        {
            "window ends exactly now",
            Booking{BookingDate: "2025-03-10", StartTime: "10:00:00", EndTime: "12:00:00", Status: BookingStatusConfirmed},
            BookingStatusCompleted,
        },
        {
            "end-of-day label on an earlier date",
            Booking{BookingDate: "2025-03-09", StartTime: "22:00:00", EndTime: "24:00:00", Status: BookingStatusConfirmed},
            BookingStatusCompleted,
        },
        {
            "end-of-day label today",
            Booking{BookingDate: "2025-03-10", StartTime: "22:00:00", EndTime: "24:00:00", Status: BookingStatusConfirmed},
            BookingStatusConfirmed,
        },
        {
            "cancelled stays cancelled",
            Booking{BookingDate: "2025-03-10", StartTime: "08:00:00", EndTime: "10:00:00", Status: BookingStatusCancelled},
            BookingStatusCancelled,
        },
    }

    for _, tc := range cases {
        if got := tc.b.EffectiveStatus(now); got != tc.want {
            t.Errorf("%s: status = %q, want %q", tc.name, got, tc.want)
        }
    }
}

func TestCanBeCancelled(t *testing.T) {
    now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

    upcoming := Booking{BookingDate: "2025-03-11", StartTime: "10:00:00", EndTime: "12:00:00", Status: BookingStatusConfirmed}
    if !upcoming.CanBeCancelled(now) {
        t.Error("upcoming booking reports not cancellable")
    }

    finished := Booking{BookingDate: "2025-03-09", StartTime: "10:00:00", EndTime: "12:00:00", Status: BookingStatusConfirmed}
    if finished.CanBeCancelled(now) {
        t.Error("finished booking reports cancellable")
    }

    cancelled := Booking{BookingDate: "2025-03-11", StartTime: "10:00:00", EndTime: "12:00:00", Status: BookingStatusCancelled}
    if cancelled.CanBeCancelled(now) {
        t.Error("cancelled booking reports cancellable")
    }
}
