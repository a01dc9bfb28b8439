package reservation

import (
    "errors"
    "testing"
    "time"
)

func TestDefaultWindowTopOfHour(t *testing.T) {
    now := time.Date(2025, 3, 10, 14, 37, 12, 0, time.UTC)
    w := DefaultWindow(now)

    if w.Date != "2025-03-10" {
        t.Errorf("date = %q, want 2025-03-10", w.Date)
    }
    if w.Start != "14:00:00" {
        t.Errorf("start = %q, want 14:00:00", w.Start)
    }
    if w.End != "16:00:00" {
        t.Errorf("end = %q, want 16:00:00", w.End)
    }
    if h := w.Hours(); h != 2 {
        t.Errorf("hours = %v, want 2", h)
    }
}

func TestDefaultWindowNearMidnight(t *testing.T) {
    for _, hour := range []int{22, 23} {
        now := time.Date(2025, 3, 10, hour, 5, 0, 0, time.UTC)
        w := DefaultWindow(now)

        if w.Date != "2025-03-10" {
            t.Errorf("hour %d: window crossed into %q", hour, w.Date)
        }
        if w.Start != "22:00:00" {
            t.Errorf("hour %d: start = %q, want 22:00:00", hour, w.Start)
        }
        if w.End != "24:00:00" {
            t.Errorf("hour %d: end = %q, want 24:00:00", hour, w.End)
        }
        if h := w.Hours(); h != 2 {
            t.Errorf("hour %d: hours = %v, want 2", hour, h)
        }
    }
}

func TestWindowValidate(t *testing.T) {
    now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

    cases := []struct {
        name    string
        w       Window
        invalid bool
    }{
        {"today", Window{Date: "2025-03-10", Start: "10:00:00", End: "12:00:00"}, false},
        {"future", Window{Date: "2025-04-01", Start: "08:00:00", End: "09:00:00"}, false},
        {"full day", Window{Date: "2025-03-11", Start: "00:00:00", End: "24:00:00"}, false},
        {"bad date", Window{Date: "10/03/2025", Start: "10:00:00", End: "12:00:00"}, true},
        {"inverted", Window{Date: "2025-03-10", Start: "12:00:00", End: "10:00:00"}, true},
        {"zero length", Window{Date: "2025-03-10", Start: "10:00:00", End: "10:00:00"}, true},
        {"past date", Window{Date: "2025-03-09", Start: "10:00:00", End: "12:00:00"}, true},
        {"already ended today", Window{Date: "2025-03-10", Start: "06:00:00", End: "08:00:00"}, true},
        {"ends exactly now", Window{Date: "2025-03-10", Start: "07:00:00", End: "09:00:00"}, true},
        {"in progress", Window{Date: "2025-03-10", Start: "08:00:00", End: "10:00:00"}, false},
        {"bad clock", Window{Date: "2025-03-10", Start: "10am", End: "12:00:00"}, true},
    }

    for _, tc := range cases {
        err := tc.w.Validate(now)
        if tc.invalid {
            var iw *InvalidWindowError
            if !errors.As(err, &iw) {
                t.Errorf("%s: err = %v, want InvalidWindowError", tc.name, err)
            }
            continue
        }
        if err != nil {
            t.Errorf("%s: unexpected error %v", tc.name, err)
        }
    }
}

func TestWindowOverlaps(t *testing.T) {
    base := Window{Date: "2025-03-10", Start: "10:00:00", End: "12:00:00"}

    cases := []struct {
        name    string
        other   Window
        overlap bool
    }{
        {"identical", base, true},
        {"contained", Window{Date: "2025-03-10", Start: "10:30:00", End: "11:00:00"}, true},
        {"partial left", Window{Date: "2025-03-10", Start: "09:00:00", End: "10:30:00"}, true},
        {"partial right", Window{Date: "2025-03-10", Start: "11:30:00", End: "13:00:00"}, true},
        {"touching before", Window{Date: "2025-03-10", Start: "08:00:00", End: "10:00:00"}, false},
        {"touching after", Window{Date: "2025-03-10", Start: "12:00:00", End: "14:00:00"}, false},
        {"other date", Window{Date: "2025-03-11", Start: "10:00:00", End: "12:00:00"}, false},
        {"end of day", Window{Date: "2025-03-10", Start: "11:00:00", End: "24:00:00"}, true},
    }

    for _, tc := range cases {
        if got := base.Overlaps(tc.other); got != tc.overlap {
            t.Errorf("%s: overlap = %v, want %v", tc.name, got, tc.overlap)
        }
        // overlap is symmetric
        if got := tc.other.Overlaps(base); got != tc.overlap {
            t.Errorf("%s (reversed): overlap = %v, want %v", tc.name, got, tc.overlap)
        }
    }
}

func TestWindowCost(t *testing.T) {
    cases := []struct {
        w    Window
        rate float64
        want float64
    }{
        {Window{Date: "2025-03-10", Start: "10:00:00", End: "12:00:00"}, 25, 50},
        {Window{Date: "2025-03-10", Start: "10:00:00", End: "12:00:00"}, 12.345, 24.69},
        {Window{Date: "2025-03-10", Start: "10:00:00", End: "11:30:00"}, 10, 15},
        {Window{Date: "2025-03-10", Start: "22:00:00", End: "24:00:00"}, 7.50, 15},
        {Window{Date: "2025-03-10", Start: "10:00:00", End: "12:00:00"}, 0, 0},
    }

    for _, tc := range cases {
        if got := tc.w.Cost(tc.rate); got != tc.want {
            t.Errorf("cost(%s-%s @ %v) = %v, want %v", tc.w.Start, tc.w.End, tc.rate, got, tc.want)
        }
    }
}
