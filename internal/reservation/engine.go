package reservation

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/lab-room-reservation/internal/model"
)

// DefaultPurpose is recorded on bookings committed without an explicit
// purpose, matching the basket flow where members pick labs without
// filling in a form.
const DefaultPurpose = "Lab booking via basket"

// Clock supplies the current time so tests can pin the commit window.
type Clock func() time.Time

// Catalog resolves labs at commit time.  Implementations return
// (nil, nil) when no lab with the given id exists; any error is an
// infrastructure failure.
type Catalog interface {
    Resolve(ctx context.Context, labID uint64) (*model.Lab, error)
}

// Tx is the write surface available inside one atomic commit.  All
// three calls observe and produce uncommitted state of the same
// transaction; the conflict checks must lock the rows they examine so
// two concurrent commits for the same slot cannot both pass.
type Tx interface {
    // ActiveBookingExists reports whether the user already holds a
    // pending or confirmed booking for the lab on the date.
    ActiveBookingExists(ctx context.Context, userID, labID uint64, date string) (bool, error)
    // OverlapExists reports whether any pending or confirmed booking
    // for the lab on the date overlaps the half-open [start, end) range.
    OverlapExists(ctx context.Context, labID uint64, w Window) (bool, error)
    // InsertBooking persists one booking row and returns its id.
    InsertBooking(ctx context.Context, b *model.Booking) (uint64, error)
}

// Store runs fn inside a single serialized transaction.  When fn
// returns an error the transaction is rolled back and nothing fn wrote
// is observable; partial success must never escape.
type Store interface {
    InTx(ctx context.Context, fn func(tx Tx) error) error
}

// BookingStore is the read/update surface for lifecycle transitions
// after commit.  Get returns (nil, nil) when the booking is missing.
type BookingStore interface {
    Get(ctx context.Context, id uint64) (*model.Booking, error)
    // CancelActive flips status to cancelled iff it is currently
    // pending or confirmed, reporting whether a row changed.
    CancelActive(ctx context.Context, id uint64) (bool, error)
}

// Engine validates baskets and turns them into committed bookings.  It
// is the sole path by which bookings are created and the sole place
// the duplicate-slot and overlap guards are enforced.
type Engine struct {
    catalog  Catalog
    store    Store
    bookings BookingStore
    clock    Clock
}

// NewEngine constructs an Engine.  A nil clock defaults to UTC wall
// time.
func NewEngine(catalog Catalog, store Store, bookings BookingStore, clock Clock) *Engine {
    if catalog == nil || store == nil || bookings == nil {
        panic("nil dependency passed to NewEngine")
    }
    if clock == nil {
        clock = func() time.Time { return time.Now().UTC() }
    }
    return &Engine{catalog: catalog, store: store, bookings: bookings, clock: clock}
}

// commitRequest is one validated basket item ready for persistence.
type commitRequest struct {
    lab    *model.Lab
    window Window
}

// Commit converts basket items into confirmed bookings for userID.
// The whole batch succeeds or fails as one unit:
//
//  1. an empty basket fails with ErrEmptyBasket before any lookup;
//  2. every item must reference an existing, active lab
//     (LabUnavailableError aborts the batch);
//  3. items repeating the same lab and window collapse to one booking,
//     while two distinct items for the same lab and date conflict
//     (SlotConflictError) before the store is touched;
//  4. inside one transaction every item must pass the duplicate-slot
//     guard and the overlap guard (SlotConflictError aborts and rolls
//     back);
//  5. on success every item is a confirmed booking with total_cost
//     frozen at hourly_rate × window hours, and the created bookings
//     are returned in item order with their new ids.
//
// The caller owns the basket and clears it only when Commit returns
// nil error.
func (e *Engine) Commit(ctx context.Context, userID uint64, items []model.BasketItem, purpose string) ([]model.Booking, error) {
    if len(items) == 0 {
        return nil, ErrEmptyBasket
    }
    if purpose == "" {
        purpose = DefaultPurpose
    }
    now := e.clock()

    reqs := make([]commitRequest, 0, len(items))
    seen := make(map[string]struct{}, len(items))
    for _, item := range items {
        w, err := e.windowFor(item, now)
        if err != nil {
            return nil, err
        }
        key := fmt.Sprintf("%d/%s/%s/%s", item.LabID, w.Date, w.Start, w.End)
        if _, dup := seen[key]; dup {
            continue
        }
        seen[key] = struct{}{}

        // Two distinct items for the same lab and date can never both
        // commit, so the basket conflicts with itself before the store
        // is ever consulted.
        for _, prev := range reqs {
            if prev.lab.ID == item.LabID && prev.window.Date == w.Date {
                return nil, &SlotConflictError{LabID: item.LabID, Date: w.Date}
            }
        }

        lab, err := e.catalog.Resolve(ctx, item.LabID)
        if err != nil {
            return nil, fmt.Errorf("%w: resolve lab %d: %v", ErrStorage, item.LabID, err)
        }
        if lab == nil || !lab.IsActive() {
            return nil, &LabUnavailableError{LabID: item.LabID}
        }
        reqs = append(reqs, commitRequest{lab: lab, window: w})
    }

    created := make([]model.Booking, 0, len(reqs))
    err := e.store.InTx(ctx, func(tx Tx) error {
        for _, req := range reqs {
            taken, err := tx.ActiveBookingExists(ctx, userID, req.lab.ID, req.window.Date)
            if err != nil {
                return err
            }
            if taken {
                return &SlotConflictError{LabID: req.lab.ID, Date: req.window.Date}
            }
            overlap, err := tx.OverlapExists(ctx, req.lab.ID, req.window)
            if err != nil {
                return err
            }
            if overlap {
                return &SlotConflictError{LabID: req.lab.ID, Date: req.window.Date}
            }
        }
        for _, req := range reqs {
            b := model.Booking{
                UserID:      userID,
                LabID:       req.lab.ID,
                BookingDate: req.window.Date,
                StartTime:   req.window.Start,
                EndTime:     req.window.End,
                Purpose:     purpose,
                TotalCost:   req.window.Cost(req.lab.HourlyRate),
                Status:      model.BookingStatusConfirmed,
            }
            id, err := tx.InsertBooking(ctx, &b)
            if err != nil {
                return err
            }
            b.ID = id
            created = append(created, b)
        }
        return nil
    })
    if err != nil {
        created = created[:0]
        if isDomainErr(err) {
            return nil, err
        }
        return nil, fmt.Errorf("%w: commit transaction: %v", ErrStorage, err)
    }
    return created, nil
}

// windowFor picks the item's explicit window when present, validating
// it, and falls back to the two-hour default otherwise.
func (e *Engine) windowFor(item model.BasketItem, now time.Time) (Window, error) {
    if item.BookingDate == "" && item.StartTime == "" && item.EndTime == "" {
        return DefaultWindow(now), nil
    }
    w := Window{Date: item.BookingDate, Start: item.StartTime, End: item.EndTime}
    if err := w.Validate(now); err != nil {
        return Window{}, err
    }
    return w, nil
}

// Cancel moves a booking to cancelled on behalf of actorID.  Members
// may cancel only their own bookings; admins may cancel any.  The
// transition is legal only while the booking projects as pending or
// confirmed; a second cancel, or a cancel after the window has
// passed, fails with InvalidTransitionError and changes nothing.
func (e *Engine) Cancel(ctx context.Context, bookingID, actorID uint64, actorRole string) (*model.Booking, error) {
    b, err := e.bookings.Get(ctx, bookingID)
    if err != nil {
        return nil, fmt.Errorf("%w: load booking %d: %v", ErrStorage, bookingID, err)
    }
    if b == nil {
        return nil, &NotFoundError{Entity: "booking", ID: bookingID}
    }
    if actorRole != model.RoleAdmin && b.UserID != actorID {
        return nil, ErrForbidden
    }
    now := e.clock()
    if !b.CanBeCancelled(now) {
        return nil, &InvalidTransitionError{
            BookingID: bookingID,
            From:      b.EffectiveStatus(now),
            To:        model.BookingStatusCancelled,
        }
    }
    changed, err := e.bookings.CancelActive(ctx, bookingID)
    if err != nil {
        return nil, fmt.Errorf("%w: cancel booking %d: %v", ErrStorage, bookingID, err)
    }
    if !changed {
        // lost a race with another cancel or a delete
        return nil, &InvalidTransitionError{
            BookingID: bookingID,
            From:      model.BookingStatusCancelled,
            To:        model.BookingStatusCancelled,
        }
    }
    b.Status = model.BookingStatusCancelled
    return b, nil
}

// isDomainErr distinguishes the engine's own error taxonomy from
// infrastructure failures escaping the transaction closure.
func isDomainErr(err error) bool {
    var (
        slot    *SlotConflictError
        lab     *LabUnavailableError
        window  *InvalidWindowError
        missing *NotFoundError
    )
    return errors.Is(err, ErrEmptyBasket) ||
        errors.As(err, &slot) ||
        errors.As(err, &lab) ||
        errors.As(err, &window) ||
        errors.As(err, &missing)
}
