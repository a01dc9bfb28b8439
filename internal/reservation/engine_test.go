package reservation

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/lab-room-reservation/internal/model"
)

// testNow is the fixed instant the engine clock returns in these
// tests: a Monday morning, far from midnight.
var testNow = time.Date(2025, 3, 10, 9, 12, 0, 0, time.UTC)

// fakeCatalog serves labs from a map; missing ids resolve to nil.
type fakeCatalog struct {
    labs map[uint64]*model.Lab
}

func (f *fakeCatalog) Resolve(_ context.Context, labID uint64) (*model.Lab, error) {
    return f.labs[labID], nil
}

// fakeStore keeps committed bookings in memory.  InTx serializes
// commits with a mutex and only merges staged rows when fn succeeds,
// mirroring the all-or-nothing transaction contract.
type fakeStore struct {
    mu       sync.Mutex
    nextID   uint64
    bookings []model.Booking
    inTxErr  error
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx Tx) error) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    if f.inTxErr != nil {
        return f.inTxErr
    }
    tx := &fakeTx{store: f}
    if err := fn(tx); err != nil {
        return err
    }
    f.bookings = append(f.bookings, tx.staged...)
    return nil
}

type fakeTx struct {
    store  *fakeStore
    staged []model.Booking
}

func (t *fakeTx) visible() []model.Booking {
    all := make([]model.Booking, 0, len(t.store.bookings)+len(t.staged))
    all = append(all, t.store.bookings...)
    all = append(all, t.staged...)
    return all
}

func (t *fakeTx) ActiveBookingExists(_ context.Context, userID, labID uint64, date string) (bool, error) {
    for _, b := range t.visible() {
        if b.UserID == userID && b.LabID == labID && b.BookingDate == date && b.IsActive() {
            return true, nil
        }
    }
    return false, nil
}

func (t *fakeTx) OverlapExists(_ context.Context, labID uint64, w Window) (bool, error) {
    for _, b := range t.visible() {
        if b.LabID != labID || !b.IsActive() {
            continue
        }
        existing := Window{Date: b.BookingDate, Start: b.StartTime, End: b.EndTime}
        if existing.Overlaps(w) {
            return true, nil
        }
    }
    return false, nil
}

func (t *fakeTx) InsertBooking(_ context.Context, b *model.Booking) (uint64, error) {
    t.store.nextID++
    nb := *b
    nb.ID = t.store.nextID
    t.staged = append(t.staged, nb)
    return nb.ID, nil
}

// fakeBookings implements the lifecycle store over the same slice the
// fakeStore committed into.
type fakeBookings struct {
    store *fakeStore
}

func (f *fakeBookings) Get(_ context.Context, id uint64) (*model.Booking, error) {
    f.store.mu.Lock()
    defer f.store.mu.Unlock()
    for _, b := range f.store.bookings {
        if b.ID == id {
            cp := b
            return &cp, nil
        }
    }
    return nil, nil
}

func (f *fakeBookings) CancelActive(_ context.Context, id uint64) (bool, error) {
    f.store.mu.Lock()
    defer f.store.mu.Unlock()
    for i, b := range f.store.bookings {
        if b.ID == id && b.IsActive() {
            f.store.bookings[i].Status = model.BookingStatusCancelled
            return true, nil
        }
    }
    return false, nil
}

func newTestEngine(labs ...*model.Lab) (*Engine, *fakeStore) {
    catalog := &fakeCatalog{labs: map[uint64]*model.Lab{}}
    for _, l := range labs {
        catalog.labs[l.ID] = l
    }
    store := &fakeStore{}
    return NewEngine(catalog, store, &fakeBookings{store: store}, func() time.Time { return testNow }), store
}

func activeLab(id uint64, rate float64) *model.Lab {
    return &model.Lab{ID: id, Name: fmt.Sprintf("Lab %d", id), Capacity: 8, HourlyRate: rate, Status: model.LabStatusActive}
}

func TestCommitBooksEveryItem(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25), activeLab(2, 12.50))

    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{
        {LabID: 1, LabName: "Lab 1"},
        {LabID: 2, LabName: "Lab 2"},
    }, "")
    if err != nil {
        t.Fatalf("commit: %v", err)
    }
    if len(created) != 2 {
        t.Fatalf("created %d bookings, want 2", len(created))
    }
    if len(store.bookings) != 2 {
        t.Fatalf("store holds %d bookings, want 2", len(store.bookings))
    }

    for i, b := range created {
        if b.ID == 0 {
            t.Errorf("booking %d has no id", i)
        }
        if b.Status != model.BookingStatusConfirmed {
            t.Errorf("booking %d status = %q, want confirmed", i, b.Status)
        }
        if b.UserID != 7 {
            t.Errorf("booking %d user = %d, want 7", i, b.UserID)
        }
        if b.Purpose != DefaultPurpose {
            t.Errorf("booking %d purpose = %q, want default", i, b.Purpose)
        }
        // default window: top of the current hour, two hours
        if b.BookingDate != "2025-03-10" || b.StartTime != "09:00:00" || b.EndTime != "11:00:00" {
            t.Errorf("booking %d window = %s %s-%s", i, b.BookingDate, b.StartTime, b.EndTime)
        }
    }
    if created[0].TotalCost != 50 {
        t.Errorf("lab 1 cost = %v, want 50", created[0].TotalCost)
    }
    if created[1].TotalCost != 25 {
        t.Errorf("lab 2 cost = %v, want 25", created[1].TotalCost)
    }
}

func TestCommitEmptyBasket(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))

    if _, err := eng.Commit(context.Background(), 7, nil, ""); !errors.Is(err, ErrEmptyBasket) {
        t.Fatalf("err = %v, want ErrEmptyBasket", err)
    }
    if len(store.bookings) != 0 {
        t.Fatalf("store holds %d bookings, want 0", len(store.bookings))
    }
}

func TestCommitUnavailableLab(t *testing.T) {
    inactive := activeLab(2, 10)
    inactive.Status = model.LabStatusMaintenance
    eng, store := newTestEngine(activeLab(1, 25), inactive)

    cases := []struct {
        name  string
        labID uint64
    }{
        {"missing lab", 99},
        {"maintenance lab", 2},
    }
    for _, tc := range cases {
        items := []model.BasketItem{
            {LabID: 1}, // valid item first: the batch must still fail whole
            {LabID: tc.labID},
        }
        _, err := eng.Commit(context.Background(), 7, items, "")
        var lu *LabUnavailableError
        if !errors.As(err, &lu) {
            t.Fatalf("%s: err = %v, want LabUnavailableError", tc.name, err)
        }
        if lu.LabID != tc.labID {
            t.Errorf("%s: error names lab %d, want %d", tc.name, lu.LabID, tc.labID)
        }
        if len(store.bookings) != 0 {
            t.Fatalf("%s: store holds %d bookings, want 0", tc.name, len(store.bookings))
        }
    }
}

func TestCommitDuplicateSlotGuard(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25), activeLab(2, 10))

    // user 7 already holds lab 1 that day, in a non-overlapping window
    store.bookings = append(store.bookings, model.Booking{
        ID: 1, UserID: 7, LabID: 1,
        BookingDate: "2025-03-10", StartTime: "14:00:00", EndTime: "16:00:00",
        Status: model.BookingStatusConfirmed,
    })
    store.nextID = 1

    _, err := eng.Commit(context.Background(), 7, []model.BasketItem{
        {LabID: 2},
        {LabID: 1},
    }, "")
    var sc *SlotConflictError
    if !errors.As(err, &sc) {
        t.Fatalf("err = %v, want SlotConflictError", err)
    }
    if sc.LabID != 1 || sc.Date != "2025-03-10" {
        t.Errorf("conflict = lab %d on %s", sc.LabID, sc.Date)
    }
    // the passing lab 2 item must not have been written either
    if len(store.bookings) != 1 {
        t.Fatalf("store holds %d bookings, want the 1 pre-existing", len(store.bookings))
    }
}

func TestCommitOverlapGuard(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))

    // another member holds lab 1 from 08:00 to 10:00; the default
    // window 09:00-11:00 overlaps it
    store.bookings = append(store.bookings, model.Booking{
        ID: 1, UserID: 3, LabID: 1,
        BookingDate: "2025-03-10", StartTime: "08:00:00", EndTime: "10:00:00",
        Status: model.BookingStatusConfirmed,
    })
    store.nextID = 1

    _, err := eng.Commit(context.Background(), 7, []model.BasketItem{{LabID: 1}}, "")
    var sc *SlotConflictError
    if !errors.As(err, &sc) {
        t.Fatalf("err = %v, want SlotConflictError", err)
    }

    // a cancelled booking does not block the slot
    store.bookings[0].Status = model.BookingStatusCancelled
    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{{LabID: 1}}, "")
    if err != nil {
        t.Fatalf("commit after cancel: %v", err)
    }
    if len(created) != 1 {
        t.Fatalf("created %d bookings, want 1", len(created))
    }
}

func TestCommitCollapsesDuplicateItems(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))

    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{
        {LabID: 1},
        {LabID: 1}, // same lab, same default window
    }, "")
    if err != nil {
        t.Fatalf("commit: %v", err)
    }
    if len(created) != 1 || len(store.bookings) != 1 {
        t.Fatalf("created %d / stored %d, want 1 / 1", len(created), len(store.bookings))
    }
}

func TestCommitConflictingItemsInOneBasket(t *testing.T) {
    cases := []struct {
        name  string
        first model.BasketItem
        other model.BasketItem
    }{
        {
            name:  "overlapping windows",
            first: model.BasketItem{LabID: 1, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "15:00:00"},
            other: model.BasketItem{LabID: 1, BookingDate: "2025-03-12", StartTime: "14:00:00", EndTime: "16:00:00"},
        },
        {
            // one active booking per lab per date, even without overlap
            name:  "disjoint windows on the same date",
            first: model.BasketItem{LabID: 1, BookingDate: "2025-03-12", StartTime: "09:00:00", EndTime: "10:00:00"},
            other: model.BasketItem{LabID: 1, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "15:00:00"},
        },
        {
            name:  "same start, different end",
            first: model.BasketItem{LabID: 1, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "15:00:00"},
            other: model.BasketItem{LabID: 1, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "16:00:00"},
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            eng, store := newTestEngine(activeLab(1, 25))
            _, err := eng.Commit(context.Background(), 7, []model.BasketItem{tc.first, tc.other}, "")
            var sc *SlotConflictError
            if !errors.As(err, &sc) {
                t.Fatalf("err = %v, want SlotConflictError", err)
            }
            if sc.LabID != 1 || sc.Date != "2025-03-12" {
                t.Errorf("conflict reported for lab %d on %s", sc.LabID, sc.Date)
            }
            if len(store.bookings) != 0 {
                t.Fatalf("store holds %d bookings after failed commit, want 0", len(store.bookings))
            }
        })
    }

    // different labs on one date, and one lab across two dates, are fine
    eng, store := newTestEngine(activeLab(1, 25), activeLab(2, 25))
    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{
        {LabID: 1, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "15:00:00"},
        {LabID: 2, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "15:00:00"},
        {LabID: 1, BookingDate: "2025-03-13", StartTime: "13:00:00", EndTime: "15:00:00"},
    }, "")
    if err != nil {
        t.Fatalf("commit: %v", err)
    }
    if len(created) != 3 || len(store.bookings) != 3 {
        t.Fatalf("created %d / stored %d, want 3 / 3", len(created), len(store.bookings))
    }
}

func TestCommitExplicitWindow(t *testing.T) {
    eng, _ := newTestEngine(activeLab(1, 10))

    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{
        {LabID: 1, BookingDate: "2025-03-12", StartTime: "13:00:00", EndTime: "16:00:00"},
    }, "project work")
    if err != nil {
        t.Fatalf("commit: %v", err)
    }
    b := created[0]
    if b.BookingDate != "2025-03-12" || b.StartTime != "13:00:00" || b.EndTime != "16:00:00" {
        t.Errorf("window = %s %s-%s", b.BookingDate, b.StartTime, b.EndTime)
    }
    if b.TotalCost != 30 {
        t.Errorf("cost = %v, want 30 for three hours", b.TotalCost)
    }
    if b.Purpose != "project work" {
        t.Errorf("purpose = %q", b.Purpose)
    }

    // a malformed window fails before any storage call
    _, err = eng.Commit(context.Background(), 7, []model.BasketItem{
        {LabID: 1, BookingDate: "2025-03-12", StartTime: "16:00:00", EndTime: "13:00:00"},
    }, "")
    var iw *InvalidWindowError
    if !errors.As(err, &iw) {
        t.Fatalf("err = %v, want InvalidWindowError", err)
    }
}

func TestCommitStorageFailure(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))
    store.inTxErr = errors.New("connection reset")

    _, err := eng.Commit(context.Background(), 7, []model.BasketItem{{LabID: 1}}, "")
    if !errors.Is(err, ErrStorage) {
        t.Fatalf("err = %v, want ErrStorage wrap", err)
    }
}

func TestConcurrentCommitsSameSlot(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))

    const workers = 8
    var wg sync.WaitGroup
    errs := make([]error, workers)
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(n int) {
            defer wg.Done()
            _, errs[n] = eng.Commit(context.Background(), uint64(100+n), []model.BasketItem{{LabID: 1}}, "")
        }(i)
    }
    wg.Wait()

    succeeded := 0
    for _, err := range errs {
        if err == nil {
            succeeded++
            continue
        }
        var sc *SlotConflictError
        if !errors.As(err, &sc) {
            t.Errorf("unexpected error: %v", err)
        }
    }
    if succeeded != 1 {
        t.Errorf("%d commits succeeded, want exactly 1", succeeded)
    }
    if len(store.bookings) != 1 {
        t.Errorf("store holds %d bookings, want 1", len(store.bookings))
    }
}

func TestCancelLifecycle(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))

    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{{LabID: 1}}, "")
    if err != nil {
        t.Fatalf("commit: %v", err)
    }
    id := created[0].ID

    // a stranger cannot cancel it
    if _, err := eng.Cancel(context.Background(), id, 8, model.RoleMember); !errors.Is(err, ErrForbidden) {
        t.Fatalf("stranger cancel err = %v, want ErrForbidden", err)
    }

    // the owner can
    b, err := eng.Cancel(context.Background(), id, 7, model.RoleMember)
    if err != nil {
        t.Fatalf("owner cancel: %v", err)
    }
    if b.Status != model.BookingStatusCancelled {
        t.Errorf("status = %q, want cancelled", b.Status)
    }
    if store.bookings[0].Status != model.BookingStatusCancelled {
        t.Errorf("stored status = %q, want cancelled", store.bookings[0].Status)
    }

    // cancelling twice is an invalid transition, not an idempotent ok
    _, err = eng.Cancel(context.Background(), id, 7, model.RoleMember)
    var it *InvalidTransitionError
    if !errors.As(err, &it) {
        t.Fatalf("second cancel err = %v, want InvalidTransitionError", err)
    }
}

func TestCancelByAdmin(t *testing.T) {
    eng, _ := newTestEngine(activeLab(1, 25))

    created, err := eng.Commit(context.Background(), 7, []model.BasketItem{{LabID: 1}}, "")
    if err != nil {
        t.Fatalf("commit: %v", err)
    }

    b, err := eng.Cancel(context.Background(), created[0].ID, 1, model.RoleAdmin)
    if err != nil {
        t.Fatalf("admin cancel: %v", err)
    }
    if b.Status != model.BookingStatusCancelled {
        t.Errorf("status = %q, want cancelled", b.Status)
    }
}

func TestCancelMissingBooking(t *testing.T) {
    eng, _ := newTestEngine(activeLab(1, 25))

    _, err := eng.Cancel(context.Background(), 42, 7, model.RoleMember)
    var nf *NotFoundError
    if !errors.As(err, &nf) {
        t.Fatalf("err = %v, want NotFoundError", err)
    }
    if nf.Entity != "booking" || nf.ID != 42 {
        t.Errorf("not found = %s %d", nf.Entity, nf.ID)
    }
}

func TestCancelAfterWindowPassed(t *testing.T) {
    eng, store := newTestEngine(activeLab(1, 25))

    // confirmed booking whose window ended before testNow: it projects
    // as completed and is no longer cancellable
    store.bookings = append(store.bookings, model.Booking{
        ID: 1, UserID: 7, LabID: 1,
        BookingDate: "2025-03-09", StartTime: "10:00:00", EndTime: "12:00:00",
        Status: model.BookingStatusConfirmed,
    })
    store.nextID = 1

    _, err := eng.Cancel(context.Background(), 1, 7, model.RoleMember)
    var it *InvalidTransitionError
    if !errors.As(err, &it) {
        t.Fatalf("err = %v, want InvalidTransitionError", err)
    }
    if it.From != model.BookingStatusCompleted {
        t.Errorf("transition from %q, want completed projection", it.From)
    }
    if store.bookings[0].Status != model.BookingStatusConfirmed {
        t.Errorf("stored status changed to %q", store.bookings[0].Status)
    }
}
