package model

import (
    "testing"
    "time"
)

func TestBasketAddStampsTime(t *testing.T) {
    var b Basket
    b.Add(BasketItem{LabID: 1, LabName: "Chem Lab"})
    b.Add(BasketItem{LabID: 2, LabName: "Physics Lab", AddedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})

    if b.Len() != 2 {
        t.Fatalf("len = %d, want 2", b.Len())
    }
    if b.Items[0].AddedAt.IsZero() {
        t.Error("added_at not stamped on first item")
    }
    if got := b.Items[1].AddedAt.Year(); got != 2025 {
        t.Errorf("explicit added_at overwritten: year = %d", got)
    }
}

func TestBasketRemoveCompactsIndices(t *testing.T) {
    var b Basket
    for _, id := range []uint64{1, 2, 3} {
        b.Add(BasketItem{LabID: id})
    }

    if !b.Remove(1) {
        t.Fatal("remove(1) = false")
    }
    if b.Len() != 2 {
        t.Fatalf("len = %d, want 2", b.Len())
    }
    // position 1 now holds what used to be position 2
    if b.Items[0].LabID != 1 || b.Items[1].LabID != 3 {
        t.Errorf("items = %d, %d; want 1, 3", b.Items[0].LabID, b.Items[1].LabID)
    }
}

func TestBasketRemoveOutOfRange(t *testing.T) {
    var b Basket
    b.Add(BasketItem{LabID: 1})

    for _, idx := range []int{-1, 1, 99} {
        if b.Remove(idx) {
            t.Errorf("remove(%d) = true, want no-op", idx)
        }
    }
    if b.Len() != 1 {
        t.Fatalf("len = %d after stale removals, want 1", b.Len())
    }
}

func TestBasketClearAndSnapshot(t *testing.T) {
    var b Basket
    b.Add(BasketItem{LabID: 1})
    b.Add(BasketItem{LabID: 2})

    snap := b.Snapshot()
    b.Clear()

    if b.Len() != 0 {
        t.Fatalf("len = %d after clear, want 0", b.Len())
    }
    // the snapshot taken before the clear is untouched
    if len(snap) != 2 || snap[0].LabID != 1 || snap[1].LabID != 2 {
        t.Errorf("snapshot changed: %+v", snap)
    }
}
