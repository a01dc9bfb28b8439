package repository

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/lab-room-reservation/internal/model"
)

// BasketRepo stores each member's pre-commit basket in Redis as one
// JSON document under basket:<user_id>.  The basket is scratch state:
// it expires on its own after the TTL and is deleted outright once a
// commit succeeds.  Unlike the rate limiter, basket storage does not
// degrade gracefully: members cannot book without it, so the server
// refuses to start when Redis is unreachable.
type BasketRepo struct {
    rdb *redis.Client
    ttl time.Duration
}

// NewBasketRepo returns a BasketRepo writing through the given client.
// A non-positive ttl disables expiry.
func NewBasketRepo(rdb *redis.Client, ttl time.Duration) *BasketRepo {
    return &BasketRepo{rdb: rdb, ttl: ttl}
}

func basketKey(userID uint64) string { return fmt.Sprintf("basket:%d", userID) }

// Load returns the member's current basket.  A missing key is an empty
// basket, not an error.
func (r *BasketRepo) Load(ctx context.Context, userID uint64) (model.Basket, error) {
    raw, err := r.rdb.Get(ctx, basketKey(userID)).Bytes()
    if err != nil {
        if err == redis.Nil {
            return model.Basket{}, nil
        }
        return model.Basket{}, fmt.Errorf("load basket: %w", err)
    }
    var b model.Basket
    if err := json.Unmarshal(raw, &b); err != nil {
        // a corrupt basket is unrecoverable scratch state; start over
        return model.Basket{}, nil
    }
    return b, nil
}

// Save overwrites the member's basket and refreshes its TTL.
func (r *BasketRepo) Save(ctx context.Context, userID uint64, b model.Basket) error {
    raw, err := json.Marshal(b)
    if err != nil {
        return fmt.Errorf("encode basket: %w", err)
    }
    if err := r.rdb.Set(ctx, basketKey(userID), raw, r.ttl).Err(); err != nil {
        return fmt.Errorf("save basket: %w", err)
    }
    return nil
}

// Delete drops the basket, typically right after a successful commit.
func (r *BasketRepo) Delete(ctx context.Context, userID uint64) error {
    if err := r.rdb.Del(ctx, basketKey(userID)).Err(); err != nil {
        return fmt.Errorf("delete basket: %w", err)
    }
    return nil
}
