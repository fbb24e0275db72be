package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyCheckoutAttempt marks a checkout idempotency key as consumed:
	// idem:checkout:{key}
	keyCheckoutAttempt = "idem:checkout:%s"

	ttlIdempotency = 24 * time.Hour
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// IdempotencyGuard blocks duplicate checkout submissions carrying the same
// Idempotency-Key. It guards the HTTP boundary only; the orchestrator itself
// never retries a charge.
type IdempotencyGuard struct {
	rdb *redis.Client
}

func NewIdempotencyGuard(rdb *redis.Client) *IdempotencyGuard {
	return &IdempotencyGuard{rdb: rdb}
}

// Begin claims the key. It returns false when another submission already
// holds it, in which case the caller must not run checkout again.
func (g *IdempotencyGuard) Begin(ctx context.Context, key string) (bool, error) {
	if g == nil || g.rdb == nil || key == "" {
		return true, nil
	}
	return g.rdb.SetNX(ctx, fmt.Sprintf(keyCheckoutAttempt, key), "1", ttlIdempotency).Result()
}

// Release frees the key so the client may retry after a clean failure
// (validation, decline, out of stock) without minting a new key.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if g == nil || g.rdb == nil || key == "" {
		return nil
	}
	return g.rdb.Del(ctx, fmt.Sprintf(keyCheckoutAttempt, key)).Err()
}
