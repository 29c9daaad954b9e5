package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different payload.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyKeyClaimed is returned by Claim when the key is already recorded,
	// typically by a concurrent unit of work that committed first.
	ErrIdempotencyKeyClaimed = errors.New("idempotency key already claimed")
)

// IdempotencyRecord captures the association between a client-supplied key and the resulting order.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyKeyRepository records checkout idempotency keys inside a unit of
// work, so a key commits if and only if the order it names commits.
type IdempotencyKeyRepository interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Claim records the key. A key that is already stored yields ErrIdempotencyKeyClaimed.
	Claim(ctx context.Context, record IdempotencyRecord) error
}
