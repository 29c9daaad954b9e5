package memory

import (
	"context"
	"fmt"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

type idempotencyKeyRepository struct{ s *session }

func (r idempotencyKeyRepository) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	rec, ok := r.s.data.keys[key]
	if !ok {
		return nil, nil
	}
	return &ports.IdempotencyRecord{
		Key:         key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.CreatedAt,
	}, nil
}

func (r idempotencyKeyRepository) Claim(_ context.Context, record ports.IdempotencyRecord) error {
	if _, ok := r.s.data.keys[record.Key]; ok {
		return fmt.Errorf("key %q: %w", record.Key, ports.ErrIdempotencyKeyClaimed)
	}
	r.s.data.keys[record.Key] = keyRecord{
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   r.s.now(),
	}
	return nil
}
