package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// IdempotencyKeyRepository stores checkout idempotency keys in the unit of work's transaction.
type IdempotencyKeyRepository struct{ s *session }

// Get loads a record by key, returning nil when absent.
func (r *IdempotencyKeyRepository) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	var rec idempotencyRecord
	if err := r.s.tx.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec.toPort(), nil
}

// Claim inserts the key. The primary key makes a concurrent claim of the same
// key fail once the first transaction commits; PostgreSQL then aborts this one.
func (r *IdempotencyKeyRepository) Claim(ctx context.Context, record ports.IdempotencyRecord) error {
	rec := idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
	}
	if err := r.s.tx.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("key %q: %w", record.Key, ports.ErrIdempotencyKeyClaimed)
		}
		return err
	}
	return nil
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
