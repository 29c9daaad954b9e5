package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// session binds repositories to one transaction and keeps one object per loaded row.
// Items and orders are row-locked on load unless the session only reads.
type session struct {
	tx      *gorm.DB
	lock    bool
	members map[int64]*domain.Member
	items   map[int64]*domain.Item
	orders  map[int64]*domain.Order
}

func newSession(tx *gorm.DB, lock bool) *session {
	return &session{
		tx:      tx,
		lock:    lock,
		members: map[int64]*domain.Member{},
		items:   map[int64]*domain.Item{},
		orders:  map[int64]*domain.Order{},
	}
}

func (s *session) Members() ports.MemberRepository { return &MemberRepository{s} }
func (s *session) Items() ports.ItemRepository     { return &ItemRepository{s} }
func (s *session) Orders() ports.OrderRepository   { return &OrderRepository{s} }
func (s *session) IdempotencyKeys() ports.IdempotencyKeyRepository {
	return &IdempotencyKeyRepository{s}
}

// locked scopes a query to take row locks when the session writes.
func (s *session) locked() *gorm.DB {
	if !s.lock {
		return s.tx
	}
	return s.tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *session) member(ctx context.Context, id int64) (*domain.Member, error) {
	if member, ok := s.members[id]; ok {
		return member, nil
	}
	var rec memberRecord
	if err := s.tx.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member %d: %w", id, ports.ErrNotFound)
		}
		return nil, err
	}
	return s.adoptMember(rec)
}

func (s *session) adoptMember(rec memberRecord) (*domain.Member, error) {
	if member, ok := s.members[rec.ID]; ok {
		return member, nil
	}
	address, err := rec.Address.toDomain()
	if err != nil {
		return nil, err
	}
	member := domain.RestoreMember(rec.ID, rec.Name, address)
	s.members[rec.ID] = member
	return member, nil
}

func (s *session) item(ctx context.Context, id int64) (*domain.Item, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	var rec itemRecord
	if err := s.locked().WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %d: %w", id, ports.ErrNotFound)
		}
		return nil, err
	}
	return s.adoptItem(rec), nil
}

func (s *session) adoptItem(rec itemRecord) *domain.Item {
	if item, ok := s.items[rec.ID]; ok {
		return item
	}
	item := domain.RestoreItem(rec.ID, rec.Name, rec.Price, rec.StockQuantity)
	s.items[rec.ID] = item
	return item
}

func (s *session) order(ctx context.Context, id int64) (*domain.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	var rec orderRecord
	if err := s.locked().WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ports.ErrNotFound)
		}
		return nil, err
	}
	return s.adoptOrder(ctx, rec)
}

func (s *session) adoptOrder(ctx context.Context, rec orderRecord) (*domain.Order, error) {
	if order, ok := s.orders[rec.ID]; ok {
		return order, nil
	}
	member, err := s.member(ctx, rec.MemberID)
	if err != nil {
		return nil, err
	}

	var shipRec shipmentRecord
	if err := s.tx.WithContext(ctx).First(&shipRec, "id = ?", rec.ShipmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shipment %d of order %d: %w", rec.ShipmentID, rec.ID, ports.ErrNotFound)
		}
		return nil, err
	}
	address, err := shipRec.Address.toDomain()
	if err != nil {
		return nil, err
	}
	shipment, err := domain.RestoreShipment(shipRec.ID, address, domain.ShipmentStatus(shipRec.Status))
	if err != nil {
		return nil, err
	}

	var lineRecs []orderLineRecord
	if err := s.tx.WithContext(ctx).Where("order_id = ?", rec.ID).Order("position").Find(&lineRecs).Error; err != nil {
		return nil, err
	}
	lines := make([]*domain.OrderLine, 0, len(lineRecs))
	for _, lr := range lineRecs {
		item, err := s.item(ctx, lr.ItemID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.RestoreOrderLine(lr.ID, item, lr.OrderPrice, lr.Quantity, lr.Restocked))
	}

	order, err := domain.RestoreOrder(rec.ID, member, shipment, rec.OrderedAt, domain.Status(rec.Status), lines)
	if err != nil {
		return nil, err
	}
	s.orders[rec.ID] = order
	return order, nil
}

// upsert inserts rows without an id and updates the listed columns of rows that have one.
func upsert(ctx context.Context, tx *gorm.DB, record any, isNew bool, columns ...string) error {
	db := tx.WithContext(ctx)
	if !isNew {
		db = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
		})
	}
	return db.Create(record).Error
}
