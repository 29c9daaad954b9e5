package postgres

import (
	"context"
	"fmt"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

var (
	_ ports.MemberRepository = (*MemberRepository)(nil)
	_ ports.ItemRepository   = (*ItemRepository)(nil)
	_ ports.OrderRepository  = (*OrderRepository)(nil)
)

// MemberRepository persists members within one unit of work.
type MemberRepository struct{ s *session }

// Save inserts a new member or updates an existing one.
func (r *MemberRepository) Save(ctx context.Context, member *domain.Member) error {
	rec := memberRecord{
		ID:      member.ID(),
		Name:    member.Name(),
		Address: toAddressColumns(member.Address()),
	}
	if err := upsert(ctx, r.s.tx, &rec, member.ID() == 0,
		"name", "address_city", "address_street", "address_zipcode"); err != nil {
		return err
	}
	member.AssignID(rec.ID)
	r.s.members[rec.ID] = member
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.s.member(ctx, id)
}

// FindByName returns members with exactly this name.
func (r *MemberRepository) FindByName(ctx context.Context, name string) ([]*domain.Member, error) {
	var records []memberRecord
	if err := r.s.tx.WithContext(ctx).Where("name = ?", name).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.adopt(records)
}

func (r *MemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	var records []memberRecord
	if err := r.s.tx.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return r.adopt(records)
}

func (r *MemberRepository) adopt(records []memberRecord) ([]*domain.Member, error) {
	members := make([]*domain.Member, 0, len(records))
	for _, rec := range records {
		member, err := r.s.adoptMember(rec)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

// ItemRepository persists inventory items within one unit of work.
type ItemRepository struct{ s *session }

// Save inserts a new item or writes back its details and stock.
func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) error {
	rec := itemRecord{
		ID:            item.ID(),
		Name:          item.Name(),
		Price:         item.Price(),
		StockQuantity: item.StockQuantity(),
	}
	if err := upsert(ctx, r.s.tx, &rec, item.ID() == 0, "name", "price", "stock_quantity"); err != nil {
		return err
	}
	item.AssignID(rec.ID)
	r.s.items[rec.ID] = item
	return nil
}

// GetByID loads an item. In a writing unit of work the row stays locked until it ends.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	return r.s.item(ctx, id)
}

func (r *ItemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	var records []itemRecord
	if err := r.s.tx.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, r.s.adoptItem(rec))
	}
	return items, nil
}

// OrderRepository persists order aggregates within one unit of work.
type OrderRepository struct{ s *session }

// Save writes the order with its shipment and lines. The member and items
// are referenced by id and must have been saved already.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if order.Member() == nil || order.Member().ID() == 0 {
		return domain.ErrMemberRequired
	}
	shipment := order.Shipment()
	shipRec := shipmentRecord{
		ID:      shipment.ID(),
		Address: toAddressColumns(shipment.Address()),
		Status:  string(shipment.Status()),
	}
	if err := upsert(ctx, r.s.tx, &shipRec, shipment.ID() == 0,
		"address_city", "address_street", "address_zipcode", "status"); err != nil {
		return err
	}
	shipment.AssignID(shipRec.ID)

	rec := orderRecord{
		ID:         order.ID(),
		MemberID:   order.Member().ID(),
		ShipmentID: shipment.ID(),
		OrderedAt:  order.OrderedAt(),
		Status:     string(order.Status()),
	}
	if err := upsert(ctx, r.s.tx, &rec, order.ID() == 0, "member_id", "shipment_id", "ordered_at", "status"); err != nil {
		return err
	}
	order.AssignID(rec.ID)

	for position, line := range order.Lines() {
		if line.Item().ID() == 0 {
			return fmt.Errorf("order %d line %d: %w", order.ID(), position, domain.ErrItemRequired)
		}
		lineRec := orderLineRecord{
			ID:         line.ID(),
			OrderID:    order.ID(),
			ItemID:     line.Item().ID(),
			Position:   position,
			OrderPrice: line.OrderPrice(),
			Quantity:   line.Quantity(),
			Restocked:  line.Restocked(),
		}
		if err := upsert(ctx, r.s.tx, &lineRec, line.ID() == 0, "restocked"); err != nil {
			return err
		}
		line.AssignID(lineRec.ID)
	}
	r.s.orders[order.ID()] = order
	return nil
}

// GetByID loads an order with its lines' items, row-locking them in a writing unit of work.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.s.order(ctx, id)
}

// Search lists matching orders newest first. The matched order rows are never locked.
func (r *OrderRepository) Search(ctx context.Context, search ports.OrderSearch) ([]*domain.Order, error) {
	limit := search.Limit
	if limit <= 0 || limit > ports.DefaultSearchLimit {
		limit = ports.DefaultSearchLimit
	}
	query := r.s.tx.WithContext(ctx).Model(&orderRecord{})
	if search.Status != "" {
		query = query.Where("orders.status = ?", string(search.Status))
	}
	if search.MemberName != "" {
		query = query.Joins("JOIN members ON members.id = orders.member_id").
			Where("members.name = ?", search.MemberName)
	}
	var records []orderRecord
	if err := query.Order("orders.id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, rec := range records {
		order, err := r.s.adoptOrder(ctx, rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
