package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// session is the repository set of one unit of work. Each row is materialised
// at most once so every repository hands out the same object for it.
type session struct {
	data    tables
	now     func() time.Time
	members map[int64]*domain.Member
	items   map[int64]*domain.Item
	orders  map[int64]*domain.Order
}

func newSession(data tables, now func() time.Time) *session {
	return &session{
		data:    data,
		now:     now,
		members: map[int64]*domain.Member{},
		items:   map[int64]*domain.Item{},
		orders:  map[int64]*domain.Order{},
	}
}

func (s *session) Members() ports.MemberRepository { return memberRepository{s} }
func (s *session) Items() ports.ItemRepository     { return itemRepository{s} }
func (s *session) Orders() ports.OrderRepository   { return orderRepository{s} }
func (s *session) IdempotencyKeys() ports.IdempotencyKeyRepository {
	return idempotencyKeyRepository{s}
}

func (s *session) member(id int64) (*domain.Member, error) {
	if member, ok := s.members[id]; ok {
		return member, nil
	}
	rec, ok := s.data.members[id]
	if !ok {
		return nil, fmt.Errorf("member %d: %w", id, ports.ErrNotFound)
	}
	address, err := domain.NewAddress(rec.City, rec.Street, rec.Zipcode)
	if err != nil {
		return nil, err
	}
	member := domain.RestoreMember(rec.ID, rec.Name, address)
	s.members[id] = member
	return member, nil
}

func (s *session) item(id int64) (*domain.Item, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	rec, ok := s.data.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, ports.ErrNotFound)
	}
	item := domain.RestoreItem(rec.ID, rec.Name, rec.Price, rec.StockQuantity)
	s.items[id] = item
	return item, nil
}

func (s *session) order(id int64) (*domain.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	rec, ok := s.data.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ports.ErrNotFound)
	}
	member, err := s.member(rec.MemberID)
	if err != nil {
		return nil, err
	}
	shipRec, ok := s.data.shipments[rec.ShipmentID]
	if !ok {
		return nil, fmt.Errorf("shipment %d of order %d: %w", rec.ShipmentID, id, ports.ErrNotFound)
	}
	address, err := domain.NewAddress(shipRec.City, shipRec.Street, shipRec.Zipcode)
	if err != nil {
		return nil, err
	}
	shipment, err := domain.RestoreShipment(shipRec.ID, address, domain.ShipmentStatus(shipRec.Status))
	if err != nil {
		return nil, err
	}

	var lineRecs []lineRecord
	for _, line := range s.data.lines {
		if line.OrderID == id {
			lineRecs = append(lineRecs, line)
		}
	}
	sort.Slice(lineRecs, func(i, j int) bool { return lineRecs[i].Position < lineRecs[j].Position })
	lines := make([]*domain.OrderLine, 0, len(lineRecs))
	for _, lr := range lineRecs {
		item, err := s.item(lr.ItemID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.RestoreOrderLine(lr.ID, item, lr.OrderPrice, lr.Quantity, lr.Restocked))
	}

	order, err := domain.RestoreOrder(rec.ID, member, shipment, rec.OrderedAt, domain.Status(rec.Status), lines)
	if err != nil {
		return nil, err
	}
	s.orders[id] = order
	return order, nil
}

type memberRepository struct{ s *session }

func (r memberRepository) Save(_ context.Context, member *domain.Member) error {
	if member.ID() == 0 {
		member.AssignID(r.s.data.nextID("members"))
	}
	address := member.Address()
	r.s.data.members[member.ID()] = memberRecord{
		ID:      member.ID(),
		Name:    member.Name(),
		City:    address.City(),
		Street:  address.Street(),
		Zipcode: address.Zipcode(),
	}
	r.s.members[member.ID()] = member
	return nil
}

func (r memberRepository) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	return r.s.member(id)
}

func (r memberRepository) FindByName(_ context.Context, name string) ([]*domain.Member, error) {
	var ids []int64
	for id, rec := range r.s.data.members {
		if rec.Name == name {
			ids = append(ids, id)
		}
	}
	return r.load(ids)
}

func (r memberRepository) List(context.Context) ([]*domain.Member, error) {
	ids := make([]int64, 0, len(r.s.data.members))
	for id := range r.s.data.members {
		ids = append(ids, id)
	}
	return r.load(ids)
}

func (r memberRepository) load(ids []int64) ([]*domain.Member, error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	members := make([]*domain.Member, 0, len(ids))
	for _, id := range ids {
		member, err := r.s.member(id)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

type itemRepository struct{ s *session }

func (r itemRepository) Save(_ context.Context, item *domain.Item) error {
	if item.ID() == 0 {
		item.AssignID(r.s.data.nextID("items"))
	}
	r.s.data.items[item.ID()] = itemRecord{
		ID:            item.ID(),
		Name:          item.Name(),
		Price:         item.Price(),
		StockQuantity: item.StockQuantity(),
	}
	r.s.items[item.ID()] = item
	return nil
}

func (r itemRepository) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	return r.s.item(id)
}

func (r itemRepository) List(context.Context) ([]*domain.Item, error) {
	ids := make([]int64, 0, len(r.s.data.items))
	for id := range r.s.data.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	items := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		item, err := r.s.item(id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type orderRepository struct{ s *session }

func (r orderRepository) Save(_ context.Context, order *domain.Order) error {
	if order.Member() == nil || order.Member().ID() == 0 {
		return domain.ErrMemberRequired
	}
	if order.ID() == 0 {
		order.AssignID(r.s.data.nextID("orders"))
	}
	shipment := order.Shipment()
	if shipment.ID() == 0 {
		shipment.AssignID(r.s.data.nextID("shipments"))
	}
	address := shipment.Address()
	r.s.data.shipments[shipment.ID()] = shipmentRecord{
		ID:      shipment.ID(),
		City:    address.City(),
		Street:  address.Street(),
		Zipcode: address.Zipcode(),
		Status:  string(shipment.Status()),
	}
	for position, line := range order.Lines() {
		if line.Item().ID() == 0 {
			return fmt.Errorf("order %d line %d: %w", order.ID(), position, domain.ErrItemRequired)
		}
		if line.ID() == 0 {
			line.AssignID(r.s.data.nextID("order_lines"))
		}
		r.s.data.lines[line.ID()] = lineRecord{
			ID:         line.ID(),
			OrderID:    order.ID(),
			ItemID:     line.Item().ID(),
			Position:   position,
			OrderPrice: line.OrderPrice(),
			Quantity:   line.Quantity(),
			Restocked:  line.Restocked(),
		}
	}
	r.s.data.orders[order.ID()] = orderRecord{
		ID:         order.ID(),
		MemberID:   order.Member().ID(),
		ShipmentID: shipment.ID(),
		OrderedAt:  order.OrderedAt(),
		Status:     string(order.Status()),
	}
	r.s.orders[order.ID()] = order
	return nil
}

func (r orderRepository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	return r.s.order(id)
}

func (r orderRepository) Search(_ context.Context, search ports.OrderSearch) ([]*domain.Order, error) {
	limit := search.Limit
	if limit <= 0 || limit > ports.DefaultSearchLimit {
		limit = ports.DefaultSearchLimit
	}
	var ids []int64
	for id, rec := range r.s.data.orders {
		if search.Status != "" && rec.Status != string(search.Status) {
			continue
		}
		if search.MemberName != "" && r.s.data.members[rec.MemberID].Name != search.MemberName {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.s.order(id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
