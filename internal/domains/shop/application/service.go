package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// Service orchestrates the shop bounded context use cases.
type Service struct {
	uow       ports.UnitOfWork
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// Option customises the service.
type Option func(*Service)

// WithEventPublisher sets where committed domain events are sent.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithLogger overrides the logger used for post-commit failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the shop service with its dependencies.
func NewService(uow ports.UnitOfWork, opts ...Option) *Service {
	s := &Service{
		uow:       uow,
		publisher: ports.NoopEventPublisher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder orders quantity units of one item for a member, shipping to the member's address.
func (s *Service) PlaceOrder(ctx context.Context, memberID, itemID int64, quantity int) (int64, error) {
	return s.Checkout(ctx, shoptypes.CheckoutInput{
		MemberID: memberID,
		Lines:    []shoptypes.CheckoutLineInput{{ItemID: itemID, Quantity: quantity}},
	})
}

// Checkout places a possibly multi-line order in a single unit of work. Stock taken by
// earlier lines is returned when a later line cannot be covered.
//
// A non-blank idempotency key is recorded in the same unit of work as the order, so
// a retried or concurrent checkout with that key returns the first order's id.
func (s *Service) Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" {
		hash, err := FingerprintCheckout(input)
		if err != nil {
			return 0, err
		}
		fingerprint = hash
	}

	var (
		placed   *domain.Order
		replayed int64
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		placed, replayed = nil, 0
		if key != "" {
			orderID, err := replay(ctx, repos, key, fingerprint)
			if err != nil || orderID != 0 {
				replayed = orderID
				return err
			}
		}
		order, err := placeOrder(ctx, repos, input)
		if err != nil {
			return err
		}
		if key != "" {
			err := repos.IdempotencyKeys().Claim(ctx, ports.IdempotencyRecord{
				Key:         key,
				RequestHash: fingerprint,
				OrderID:     order.ID(),
			})
			if err != nil {
				return err
			}
		}
		placed = order
		return nil
	})
	if errors.Is(err, ports.ErrIdempotencyKeyClaimed) {
		// Another checkout with this key committed after our lookup; its order stands.
		err = s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
			orderID, err := replay(ctx, repos, key, fingerprint)
			if err == nil && orderID == 0 {
				return ports.ErrIdempotencyKeyClaimed
			}
			placed, replayed = nil, orderID
			return err
		})
	}
	if err != nil {
		return 0, mapError(err)
	}
	if replayed != 0 {
		return replayed, nil
	}
	s.publish(ctx, placed)
	return placed.ID(), nil
}

// replay returns the order recorded for key, or zero when the key is unused.
func replay(ctx context.Context, repos ports.Repositories, key, fingerprint string) (int64, error) {
	existing, err := repos.IdempotencyKeys().Get(ctx, key)
	if err != nil || existing == nil {
		return 0, err
	}
	if existing.RequestHash != fingerprint {
		return 0, ports.ErrIdempotencyConflict
	}
	return existing.OrderID, nil
}

func placeOrder(ctx context.Context, repos ports.Repositories, input shoptypes.CheckoutInput) (*domain.Order, error) {
	member, err := repos.Members().GetByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	shipTo := member.Address()
	if input.ShipTo != nil {
		shipTo, err = domain.NewAddress(input.ShipTo.City, input.ShipTo.Street, input.ShipTo.Zipcode)
		if err != nil {
			return nil, err
		}
	}
	shipment, err := domain.NewShipment(shipTo)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.OrderLine, 0, len(input.Lines))
	touched := make([]*domain.Item, 0, len(input.Lines))
	for _, requested := range input.Lines {
		item, err := repos.Items().GetByID(ctx, requested.ItemID)
		if err != nil {
			return nil, err
		}
		line, err := domain.NewOrderLine(item, item.Price(), requested.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		touched = appendItem(touched, item)
	}

	order, err := domain.CreateOrder(member, shipment, lines...)
	if err != nil {
		return nil, err
	}
	for _, item := range touched {
		if err := repos.Items().Save(ctx, item); err != nil {
			return nil, err
		}
	}
	if err := repos.Orders().Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels a placed order and returns its stock, atomically.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, func(order *domain.Order) error {
		return order.Cancel()
	}, true)
}

// ShipOrder marks the order's shipment as shipped.
func (s *Service) ShipOrder(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, func(order *domain.Order) error {
		return order.Ship()
	}, false)
}

// CompleteDelivery marks the order's shipment as delivered. Delivered orders can no longer be cancelled.
func (s *Service) CompleteDelivery(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, func(order *domain.Order) error {
		return order.CompleteDelivery()
	}, false)
}

func (s *Service) transition(ctx context.Context, orderID int64, apply func(*domain.Order) error, saveItems bool) error {
	var changed *domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := repos.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := apply(order); err != nil {
			return err
		}
		if saveItems {
			var items []*domain.Item
			for _, line := range order.Lines() {
				items = appendItem(items, line.Item())
			}
			for _, item := range items {
				if err := repos.Items().Save(ctx, item); err != nil {
					return err
				}
			}
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		changed = order
		return nil
	})
	if err != nil {
		return mapError(err)
	}
	s.publish(ctx, changed)
	return nil
}

// GetOrder loads one order with its member, shipment, and lines.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
		loaded, err := repos.Orders().GetByID(ctx, orderID)
		order = loaded
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// SearchOrders filters orders by member name and status, newest first.
func (s *Service) SearchOrders(ctx context.Context, search ports.OrderSearch) ([]*domain.Order, error) {
	if search.Status != "" && search.Status != domain.StatusPlaced && search.Status != domain.StatusCancelled {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	if search.Limit <= 0 || search.Limit > ports.DefaultSearchLimit {
		search.Limit = ports.DefaultSearchLimit
	}
	var orders []*domain.Order
	err := s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
		found, err := repos.Orders().Search(ctx, search)
		orders = found
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// JoinMember registers a member whose name is not taken yet.
func (s *Service) JoinMember(ctx context.Context, input shoptypes.JoinMemberInput) (int64, error) {
	var memberID int64
	err := s.uow.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		address, err := domain.NewAddress(input.Address.City, input.Address.Street, input.Address.Zipcode)
		if err != nil {
			return err
		}
		member, err := domain.NewMember(input.Name, address)
		if err != nil {
			return err
		}
		existing, err := repos.Members().FindByName(ctx, member.Name())
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrDuplicateMember
		}
		if err := repos.Members().Save(ctx, member); err != nil {
			return err
		}
		memberID = member.ID()
		return nil
	})
	if err != nil {
		return 0, mapError(err)
	}
	return memberID, nil
}

// GetMember loads a member by id.
func (s *Service) GetMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	var member *domain.Member
	err := s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
		loaded, err := repos.Members().GetByID(ctx, memberID)
		member = loaded
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return member, nil
}

// ListMembers returns every member ordered by id.
func (s *Service) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	var members []*domain.Member
	err := s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
		loaded, err := repos.Members().List(ctx)
		members = loaded
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return members, nil
}

// RegisterItem adds an item to the catalog.
func (s *Service) RegisterItem(ctx context.Context, input shoptypes.RegisterItemInput) (int64, error) {
	var itemID int64
	err := s.uow.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := domain.NewItem(input.Name, input.Price, input.StockQuantity)
		if err != nil {
			return err
		}
		if err := repos.Items().Save(ctx, item); err != nil {
			return err
		}
		itemID = item.ID()
		return nil
	})
	if err != nil {
		return 0, mapError(err)
	}
	return itemID, nil
}

// UpdateItem changes an item's name and price. Lines already ordered keep their price.
func (s *Service) UpdateItem(ctx context.Context, input shoptypes.UpdateItemInput) error {
	err := s.uow.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := repos.Items().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if err := item.ChangeDetails(input.Name, input.Price); err != nil {
			return err
		}
		return repos.Items().Save(ctx, item)
	})
	return mapError(err)
}

// RestockItem adds amount units to an item's stock and returns the new quantity.
func (s *Service) RestockItem(ctx context.Context, itemID int64, amount int) (int, error) {
	var stock int
	err := s.uow.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := repos.Items().GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		stock, err = item.IncreaseStock(amount)
		if err != nil {
			return err
		}
		return repos.Items().Save(ctx, item)
	})
	if err != nil {
		return 0, mapError(err)
	}
	return stock, nil
}

// GetItem loads an item by id.
func (s *Service) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	var item *domain.Item
	err := s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
		loaded, err := repos.Items().GetByID(ctx, itemID)
		item = loaded
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// ListItems returns the catalog ordered by id.
func (s *Service) ListItems(ctx context.Context) ([]*domain.Item, error) {
	var items []*domain.Item
	err := s.uow.View(ctx, func(ctx context.Context, repos ports.Repositories) error {
		loaded, err := repos.Items().List(ctx)
		items = loaded
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// publish sends the order's events once its unit of work has committed. A failed
// publish is logged; the order change itself stands.
func (s *Service) publish(ctx context.Context, order *domain.Order) {
	if order == nil {
		return
	}
	events := order.Events()
	order.ClearEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "publish order events failed",
			slog.Int64("order.id", order.ID()),
			slog.Int("events", len(events)),
			slog.String("error", err.Error()),
		)
	}
}

func appendItem(items []*domain.Item, item *domain.Item) []*domain.Item {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}

var _ ports.Service = (*Service)(nil)
