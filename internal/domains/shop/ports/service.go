package ports

import (
	"context"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

// Service exposes shop use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, memberID, itemID int64, quantity int) (int64, error)
	Checkout(ctx context.Context, input shoptypes.CheckoutInput) (int64, error)
	CancelOrder(ctx context.Context, orderID int64) error
	ShipOrder(ctx context.Context, orderID int64) error
	CompleteDelivery(ctx context.Context, orderID int64) error
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	SearchOrders(ctx context.Context, search OrderSearch) ([]*domain.Order, error)

	JoinMember(ctx context.Context, input shoptypes.JoinMemberInput) (int64, error)
	GetMember(ctx context.Context, memberID int64) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]*domain.Member, error)

	RegisterItem(ctx context.Context, input shoptypes.RegisterItemInput) (int64, error)
	UpdateItem(ctx context.Context, input shoptypes.UpdateItemInput) error
	RestockItem(ctx context.Context, itemID int64, amount int) (int, error)
	GetItem(ctx context.Context, itemID int64) (*domain.Item, error)
	ListItems(ctx context.Context) ([]*domain.Item, error)
}
