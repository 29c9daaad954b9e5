package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

var ErrNotFound = errors.New("not found")

// DefaultSearchLimit caps order searches that do not set a limit.
const DefaultSearchLimit = 1000

// OrderSearch filters orders by member name and status. Zero values match everything.
type OrderSearch struct {
	MemberName string
	Status     domain.Status
	Limit      int
}

// MemberRepository persists members.
type MemberRepository interface {
	Save(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	FindByName(ctx context.Context, name string) ([]*domain.Member, error)
	List(ctx context.Context) ([]*domain.Member, error)
}

// ItemRepository persists inventory items, including their stock quantity.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
}

// OrderRepository persists order aggregates. Save cascades to the shipment and
// every line; the member and items must already be saved and are not written.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Search(ctx context.Context, search OrderSearch) ([]*domain.Order, error)
}

// Repositories is the set of repositories bound to one unit of work. Loading
// the same row twice within a unit of work yields the same object.
type Repositories interface {
	Members() MemberRepository
	Items() ItemRepository
	Orders() OrderRepository
	IdempotencyKeys() IdempotencyKeyRepository
}

// UnitOfWork runs fn atomically: everything saved through repos commits
// together when fn returns nil and is discarded when it returns an error.
// Writers touching the same rows are serialized for the duration of fn.
//
// View runs fn as a read: rows are loaded without write locks and anything
// fn saves is discarded.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
