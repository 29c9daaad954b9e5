package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

var _ ports.UnitOfWork = (*Store)(nil)

type memberRecord struct {
	ID      int64
	Name    string
	City    string
	Street  string
	Zipcode string
}

type itemRecord struct {
	ID            int64
	Name          string
	Price         int64
	StockQuantity int
}

type shipmentRecord struct {
	ID      int64
	City    string
	Street  string
	Zipcode string
	Status  string
}

type orderRecord struct {
	ID         int64
	MemberID   int64
	ShipmentID int64
	OrderedAt  time.Time
	Status     string
}

type lineRecord struct {
	ID         int64
	OrderID    int64
	ItemID     int64
	Position   int
	OrderPrice int64
	Quantity   int
	Restocked  bool
}

type keyRecord struct {
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
}

type tables struct {
	members   map[int64]memberRecord
	items     map[int64]itemRecord
	shipments map[int64]shipmentRecord
	orders    map[int64]orderRecord
	lines     map[int64]lineRecord
	keys      map[string]keyRecord
	lastID    map[string]int64
}

func newTables() tables {
	return tables{
		members:   map[int64]memberRecord{},
		items:     map[int64]itemRecord{},
		shipments: map[int64]shipmentRecord{},
		orders:    map[int64]orderRecord{},
		lines:     map[int64]lineRecord{},
		keys:      map[string]keyRecord{},
		lastID:    map[string]int64{},
	}
}

func (t tables) clone() tables {
	return tables{
		members:   maps.Clone(t.members),
		items:     maps.Clone(t.items),
		shipments: maps.Clone(t.shipments),
		orders:    maps.Clone(t.orders),
		lines:     maps.Clone(t.lines),
		keys:      maps.Clone(t.keys),
		lastID:    maps.Clone(t.lastID),
	}
}

func (t tables) nextID(table string) int64 {
	t.lastID[table]++
	return t.lastID[table]
}

// Store keeps shop state in process memory for development and tests.
// Units of work run one at a time against a private copy of the tables that
// replaces the shared state only when the work succeeds.
type Store struct {
	mu   sync.RWMutex
	data tables
	now  func() time.Time
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{data: newTables(), now: time.Now}
}

// Do runs fn in a unit of work. Nothing fn saved is visible to other units
// of work unless fn returns nil and ctx is still live.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	sess := newSession(s.data.clone(), s.now)
	if err := fn(ctx, sess); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = sess.data
	return nil
}

// View runs fn against a snapshot of the committed state. Saves made by fn
// are dropped and a running Do is never blocked on fn.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()
	return fn(ctx, newSession(snapshot, s.now))
}

// Reset drops all stored state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = newTables()
}
