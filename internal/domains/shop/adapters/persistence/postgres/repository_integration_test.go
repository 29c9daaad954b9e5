//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
	"github.com/Apurer/go-gin-shop/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-shop/internal/platform/postgres"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestPostgres_PlaceCancelRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	svc := shopapp.NewService(NewUnitOfWork(db))
	ctx := context.Background()
	memberID, itemID := seedShop(t, svc, 10)

	orderID, err := svc.PlaceOrder(ctx, memberID, itemID, 2)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, memberID, itemID, 11)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	item, err := svc.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 8, item.StockQuantity())

	require.NoError(t, svc.CancelOrder(ctx, orderID))
	item, err = svc.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.StockQuantity())

	order, err := svc.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status())

	found, err := svc.SearchOrders(ctx, ports.OrderSearch{MemberName: "kim", Status: domain.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestPostgres_RowLocksSerializeStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	svc := shopapp.NewService(NewUnitOfWork(db))
	ctx := context.Background()
	memberID, itemID := seedShop(t, svc, 10)
	var placed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := svc.PlaceOrder(gctx, memberID, itemID, 1)
			switch {
			case err == nil:
				placed.Add(1)
				return nil
			case errors.Is(err, domain.ErrInsufficientStock):
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(10), placed.Load())

	item, err := svc.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Zero(t, item.StockQuantity())
}

func TestPostgres_IdempotencyConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	svc := shopapp.NewService(NewUnitOfWork(db))
	ctx := context.Background()
	memberID, itemID := seedShop(t, svc, 10)

	input := shoptypes.CheckoutInput{
		MemberID:       memberID,
		Lines:          []shoptypes.CheckoutLineInput{{ItemID: itemID, Quantity: 1}},
		IdempotencyKey: "pg-key",
	}
	first, err := svc.Checkout(ctx, input)
	require.NoError(t, err)
	replayed, err := svc.Checkout(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first, replayed)

	input.Lines[0].Quantity = 2
	_, err = svc.Checkout(ctx, input)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestPostgres_ConcurrentSameKeyPlacesOneOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	svc := shopapp.NewService(NewUnitOfWork(db))
	ctx := context.Background()
	memberID, itemID := seedShop(t, svc, 10)
	input := shoptypes.CheckoutInput{
		MemberID:       memberID,
		Lines:          []shoptypes.CheckoutLineInput{{ItemID: itemID, Quantity: 2}},
		IdempotencyKey: "pg-double-submit",
	}

	ids := make([]int64, 10)
	g, gctx := errgroup.WithContext(ctx)
	for i := range ids {
		g.Go(func() error {
			id, err := svc.Checkout(gctx, input)
			ids[i] = id
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var orders int64
	require.NoError(t, db.Model(&orderRecord{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)

	item, err := svc.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 8, item.StockQuantity())
}

func TestPostgres_ReadsDoNotWaitForRowLocks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	svc := shopapp.NewService(NewUnitOfWork(db))
	ctx := context.Background()
	memberID, itemID := seedShop(t, svc, 10)
	orderID, err := svc.PlaceOrder(ctx, memberID, itemID, 1)
	require.NoError(t, err)

	holder := db.Begin()
	require.NoError(t, holder.Error)
	defer holder.Rollback()
	require.NoError(t, holder.Clauses(clause.Locking{Strength: "UPDATE"}).First(&itemRecord{}, itemID).Error)
	require.NoError(t, holder.Clauses(clause.Locking{Strength: "UPDATE"}).First(&orderRecord{}, orderID).Error)

	readCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	item, err := svc.GetItem(readCtx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 9, item.StockQuantity())
	_, err = svc.GetOrder(readCtx, orderID)
	require.NoError(t, err)
	found, err := svc.SearchOrders(readCtx, ports.OrderSearch{MemberName: "kim"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
