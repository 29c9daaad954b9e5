package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	shoppostgres "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/persistence/postgres"
	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
	"github.com/Apurer/go-gin-shop/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-shop/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-shop/internal/platform/postgres"
)

// seed runs the schema migrations and loads the two demo members and four books.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := platformobservability.NewLogger(os.Getenv("LOG_LEVEL"))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed")
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	svc := shopapp.NewService(shoppostgres.NewUnitOfWork(db, shoppostgres.WithLogger(logger)), shopapp.WithLogger(logger))
	members := []shoptypes.JoinMemberInput{
		{Name: "userA", Address: shoptypes.AddressInput{City: "Seoul", Street: "1", Zipcode: "1111"}},
		{Name: "userB", Address: shoptypes.AddressInput{City: "Busan", Street: "2", Zipcode: "2222"}},
	}
	for _, m := range members {
		id, err := svc.JoinMember(ctx, m)
		if errors.Is(err, shopapp.ErrDuplicateMember) {
			logger.Info("member already seeded", slog.String("member.name", m.Name))
			continue
		}
		if err != nil {
			log.Fatalf("failed to seed member %s: %v", m.Name, err)
		}
		logger.Info("member seeded", slog.String("member.name", m.Name), slog.Int64("member.id", id))
	}

	existing, err := svc.ListItems(ctx)
	if err != nil {
		log.Fatalf("failed to list items: %v", err)
	}
	if len(existing) > 0 {
		logger.Info("items already seeded", slog.Int("count", len(existing)))
		return
	}
	items := []shoptypes.RegisterItemInput{
		{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 100},
		{Name: "JPA2 BOOK", Price: 20000, StockQuantity: 100},
		{Name: "SPRING1 BOOK", Price: 20000, StockQuantity: 200},
		{Name: "SPRING2 BOOK", Price: 40000, StockQuantity: 300},
	}
	for _, item := range items {
		id, err := svc.RegisterItem(ctx, item)
		if err != nil {
			log.Fatalf("failed to seed item %s: %v", item.Name, err)
		}
		logger.Info("item seeded", slog.String("item.name", item.Name), slog.Int64("item.id", id))
	}
}
