package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/innomart/innomart-server/config"
	"github.com/innomart/innomart-server/internal/domain/entity"
	"github.com/innomart/innomart-server/internal/infrastructure/postgres"
	"github.com/innomart/innomart-server/pkg/helpers"
)

// Seeds a demo account and one listing for local development.
// Safe to run against an empty database only; it does not upsert.

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	listings := postgres.NewListingRepository(pool)

	hash, err := helpers.HashPassword("demo-password")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	demo := &entity.User{
		Username: "demo",
		Email:    "demo@innomart.dev",
		DOB:      "1995-06-15",
		Password: hash,
	}
	if err := users.Create(ctx, demo); err != nil {
		log.Fatalf("seed user: %v", err)
	}
	log.Printf("created user %s (%s)", demo.Username, demo.ID)

	listing := &entity.Listing{
		Name:        "Solar phone charger",
		Cost:        499.00,
		Description: "Foldable solar panel with USB-C output, charges a phone in two hours of sunlight.",
		UserID:      demo.ID,
		UpiID:       "demo@upi",
		Address: entity.Address{
			Street:  "12 Maker Lane",
			City:    "Pune",
			State:   "Maharashtra",
			ZipCode: "411001",
			Country: "India",
		},
		Contact: entity.Contact{Phone: "+91 98765 43210"},
	}
	if err := listings.Create(ctx, listing); err != nil {
		log.Fatalf("seed listing: %v", err)
	}
	log.Printf("created listing %s (%s)", listing.Name, listing.ID)
}
