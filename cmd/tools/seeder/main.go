// Command seeder bootstraps a development database: it ensures the schema,
// writes the default company profile, and loads a handful of catalog
// products so quotations can be drafted immediately.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/catalog"
	"github.com/inhaus-automation/backend/internal/config"
	"github.com/inhaus-automation/backend/internal/settings"
	"github.com/inhaus-automation/backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	settingsStore := settings.NewStore(pool)
	if _, err := settingsStore.Upsert(ctx, settings.Defaults()); err != nil {
		log.Fatalf("seed settings: %v", err)
	}
	log.Println("seeded default company settings")

	products := catalog.NewStore(pool)
	seeded, skipped := 0, 0
	for _, p := range sampleProducts() {
		if _, err := products.Insert(ctx, p); err != nil {
			if errors.Is(err, catalog.ErrDuplicateModel) {
				skipped++
				continue
			}
			log.Fatalf("seed product %s: %v", p.ModelNo, err)
		}
		seeded++
	}
	log.Printf("seeded %d products (%d already present)", seeded, skipped)
}

func sampleProducts() []catalog.Product {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []catalog.Product{
		{
			ModelNo:     "SW-T2-BLK",
			Name:        "2-Gang Touch Switch",
			Description: "Capacitive glass touch panel, 2 channels, Wi-Fi + RF",
			Category:    "Switches",
			Brand:       "Inhaus",
			ListPrice:   price("3450.00"),
			Cost:        price("2100.00"),
			Active:      true,
		},
		{
			ModelNo:     "SW-T4-BLK",
			Name:        "4-Gang Touch Switch",
			Description: "Capacitive glass touch panel, 4 channels, Wi-Fi + RF",
			Category:    "Switches",
			Brand:       "Inhaus",
			ListPrice:   price("4850.00"),
			Cost:        price("2950.00"),
			Active:      true,
		},
		{
			ModelNo:     "CURT-M1",
			Name:        "Curtain Motor",
			Description: "Quiet tubular motor with app and voice control, 50kg load",
			Category:    "Curtains",
			Brand:       "Inhaus",
			ListPrice:   price("12500.00"),
			Cost:        price("7800.00"),
			Active:      true,
		},
		{
			ModelNo:     "CAM-DOME-2K",
			Name:        "2K Indoor Dome Camera",
			Description: "2K resolution, night vision, two-way audio, SD + cloud",
			Category:    "Security",
			Brand:       "Inhaus",
			ListPrice:   price("6200.00"),
			Cost:        price("3600.00"),
			Active:      true,
		},
		{
			ModelNo:     "HUB-PRO",
			Name:        "Automation Hub Pro",
			Description: "Zigbee + Wi-Fi gateway, scenes, schedules, 200 devices",
			Category:    "Hubs",
			Brand:       "Inhaus",
			ListPrice:   price("9800.00"),
			Cost:        price("5400.00"),
			Active:      true,
		},
	}
}
