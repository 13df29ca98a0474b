// README: Seeder; loads the demo guest pool and a 30-day activity schedule
// into Postgres.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"concierge/internal/config"
	"concierge/internal/infra"
	"concierge/internal/modules/catalog"
	"concierge/internal/modules/guest"
)

func main() {
	_ = godotenv.Load()

	days := flag.Int("days", 30, "number of days of schedule to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("postgres init: %v", err)
	}
	defer dbPool.Close()

	now := time.Now()

	guestStore := guest.NewStore(dbPool)
	for _, p := range guest.SeedPool(now) {
		profile := p
		if err := guestStore.Create(ctx, &profile); err != nil {
			log.Fatalf("seed guest %s: %v", p.ID, err)
		}
	}

	entries := catalog.Expand(catalog.TemplatePool(), now, *days)
	if err := catalog.NewStore(dbPool).Replace(ctx, entries); err != nil {
		log.Fatalf("seed activities: %v", err)
	}

	log.Printf("seeded %d guests and %d activities over %d days", len(guest.SeedPool(now)), len(entries), *days)
}
