// File: cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
	pg "membership-billing/internal/infra/db/postgres"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)

	// If plans already exist, do nothing
	plans, err := planRepo.ListActive(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (%s, price=%d)\n", p.Name, p.Duration, p.Price)
		}
		return
	}

	// Seed sample plans covering every duration class
	seed := []struct {
		Name     string
		Duration model.DurationClass
		Price    int64
		Features []string
	}{
		{"Monthly", model.DurationOneMonth, 990_000, []string{"standard"}},
		{"Quarterly", model.DurationThreeMonths, 2_490_000, []string{"standard"}},
		{"Half-Year", model.DurationSixMonths, 4_490_000, []string{"standard", "priority-support"}},
		{"Annual", model.DurationTwelveMonths, 7_990_000, []string{"standard", "priority-support"}},
		{"Lifetime", model.DurationLifetime, 29_900_000, []string{"standard", "priority-support", "early-access"}},
	}

	for _, s := range seed {
		p, err := model.NewPlan(uuid.NewString(), s.Name, s.Duration, s.Price, s.Features)
		if err != nil {
			log.Fatalf("build plan %q: %v", s.Name, err)
		}
		if err := planRepo.Save(ctx, repository.NoTX, p); err != nil {
			log.Fatalf("save plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, duration=%s, price=%d)\n", p.Name, p.ID, p.Duration, p.Price)
	}

	fmt.Println("✅ Seeding complete.")
}
