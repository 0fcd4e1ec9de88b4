// Command main runs a one-shot member-count reconciliation against the
// membership ledger. Intended for cron jobs and operational repair.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"bourse/internal/config"
	"bourse/internal/database"
	"bourse/internal/repository"
	"bourse/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	communityID := flag.Uint("community", 0, "Recompute a single community by ID (0 = all)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall run timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	reconciler := service.NewReconcileService(repository.NewCommunityRepository(db))

	if *communityID > 0 {
		count, err := reconciler.RecomputeOne(ctx, *communityID)
		if err != nil {
			return fmt.Errorf("recompute community %d: %w", *communityID, err)
		}
		log.Printf("community %d member_count reset to %d", *communityID, count)
		return nil
	}

	result, err := reconciler.RecomputeAll(ctx)
	if err != nil {
		return fmt.Errorf("recompute all: %w", err)
	}

	log.Printf("checked %d communities, %d drifted, total drift %d",
		result.CommunitiesChecked, len(result.Drifted), result.TotalDrift)
	for _, d := range result.Drifted {
		log.Printf("repaired: community=%d cached=%d actual=%d", d.CommunityID, d.Cached, d.Actual)
	}
	return nil
}
