package cmd

import (
	"context"
	"fmt"

	"github.com/yrgohrm/databaser/internal/config"
	"github.com/yrgohrm/databaser/internal/warehouse"
)

// openStore loads the configuration and returns a connected warehouse
// adapter. The caller owns Close.
func openStore(ctx context.Context) (warehouse.Adapter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dbURL, err := cfg.ResolveDatabaseURL()
	if err != nil {
		return nil, err
	}

	store := warehouse.New(cfg.Database.Provider)
	if err := store.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return store, nil
}
