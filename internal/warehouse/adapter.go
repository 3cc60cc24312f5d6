package warehouse

import (
	"context"

	"github.com/yrgohrm/databaser/internal/types"
	"github.com/yrgohrm/databaser/internal/warehouse/mysql"
	"github.com/yrgohrm/databaser/internal/warehouse/postgres"
	"github.com/yrgohrm/databaser/internal/warehouse/sqlite"
)

// Adapter is the connection provider for one warehouse database. It owns
// a pooled connection set; every operation acquires a connection for its
// duration and releases it on all exit paths.
type Adapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Schema contract
	ApplySchema(ctx context.Context) error
	TruncateAll(ctx context.Context) error

	// Row access
	CountRows(ctx context.Context, table string) (int, error)
	InsertCustomers(ctx context.Context, customers []types.Customer) error
	InsertProducts(ctx context.Context, products []types.Product) error
	ProductPrices(ctx context.Context) ([]types.ProductPrice, error)
	CustomerIDs(ctx context.Context) ([]int64, error)

	// Begin opens an explicit transaction for one order graph.
	Begin(ctx context.Context) (types.OrderTx, error)

	// Reports
	CountProductsAbove(ctx context.Context, price float64) (int, error)
	TopCustomers(ctx context.Context, limit uint64) ([]types.CustomerSpend, error)
	RepriceScarceProducts(ctx context.Context) (int64, error)
}

// New returns the adapter for the given provider.
func New(provider string) Adapter {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New()
	case "mysql":
		return mysql.New()
	case "sqlite", "sqlite3":
		return sqlite.New()
	default:
		return postgres.New()
	}
}
