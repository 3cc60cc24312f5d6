package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/yrgohrm/databaser/internal/types"
	"github.com/yrgohrm/databaser/internal/warehouse"
)

const (
	// Seed is fixed so repeated fresh-database runs generate the very
	// same tables, which makes datasets comparable across machines.
	Seed = 12345

	customerCount   = 1000
	productCount    = 1000
	insertBatchSize = 50
)

// Seeder fills an empty warehouse with synthetic customers, products and
// one order graph per customer. All randomness comes from a single
// generator created once per run.
type Seeder struct {
	store warehouse.Adapter
	gen   *DataGenerator
}

func New(store warehouse.Adapter) *Seeder {
	return &Seeder{
		store: store,
		gen:   NewDataGenerator(Seed),
	}
}

// Run generates data when both Customer and Product are empty and does
// nothing otherwise.
func (s *Seeder) Run(ctx context.Context) error {
	empty, err := s.isEmptyDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing data: %w", err)
	}

	if !empty {
		color.Yellow("📦 Data already present. No generation has been done.")
		return nil
	}

	color.Cyan("🌱 Generating data into database...")

	if err := s.generateCustomers(ctx); err != nil {
		return fmt.Errorf("failed to generate customers: %w", err)
	}
	if err := s.generateProducts(ctx); err != nil {
		return fmt.Errorf("failed to generate products: %w", err)
	}
	if err := s.generateOrders(ctx); err != nil {
		return fmt.Errorf("failed to generate orders: %w", err)
	}

	color.Green("✅ Database seeding completed successfully!")
	return nil
}

func (s *Seeder) isEmptyDatabase(ctx context.Context) (bool, error) {
	customers, err := s.store.CountRows(ctx, "Customer")
	if err != nil {
		return false, err
	}
	if customers > 0 {
		return false, nil
	}

	products, err := s.store.CountRows(ctx, "Product")
	if err != nil {
		return false, err
	}
	return products == 0, nil
}

func (s *Seeder) generateCustomers(ctx context.Context) error {
	color.Cyan("  📝 Generating %d customers...", customerCount)

	batch := make([]types.Customer, 0, insertBatchSize)
	for i := 0; i < customerCount; i++ {
		batch = append(batch, types.Customer{
			Name:     s.gen.FullName(),
			Address:  s.gen.StreetAddress(),
			ZipCode:  s.gen.ZipCode(),
			City:     s.gen.City(),
			Discount: s.gen.Discount(),
		})

		if len(batch) == insertBatchSize {
			if err := s.store.InsertCustomers(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		return s.store.InsertCustomers(ctx, batch)
	}
	return nil
}

func (s *Seeder) generateProducts(ctx context.Context) error {
	color.Cyan("  📝 Generating %d products...", productCount)

	batch := make([]types.Product, 0, insertBatchSize)
	for i := 0; i < productCount; i++ {
		stock := s.gen.Stock()
		batch = append(batch, types.Product{
			Name:         s.gen.ProductName(),
			Stock:        stock,
			ReorderPoint: s.gen.ReorderPoint(stock),
			Price:        s.gen.Price(),
		})

		if len(batch) == insertBatchSize {
			if err := s.store.InsertProducts(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		return s.store.InsertProducts(ctx, batch)
	}
	return nil
}

func (s *Seeder) generateOrders(ctx context.Context) error {
	color.Cyan("  📝 Generating orders...")

	prices, err := s.store.ProductPrices(ctx)
	if err != nil {
		return fmt.Errorf("failed to read price snapshot: %w", err)
	}
	if len(prices) == 0 {
		return fmt.Errorf("price snapshot is empty, cannot generate order lines")
	}

	customerIDs, err := s.store.CustomerIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read customer ids: %w", err)
	}

	// One order per customer, each an atomic unit. A failed order aborts
	// the remaining customers so generation bugs surface loudly.
	for _, customerID := range customerIDs {
		if err := s.generateOrderForCustomer(ctx, customerID, prices); err != nil {
			return fmt.Errorf("failed to generate order for customer %d: %w", customerID, err)
		}
	}
	return nil
}

func (s *Seeder) generateOrderForCustomer(ctx context.Context, customerID int64, prices []types.ProductPrice) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	// No-op once committed; on every error path it undoes the order and
	// all of its lines so no partial order is stored.
	defer tx.Rollback(ctx)

	now := time.Now()
	order := types.Order{
		CustomerID:   customerID,
		OrderDate:    now.AddDate(0, 0, -s.gen.DayOffset()),
		DeliveryDate: now.AddDate(0, 0, s.gen.DayOffset()),
	}

	orderID, err := tx.InsertOrder(ctx, order)
	if err != nil {
		return err
	}

	items := s.gen.SampleProducts(prices, s.gen.ItemCount())
	lines := make([]types.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, types.OrderLine{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  s.gen.Quantity(),
			// snapshot price, not the live product price
			Price: item.Price,
		})
	}

	if err := tx.InsertOrderLines(ctx, lines); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
