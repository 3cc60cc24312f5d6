package sqlite

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/yrgohrm/databaser/internal/types"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	store := New()
	url := "sqlite://" + filepath.Join(t.TempDir(), "warehouse.db")
	ctx := context.Background()

	if err := store.Connect(ctx, url); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.ApplySchema(ctx); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return store
}

func insertTestProducts(t *testing.T, store *Adapter, products []types.Product) {
	t.Helper()
	if err := store.InsertProducts(context.Background(), products); err != nil {
		t.Fatalf("failed to insert products: %v", err)
	}
}

// placeOrder stores one committed order with the given lines and returns
// its generated id.
func placeOrder(t *testing.T, store *Adapter, customerID int64, lines []types.OrderLine) int64 {
	t.Helper()
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	now := time.Now()
	orderID, err := tx.InsertOrder(ctx, types.Order{
		CustomerID:   customerID,
		OrderDate:    now,
		DeliveryDate: now.AddDate(0, 0, 7),
	})
	if err != nil {
		tx.Rollback(ctx)
		t.Fatalf("failed to insert order: %v", err)
	}

	for i := range lines {
		lines[i].OrderID = orderID
	}
	if err := tx.InsertOrderLines(ctx, lines); err != nil {
		tx.Rollback(ctx)
		t.Fatalf("failed to insert order lines: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit order: %v", err)
	}
	return orderID
}

func TestCountRowsUnknownTable(t *testing.T) {
	store := newTestAdapter(t)

	if _, err := store.CountRows(context.Background(), "NoSuchTable"); err == nil {
		t.Fatal("expected an error counting a missing table")
	}
}

func TestInsertAndCountCustomers(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	customers := []types.Customer{
		{Name: "Anna Larsson", Address: "Storgatan 2", ZipCode: "41234", City: "Gothenburg", Discount: 0.05},
		{Name: "Erik Berg", Address: "Kungsgatan 14B", ZipCode: "11122", City: "Stockholm", Discount: 0},
	}
	if err := store.InsertCustomers(ctx, customers); err != nil {
		t.Fatalf("failed to insert customers: %v", err)
	}

	count, err := store.CountRows(ctx, "Customer")
	if err != nil {
		t.Fatalf("failed to count customers: %v", err)
	}
	if count != len(customers) {
		t.Errorf("expected %d customers, got %d", len(customers), count)
	}

	ids, err := store.CustomerIDs(ctx)
	if err != nil {
		t.Fatalf("failed to read customer ids: %v", err)
	}
	if len(ids) != len(customers) {
		t.Fatalf("expected %d ids, got %d", len(customers), len(ids))
	}
	if ids[0] != 1 || ids[1] != 2 {
		t.Errorf("expected generated ids 1 and 2, got %v", ids)
	}
}

func TestProductPricesOrderedByID(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	insertTestProducts(t, store, []types.Product{
		{Name: "Steel Hammer", Stock: 40, ReorderPoint: 10, Price: 199.50},
		{Name: "Oak Table", Stock: 12, ReorderPoint: 4, Price: 899.00},
	})

	prices, err := store.ProductPrices(ctx)
	if err != nil {
		t.Fatalf("failed to read price snapshot: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	if prices[0].ProductID != 1 || prices[0].Price != 199.50 {
		t.Errorf("unexpected first snapshot entry: %+v", prices[0])
	}
	if prices[1].ProductID != 2 || prices[1].Price != 899.00 {
		t.Errorf("unexpected second snapshot entry: %+v", prices[1])
	}
}

func TestCountProductsAbove(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	insertTestProducts(t, store, []types.Product{
		{Name: "Cheap Widget", Stock: 10, ReorderPoint: 2, Price: 49.99},
		{Name: "Exact Widget", Stock: 10, ReorderPoint: 2, Price: 50.00},
		{Name: "Pricey Widget", Stock: 10, ReorderPoint: 2, Price: 50.01},
	})

	count, err := store.CountProductsAbove(ctx, 50)
	if err != nil {
		t.Fatalf("failed to count products: %v", err)
	}
	// strictly greater, so a price at the threshold is excluded
	if count != 1 {
		t.Errorf("expected 1 product above 50, got %d", count)
	}
}

func TestTopCustomersOrdering(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	if err := store.InsertCustomers(ctx, []types.Customer{
		{Name: "Small Spender", Address: "A 1", ZipCode: "11111", City: "Lund", Discount: 0},
		{Name: "Big Spender", Address: "B 2", ZipCode: "22222", City: "Malmo", Discount: 0},
		{Name: "No Orders", Address: "C 3", ZipCode: "33333", City: "Umea", Discount: 0},
	}); err != nil {
		t.Fatalf("failed to insert customers: %v", err)
	}
	insertTestProducts(t, store, []types.Product{
		{Name: "Widget", Stock: 100, ReorderPoint: 10, Price: 10},
		{Name: "Gadget", Stock: 100, ReorderPoint: 10, Price: 25},
	})

	// customer 1 spends 2*10 = 20, customer 2 spends 1*10 + 3*25 = 85
	placeOrder(t, store, 1, []types.OrderLine{{ProductID: 1, Quantity: 2, Price: 10}})
	placeOrder(t, store, 2, []types.OrderLine{
		{ProductID: 1, Quantity: 1, Price: 10},
		{ProductID: 2, Quantity: 3, Price: 25},
	})

	top, err := store.TopCustomers(ctx, 10)
	if err != nil {
		t.Fatalf("failed to query top customers: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 customers with orders, got %d", len(top))
	}
	if top[0].Name != "Big Spender" || math.Abs(top[0].Total-85) > 1e-9 {
		t.Errorf("unexpected first entry: %+v", top[0])
	}
	if top[1].Name != "Small Spender" || math.Abs(top[1].Total-20) > 1e-9 {
		t.Errorf("unexpected second entry: %+v", top[1])
	}

	limited, err := store.TopCustomers(ctx, 1)
	if err != nil {
		t.Fatalf("failed to query limited top customers: %v", err)
	}
	if len(limited) != 1 || limited[0].Name != "Big Spender" {
		t.Errorf("expected only the biggest spender, got %+v", limited)
	}
}

func TestOrderTxRollbackDiscardsOrder(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	if err := store.InsertCustomers(ctx, []types.Customer{
		{Name: "Rollback Customer", Address: "D 4", ZipCode: "44444", City: "Kiruna", Discount: 0},
	}); err != nil {
		t.Fatalf("failed to insert customer: %v", err)
	}
	insertTestProducts(t, store, []types.Product{
		{Name: "Widget", Stock: 100, ReorderPoint: 10, Price: 10},
	})

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	now := time.Now()
	orderID, err := tx.InsertOrder(ctx, types.Order{CustomerID: 1, OrderDate: now, DeliveryDate: now})
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}
	if err := tx.InsertOrderLines(ctx, []types.OrderLine{
		{OrderID: orderID, ProductID: 1, Quantity: 1, Price: 10},
	}); err != nil {
		t.Fatalf("failed to insert order lines: %v", err)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("failed to roll back: %v", err)
	}

	orders, err := store.CountRows(ctx, "CustomerOrder")
	if err != nil {
		t.Fatal(err)
	}
	if orders != 0 {
		t.Errorf("expected no orders after rollback, got %d", orders)
	}
	lines, err := store.CountRows(ctx, "OrderLine")
	if err != nil {
		t.Fatal(err)
	}
	if lines != 0 {
		t.Errorf("expected no order lines after rollback, got %d", lines)
	}
}

func TestRepriceScarceProducts(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	insertTestProducts(t, store, []types.Product{
		// 10 < 8 * 1.3 = 10.4, scarce
		{Name: "Scarce Widget", Stock: 10, ReorderPoint: 8, Price: 100},
		// 10 >= 5 * 1.3 = 6.5, well stocked
		{Name: "Stocked Widget", Stock: 10, ReorderPoint: 5, Price: 100},
	})

	affected, err := store.RepriceScarceProducts(ctx)
	if err != nil {
		t.Fatalf("failed to reprice: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 repriced product, got %d", affected)
	}

	prices, err := store.ProductPrices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(prices[0].Price-110) > 1e-9 {
		t.Errorf("expected scarce product at 110, got %v", prices[0].Price)
	}
	if prices[1].Price != 100 {
		t.Errorf("expected stocked product unchanged at 100, got %v", prices[1].Price)
	}
}

func TestTruncateAllOnFreshDatabase(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	// No AUTOINCREMENT row has ever been inserted, so sqlite_sequence
	// does not exist yet. Truncating must still succeed.
	if err := store.TruncateAll(ctx); err != nil {
		t.Fatalf("failed to truncate a fresh database: %v", err)
	}

	if err := store.InsertCustomers(ctx, []types.Customer{
		{Name: "After Truncate", Address: "H 8", ZipCode: "88888", City: "Ystad", Discount: 0},
	}); err != nil {
		t.Fatalf("failed to insert customer: %v", err)
	}
	ids, err := store.CustomerIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("expected id generation to start at 1, got %v", ids)
	}
}

func TestTruncateAllResetsGeneratedIDs(t *testing.T) {
	store := newTestAdapter(t)
	ctx := context.Background()

	if err := store.InsertCustomers(ctx, []types.Customer{
		{Name: "First", Address: "E 5", ZipCode: "55555", City: "Boden", Discount: 0},
		{Name: "Second", Address: "F 6", ZipCode: "66666", City: "Gavle", Discount: 0},
	}); err != nil {
		t.Fatalf("failed to insert customers: %v", err)
	}

	if err := store.TruncateAll(ctx); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}

	count, err := store.CountRows(ctx, "Customer")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty Customer table, got %d rows", count)
	}

	if err := store.InsertCustomers(ctx, []types.Customer{
		{Name: "Fresh Start", Address: "G 7", ZipCode: "77777", City: "Visby", Discount: 0},
	}); err != nil {
		t.Fatalf("failed to reinsert customer: %v", err)
	}

	ids, err := store.CustomerIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("expected the id sequence to restart at 1, got %v", ids)
	}
}
