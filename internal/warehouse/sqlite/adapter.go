package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yrgohrm/databaser/internal/types"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

const dateFormat = "2006-01-02"

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS Customer (
		customerId INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		zipCode TEXT NOT NULL,
		city TEXT NOT NULL,
		discount REAL NOT NULL CHECK (discount >= 0 AND discount <= 1)
	)`,
	`CREATE TABLE IF NOT EXISTS Product (
		productId INTEGER PRIMARY KEY AUTOINCREMENT,
		productName TEXT NOT NULL,
		stock INTEGER NOT NULL,
		reorderPoint INTEGER NOT NULL,
		price REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS CustomerOrder (
		orderId INTEGER PRIMARY KEY AUTOINCREMENT,
		customerId INTEGER NOT NULL REFERENCES Customer (customerId),
		orderDate TEXT NOT NULL,
		deliveryDate TEXT NOT NULL,
		CHECK (deliveryDate >= orderDate)
	)`,
	`CREATE TABLE IF NOT EXISTS OrderLine (
		orderId INTEGER NOT NULL REFERENCES CustomerOrder (orderId),
		productId INTEGER NOT NULL REFERENCES Product (productId),
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		PRIMARY KEY (orderId, productId)
	)`,
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?cache=shared&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite takes a single writer; a wider pool just queues on the
	// database lock.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping SQLite: %w", err)
	}

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) ApplySchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *Adapter) TruncateAll(ctx context.Context) error {
	for i := len(types.Tables) - 1; i >= 0; i-- {
		table := types.Tables[i]
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		// Reset the AUTOINCREMENT counter so regenerated rows get the
		// same ids as a fresh database. sqlite_sequence only exists once
		// an AUTOINCREMENT row has been inserted, so a missing table is
		// not an error here.
		if _, err := s.db.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table); err != nil &&
			!strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("failed to reset id sequence for %s: %w", table, err)
		}
	}
	return nil
}

func (s *Adapter) CountRows(ctx context.Context, table string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

func (s *Adapter) InsertCustomers(ctx context.Context, customers []types.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	insert := s.qb.Insert("Customer").
		Columns("name", "address", "zipCode", "city", "discount")
	for _, c := range customers {
		insert = insert.Values(c.Name, c.Address, c.ZipCode, c.City, c.Discount)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build customer insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert customers: %w", err)
	}
	return nil
}

func (s *Adapter) InsertProducts(ctx context.Context, products []types.Product) error {
	if len(products) == 0 {
		return nil
	}

	insert := s.qb.Insert("Product").
		Columns("productName", "stock", "reorderPoint", "price")
	for _, p := range products {
		insert = insert.Values(p.Name, p.Stock, p.ReorderPoint, p.Price)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build product insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert products: %w", err)
	}
	return nil
}

func (s *Adapter) ProductPrices(ctx context.Context) ([]types.ProductPrice, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT productId, price FROM Product ORDER BY productId")
	if err != nil {
		return nil, fmt.Errorf("failed to query product prices: %w", err)
	}
	defer rows.Close()

	var prices []types.ProductPrice
	for rows.Next() {
		var pp types.ProductPrice
		if err := rows.Scan(&pp.ProductID, &pp.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product price: %w", err)
		}
		prices = append(prices, pp)
	}
	return prices, rows.Err()
}

func (s *Adapter) CustomerIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT customerId FROM Customer ORDER BY customerId")
	if err != nil {
		return nil, fmt.Errorf("failed to query customer ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan customer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Adapter) Begin(ctx context.Context) (types.OrderTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &orderTx{tx: tx, qb: s.qb}, nil
}

type orderTx struct {
	tx *sql.Tx
	qb squirrel.StatementBuilderType
}

func (t *orderTx) InsertOrder(ctx context.Context, order types.Order) (int64, error) {
	query, args, err := t.qb.Insert("CustomerOrder").
		Columns("customerId", "orderDate", "deliveryDate").
		Values(order.CustomerID, order.OrderDate.Format(dateFormat), order.DeliveryDate.Format(dateFormat)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build order insert: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve generated order id: %w", err)
	}
	return orderID, nil
}

func (t *orderTx) InsertOrderLines(ctx context.Context, lines []types.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	insert := t.qb.Insert("OrderLine").
		Columns("orderId", "productId", "quantity", "price")
	for _, line := range lines {
		insert = insert.Values(line.OrderID, line.ProductID, line.Quantity, line.Price)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build order line insert: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order lines: %w", err)
	}
	return nil
}

func (t *orderTx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *orderTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

func (s *Adapter) CountProductsAbove(ctx context.Context, price float64) (int, error) {
	query, args, err := s.qb.Select("COUNT(*)").
		From("Product").
		Where(squirrel.Gt{"price": price}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build product count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products above %v: %w", price, err)
	}
	return count, nil
}

func (s *Adapter) TopCustomers(ctx context.Context, limit uint64) ([]types.CustomerSpend, error) {
	query, args, err := s.qb.Select("c.customerId", "c.name", "SUM(ol.quantity * ol.price) AS total").
		From("OrderLine ol").
		Join("CustomerOrder co ON ol.orderId = co.orderId").
		Join("Customer c ON co.customerId = c.customerId").
		GroupBy("c.customerId", "c.name").
		OrderBy("SUM(ol.quantity * ol.price) DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top customers query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	var spends []types.CustomerSpend
	for rows.Next() {
		var cs types.CustomerSpend
		if err := rows.Scan(&cs.CustomerID, &cs.Name, &cs.Total); err != nil {
			return nil, fmt.Errorf("failed to scan customer spend: %w", err)
		}
		spends = append(spends, cs)
	}
	return spends, rows.Err()
}

func (s *Adapter) RepriceScarceProducts(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "UPDATE Product SET price = price * 1.1 WHERE stock < reorderPoint * 1.3")
	if err != nil {
		return 0, fmt.Errorf("failed to reprice scarce products: %w", err)
	}
	return result.RowsAffected()
}
