package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"

	"github.com/yrgohrm/databaser/internal/types"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

const dateFormat = "2006-01-02"

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS Customer (
		customerId INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL,
		zipCode VARCHAR(16) NOT NULL,
		city VARCHAR(128) NOT NULL,
		discount DOUBLE NOT NULL CHECK (discount >= 0 AND discount <= 1)
	)`,
	`CREATE TABLE IF NOT EXISTS Product (
		productId INT AUTO_INCREMENT PRIMARY KEY,
		productName VARCHAR(255) NOT NULL,
		stock INT NOT NULL,
		reorderPoint INT NOT NULL,
		price DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS CustomerOrder (
		orderId INT AUTO_INCREMENT PRIMARY KEY,
		customerId INT NOT NULL,
		orderDate DATE NOT NULL,
		deliveryDate DATE NOT NULL,
		CONSTRAINT fk_order_customer FOREIGN KEY (customerId) REFERENCES Customer (customerId),
		CONSTRAINT chk_order_dates CHECK (deliveryDate >= orderDate)
	)`,
	`CREATE TABLE IF NOT EXISTS OrderLine (
		orderId INT NOT NULL,
		productId INT NOT NULL,
		quantity INT NOT NULL,
		price DOUBLE NOT NULL,
		PRIMARY KEY (orderId, productId),
		CONSTRAINT fk_line_order FOREIGN KEY (orderId) REFERENCES CustomerOrder (orderId),
		CONSTRAINT fk_line_product FOREIGN KEY (productId) REFERENCES Product (productId)
	)`,
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		dsn = strings.TrimPrefix(url, "mysql://")

		atIndex := strings.Index(dsn, "@")
		if atIndex > 0 {
			credentials := dsn[:atIndex]
			remainder := dsn[atIndex+1:]

			slashIndex := strings.Index(remainder, "/")
			if slashIndex > 0 {
				hostPort := remainder[:slashIndex]
				database := remainder[slashIndex+1:]
				dsn = fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, database)
			}
		}
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(15 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping MySQL: %w", err)
	}

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) ApplySchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := m.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (m *Adapter) TruncateAll(ctx context.Context) error {
	// FOREIGN_KEY_CHECKS is a session variable, so the toggle and the
	// truncates must all run on the same pinned connection. Statements on
	// the pooled handle may each use a different session.
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		return fmt.Errorf("failed to disable foreign key checks: %w", err)
	}

	var truncErr error
	for i := len(types.Tables) - 1; i >= 0; i-- {
		query := fmt.Sprintf("TRUNCATE TABLE %s", types.Tables[i])
		if _, err := conn.ExecContext(ctx, query); err != nil {
			truncErr = fmt.Errorf("failed to truncate %s: %w", types.Tables[i], err)
			break
		}
	}

	// The session goes back to the pool, so enforcement must be restored
	// even when a truncate failed.
	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		if truncErr != nil {
			return truncErr
		}
		return fmt.Errorf("failed to re-enable foreign key checks: %w", err)
	}
	return truncErr
}

func (m *Adapter) CountRows(ctx context.Context, table string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := m.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

func (m *Adapter) InsertCustomers(ctx context.Context, customers []types.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	insert := m.qb.Insert("Customer").
		Columns("name", "address", "zipCode", "city", "discount")
	for _, c := range customers {
		insert = insert.Values(c.Name, c.Address, c.ZipCode, c.City, c.Discount)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build customer insert: %w", err)
	}
	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert customers: %w", err)
	}
	return nil
}

func (m *Adapter) InsertProducts(ctx context.Context, products []types.Product) error {
	if len(products) == 0 {
		return nil
	}

	insert := m.qb.Insert("Product").
		Columns("productName", "stock", "reorderPoint", "price")
	for _, p := range products {
		insert = insert.Values(p.Name, p.Stock, p.ReorderPoint, p.Price)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build product insert: %w", err)
	}
	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert products: %w", err)
	}
	return nil
}

func (m *Adapter) ProductPrices(ctx context.Context) ([]types.ProductPrice, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT productId, price FROM Product ORDER BY productId")
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

func (m *Adapter) CustomerIDs(ctx context.Context) ([]int64, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT customerId FROM Customer ORDER BY customerId")
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

func (m *Adapter) Begin(ctx context.Context) (types.OrderTx, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &orderTx{tx: tx, qb: m.qb}, nil
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

func (m *Adapter) CountProductsAbove(ctx context.Context, price float64) (int, error) {
	query, args, err := m.qb.Select("COUNT(*)").
		From("Product").
		Where(squirrel.Gt{"price": price}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build product count query: %w", err)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products above %v: %w", price, err)
	}
	return count, nil
}

func (m *Adapter) TopCustomers(ctx context.Context, limit uint64) ([]types.CustomerSpend, error) {
	query, args, err := m.qb.Select("c.customerId", "c.name", "SUM(ol.quantity * ol.price) AS total").
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

	rows, err := m.db.QueryContext(ctx, query, args...)
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

func (m *Adapter) RepriceScarceProducts(ctx context.Context) (int64, error) {
	result, err := m.db.ExecContext(ctx, "UPDATE Product SET price = price * 1.1 WHERE stock < reorderPoint * 1.3")
	if err != nil {
		return 0, fmt.Errorf("failed to reprice scarce products: %w", err)
	}
	return result.RowsAffected()
}
