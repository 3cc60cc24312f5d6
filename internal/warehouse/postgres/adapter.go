package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yrgohrm/databaser/internal/types"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS Customer (
		customerId INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL,
		zipCode VARCHAR(16) NOT NULL,
		city VARCHAR(128) NOT NULL,
		discount DOUBLE PRECISION NOT NULL CHECK (discount >= 0 AND discount <= 1)
	)`,
	`CREATE TABLE IF NOT EXISTS Product (
		productId INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		productName VARCHAR(255) NOT NULL,
		stock INTEGER NOT NULL,
		reorderPoint INTEGER NOT NULL,
		price DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS CustomerOrder (
		orderId INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		customerId INTEGER NOT NULL REFERENCES Customer (customerId),
		orderDate DATE NOT NULL,
		deliveryDate DATE NOT NULL,
		CHECK (deliveryDate >= orderDate)
	)`,
	`CREATE TABLE IF NOT EXISTS OrderLine (
		orderId INTEGER NOT NULL REFERENCES CustomerOrder (orderId),
		productId INTEGER NOT NULL REFERENCES Product (productId),
		quantity INTEGER NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (orderId, productId)
	)`,
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 10
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) ApplySchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := p.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (p *Adapter) TruncateAll(ctx context.Context) error {
	for i := len(types.Tables) - 1; i >= 0; i-- {
		query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", types.Tables[i])
		if _, err := p.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", types.Tables[i], err)
		}
	}
	return nil
}

func (p *Adapter) CountRows(ctx context.Context, table string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := p.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

func (p *Adapter) InsertCustomers(ctx context.Context, customers []types.Customer) error {
	batch := &pgx.Batch{}
	for _, c := range customers {
		query, args, err := p.qb.Insert("Customer").
			Columns("name", "address", "zipCode", "city", "discount").
			Values(c.Name, c.Address, c.ZipCode, c.City, c.Discount).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build customer insert: %w", err)
		}
		batch.Queue(query, args...)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Adapter) InsertProducts(ctx context.Context, products []types.Product) error {
	batch := &pgx.Batch{}
	for _, prod := range products {
		query, args, err := p.qb.Insert("Product").
			Columns("productName", "stock", "reorderPoint", "price").
			Values(prod.Name, prod.Stock, prod.ReorderPoint, prod.Price).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build product insert: %w", err)
		}
		batch.Queue(query, args...)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Adapter) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	results := p.pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch insert failed: %w", err)
		}
	}
	return results.Close()
}

func (p *Adapter) ProductPrices(ctx context.Context) ([]types.ProductPrice, error) {
	rows, err := p.pool.Query(ctx, "SELECT productId, price FROM Product ORDER BY productId")
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

func (p *Adapter) CustomerIDs(ctx context.Context) ([]int64, error) {
	rows, err := p.pool.Query(ctx, "SELECT customerId FROM Customer ORDER BY customerId")
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

func (p *Adapter) Begin(ctx context.Context) (types.OrderTx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &orderTx{tx: tx, qb: p.qb}, nil
}

type orderTx struct {
	tx pgx.Tx
	qb squirrel.StatementBuilderType
}

func (t *orderTx) InsertOrder(ctx context.Context, order types.Order) (int64, error) {
	query, args, err := t.qb.Insert("CustomerOrder").
		Columns("customerId", "orderDate", "deliveryDate").
		Values(order.CustomerID, order.OrderDate, order.DeliveryDate).
		Suffix("RETURNING orderId").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build order insert: %w", err)
	}

	var orderID int64
	if err := t.tx.QueryRow(ctx, query, args...).Scan(&orderID); err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return orderID, nil
}

func (t *orderTx) InsertOrderLines(ctx context.Context, lines []types.OrderLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		query, args, err := t.qb.Insert("OrderLine").
			Columns("orderId", "productId", "quantity", "price").
			Values(line.OrderID, line.ProductID, line.Quantity, line.Price).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build order line insert: %w", err)
		}
		batch.Queue(query, args...)
	}

	results := t.tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert order lines: %w", err)
		}
	}
	return results.Close()
}

func (t *orderTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *orderTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (p *Adapter) CountProductsAbove(ctx context.Context, price float64) (int, error) {
	query, args, err := p.qb.Select("COUNT(*)").
		From("Product").
		Where(squirrel.Gt{"price": price}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build product count query: %w", err)
	}

	var count int
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products above %v: %w", price, err)
	}
	return count, nil
}

func (p *Adapter) TopCustomers(ctx context.Context, limit uint64) ([]types.CustomerSpend, error) {
	query, args, err := p.qb.Select("c.customerId", "c.name", "SUM(ol.quantity * ol.price) AS total").
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

	rows, err := p.pool.Query(ctx, query, args...)
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

func (p *Adapter) RepriceScarceProducts(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, "UPDATE Product SET price = price * 1.1 WHERE stock < reorderPoint * 1.3")
	if err != nil {
		return 0, fmt.Errorf("failed to reprice scarce products: %w", err)
	}
	return tag.RowsAffected(), nil
}
