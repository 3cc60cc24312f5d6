package types

import "time"

// Tables lists the warehouse tables in FK-safe insertion order.
// Truncation walks the list in reverse.
var Tables = []string{"Customer", "Product", "CustomerOrder", "OrderLine"}

type Customer struct {
	ID       int64
	Name     string
	Address  string
	ZipCode  string
	City     string
	Discount float64
}

type Product struct {
	ID           int64
	Name         string
	Stock        int
	ReorderPoint int
	Price        float64
}

// ProductPrice is the in-memory price snapshot entry captured once per
// generation run. Order lines are stamped with the snapshot price so
// later product repricing never rewrites history.
type ProductPrice struct {
	ProductID int64
	Price     float64
}

type Order struct {
	ID           int64
	CustomerID   int64
	OrderDate    time.Time
	DeliveryDate time.Time
}

type OrderLine struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     float64
}

// CustomerSpend is one row of the best-customers report.
type CustomerSpend struct {
	CustomerID int64
	Name       string
	Total      float64
}
