// Package domain defines the data model of the replenishment pipeline:
// raw facts, master data, per-run aggregates, and the final order lines.
package domain

import "github.com/shopspring/decimal"

// OrderFact is a single point-of-sale order line for one business date.
// Field names follow the raw JSONL wire format produced by the POS export.
type OrderFact struct {
	OrderID    string          `json:"order_id"`
	POSStoreID string          `json:"pos_store_id"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	OrderDate  string          `json:"order_date"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// StockFact is a warehouse stock snapshot for one (warehouse, sku, date).
type StockFact struct {
	WarehouseCode  string `json:"warehouse_code"`
	SKU            string `json:"sku"`
	AvailableStock int    `json:"available_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	SnapshotDate   string `json:"snapshot_date"`
}

// FreeStock is available minus reserved. It may be negative when the
// snapshot is inconsistent; the validator flags that instead of clamping.
func (s StockFact) FreeStock() int {
	return s.AvailableStock - s.ReservedStock
}
