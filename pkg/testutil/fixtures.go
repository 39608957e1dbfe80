package testutil

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Product creates a product fixture with defaults
func (f *FixtureFactory) Product(opts ...func(*domain.Product)) domain.Product {
	seq := f.nextSeq()

	product := domain.Product{
		ProductID:   seq,
		SKU:         fmt.Sprintf("SKU%04d", seq),
		ProductName: fmt.Sprintf("Test Product %d", seq),
		Category:    "grocery",
		IsActive:    true,
	}

	for _, opt := range opts {
		opt(&product)
	}

	return product
}

// WithSKU sets the product SKU
func WithSKU(sku string) func(*domain.Product) {
	return func(p *domain.Product) {
		p.SKU = sku
	}
}

// WithCategory sets the product category
func WithCategory(category string) func(*domain.Product) {
	return func(p *domain.Product) {
		p.Category = category
	}
}

// SupplierMapping creates a primary supplier mapping for a SKU
func (f *FixtureFactory) SupplierMapping(sku string, opts ...func(*domain.SupplierMapping)) domain.SupplierMapping {
	seq := f.nextSeq()

	mapping := domain.SupplierMapping{
		SKU:               sku,
		SupplierID:        seq,
		SupplierCode:      fmt.Sprintf("SUP%03d", seq),
		SupplierName:      fmt.Sprintf("Test Supplier %d", seq),
		IsPrimarySupplier: true,
	}

	for _, opt := range opts {
		opt(&mapping)
	}

	return mapping
}

// WithSupplierCode sets the supplier code and name
func WithSupplierCode(code, name string) func(*domain.SupplierMapping) {
	return func(m *domain.SupplierMapping) {
		m.SupplierCode = code
		m.SupplierName = name
	}
}

// AsSecondarySupplier marks the mapping as non-primary
func AsSecondarySupplier() func(*domain.SupplierMapping) {
	return func(m *domain.SupplierMapping) {
		m.IsPrimarySupplier = false
	}
}

// Rule creates a replenishment rule fixture with defaults
func (f *FixtureFactory) Rule(sku string, opts ...func(*domain.ReplenishmentRule)) domain.ReplenishmentRule {
	rule := domain.ReplenishmentRule{
		SKU:              sku,
		SafetyStock:      10,
		MinOrderQuantity: 12,
		CaseSize:         6,
		ReorderPoint:     20,
	}

	for _, opt := range opts {
		opt(&rule)
	}

	return rule
}

// WithSafetyStock sets the rule's safety stock
func WithSafetyStock(qty int) func(*domain.ReplenishmentRule) {
	return func(r *domain.ReplenishmentRule) {
		r.SafetyStock = qty
	}
}

// WithCaseSize sets the rule's case size
func WithCaseSize(size int) func(*domain.ReplenishmentRule) {
	return func(r *domain.ReplenishmentRule) {
		r.CaseSize = size
	}
}

// WithMaxOrderQuantity sets the rule's order quantity cap
func WithMaxOrderQuantity(qty int) func(*domain.ReplenishmentRule) {
	return func(r *domain.ReplenishmentRule) {
		r.MaxOrderQuantity = &qty
	}
}

// OrderFact creates an order fact fixture with defaults
func (f *FixtureFactory) OrderFact(sku string, quantity int, opts ...func(*domain.OrderFact)) domain.OrderFact {
	seq := f.nextSeq()

	order := domain.OrderFact{
		OrderID:    fmt.Sprintf("ORD-%06d", seq),
		POSStoreID: fmt.Sprintf("POS%03d", seq),
		SKU:        sku,
		Quantity:   quantity,
		OrderDate:  "2026-08-27",
		UnitPrice:  decimal.RequireFromString("2.50"),
	}

	for _, opt := range opts {
		opt(&order)
	}

	return order
}

// WithStore sets the order's POS store
func WithStore(storeID string) func(*domain.OrderFact) {
	return func(o *domain.OrderFact) {
		o.POSStoreID = storeID
	}
}

// WithUnitPrice sets the order's unit price
func WithUnitPrice(price string) func(*domain.OrderFact) {
	return func(o *domain.OrderFact) {
		o.UnitPrice = decimal.RequireFromString(price)
	}
}

// StockFact creates a stock snapshot fixture with defaults
func (f *FixtureFactory) StockFact(warehouse, sku string, available, reserved int) domain.StockFact {
	return domain.StockFact{
		WarehouseCode:  warehouse,
		SKU:            sku,
		AvailableStock: available,
		ReservedStock:  reserved,
		SnapshotDate:   "2026-08-27",
	}
}

// MasterData assembles a master data snapshot from products, mappings, and
// rules, keyed the way the repository returns it.
func (f *FixtureFactory) MasterData(products []domain.Product, mappings []domain.SupplierMapping, rules []domain.ReplenishmentRule) *domain.MasterData {
	master := &domain.MasterData{
		Products:  make(map[string]domain.Product, len(products)),
		Suppliers: make(map[string][]domain.SupplierMapping),
		Rules:     rules,
	}
	for _, p := range products {
		master.Products[p.SKU] = p
	}
	for _, m := range mappings {
		master.Suppliers[m.SKU] = append(master.Suppliers[m.SKU], m)
	}
	return master
}
