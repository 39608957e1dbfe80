package domain

// Product is the product master record for a SKU.
type Product struct {
	ProductID   int    `db:"product_id" json:"product_id"`
	SKU         string `db:"sku" json:"sku"`
	ProductName string `db:"product_name" json:"product_name"`
	Category    string `db:"category" json:"category"`
	IsActive    bool   `db:"is_active" json:"is_active"`
}

// Supplier is the supplier master record.
type Supplier struct {
	SupplierID   int    `db:"supplier_id" json:"supplier_id"`
	SupplierCode string `db:"supplier_code" json:"supplier_code"`
	SupplierName string `db:"supplier_name" json:"supplier_name"`
	LeadTimeDays int    `db:"lead_time_days" json:"lead_time_days"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}

// SupplierMapping links a SKU to a supplier. A SKU may have several
// mappings; exactly one should be flagged primary.
type SupplierMapping struct {
	SKU               string `db:"sku" json:"sku"`
	SupplierID        int    `db:"supplier_id" json:"supplier_id"`
	SupplierCode      string `db:"supplier_code" json:"supplier_code"`
	SupplierName      string `db:"supplier_name" json:"supplier_name"`
	IsPrimarySupplier bool   `db:"is_primary_supplier" json:"is_primary_supplier"`
}

// ReplenishmentRule is the centralized procurement rule for a SKU.
// The system mandates exactly one rule per SKU, never per warehouse;
// the validator rejects duplicates before any join.
type ReplenishmentRule struct {
	SKU              string `db:"sku" json:"sku"`
	SafetyStock      int    `db:"safety_stock" json:"safety_stock"`
	MinOrderQuantity int    `db:"min_order_quantity" json:"min_order_quantity"`
	CaseSize         int    `db:"case_size" json:"case_size"`
	MaxOrderQuantity *int   `db:"max_order_quantity" json:"max_order_quantity,omitempty"`
	ReorderPoint     int    `db:"reorder_point" json:"reorder_point"`
}

// MasterData is the read-only snapshot of master data a run operates on.
type MasterData struct {
	// Products by SKU
	Products map[string]Product
	// Suppliers holds all supplier mappings per SKU, primary and secondary
	Suppliers map[string][]SupplierMapping
	// Rules is the raw rule list; kept as a slice so the validator can
	// detect duplicate SKUs before the rules are used as a lookup
	Rules []ReplenishmentRule
}

// RulesBySKU builds the rule lookup. Callers must run duplicate validation
// first; on duplicates the last rule wins here, which is why the validator
// treats them as fatal.
func (m *MasterData) RulesBySKU() map[string]ReplenishmentRule {
	rules := make(map[string]ReplenishmentRule, len(m.Rules))
	for _, r := range m.Rules {
		rules[r.SKU] = r
	}
	return rules
}
