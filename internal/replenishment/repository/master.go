package repository

import (
	"context"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/database"
)

// MasterRepository loads the read-only master data snapshot a run operates
// on: products, supplier mappings, and replenishment rules, all keyed by SKU.
type MasterRepository struct {
	db *database.DB
}

// NewMasterRepository creates a new master data repository
func NewMasterRepository(db *database.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

// Load reads the full master data snapshot. Rules are returned as the raw
// row list; deduplication is the validator's job, not the query's, so an
// accidental duplicate row surfaces as a fatal anomaly instead of being
// masked by join semantics.
func (r *MasterRepository) Load(ctx context.Context) (*domain.MasterData, error) {
	products, err := r.products(ctx)
	if err != nil {
		return nil, err
	}

	suppliers, err := r.supplierMappings(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := r.rules(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.MasterData{
		Products:  products,
		Suppliers: suppliers,
		Rules:     rules,
	}, nil
}

func (r *MasterRepository) products(ctx context.Context) (map[string]domain.Product, error) {
	var rows []domain.Product
	query := `
		SELECT product_id, sku, product_name, category, is_active
		FROM products
		WHERE is_active = TRUE
		ORDER BY sku
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	products := make(map[string]domain.Product, len(rows))
	for _, p := range rows {
		products[p.SKU] = p
	}
	return products, nil
}

func (r *MasterRepository) supplierMappings(ctx context.Context) (map[string][]domain.SupplierMapping, error) {
	var rows []domain.SupplierMapping
	query := `
		SELECT p.sku, s.supplier_id, s.supplier_code, s.supplier_name, sp.is_primary_supplier
		FROM supplier_products sp
		JOIN products p ON sp.product_id = p.product_id
		JOIN suppliers s ON sp.supplier_id = s.supplier_id
		WHERE p.is_active = TRUE AND s.is_active = TRUE
		ORDER BY p.sku, s.supplier_id
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	mappings := make(map[string][]domain.SupplierMapping)
	for _, m := range rows {
		mappings[m.SKU] = append(mappings[m.SKU], m)
	}
	return mappings, nil
}

func (r *MasterRepository) rules(ctx context.Context) ([]domain.ReplenishmentRule, error) {
	var rows []domain.ReplenishmentRule
	query := `
		SELECT p.sku, rr.safety_stock, rr.min_order_quantity, rr.case_size,
		       rr.max_order_quantity, rr.reorder_point
		FROM replenishment_rules rr
		JOIN products p ON rr.product_id = p.product_id
		WHERE p.is_active = TRUE
		ORDER BY p.sku
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}
