package engine_test

import (
	"github.com/shopspring/decimal"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

const testDate = "2026-08-27"

func testLogger() *logger.Logger {
	return logger.New("engine-test", "test")
}

func order(sku, store string, qty int, price string) domain.OrderFact {
	return domain.OrderFact{
		OrderID:    "ORD-" + sku + "-" + store,
		POSStoreID: store,
		SKU:        sku,
		Quantity:   qty,
		OrderDate:  testDate,
		UnitPrice:  decimal.RequireFromString(price),
	}
}

func stockSnapshot(warehouse, sku string, available, reserved int) domain.StockFact {
	return domain.StockFact{
		WarehouseCode:  warehouse,
		SKU:            sku,
		AvailableStock: available,
		ReservedStock:  reserved,
		SnapshotDate:   testDate,
	}
}

func rule(sku string, safetyStock, moq, caseSize int) domain.ReplenishmentRule {
	return domain.ReplenishmentRule{
		SKU:              sku,
		SafetyStock:      safetyStock,
		MinOrderQuantity: moq,
		CaseSize:         caseSize,
		ReorderPoint:     50,
	}
}

func ruleWithMax(sku string, safetyStock, moq, caseSize, max int) domain.ReplenishmentRule {
	r := rule(sku, safetyStock, moq, caseSize)
	r.MaxOrderQuantity = &max
	return r
}

// masterFor builds master data with one product, one primary supplier
// mapping, and the given rules for each SKU named in the rules.
func masterFor(rules ...domain.ReplenishmentRule) *domain.MasterData {
	m := &domain.MasterData{
		Products:  make(map[string]domain.Product),
		Suppliers: make(map[string][]domain.SupplierMapping),
		Rules:     rules,
	}
	id := 1
	for _, r := range rules {
		if _, ok := m.Products[r.SKU]; ok {
			continue
		}
		m.Products[r.SKU] = domain.Product{
			ProductID:   id,
			SKU:         r.SKU,
			ProductName: "Product " + r.SKU,
			Category:    "Grocery",
			IsActive:    true,
		}
		m.Suppliers[r.SKU] = []domain.SupplierMapping{{
			SKU:               r.SKU,
			SupplierID:        id,
			SupplierCode:      "SUP001",
			SupplierName:      "Acme Wholesale",
			IsPrimarySupplier: true,
		}}
		id++
	}
	return m
}
