package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// AggregateDemand collapses raw order lines into one AggregatedDemand per
// SKU, summing quantities across all stores. SKUs unknown to master data are
// kept; downstream validation surfaces them.
func AggregateDemand(businessDate string, orders []domain.OrderFact) map[string]*domain.AggregatedDemand {
	demand := make(map[string]*domain.AggregatedDemand)
	stores := make(map[string]map[string]bool)

	for _, o := range orders {
		agg, ok := demand[o.SKU]
		if !ok {
			agg = &domain.AggregatedDemand{SKU: o.SKU, OrderDate: businessDate}
			demand[o.SKU] = agg
			stores[o.SKU] = make(map[string]bool)
		}
		agg.TotalQuantity += o.Quantity
		agg.TotalValue = agg.TotalValue.Add(o.UnitPrice.Mul(decimalFromInt(o.Quantity)))
		stores[o.SKU][o.POSStoreID] = true
	}

	for sku, agg := range demand {
		agg.StoreCount = len(stores[sku])
	}

	return demand
}

// AggregateStock collapses warehouse stock snapshots into one
// AggregatedStock per SKU. The fact contract allows one snapshot per
// (warehouse, sku, date); a duplicate is ignored rather than double
// counted, and recorded as an anomaly.
func AggregateStock(businessDate string, stock []domain.StockFact, report *Report) map[string]*domain.AggregatedStock {
	aggregated := make(map[string]*domain.AggregatedStock)
	seen := make(map[string]bool)

	for _, s := range stock {
		key := s.WarehouseCode + "\x00" + s.SKU
		if seen[key] {
			report.Warn(domain.StageAggregation, s.SKU,
				fmt.Sprintf("duplicate stock snapshot for warehouse %s ignored", s.WarehouseCode))
			continue
		}
		seen[key] = true

		agg, ok := aggregated[s.SKU]
		if !ok {
			agg = &domain.AggregatedStock{SKU: s.SKU, SnapshotDate: businessDate}
			aggregated[s.SKU] = agg
		}
		agg.TotalAvailable += s.AvailableStock
		agg.TotalReserved += s.ReservedStock
	}

	return aggregated
}
