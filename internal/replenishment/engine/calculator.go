package engine

import (
	"sort"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
)

// CalculateNetDemand joins the aggregates with replenishment rules and
// produces the net demand figure per SKU:
//
//	free_stock = total_available - total_reserved
//	net_demand = max(0, total_quantity + safety_stock - free_stock)
//
// Every SKU present in either aggregate is considered; stock-only SKUs use
// total_quantity 0. SKUs without a rule are skipped with a warning. SKUs
// that have a rule but appear in neither aggregate need no action.
func CalculateNetDemand(
	demand map[string]*domain.AggregatedDemand,
	stock map[string]*domain.AggregatedStock,
	rules map[string]domain.ReplenishmentRule,
	report *Report,
) map[string]domain.NetDemand {
	skus := make(map[string]bool, len(demand)+len(stock))
	for sku := range demand {
		skus[sku] = true
	}
	for sku := range stock {
		skus[sku] = true
	}

	ordered := make([]string, 0, len(skus))
	for sku := range skus {
		ordered = append(ordered, sku)
	}
	sort.Strings(ordered)

	result := make(map[string]domain.NetDemand, len(ordered))
	for _, sku := range ordered {
		rule, ok := rules[sku]
		if !ok {
			report.Warn(domain.StageNetDemand, sku, "no replenishment rule in master data; sku skipped")
			continue
		}

		totalQuantity := 0
		if d, ok := demand[sku]; ok {
			totalQuantity = d.TotalQuantity
		}
		freeStock := 0
		if s, ok := stock[sku]; ok {
			freeStock = s.FreeStock()
		}

		net := totalQuantity + rule.SafetyStock - freeStock
		if net < 0 {
			net = 0
		}

		result[sku] = domain.NetDemand{
			SKU:           sku,
			TotalQuantity: totalQuantity,
			FreeStock:     freeStock,
			SafetyStock:   rule.SafetyStock,
			NetDemand:     net,
		}
	}

	return result
}
