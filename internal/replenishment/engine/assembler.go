package engine

import (
	"sort"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
)

// AssembleOrders joins resolved quantities with product and supplier master
// data to produce the final order lines, one per SKU with a positive
// quantity and a primary supplier. Lines are ordered by supplier code, then
// SKU, so the output is reproducible.
func AssembleOrders(
	resolved []ResolvedQuantity,
	master *domain.MasterData,
	unmapped map[string]bool,
	report *Report,
) []domain.SupplierOrderLine {
	var lines []domain.SupplierOrderLine

	for _, rq := range resolved {
		// Already flagged during validation; excluded without a fallback
		// supplier.
		if unmapped[rq.SKU] {
			continue
		}

		supplier, ok := primarySupplier(master.Suppliers[rq.SKU], rq.SKU, report)
		if !ok {
			report.Warn(domain.StageAssembly, rq.SKU, "no primary supplier mapping; sku excluded from supplier orders")
			continue
		}

		productName := ""
		if p, ok := master.Products[rq.SKU]; ok {
			productName = p.ProductName
		}

		lines = append(lines, domain.SupplierOrderLine{
			SupplierCode:  supplier.SupplierCode,
			SupplierName:  supplier.SupplierName,
			SKU:           rq.SKU,
			ProductName:   productName,
			NetDemand:     rq.NetDemand,
			CaseSize:      rq.CaseSize,
			OrderQuantity: rq.OrderQuantity,
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].SupplierCode != lines[j].SupplierCode {
			return lines[i].SupplierCode < lines[j].SupplierCode
		}
		return lines[i].SKU < lines[j].SKU
	})

	return lines
}

// primarySupplier selects the SKU's primary supplier mapping. Multiple
// primary rows should not happen; when they do the pick must stay
// deterministic, so the lowest supplier id wins and the duplication is
// reported.
func primarySupplier(mappings []domain.SupplierMapping, sku string, report *Report) (domain.SupplierMapping, bool) {
	var primaries []domain.SupplierMapping
	for _, m := range mappings {
		if m.IsPrimarySupplier {
			primaries = append(primaries, m)
		}
	}

	if len(primaries) == 0 {
		return domain.SupplierMapping{}, false
	}

	if len(primaries) > 1 {
		sort.Slice(primaries, func(i, j int) bool {
			return primaries[i].SupplierID < primaries[j].SupplierID
		})
		report.Warn(domain.StageAssembly, sku, "multiple primary supplier mappings; lowest supplier id selected")
	}

	return primaries[0], true
}
