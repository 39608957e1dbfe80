package engine

import (
	"fmt"
	"sort"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
)

// ValidationResult carries the validator findings that later stages act on.
// All findings are also recorded on the report.
type ValidationResult struct {
	// UnmappedSKUs had demand but no primary supplier; they are excluded
	// from the final output
	UnmappedSKUs map[string]bool
	// DuplicateRuleSKUs had more than one replenishment rule; any entry
	// here aborts the run after the full validation pass
	DuplicateRuleSKUs []string
}

// Validate runs the four data quality checks over the aggregates and master
// data. Checks are independent; each records zero or more anomalies. Only
// the duplicate-rule check is fatal: a duplicate silently multiplies
// downstream quantities through join fan-out, so it must be rejected before
// the rule lookup is built.
func Validate(
	demand map[string]*domain.AggregatedDemand,
	stock map[string]*domain.AggregatedStock,
	master *domain.MasterData,
	spikeMultiplier int,
	report *Report,
) ValidationResult {
	result := ValidationResult{UnmappedSKUs: make(map[string]bool)}

	rules := master.RulesBySKU()

	// Check 1: every SKU with demand needs a primary supplier mapping.
	for _, sku := range sortedDemandSKUs(demand) {
		if !hasPrimarySupplier(master.Suppliers[sku]) {
			result.UnmappedSKUs[sku] = true
			report.Warn(domain.StageValidation, sku, "no primary supplier mapping; sku excluded from supplier orders")
		}
	}

	// Check 2: demand spike relative to the safety stock buffer.
	for _, sku := range sortedDemandSKUs(demand) {
		rule, ok := rules[sku]
		if !ok {
			continue
		}
		if demand[sku].TotalQuantity > spikeMultiplier*rule.SafetyStock {
			report.Warn(domain.StageValidation, sku,
				fmt.Sprintf("demand spike: total quantity %d exceeds %dx safety stock %d",
					demand[sku].TotalQuantity, spikeMultiplier, rule.SafetyStock))
		}
	}

	// Check 3: zero available with reserved stock indicates a stale or
	// incoherent snapshot.
	for _, sku := range sortedStockSKUs(stock) {
		s := stock[sku]
		if s.TotalAvailable == 0 && s.TotalReserved > 0 {
			report.Warn(domain.StageValidation, sku,
				fmt.Sprintf("inconsistent stock: available 0 with %d reserved", s.TotalReserved))
		}
	}

	// Check 4: exactly one replenishment rule per SKU.
	counts := make(map[string]int, len(master.Rules))
	for _, r := range master.Rules {
		counts[r.SKU]++
	}
	var duplicates []string
	for sku, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, sku)
		}
	}
	sort.Strings(duplicates)
	for _, sku := range duplicates {
		report.Fatal(domain.StageValidation, sku,
			fmt.Sprintf("%d replenishment rules found; exactly one is required", counts[sku]))
	}
	result.DuplicateRuleSKUs = duplicates

	return result
}

func hasPrimarySupplier(mappings []domain.SupplierMapping) bool {
	for _, m := range mappings {
		if m.IsPrimarySupplier {
			return true
		}
	}
	return false
}

func sortedDemandSKUs(demand map[string]*domain.AggregatedDemand) []string {
	skus := make([]string, 0, len(demand))
	for sku := range demand {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

func sortedStockSKUs(stock map[string]*domain.AggregatedStock) []string {
	skus := make([]string, 0, len(stock))
	for sku := range stock {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}
