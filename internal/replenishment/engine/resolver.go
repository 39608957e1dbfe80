package engine

import (
	"fmt"
	"sort"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
)

// ResolvedQuantity is a SKU's order quantity after case rounding and
// MOQ/max clamping.
type ResolvedQuantity struct {
	SKU           string
	NetDemand     int
	CaseSize      int
	OrderQuantity int
}

// ResolveOrderQuantities applies the procurement constraints to each
// positive net demand figure:
//
//	raw = ceil(net / case_size) * case_size
//	qty = max(raw, min_order_quantity)
//	qty = min(qty, max_order_quantity)   when the max is set
//
// SKUs with zero net demand or a zero resolved quantity produce no line.
// A rule with case_size <= 0 for a SKU that actually needs procurement is
// corrupt master data and aborts the run.
//
// When max_order_quantity is below min_order_quantity the two constraints
// conflict; the smaller bound wins and the conflict is reported.
func ResolveOrderQuantities(
	net map[string]domain.NetDemand,
	rules map[string]domain.ReplenishmentRule,
	report *Report,
) ([]ResolvedQuantity, error) {
	skus := make([]string, 0, len(net))
	for sku := range net {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var resolved []ResolvedQuantity
	for _, sku := range skus {
		nd := net[sku]
		if nd.NetDemand <= 0 {
			continue
		}

		rule := rules[sku]
		if rule.CaseSize <= 0 {
			report.Fatal(domain.StageResolution, sku,
				fmt.Sprintf("case size %d cannot be used for rounding", rule.CaseSize))
			return nil, errors.InvalidRuleConfig(sku, rule.CaseSize)
		}

		qty := ceilToCase(nd.NetDemand, rule.CaseSize)
		if qty < rule.MinOrderQuantity {
			qty = rule.MinOrderQuantity
		}
		if rule.MaxOrderQuantity != nil {
			if *rule.MaxOrderQuantity < rule.MinOrderQuantity {
				report.Warn(domain.StageResolution, sku,
					fmt.Sprintf("max order quantity %d is below min order quantity %d; max wins",
						*rule.MaxOrderQuantity, rule.MinOrderQuantity))
			}
			if qty > *rule.MaxOrderQuantity {
				qty = *rule.MaxOrderQuantity
			}
		}

		if qty <= 0 {
			continue
		}

		resolved = append(resolved, ResolvedQuantity{
			SKU:           sku,
			NetDemand:     nd.NetDemand,
			CaseSize:      rule.CaseSize,
			OrderQuantity: qty,
		})
	}

	return resolved, nil
}

func ceilToCase(net, caseSize int) int {
	return (net + caseSize - 1) / caseSize * caseSize
}
