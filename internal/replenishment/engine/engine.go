// Package engine implements the net demand and supplier order computation
// core. Each stage is a pure transformation over in-memory mappings keyed
// by SKU; a run either completes (possibly with warnings) or aborts
// wholesale on a fatal anomaly, with no partial output.
package engine

import (
	"sort"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

// Engine computes supplier order lines for one business date.
type Engine struct {
	spikeMultiplier int
	log             *logger.Logger
}

// New creates an engine. spikeMultiplier flags demand above
// multiplier x safety_stock as a spike anomaly.
func New(spikeMultiplier int, log *logger.Logger) *Engine {
	return &Engine{
		spikeMultiplier: spikeMultiplier,
		log:             log.WithComponent("engine"),
	}
}

// Input is the immutable snapshot a run operates on. Facts are fully
// materialized before aggregation; master data is read-only for the run.
type Input struct {
	BusinessDate string
	Orders       []domain.OrderFact
	Stock        []domain.StockFact
	Master       *domain.MasterData
}

// Result is the outcome of a run: the ordered output lines and the anomaly
// report. On a fatal abort the lines are empty but the report still carries
// every finding from the completed validation pass.
type Result struct {
	Lines     []domain.SupplierOrderLine
	Report    *Report
	Demand    map[string]*domain.AggregatedDemand
	Stock     map[string]*domain.AggregatedStock
	NetDemand map[string]domain.NetDemand
}

// Run executes the pipeline for one business date. It is a pure function of
// its input: identical snapshots produce identical output sequences.
func (e *Engine) Run(in Input) (*Result, error) {
	report := NewReport()
	result := &Result{Report: report}

	// A required fact source with zero records means upstream data is
	// missing, not that there was nothing to order.
	if len(in.Orders) == 0 {
		return result, errors.MissingData("order", in.BusinessDate)
	}
	if len(in.Stock) == 0 {
		return result, errors.MissingData("stock", in.BusinessDate)
	}
	if in.Master == nil {
		return result, errors.Internal("master data unavailable")
	}

	result.Demand = AggregateDemand(in.BusinessDate, in.Orders)
	result.Stock = AggregateStock(in.BusinessDate, in.Stock, report)

	e.log.Debug().
		Str("business_date", in.BusinessDate).
		Int("demand_skus", len(result.Demand)).
		Int("stock_skus", len(result.Stock)).
		Msg("facts aggregated")

	validation := Validate(result.Demand, result.Stock, in.Master, e.spikeMultiplier, report)

	// The duplicate-rule check aborts only after the full validation pass
	// so operators still see every other finding in the report.
	if len(validation.DuplicateRuleSKUs) > 0 {
		return result, errors.DuplicateRule(validation.DuplicateRuleSKUs[0])
	}

	rules := in.Master.RulesBySKU()
	result.NetDemand = CalculateNetDemand(result.Demand, result.Stock, rules, report)

	resolved, err := ResolveOrderQuantities(result.NetDemand, rules, report)
	if err != nil {
		return result, err
	}

	result.Lines = AssembleOrders(resolved, in.Master, validation.UnmappedSKUs, report)

	e.log.Info().
		Str("business_date", in.BusinessDate).
		Int("order_lines", len(result.Lines)).
		Int("warnings", report.WarningCount()).
		Msg("run computed")

	return result, nil
}

// Summaries aggregates the result's order lines per supplier. Demand value
// uses the quantity-weighted average unit price observed in the day's order
// facts; SKUs ordered purely against the safety buffer contribute zero.
func (r *Result) Summaries() []domain.SupplierSummary {
	bySupplier := make(map[string]*domain.SupplierSummary)
	for _, line := range r.Lines {
		s, ok := bySupplier[line.SupplierCode]
		if !ok {
			s = &domain.SupplierSummary{
				SupplierCode: line.SupplierCode,
				SupplierName: line.SupplierName,
			}
			bySupplier[line.SupplierCode] = s
		}
		s.LineCount++
		s.TotalUnits += line.OrderQuantity

		if d, ok := r.Demand[line.SKU]; ok {
			value := d.AverageUnitPrice().Mul(decimalFromInt(line.OrderQuantity))
			s.DemandValue = s.DemandValue.Add(value)
		}
	}

	out := make([]domain.SupplierSummary, 0, len(bySupplier))
	for _, s := range bySupplier {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SupplierCode < out[j].SupplierCode
	})
	return out
}
