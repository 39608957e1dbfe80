package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/engine"
)

func TestCalculateNetDemand_Formula(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6))
	demand := engine.AggregateDemand(testDate, []domain.OrderFact{
		order("SKU1", "POS1", 8, "2.50"),
	})
	report := engine.NewReport()
	stock := engine.AggregateStock(testDate, []domain.StockFact{
		stockSnapshot("WH1", "SKU1", 15, 2),
	}, report)

	net := engine.CalculateNetDemand(demand, stock, master.RulesBySKU(), report)

	require.Contains(t, net, "SKU1")
	// max(0, 8 + 10 - 13) = 5
	assert.Equal(t, 5, net["SKU1"].NetDemand)
	assert.Equal(t, 13, net["SKU1"].FreeStock)
	assert.Equal(t, 8, net["SKU1"].TotalQuantity)
}

func TestCalculateNetDemand_NeverNegative(t *testing.T) {
	master := masterFor(rule("SKU1", 5, 12, 6))
	demand := engine.AggregateDemand(testDate, []domain.OrderFact{
		order("SKU1", "POS1", 2, "2.50"),
	})
	report := engine.NewReport()
	stock := engine.AggregateStock(testDate, []domain.StockFact{
		stockSnapshot("WH1", "SKU1", 500, 0),
	}, report)

	net := engine.CalculateNetDemand(demand, stock, master.RulesBySKU(), report)

	assert.Equal(t, 0, net["SKU1"].NetDemand)
}

func TestCalculateNetDemand_StockOnlySKUUsesZeroDemand(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6))
	report := engine.NewReport()
	stock := engine.AggregateStock(testDate, []domain.StockFact{
		stockSnapshot("WH1", "SKU1", 3, 0),
	}, report)

	net := engine.CalculateNetDemand(nil, stock, master.RulesBySKU(), report)

	require.Contains(t, net, "SKU1")
	// max(0, 0 + 10 - 3) = 7
	assert.Equal(t, 7, net["SKU1"].NetDemand)
	assert.Equal(t, 0, net["SKU1"].TotalQuantity)
}

func TestCalculateNetDemand_NegativeFreeStockIncreasesDemand(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6))
	demand := engine.AggregateDemand(testDate, []domain.OrderFact{
		order("SKU1", "POS1", 5, "2.50"),
	})
	report := engine.NewReport()
	stock := engine.AggregateStock(testDate, []domain.StockFact{
		stockSnapshot("WH1", "SKU1", 2, 9), // free = -7
	}, report)

	net := engine.CalculateNetDemand(demand, stock, master.RulesBySKU(), report)

	// 5 + 10 - (-7) = 22
	assert.Equal(t, 22, net["SKU1"].NetDemand)
}

func TestCalculateNetDemand_MissingRuleSkippedWithWarning(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6))
	demand := engine.AggregateDemand(testDate, []domain.OrderFact{
		order("SKU1", "POS1", 5, "2.50"),
		order("SKU2", "POS1", 3, "1.00"),
	})
	report := engine.NewReport()

	net := engine.CalculateNetDemand(demand, nil, master.RulesBySKU(), report)

	assert.Contains(t, net, "SKU1")
	assert.NotContains(t, net, "SKU2")

	warnings := report.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "SKU2", warnings[0].SKU)
	assert.Equal(t, domain.StageNetDemand, warnings[0].Stage)
}

func TestCalculateNetDemand_RuleWithoutFactsSkippedSilently(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6), rule("SKU2", 10, 12, 6))
	demand := engine.AggregateDemand(testDate, []domain.OrderFact{
		order("SKU1", "POS1", 5, "2.50"),
	})
	report := engine.NewReport()

	net := engine.CalculateNetDemand(demand, nil, master.RulesBySKU(), report)

	assert.NotContains(t, net, "SKU2")
	assert.Empty(t, report.Anomalies())
}
