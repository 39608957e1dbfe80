package engine_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/engine"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
)

func TestEngine_Run_WorkedScenario(t *testing.T) {
	// SKU1: qty 5 from store A, qty 3 from store B -> total 8.
	// Stock: WH1 avail 10 res 2 (duplicate ignored), WH2 avail 5 res 0
	// -> available 15, reserved 2, free 13.
	// Rule: safety 10, case 6, MOQ 12.
	// net = max(0, 8+10-13) = 5; ceil(5/6)*6 = 6; max(6,12) = 12.
	e := engine.New(5, testLogger())

	result, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU1", "POSA", 5, "2.50"),
			order("SKU1", "POSB", 3, "2.50"),
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH1", "SKU1", 10, 2),
			stockSnapshot("WH1", "SKU1", 10, 2),
			stockSnapshot("WH2", "SKU1", 5, 0),
		},
		Master: masterFor(rule("SKU1", 10, 12, 6)),
	})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, "SKU1", line.SKU)
	assert.Equal(t, 5, line.NetDemand)
	assert.Equal(t, 6, line.CaseSize)
	assert.Equal(t, 12, line.OrderQuantity)
	assert.Equal(t, "SUP001", line.SupplierCode)
}

func TestEngine_Run_ZeroNetDemandProducesNoLine(t *testing.T) {
	e := engine.New(5, testLogger())

	result, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU1", "POS1", 2, "2.50"),
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH1", "SKU1", 100, 0),
		},
		Master: masterFor(rule("SKU1", 10, 12, 6)),
	})
	require.NoError(t, err)

	assert.Empty(t, result.Lines)
	assert.Equal(t, 0, result.NetDemand["SKU1"].NetDemand)
}

func TestEngine_Run_MissingOrdersIsFatal(t *testing.T) {
	e := engine.New(5, testLogger())

	_, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders:       nil,
		Stock:        []domain.StockFact{stockSnapshot("WH1", "SKU1", 10, 0)},
		Master:       masterFor(rule("SKU1", 10, 12, 6)),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingData))
}

func TestEngine_Run_MissingStockIsFatal(t *testing.T) {
	e := engine.New(5, testLogger())

	_, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders:       []domain.OrderFact{order("SKU1", "POS1", 5, "2.50")},
		Stock:        nil,
		Master:       masterFor(rule("SKU1", 10, 12, 6)),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingData))
}

func TestEngine_Run_DuplicateRuleAbortsWithNoOutput(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6), rule("SKU2", 10, 12, 6))
	master.Rules = append(master.Rules, rule("SKU1", 20, 6, 12))

	e := engine.New(5, testLogger())
	result, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU1", "POS1", 50, "2.50"),
			order("SKU2", "POS1", 50, "1.00"),
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH1", "SKU1", 1, 0),
			stockSnapshot("WH1", "SKU2", 1, 0),
		},
		Master: master,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicateRule))
	// Zero output lines, but the report survives for triage.
	assert.Empty(t, result.Lines)
	assert.True(t, result.Report.HasFatal())
}

func TestEngine_Run_UnmappedSupplierExcludedRunCompletes(t *testing.T) {
	master := masterFor(rule("SKU1", 10, 12, 6), rule("SKU2", 10, 12, 6))
	master.Suppliers["SKU2"] = nil // demand but no supplier mapping

	e := engine.New(5, testLogger())
	result, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU1", "POS1", 50, "2.50"),
			order("SKU2", "POS1", 50, "1.00"),
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH1", "SKU1", 1, 0),
			stockSnapshot("WH1", "SKU2", 1, 0),
		},
		Master: master,
	})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.Equal(t, "SKU1", result.Lines[0].SKU)

	var unmappedWarnings int
	for _, a := range result.Report.Warnings() {
		if a.SKU == "SKU2" && a.Stage == domain.StageValidation {
			unmappedWarnings++
		}
	}
	assert.Equal(t, 1, unmappedWarnings)
}

func TestEngine_Run_Idempotent(t *testing.T) {
	input := engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU2", "POS2", 30, "1.00"),
			order("SKU1", "POSA", 5, "2.50"),
			order("SKU1", "POSB", 3, "2.50"),
			order("SKU3", "POS1", 17, "0.80"),
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH2", "SKU1", 5, 0),
			stockSnapshot("WH1", "SKU1", 10, 2),
			stockSnapshot("WH1", "SKU2", 4, 1),
			stockSnapshot("WH3", "SKU3", 0, 2),
		},
		Master: masterFor(
			rule("SKU1", 10, 12, 6),
			rule("SKU2", 10, 1, 12),
			rule("SKU3", 10, 6, 6),
		),
	}

	e := engine.New(5, testLogger())
	first, err := e.Run(input)
	require.NoError(t, err)
	second, err := e.Run(input)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first.Lines, second.Lines))
	assert.True(t, reflect.DeepEqual(first.Report.Anomalies(), second.Report.Anomalies()))
}

func TestEngine_Run_AnomalyOrderingStable(t *testing.T) {
	// Anomalies arrive in stage order, and within a stage in SKU order.
	master := masterFor(rule("SKU1", 1, 1, 6))

	e := engine.New(5, testLogger())
	result, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU9", "POS1", 3, "1.00"), // unmapped + no rule
			order("SKU1", "POS1", 100, "2.50"), // spike
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH1", "SKU1", 0, 4), // inconsistent
		},
		Master: master,
	})
	require.NoError(t, err)

	anomalies := result.Report.Anomalies()
	require.Len(t, anomalies, 4)
	assert.Equal(t, domain.StageValidation, anomalies[0].Stage) // SKU9 unmapped
	assert.Equal(t, "SKU9", anomalies[0].SKU)
	assert.Equal(t, domain.StageValidation, anomalies[1].Stage) // SKU1 spike
	assert.Equal(t, "SKU1", anomalies[1].SKU)
	assert.Equal(t, domain.StageValidation, anomalies[2].Stage) // SKU1 stock
	assert.Equal(t, domain.StageNetDemand, anomalies[3].Stage) // SKU9 no rule
}

func TestResult_Summaries(t *testing.T) {
	e := engine.New(5, testLogger())
	result, err := e.Run(engine.Input{
		BusinessDate: testDate,
		Orders: []domain.OrderFact{
			order("SKU1", "POS1", 50, "2.00"),
			order("SKU2", "POS1", 30, "1.00"),
		},
		Stock: []domain.StockFact{
			stockSnapshot("WH1", "SKU1", 1, 0),
			stockSnapshot("WH1", "SKU2", 1, 0),
		},
		Master: masterFor(
			rule("SKU1", 10, 1, 1),
			rule("SKU2", 10, 1, 1),
		),
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	summaries := result.Summaries()
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, "SUP001", s.SupplierCode)
	assert.Equal(t, 2, s.LineCount)
	// SKU1: 50+10-1=59 units at 2.00; SKU2: 30+10-1=39 units at 1.00
	assert.Equal(t, 98, s.TotalUnits)
	assert.True(t, s.DemandValue.Equal(decimal.RequireFromString("157")),
		"demand value was %s", s.DemandValue)
}
