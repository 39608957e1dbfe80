package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregatedDemand is the per-SKU sum of order quantities across all stores.
type AggregatedDemand struct {
	SKU           string          `json:"sku"`
	OrderDate     string          `json:"order_date"`
	TotalQuantity int             `json:"total_quantity"`
	StoreCount    int             `json:"store_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// AverageUnitPrice is the quantity-weighted average unit price of the
// SKU's demand. Zero when no quantity was recorded.
func (d AggregatedDemand) AverageUnitPrice() decimal.Decimal {
	if d.TotalQuantity == 0 {
		return decimal.Zero
	}
	return d.TotalValue.Div(decimal.NewFromInt(int64(d.TotalQuantity)))
}

// AggregatedStock is the per-SKU stock position summed across warehouses.
type AggregatedStock struct {
	SKU            string `json:"sku"`
	SnapshotDate   string `json:"snapshot_date"`
	TotalAvailable int    `json:"total_available"`
	TotalReserved  int    `json:"total_reserved"`
}

// FreeStock is the procurable stock position for the SKU.
func (s AggregatedStock) FreeStock() int {
	return s.TotalAvailable - s.TotalReserved
}

// NetDemand is the quantity that must be procured for a SKU after netting
// demand against free stock and the safety buffer.
type NetDemand struct {
	SKU           string `json:"sku"`
	TotalQuantity int    `json:"total_quantity"`
	FreeStock     int    `json:"free_stock"`
	SafetyStock   int    `json:"safety_stock"`
	NetDemand     int    `json:"net_demand"`
}

// SupplierOrderLine is one line of the final procurement output. The field
// order here is the fixed column order of the CSV output convention.
type SupplierOrderLine struct {
	SupplierCode  string `db:"supplier_code" json:"supplier_code"`
	SupplierName  string `db:"supplier_name" json:"supplier_name"`
	SKU           string `db:"sku" json:"sku"`
	ProductName   string `db:"product_name" json:"product_name"`
	NetDemand     int    `db:"net_demand" json:"net_demand"`
	CaseSize      int    `db:"case_size" json:"case_size"`
	OrderQuantity int    `db:"order_quantity" json:"order_quantity"`
}

// Severity classifies an anomaly's effect on the run.
type Severity string

const (
	// SeverityWarning anomalies reduce or annotate the output but never
	// abort the run
	SeverityWarning Severity = "warning"
	// SeverityFatal anomalies abort the run after the full validation pass
	SeverityFatal Severity = "fatal"
)

// Stage identifies the pipeline stage that recorded an anomaly.
type Stage string

const (
	StageAggregation Stage = "aggregation"
	StageValidation  Stage = "validation"
	StageNetDemand   Stage = "net_demand"
	StageResolution  Stage = "resolution"
	StageAssembly    Stage = "assembly"
)

// Anomaly is a single validation or computation finding.
type Anomaly struct {
	Stage    Stage    `json:"stage"`
	SKU      string   `json:"sku,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SupplierSummary aggregates a run's output per supplier.
type SupplierSummary struct {
	SupplierCode string          `db:"supplier_code" json:"supplier_code"`
	SupplierName string          `db:"supplier_name" json:"supplier_name"`
	LineCount    int             `db:"line_count" json:"line_count"`
	TotalUnits   int             `db:"total_units" json:"total_units"`
	DemandValue  decimal.Decimal `db:"demand_value" json:"demand_value"`
}

// Run is the persisted record of one pipeline execution.
type Run struct {
	ID           string     `db:"id" json:"id"`
	BusinessDate string     `db:"business_date" json:"business_date"`
	Status       RunStatus  `db:"status" json:"status"`
	OrderLines   int        `db:"order_lines" json:"order_lines"`
	WarningCount int        `db:"warning_count" json:"warning_count"`
	ErrorCode    *string    `db:"error_code" json:"error_code,omitempty"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	OutputFile   *string    `db:"output_file" json:"output_file,omitempty"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	FinishedAt   *time.Time `db:"finished_at" json:"finished_at,omitempty"`
}
