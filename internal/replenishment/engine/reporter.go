package engine

import "github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"

// Report collects anomalies from all pipeline stages in the order they were
// recorded. It performs no I/O; the service layer decides where the report
// goes (log sink, event bus, run history).
type Report struct {
	anomalies []domain.Anomaly
}

// NewReport creates an empty anomaly report
func NewReport() *Report {
	return &Report{}
}

// Warn records a non-fatal anomaly
func (r *Report) Warn(stage domain.Stage, sku, message string) {
	r.anomalies = append(r.anomalies, domain.Anomaly{
		Stage:    stage,
		SKU:      sku,
		Severity: domain.SeverityWarning,
		Message:  message,
	})
}

// Fatal records a run-aborting anomaly
func (r *Report) Fatal(stage domain.Stage, sku, message string) {
	r.anomalies = append(r.anomalies, domain.Anomaly{
		Stage:    stage,
		SKU:      sku,
		Severity: domain.SeverityFatal,
		Message:  message,
	})
}

// Anomalies returns all recorded anomalies in recording order
func (r *Report) Anomalies() []domain.Anomaly {
	return r.anomalies
}

// Warnings returns only the warning-severity anomalies
func (r *Report) Warnings() []domain.Anomaly {
	var out []domain.Anomaly
	for _, a := range r.anomalies {
		if a.Severity == domain.SeverityWarning {
			out = append(out, a)
		}
	}
	return out
}

// Fatals returns only the fatal-severity anomalies
func (r *Report) Fatals() []domain.Anomaly {
	var out []domain.Anomaly
	for _, a := range r.anomalies {
		if a.Severity == domain.SeverityFatal {
			out = append(out, a)
		}
	}
	return out
}

// HasFatal reports whether any fatal anomaly was recorded
func (r *Report) HasFatal() bool {
	for _, a := range r.anomalies {
		if a.Severity == domain.SeverityFatal {
			return true
		}
	}
	return false
}

// WarningCount returns the number of warning anomalies
func (r *Report) WarningCount() int {
	n := 0
	for _, a := range r.anomalies {
		if a.Severity == domain.SeverityWarning {
			n++
		}
	}
	return n
}
