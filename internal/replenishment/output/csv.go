// Package output publishes the supplier order file for a run. The file is
// a headered CSV named after the business date, written atomically so
// downstream pollers never see a half-written file.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

var csvHeader = []string{
	"supplier_code", "supplier_name", "sku", "product_name",
	"net_demand", "case_size", "order_quantity",
}

// Writer writes supplier order CSV files into the output directory.
type Writer struct {
	outputDir string
	log       *logger.Logger
}

// NewWriter creates a new order file writer
func NewWriter(outputDir string, log *logger.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		log:       log.WithComponent("output"),
	}
}

// FileName returns the output file name for a business date.
// 2026-08-27 becomes supplier_orders_20260827.csv.
func FileName(businessDate string) string {
	return fmt.Sprintf("supplier_orders_%s.csv", strings.ReplaceAll(businessDate, "-", ""))
}

// Write publishes the order lines for the business date and returns the
// written file path. An empty run still produces a header-only file so a
// day with nothing to order is distinguishable from a day that never ran.
func (w *Writer) Write(businessDate string, lines []domain.SupplierOrderLine) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, FileName(businessDate))

	// Stage the file next to its destination and rename into place.
	tmp, err := os.CreateTemp(w.outputDir, FileName(businessDate)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(csvHeader); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, line := range lines {
		record := []string{
			line.SupplierCode,
			line.SupplierName,
			line.SKU,
			line.ProductName,
			strconv.Itoa(line.NetDemand),
			strconv.Itoa(line.CaseSize),
			strconv.Itoa(line.OrderQuantity),
		}
		if err := cw.Write(record); err != nil {
			tmp.Close()
			return "", fmt.Errorf("failed to write order line: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to flush order file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to publish order file: %w", err)
	}

	w.log.Info().
		Str("business_date", businessDate).
		Str("file", path).
		Int("lines", len(lines)).
		Msg("supplier order file published")
	return path, nil
}
