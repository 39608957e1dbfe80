package output_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/output"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "supplier_orders_20260827.csv", output.FileName("2026-08-27"))
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := output.NewWriter(dir, logger.New("output-test", "test"))

	lines := []domain.SupplierOrderLine{
		{SupplierCode: "SUP001", SupplierName: "Acme Wholesale", SKU: "SKU1", ProductName: "Oat Milk 1L", NetDemand: 5, CaseSize: 6, OrderQuantity: 12},
		{SupplierCode: "SUP002", SupplierName: "Beta Trade", SKU: "SKU2", ProductName: "Rye Bread", NetDemand: 3, CaseSize: 1, OrderQuantity: 3},
	}

	path, err := w.Write("2026-08-27", lines)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "supplier_orders_20260827.csv"), path)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"supplier_code", "supplier_name", "sku", "product_name",
		"net_demand", "case_size", "order_quantity",
	}, records[0])
	assert.Equal(t, []string{"SUP001", "Acme Wholesale", "SKU1", "Oat Milk 1L", "5", "6", "12"}, records[1])
	assert.Equal(t, []string{"SUP002", "Beta Trade", "SKU2", "Rye Bread", "3", "1", "3"}, records[2])
}

func TestWriter_Write_EmptyRunKeepsHeader(t *testing.T) {
	dir := t.TempDir()
	w := output.NewWriter(dir, logger.New("output-test", "test"))

	path, err := w.Write("2026-08-27", nil)
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, "supplier_code", records[0][0])
}

func TestWriter_Write_OverwritesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	w := output.NewWriter(dir, logger.New("output-test", "test"))

	_, err := w.Write("2026-08-27", []domain.SupplierOrderLine{
		{SupplierCode: "SUP001", SupplierName: "Acme Wholesale", SKU: "SKU1", ProductName: "Oat Milk 1L", NetDemand: 5, CaseSize: 6, OrderQuantity: 12},
	})
	require.NoError(t, err)

	path, err := w.Write("2026-08-27", nil)
	require.NoError(t, err)

	// A rerun replaces the file wholesale, never appends.
	records := readCSV(t, path)
	assert.Len(t, records, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging files must not linger")
}

func TestWriter_Write_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "supplier_orders")
	w := output.NewWriter(dir, logger.New("output-test", "test"))

	_, err := w.Write("2026-08-27", nil)
	require.NoError(t, err)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}
