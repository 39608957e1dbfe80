package facts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/facts"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

const testDate = "2026-08-27"

func writeFactFile(t *testing.T, dataDir, kind, date, name, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, "raw", kind, date)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStore_Orders(t *testing.T) {
	dataDir := t.TempDir()
	writeFactFile(t, dataDir, "orders", testDate, "pos1.jsonl",
		`{"order_id":"ORD1","pos_store_id":"POS1","sku":"SKU1","quantity":5,"order_date":"2026-08-27","unit_price":2.5}
{"order_id":"ORD2","pos_store_id":"POS1","sku":"SKU2","quantity":3,"order_date":"2026-08-27","unit_price":1.0}`)
	writeFactFile(t, dataDir, "orders", testDate, "pos2.jsonl",
		`{"order_id":"ORD3","pos_store_id":"POS2","sku":"SKU1","quantity":2,"order_date":"2026-08-27","unit_price":2.5}`)

	store := facts.NewStore(dataDir, logger.New("facts-test", "test"))
	orders, err := store.Orders(testDate)
	require.NoError(t, err)

	require.Len(t, orders, 3)
	assert.Equal(t, "ORD1", orders[0].OrderID)
	assert.Equal(t, "SKU1", orders[0].SKU)
	assert.Equal(t, 5, orders[0].Quantity)
	assert.Equal(t, "POS2", orders[2].POSStoreID)
}

func TestStore_Orders_SkipsBlankLinesAndForeignFiles(t *testing.T) {
	dataDir := t.TempDir()
	writeFactFile(t, dataDir, "orders", testDate, "pos1.jsonl",
		`{"order_id":"ORD1","pos_store_id":"POS1","sku":"SKU1","quantity":5,"order_date":"2026-08-27","unit_price":2.5}

`)
	writeFactFile(t, dataDir, "orders", testDate, "_SUCCESS.txt", "marker")

	store := facts.NewStore(dataDir, logger.New("facts-test", "test"))
	orders, err := store.Orders(testDate)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestStore_Orders_MissingDirectory(t *testing.T) {
	store := facts.NewStore(t.TempDir(), logger.New("facts-test", "test"))

	_, err := store.Orders(testDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingData))
}

func TestStore_Orders_EmptyFilesAreMissingData(t *testing.T) {
	dataDir := t.TempDir()
	writeFactFile(t, dataDir, "orders", testDate, "pos1.jsonl", "")

	store := facts.NewStore(dataDir, logger.New("facts-test", "test"))
	_, err := store.Orders(testDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingData))
}

func TestStore_Orders_MalformedRecord(t *testing.T) {
	dataDir := t.TempDir()
	writeFactFile(t, dataDir, "orders", testDate, "pos1.jsonl", `{"order_id":`)

	store := facts.NewStore(dataDir, logger.New("facts-test", "test"))
	_, err := store.Orders(testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed order fact")
}

func TestStore_Stock(t *testing.T) {
	dataDir := t.TempDir()
	writeFactFile(t, dataDir, "stock", testDate, "warehouses.jsonl",
		`{"warehouse_code":"WH1","sku":"SKU1","available_stock":10,"reserved_stock":2,"snapshot_date":"2026-08-27"}
{"warehouse_code":"WH2","sku":"SKU1","available_stock":5,"reserved_stock":0,"snapshot_date":"2026-08-27"}`)

	store := facts.NewStore(dataDir, logger.New("facts-test", "test"))
	stock, err := store.Stock(testDate)
	require.NoError(t, err)

	require.Len(t, stock, 2)
	assert.Equal(t, "WH1", stock[0].WarehouseCode)
	assert.Equal(t, 10, stock[0].AvailableStock)
	assert.Equal(t, 8, stock[0].FreeStock())
}

func TestStore_Stock_Missing(t *testing.T) {
	store := facts.NewStore(t.TempDir(), logger.New("facts-test", "test"))

	_, err := store.Stock(testDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingData))
}
