package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/repository"
	"github.com/Ridadata/procurement-pipeline/pkg/database"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
	"github.com/Ridadata/procurement-pipeline/pkg/testutil"
)

func newTestDB(t *testing.T) (*testutil.MockDB, *database.DB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() {
		mockDB.ExpectationsWereMet(t)
		mockDB.Close()
	})
	return mockDB, database.NewFromSqlx(mockDB.DB, logger.New("repository-test", "test"))
}

func TestMasterRepository_Load(t *testing.T) {
	mockDB, db := newTestDB(t)

	mockDB.Mock.ExpectQuery("SELECT product_id, sku, product_name, category, is_active").
		WillReturnRows(testutil.MockRows("product_id", "sku", "product_name", "category", "is_active").
			AddRow(1, "SKU1", "Oat Milk 1L", "dairy", true).
			AddRow(2, "SKU2", "Rye Bread", "bakery", true))

	mockDB.Mock.ExpectQuery("FROM supplier_products sp").
		WillReturnRows(testutil.MockRows("sku", "supplier_id", "supplier_code", "supplier_name", "is_primary_supplier").
			AddRow("SKU1", 1, "SUP001", "Acme Wholesale", true).
			AddRow("SKU1", 2, "SUP002", "Beta Trade", false).
			AddRow("SKU2", 1, "SUP001", "Acme Wholesale", true))

	mockDB.Mock.ExpectQuery("FROM replenishment_rules rr").
		WillReturnRows(testutil.MockRows("sku", "safety_stock", "min_order_quantity", "case_size", "max_order_quantity", "reorder_point").
			AddRow("SKU1", 10, 12, 6, nil, 20).
			AddRow("SKU2", 5, 1, 1, 100, 10))

	repo := repository.NewMasterRepository(db)
	master, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, master.Products, 2)
	assert.Equal(t, "Oat Milk 1L", master.Products["SKU1"].ProductName)

	require.Len(t, master.Suppliers["SKU1"], 2)
	assert.True(t, master.Suppliers["SKU1"][0].IsPrimarySupplier)
	assert.False(t, master.Suppliers["SKU1"][1].IsPrimarySupplier)

	require.Len(t, master.Rules, 2)
	assert.Nil(t, master.Rules[0].MaxOrderQuantity)
	require.NotNil(t, master.Rules[1].MaxOrderQuantity)
	assert.Equal(t, 100, *master.Rules[1].MaxOrderQuantity)
}

func TestMasterRepository_Load_DuplicateRuleRowsPreserved(t *testing.T) {
	mockDB, db := newTestDB(t)

	mockDB.Mock.ExpectQuery("SELECT product_id, sku, product_name, category, is_active").
		WillReturnRows(testutil.MockRows("product_id", "sku", "product_name", "category", "is_active").
			AddRow(1, "SKU1", "Oat Milk 1L", "dairy", true))

	mockDB.Mock.ExpectQuery("FROM supplier_products sp").
		WillReturnRows(testutil.MockRows("sku", "supplier_id", "supplier_code", "supplier_name", "is_primary_supplier").
			AddRow("SKU1", 1, "SUP001", "Acme Wholesale", true))

	// Two rule rows for the same SKU come back as-is so the validation
	// stage can reject the run instead of one row silently winning.
	mockDB.Mock.ExpectQuery("FROM replenishment_rules rr").
		WillReturnRows(testutil.MockRows("sku", "safety_stock", "min_order_quantity", "case_size", "max_order_quantity", "reorder_point").
			AddRow("SKU1", 10, 12, 6, nil, 20).
			AddRow("SKU1", 20, 6, 12, nil, 30))

	repo := repository.NewMasterRepository(db)
	master, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, master.Rules, 2)
}
