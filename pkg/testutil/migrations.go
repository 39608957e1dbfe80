package testutil

// MasterMigrations returns the master data DDL
func MasterMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			sku VARCHAR(64) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT 'general',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			CONSTRAINT products_sku_key UNIQUE (sku)
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			supplier_id SERIAL PRIMARY KEY,
			supplier_code VARCHAR(32) NOT NULL,
			supplier_name VARCHAR(255) NOT NULL,
			lead_time_days INTEGER NOT NULL DEFAULT 3,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			CONSTRAINT suppliers_supplier_code_key UNIQUE (supplier_code)
		)`,
		`CREATE TABLE IF NOT EXISTS supplier_products (
			product_id INTEGER NOT NULL REFERENCES products(product_id),
			supplier_id INTEGER NOT NULL REFERENCES suppliers(supplier_id),
			is_primary_supplier BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (product_id, supplier_id)
		)`,
		`CREATE TABLE IF NOT EXISTS replenishment_rules (
			rule_id SERIAL PRIMARY KEY,
			product_id INTEGER NOT NULL REFERENCES products(product_id),
			safety_stock INTEGER NOT NULL DEFAULT 0,
			min_order_quantity INTEGER NOT NULL DEFAULT 1,
			case_size INTEGER NOT NULL DEFAULT 1,
			max_order_quantity INTEGER,
			reorder_point INTEGER NOT NULL DEFAULT 0
		)`,
	}
}

// RunMigrations returns the run history DDL
func RunMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			id UUID PRIMARY KEY,
			business_date VARCHAR(10) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'running',
			order_lines INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0,
			error_code VARCHAR(50),
			error_message TEXT,
			output_file TEXT,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ,
			CONSTRAINT pipeline_runs_status_valid CHECK (status IN ('running', 'completed', 'failed'))
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS pipeline_runs_business_date_completed_key
			ON pipeline_runs (business_date) WHERE status = 'completed'`,
		`CREATE TABLE IF NOT EXISTS run_anomalies (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			stage VARCHAR(20) NOT NULL,
			sku VARCHAR(64),
			severity VARCHAR(10) NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT run_anomalies_severity_valid CHECK (severity IN ('warning', 'fatal'))
		)`,
		`CREATE TABLE IF NOT EXISTS supplier_order_lines (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
			supplier_code VARCHAR(32) NOT NULL,
			supplier_name VARCHAR(255) NOT NULL,
			sku VARCHAR(64) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			net_demand INTEGER NOT NULL,
			case_size INTEGER NOT NULL,
			order_quantity INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT supplier_order_lines_run_sku_key UNIQUE (run_id, sku),
			CONSTRAINT supplier_order_lines_quantity_positive CHECK (order_quantity > 0)
		)`,
		`CREATE TABLE IF NOT EXISTS run_supplier_summaries (
			run_id UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
			supplier_code VARCHAR(32) NOT NULL,
			supplier_name VARCHAR(255) NOT NULL,
			line_count INTEGER NOT NULL,
			total_units INTEGER NOT NULL,
			demand_value NUMERIC(14,2) NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, supplier_code)
		)`,
	}
}

// Migrations returns the full schema in apply order
func Migrations() []string {
	migrations := make([]string, 0)
	migrations = append(migrations, MasterMigrations()...)
	migrations = append(migrations, RunMigrations()...)
	return migrations
}
