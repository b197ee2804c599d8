package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate runs all table creation statements. Safe to call multiple times
// due to IF NOT EXISTS clauses.
func Migrate(db *sql.DB) error {
	slog.Info("running database migrations")

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}

	slog.Info("database migrations complete")
	return nil
}

// Monetary columns are TEXT holding exact decimal strings; arithmetic on
// them happens in Go, never in SQL.
var migrations = []string{
	// Clients: billable customers
	`CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		website TEXT,
		rate TEXT,
		taxes TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Projects: bodies of work under a client
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		rate TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
		website TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
	)`,

	// Invoices: line items and the tax schedule override are serialized JSON;
	// stored totals are derived and overwritten on every save
	`CREATE TABLE IF NOT EXISTS invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NOT NULL,
		project_id INTEGER,
		invoice_number TEXT NOT NULL,
		po_number TEXT,
		issue_date DATE,
		due_date DATE,
		status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft', 'sent', 'partial', 'paid', 'overdue', 'cancelled')),
		line_items TEXT NOT NULL DEFAULT '[]',
		taxes TEXT,
		pre_tax_discount_type TEXT,
		pre_tax_discount_value TEXT,
		discount_type TEXT,
		discount_value TEXT,
		notes TEXT,
		view_key TEXT NOT NULL UNIQUE,
		subtotal TEXT NOT NULL DEFAULT '0',
		pre_tax_discount_amount TEXT NOT NULL DEFAULT '0',
		tax_total TEXT NOT NULL DEFAULT '0',
		discount_amount TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE RESTRICT,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET NULL
	)`,

	// Payments received against invoices
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_id INTEGER NOT NULL,
		amount TEXT NOT NULL,
		payment_date DATE,
		method TEXT,
		reference TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
	)`,

	// Single-row global settings; next_sequence feeds invoice numbering
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK(id = 1),
		company_name TEXT NOT NULL DEFAULT '',
		company_address TEXT,
		currency_code TEXT NOT NULL DEFAULT 'USD',
		currency_symbol TEXT NOT NULL DEFAULT '$',
		thousands_separator TEXT NOT NULL DEFAULT ',',
		decimal_separator TEXT NOT NULL DEFAULT '.',
		precision INTEGER NOT NULL DEFAULT 2 CHECK(precision BETWEEN 0 AND 8),
		taxes TEXT NOT NULL DEFAULT '[]',
		number_template TEXT NOT NULL DEFAULT 'INV-{YYYY}-{SEQ4}',
		net_due_days INTEGER NOT NULL DEFAULT 30,
		next_sequence INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`INSERT OR IGNORE INTO settings (id) VALUES (1)`,

	// Indexes for common queries
	`CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_client ON invoices(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_project ON invoices(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_invoice ON payments(invoice_id)`,
}
