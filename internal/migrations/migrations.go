package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the inventory and billing schema for the connected driver.
func Run(db *sqlx.DB) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	now := "CURRENT_TIMESTAMP"
	if db.DriverName() == "pgx" {
		id = "BIGSERIAL PRIMARY KEY"
		now = "NOW()"
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
			id ` + id + `,
			medicine_name TEXT NOT NULL,
			category TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			expiry_date TEXT NOT NULL,
			supplier TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT ` + now + `,
			updated_at TEXT NOT NULL DEFAULT ` + now + `
		);`,
		`CREATE INDEX IF NOT EXISTS inventory_medicine_name_idx ON inventory (medicine_name);`,
		`CREATE TABLE IF NOT EXISTS bills (
			id ` + id + `,
			customer_name TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			bill_date TEXT NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			created_at TEXT NOT NULL DEFAULT ` + now + `
		);`,
		`CREATE TABLE IF NOT EXISTS bill_lines (
			id ` + id + `,
			bill_id BIGINT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			med_name TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price NUMERIC(12,2) NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS bill_lines_bill_id_idx ON bill_lines (bill_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
