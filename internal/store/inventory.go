package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

const inventoryColumns = `id, medicine_name, category, price, quantity, expiry_date, supplier, created_at, updated_at`

// ListInventory returns every record ordered by medicine name.
func (s *Store) ListInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	return listInventory(ctx, s.db)
}

func listInventory(ctx context.Context, q sqlx.QueryerContext) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	err := sqlx.SelectContext(ctx, q, &records, `SELECT `+inventoryColumns+` FROM inventory ORDER BY medicine_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	if records == nil {
		records = []domain.InventoryRecord{}
	}
	return records, nil
}

// GetInventory loads one record.
func (s *Store) GetInventory(ctx context.Context, id int64) (domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := s.db.GetContext(ctx, &rec, s.db.Rebind(`SELECT `+inventoryColumns+` FROM inventory WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get inventory %d: %w", id, err)
	}
	return rec, nil
}

// FindDuplicate looks for a record with the same name, price and expiry date.
func (s *Store) FindDuplicate(ctx context.Context, name string, price decimal.Decimal, expiry string) (domain.InventoryRecord, bool, error) {
	rec, err := findDuplicate(ctx, s.db, name, price, expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("check duplicate inventory: %w", err)
	}
	return rec, true, nil
}

func findDuplicate(ctx context.Context, q queryer, name string, price decimal.Decimal, expiry string) (domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := sqlx.GetContext(ctx, q, &rec,
		q.Rebind(`SELECT `+inventoryColumns+` FROM inventory WHERE medicine_name = ? AND price = ? AND expiry_date = ? ORDER BY id LIMIT 1`),
		name, price, expiry)
	return rec, err
}

// AddInventory inserts rec, or adds its quantity to an existing record with
// the same name, price and expiry date. merged reports which happened.
func (s *Store) AddInventory(ctx context.Context, rec domain.InventoryRecord) (out domain.InventoryRecord, merged bool, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		existing, err := findDuplicate(ctx, tx, rec.MedicineName, rec.Price, rec.ExpiryDate)
		switch {
		case err == nil:
			merged = true
			if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE inventory SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`), rec.Quantity, existing.ID); err != nil {
				return err
			}
			return sqlx.GetContext(ctx, tx, &out, tx.Rebind(`SELECT `+inventoryColumns+` FROM inventory WHERE id = ?`), existing.ID)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		var id int64
		err = tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO inventory (medicine_name, category, price, quantity, expiry_date, supplier) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			rec.MedicineName, rec.Category, rec.Price, rec.Quantity, rec.ExpiryDate, rec.Supplier).Scan(&id)
		if err != nil {
			return err
		}
		return sqlx.GetContext(ctx, tx, &out, tx.Rebind(`SELECT `+inventoryColumns+` FROM inventory WHERE id = ?`), id)
	})
	if err != nil {
		return out, false, fmt.Errorf("add inventory: %w", err)
	}
	return out, merged, nil
}

// UpdateInventory overwrites the editable fields of rec.ID.
func (s *Store) UpdateInventory(ctx context.Context, rec domain.InventoryRecord) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE inventory SET medicine_name = ?, category = ?, price = ?, quantity = ?, expiry_date = ?, supplier = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		rec.MedicineName, rec.Category, rec.Price, rec.Quantity, rec.ExpiryDate, rec.Supplier, rec.ID)
	if err != nil {
		return fmt.Errorf("update inventory %d: %w", rec.ID, err)
	}
	return requireRow(res)
}

// DeleteInventory removes one record.
func (s *Store) DeleteInventory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM inventory WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete inventory %d: %w", id, err)
	}
	return requireRow(res)
}

// LowStock returns records whose quantity is below threshold.
func (s *Store) LowStock(ctx context.Context, threshold int64) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	err := s.db.SelectContext(ctx, &records, s.db.Rebind(`SELECT `+inventoryColumns+` FROM inventory WHERE quantity < ? ORDER BY quantity, medicine_name`), threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	if records == nil {
		records = []domain.InventoryRecord{}
	}
	return records, nil
}

// ExpiringBy returns stocked records expiring on or before date (YYYY-MM-DD).
func (s *Store) ExpiringBy(ctx context.Context, date string) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	err := s.db.SelectContext(ctx, &records, s.db.Rebind(`SELECT `+inventoryColumns+` FROM inventory WHERE quantity > 0 AND expiry_date <= ? ORDER BY expiry_date, medicine_name`), date)
	if err != nil {
		return nil, fmt.Errorf("list expiring inventory: %w", err)
	}
	if records == nil {
		records = []domain.InventoryRecord{}
	}
	return records, nil
}

// GroupByCategory groups records by category in domain.Categories order.
// Empty categories are left out; unknown categories follow in name order.
func GroupByCategory(records []domain.InventoryRecord) []domain.CategoryGroup {
	byCategory := make(map[string][]domain.InventoryRecord)
	var unknown []string
	known := make(map[string]bool, len(domain.Categories))
	for _, c := range domain.Categories {
		known[c] = true
	}
	for _, rec := range records {
		if !known[rec.Category] {
			if _, seen := byCategory[rec.Category]; !seen {
				unknown = append(unknown, rec.Category)
			}
		}
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}

	slices.Sort(unknown)

	groups := make([]domain.CategoryGroup, 0, len(byCategory))
	for _, c := range append(append([]string{}, domain.Categories...), unknown...) {
		if items := byCategory[c]; len(items) > 0 {
			groups = append(groups, domain.CategoryGroup{Category: c, Items: items})
		}
	}
	return groups
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
