package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pharmacy/m/domain"
	"pharmacy/m/internal/billing"
)

const billColumns = `id, customer_name, payment_method, bill_date, total_amount, created_at`

// CreateBill validates order against the inventory as it stands inside the
// transaction, stores the bill with a server computed total and takes the
// billed quantities out of stock.
func (s *Store) CreateBill(ctx context.Context, order billing.Order) (domain.Bill, error) {
	var bill domain.Bill
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		records, err := listInventory(ctx, tx)
		if err != nil {
			return err
		}
		snap := billing.NewSnapshot(records)
		if err := billing.ValidateStock(order.Lines, snap); err != nil {
			return err
		}

		var id int64
		err = tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO bills (customer_name, payment_method, bill_date, total_amount) VALUES (?, ?, ?, ?) RETURNING id`),
			order.CustomerName, order.PaymentMethod, order.Date, billing.Total(order.Lines)).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}
		if err := insertLines(ctx, tx, id, order.Lines); err != nil {
			return err
		}
		for _, line := range order.Lines {
			rec, _ := snap.Lookup(line.MedicineName)
			if err := takeStock(ctx, tx, rec, line.Quantity); err != nil {
				return err
			}
		}
		bill, err = getBill(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.Bill{}, err
	}
	return bill, nil
}

// takeStock decrements rec by qty unless that would go below zero, which can
// happen when several lines bill the same medicine.
func takeStock(ctx context.Context, tx *sqlx.Tx, rec domain.InventoryRecord, qty int64) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE inventory SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND quantity >= ?`), qty, rec.ID, qty)
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", rec.MedicineName, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 1 {
		return err
	}
	var available int64
	if err := tx.GetContext(ctx, &available, tx.Rebind(`SELECT quantity FROM inventory WHERE id = ?`), rec.ID); err != nil {
		return fmt.Errorf("reload stock for %s: %w", rec.MedicineName, err)
	}
	return &billing.InsufficientStockError{Name: rec.MedicineName, Requested: qty, Available: available}
}

func insertLines(ctx context.Context, tx *sqlx.Tx, billID int64, lines []billing.Line) error {
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO bill_lines (bill_id, position, med_name, quantity, price) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare bill lines: %w", err)
	}
	defer stmt.Close()
	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, billID, i, line.MedicineName, line.Quantity, line.Price); err != nil {
			return fmt.Errorf("insert bill line %d: %w", i+1, err)
		}
	}
	return nil
}

// ListBills returns every bill with its lines, newest first.
func (s *Store) ListBills(ctx context.Context) ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := s.db.SelectContext(ctx, &bills, `SELECT `+billColumns+` FROM bills ORDER BY bill_date DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	if len(bills) == 0 {
		return []domain.Bill{}, nil
	}

	ids := make([]int64, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	query, args, err := sqlx.In(`SELECT id, bill_id, position, med_name, quantity, price FROM bill_lines WHERE bill_id IN (?) ORDER BY bill_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare bill lines query: %w", err)
	}
	var rows []domain.BillLine
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load bill lines: %w", err)
	}
	linesByBill := make(map[int64][]domain.BillLine)
	for _, row := range rows {
		linesByBill[row.BillID] = append(linesByBill[row.BillID], row)
	}
	for i := range bills {
		bills[i].Medicines = linesByBill[bills[i].ID]
		if bills[i].Medicines == nil {
			bills[i].Medicines = []domain.BillLine{}
		}
	}
	return bills, nil
}

// GetBill loads one bill with its lines.
func (s *Store) GetBill(ctx context.Context, id int64) (domain.Bill, error) {
	return getBill(ctx, s.db, id)
}

func getBill(ctx context.Context, q queryer, id int64) (domain.Bill, error) {
	var bill domain.Bill
	err := sqlx.GetContext(ctx, q, &bill, q.Rebind(`SELECT `+billColumns+` FROM bills WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return bill, ErrNotFound
	}
	if err != nil {
		return bill, fmt.Errorf("get bill %d: %w", id, err)
	}
	bill.Medicines = []domain.BillLine{}
	err = sqlx.SelectContext(ctx, q, &bill.Medicines, q.Rebind(`SELECT id, bill_id, position, med_name, quantity, price FROM bill_lines WHERE bill_id = ? ORDER BY position`), id)
	if err != nil {
		return bill, fmt.Errorf("get bill %d lines: %w", id, err)
	}
	return bill, nil
}

// UpdateBill replaces the customer, payment method and lines of a bill and
// recomputes its total. Stock levels are left untouched. An empty date keeps
// the stored one.
func (s *Store) UpdateBill(ctx context.Context, id int64, order billing.Order) (domain.Bill, error) {
	var bill domain.Bill
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE bills SET customer_name = ?, payment_method = ?, bill_date = COALESCE(NULLIF(?, ''), bill_date), total_amount = ? WHERE id = ?`),
			order.CustomerName, order.PaymentMethod, order.Date, billing.Total(order.Lines), id)
		if err != nil {
			return fmt.Errorf("update bill %d: %w", id, err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bill_lines WHERE bill_id = ?`), id); err != nil {
			return fmt.Errorf("clear bill %d lines: %w", id, err)
		}
		if err := insertLines(ctx, tx, id, order.Lines); err != nil {
			return err
		}
		bill, err = getBill(ctx, tx, id)
		return err
	})
	return bill, err
}

// DeleteBill removes a bill and its lines.
func (s *Store) DeleteBill(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bill_lines WHERE bill_id = ?`), id); err != nil {
			return fmt.Errorf("delete bill %d lines: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bills WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete bill %d: %w", id, err)
		}
		return requireRow(res)
	})
}
