package billing

import (
	"errors"
	"fmt"
)

// ErrStockValidation matches every error returned by ValidateStock.
var ErrStockValidation = errors.New("stock validation failed")

// MedicineNotFoundError reports a line whose medicine is not in the snapshot.
type MedicineNotFoundError struct {
	Name string
}

func (e *MedicineNotFoundError) Error() string {
	return fmt.Sprintf("Medicine %s not found in inventory", e.Name)
}

func (e *MedicineNotFoundError) Is(target error) bool { return target == ErrStockValidation }

// AmbiguousMedicineError reports a line whose name matches several records.
type AmbiguousMedicineError struct {
	Name    string
	Matches int
}

func (e *AmbiguousMedicineError) Error() string {
	return fmt.Sprintf("Medicine %s matches %d inventory records", e.Name, e.Matches)
}

func (e *AmbiguousMedicineError) Is(target error) bool { return target == ErrStockValidation }

// InsufficientStockError reports a line asking for more than is available.
type InsufficientStockError struct {
	Name      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.Name, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrStockValidation }

// ValidateStock checks lines in order against snap and returns the first
// failure, or nil when every line can be served. Stock is never modified.
func ValidateStock(lines []Line, snap *Snapshot) error {
	for _, line := range lines {
		matches := snap.matches(line.MedicineName)
		switch len(matches) {
		case 0:
			return &MedicineNotFoundError{Name: line.MedicineName}
		case 1:
		default:
			return &AmbiguousMedicineError{Name: line.MedicineName, Matches: len(matches)}
		}
		rec := snap.records[matches[0]]
		if line.Quantity > rec.Quantity {
			return &InsufficientStockError{
				Name:      line.MedicineName,
				Requested: line.Quantity,
				Available: rec.Quantity,
			}
		}
	}
	return nil
}
