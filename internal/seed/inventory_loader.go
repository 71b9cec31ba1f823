package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"pharmacy/m/domain"
	"pharmacy/m/internal/validation"
)

// InventoryAdder stores a record or merges it into a matching one.
type InventoryAdder interface {
	AddInventory(ctx context.Context, rec domain.InventoryRecord) (domain.InventoryRecord, bool, error)
}

// Result counts what a seed run did.
type Result struct {
	Added   int
	Merged  int
	Skipped int
}

var header = []string{"medicineName", "category", "price", "quantity", "expiryDate", "supplier"}

// LoadInventoryFile seeds inventory from the CSV at path.
func LoadInventoryFile(ctx context.Context, st InventoryAdder, path string, log zerolog.Logger) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open inventory seed %s: %w", path, err)
	}
	defer file.Close()
	return LoadInventory(ctx, st, file, log)
}

// LoadInventory reads rows in the column order of header. Rows failing the
// same checks as an inventory add over HTTP are logged and skipped, except
// that past expiry dates are allowed; rows matching an existing record by name, price and
// expiry date add to its quantity.
func LoadInventory(ctx context.Context, st InventoryAdder, r io.Reader, log zerolog.Logger) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read inventory header: %w", err)
	}
	for i, name := range header {
		if i >= len(first) || strings.TrimSpace(first[i]) != name {
			return Result{}, fmt.Errorf("unexpected inventory header %v", first)
		}
	}

	v := validation.New()
	var res Result
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("unable to read inventory row")
			res.Skipped++
			continue
		}
		rec, err := parseRow(v, record)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping inventory row")
			res.Skipped++
			continue
		}
		_, merged, err := st.AddInventory(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", rec.MedicineName, err)
		}
		if merged {
			res.Merged++
		} else {
			res.Added++
		}
	}

	log.Info().Int("added", res.Added).Int("merged", res.Merged).Int("skipped", res.Skipped).Msg("seeded inventory")
	return res, nil
}

func parseRow(v *validator.Validate, record []string) (domain.InventoryRecord, error) {
	if len(record) < len(header) {
		return domain.InventoryRecord{}, fmt.Errorf("expected %d columns, got %d", len(header), len(record))
	}
	rec, err := validation.Check(v, validation.Inventory{
		MedicineName: record[0],
		Category:     record[1],
		Price:        record[2],
		Quantity:     record[3],
		ExpiryDate:   record[4],
		Supplier:     record[5],
	})
	if err != nil {
		return domain.InventoryRecord{}, errors.New(validation.Message(err))
	}
	return rec, nil
}
