package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pharmacy/m/domain"
)

// InventoryReader returns the current inventory.
type InventoryReader interface {
	ListInventory(ctx context.Context) ([]domain.InventoryRecord, error)
}

// BillingWriter stores a validated order.
type BillingWriter interface {
	CreateBill(ctx context.Context, order Order) (domain.Bill, error)
}

// Session is one billing form: it owns the inventory snapshot taken when the
// form opened and gates every submission on Prepare.
type Session struct {
	snap   *Snapshot
	writer BillingWriter
	log    zerolog.Logger
}

// NewSession fetches the inventory snapshot once. The snapshot is never
// refreshed during the life of the session.
func NewSession(ctx context.Context, reader InventoryReader, writer BillingWriter, log zerolog.Logger) (*Session, error) {
	records, err := reader.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory snapshot: %w", err)
	}
	log.Debug().Int("records", len(records)).Msg("inventory snapshot loaded")
	return &Session{snap: NewSnapshot(records), writer: writer, log: log}, nil
}

// Snapshot returns the session snapshot.
func (s *Session) Snapshot() *Snapshot {
	return s.snap
}

// Submit prepares the form and, only when it validates, hands the order to
// the billing writer. A failed write is not retried.
func (s *Session) Submit(ctx context.Context, f Form) (domain.Bill, error) {
	order, err := Prepare(f, s.snap)
	if err != nil {
		s.log.Info().Err(err).Str("customer", f.CustomerName).Msg("billing blocked")
		return domain.Bill{}, err
	}
	bill, err := s.writer.CreateBill(ctx, order)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("submit billing: %w", err)
	}
	s.log.Info().Int64("bill_id", bill.ID).Str("total", order.Total.StringFixed(2)).Msg("billing submitted")
	return bill, nil
}
