// Package alerts periodically reports low stock and soon to expire inventory.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"pharmacy/m/domain"
	"pharmacy/m/internal/metrics"
)

// InventoryWatcher is the part of the store the sweep reads.
type InventoryWatcher interface {
	LowStock(ctx context.Context, threshold int64) ([]domain.InventoryRecord, error)
	ExpiringBy(ctx context.Context, date string) ([]domain.InventoryRecord, error)
}

// Report is the outcome of one sweep.
type Report struct {
	LowStock []domain.InventoryRecord
	Expiring []domain.InventoryRecord
}

// Scheduler runs the sweep on a fixed interval.
type Scheduler struct {
	store        InventoryWatcher
	threshold    int64
	expiryWindow time.Duration
	interval     time.Duration
	log          zerolog.Logger
	now          func() time.Time
	scheduler    *gocron.Scheduler
}

// NewScheduler creates a scheduler flagging records below threshold and
// records expiring within windowDays.
func NewScheduler(store InventoryWatcher, threshold int64, windowDays int, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:        store,
		threshold:    threshold,
		expiryWindow: time.Duration(windowDays) * 24 * time.Hour,
		interval:     interval,
		log:          log,
		now:          time.Now,
		scheduler:    gocron.NewScheduler(time.Local),
	}
}

// Start schedules the sweep, running it once immediately.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("inventory alert sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule inventory alerts: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Sweep reads low stock and expiring records, logs them and updates the
// alert gauges.
func (s *Scheduler) Sweep(ctx context.Context) (Report, error) {
	low, err := s.store.LowStock(ctx, s.threshold)
	if err != nil {
		return Report{}, fmt.Errorf("low stock sweep: %w", err)
	}
	cutoff := s.now().Add(s.expiryWindow).Format(domain.DateLayout)
	expiring, err := s.store.ExpiringBy(ctx, cutoff)
	if err != nil {
		return Report{}, fmt.Errorf("expiry sweep: %w", err)
	}

	metrics.LowStockItems.Set(float64(len(low)))
	metrics.ExpiringItems.Set(float64(len(expiring)))

	for _, rec := range low {
		s.log.Warn().Int64("id", rec.ID).Str("medicine", rec.MedicineName).Int64("quantity", rec.Quantity).Msg("low stock")
	}
	for _, rec := range expiring {
		s.log.Warn().Int64("id", rec.ID).Str("medicine", rec.MedicineName).Str("expiry_date", rec.ExpiryDate).Msg("expiring soon")
	}
	s.log.Info().Int("low_stock", len(low)).Int("expiring", len(expiring)).Str("expiry_cutoff", cutoff).Msg("inventory alert sweep complete")
	return Report{LowStock: low, Expiring: expiring}, nil
}
