// Package metrics holds the Prometheus collectors of the pharmacy service.
// They are registered with the default registry on package initialization:
//   - http_request_total and http_request_duration_seconds per route
//   - http_request_in_flight
//   - rate_limiter_buckets_total
//   - pharmacy_bills_created_total and pharmacy_stock_validation_failures_total
//   - pharmacy_low_stock_items and pharmacy_expiring_items, set by the alert sweep
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of client buckets held by the rate limiter",
		},
	)

	BillsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmacy_bills_created_total",
			Help: "Bills stored, by payment method",
		},
		[]string{"payment_method"},
	)

	StockValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmacy_stock_validation_failures_total",
			Help: "Bills rejected by stock validation, by reason",
		},
		[]string{"reason"},
	)

	LowStockItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pharmacy_low_stock_items",
			Help: "Inventory records below the low stock threshold at the last sweep",
		},
	)

	ExpiringItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pharmacy_expiring_items",
			Help: "Stocked inventory records expiring within the alert window at the last sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(BillsCreated)
	prometheus.MustRegister(StockValidationFailures)
	prometheus.MustRegister(LowStockItems)
	prometheus.MustRegister(ExpiringItems)
}
