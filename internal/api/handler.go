package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pharmacy/m/domain"
	"pharmacy/m/internal/logging"
	"pharmacy/m/internal/metrics"
	"pharmacy/m/internal/ratelimit"
	"pharmacy/m/internal/store"
	"pharmacy/m/internal/validation"
)

const maxBodyBytes = 1 << 20

// Options configures a Handler.
type Options struct {
	Logger            zerolog.Logger
	LowStockThreshold int64
	PharmacyName      string
	AllowedOrigins    []string
	// Limiter is optional; without it requests are not rate limited.
	Limiter *ratelimit.Limiter
	Now     func() time.Time
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	log      zerolog.Logger
	validate *validator.Validate
	opts     Options
}

// New constructs a Handler.
func New(st *store.Store, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Handler{store: st, log: opts.Logger, validate: validation.New(), opts: opts}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger{Logger: h.log}.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if h.opts.Limiter != nil {
		r.Use(h.opts.Limiter.Middleware)
	}
	r.Use(metrics.Middleware)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/in", h.listInventory)
		r.Post("/addin", h.addInventory)
		r.Get("/checkin", h.checkInventory)
		r.Put("/updatein/{id}", h.updateInventory)
		r.Delete("/deletein/{id}", h.deleteInventory)
		r.Get("/lowstock", h.lowStock)
		r.Get("/categories", h.categories)
		r.Get("/suggestions", h.suggestions)
	})

	r.Route("/billing", func(r chi.Router) {
		r.Post("/addbi", h.addBill)
		r.Get("/bi", h.listBills)
		r.Get("/bi/{id}", h.getBill)
		r.Put("/upbi/{id}", h.updateBill)
		r.Delete("/deletebi/{id}", h.deleteBill)
		r.Get("/receipt/{id}", h.receipt)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// flexString accepts a JSON string or number and keeps its text. The UI sends
// form fields as strings on some screens and as numbers on others.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected a string or number, got %s", data)
		}
		*f = flexString(n.String())
	}
	return nil
}

func (h *Handler) today() string {
	return h.opts.Now().Format(domain.DateLayout)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.log.Error().Err(err).Str("resource", what).Msg("store operation failed")
	respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// Helpers
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
