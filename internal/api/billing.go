package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pharmacy/m/domain"
	"pharmacy/m/internal/billing"
	"pharmacy/m/internal/metrics"
	"pharmacy/m/internal/receipt"
)

type billLineRequest struct {
	MedName  string     `json:"medName"`
	Quantity flexString `json:"quantity"`
	Price    flexString `json:"price"`
}

// billRequest is the body of the add and update bill calls. Totals sent by the
// client are ignored.
type billRequest struct {
	CustomerName  string            `json:"customerName"`
	Medicines     []billLineRequest `json:"medicines"`
	PaymentMethod string            `json:"paymentMethod"`
	Date          string            `json:"date"`
}

type billResponse struct {
	Message string      `json:"message"`
	Bill    domain.Bill `json:"bill"`
}

func (req billRequest) lines() []billing.LineInput {
	inputs := make([]billing.LineInput, len(req.Medicines))
	for i, m := range req.Medicines {
		inputs[i] = billing.LineInput{MedicineName: m.MedName, Quantity: string(m.Quantity), Price: string(m.Price)}
	}
	return inputs
}

func (h *Handler) addBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := billing.ParseOrder(req.CustomerName, req.PaymentMethod, req.Date, req.lines())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bill, err := h.store.CreateBill(r.Context(), order)
	if errors.Is(err, billing.ErrStockValidation) {
		metrics.StockValidationFailures.WithLabelValues(failureReason(err)).Inc()
		h.log.Info().Err(err).Str("customer", order.CustomerName).Msg("bill rejected by stock validation")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.respondStoreError(w, err, "bill")
		return
	}

	metrics.BillsCreated.WithLabelValues(bill.PaymentMethod).Inc()
	h.log.Info().Int64("bill_id", bill.ID).Str("total", bill.TotalAmount.StringFixed(2)).Int("lines", len(bill.Medicines)).Msg("bill created")
	respondJSON(w, http.StatusCreated, billResponse{Message: "Billing added successfully", Bill: bill})
}

func failureReason(err error) string {
	var (
		notFound     *billing.MedicineNotFoundError
		ambiguous    *billing.AmbiguousMedicineError
		insufficient *billing.InsufficientStockError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &ambiguous):
		return "ambiguous"
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	default:
		return "other"
	}
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.store.ListBills(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "bill")
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "Bill")
		return
	}
	respondJSON(w, http.StatusOK, bill)
}

func (h *Handler) updateBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "Bill")
		return
	}
	if req.Date == "" {
		req.Date = existing.Date
	}
	order, err := billing.ParseOrder(req.CustomerName, req.PaymentMethod, req.Date, req.lines())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bill, err := h.store.UpdateBill(r.Context(), id, order)
	if err != nil {
		h.respondStoreError(w, err, "Bill")
		return
	}
	respondJSON(w, http.StatusOK, billResponse{Message: "Billing updated successfully", Bill: bill})
}

func (h *Handler) deleteBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	if err := h.store.DeleteBill(r.Context(), id); err != nil {
		h.respondStoreError(w, err, "Bill")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Billing deleted successfully"})
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "Bill")
		return
	}
	pdf, err := receipt.Render(bill, receipt.Options{PharmacyName: h.opts.PharmacyName, PrintedAt: h.opts.Now()})
	if err != nil {
		h.log.Error().Err(err).Int64("bill_id", id).Msg("render receipt")
		respondError(w, http.StatusInternalServerError, "unable to render receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
