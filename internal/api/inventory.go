package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
	"pharmacy/m/internal/billing"
	"pharmacy/m/internal/store"
	"pharmacy/m/internal/validation"
)

type inventoryRequest struct {
	MedicineName string     `json:"medicineName"`
	Category     string     `json:"category"`
	Price        flexString `json:"price"`
	Quantity     flexString `json:"quantity"`
	ExpiryDate   string     `json:"expiryDate"`
	Supplier     string     `json:"supplier"`
}

type inventoryResponse struct {
	Message string                 `json:"message"`
	Item    domain.InventoryRecord `json:"item"`
}

func (h *Handler) decodeInventory(w http.ResponseWriter, r *http.Request) (domain.InventoryRecord, bool) {
	var req inventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return domain.InventoryRecord{}, false
	}
	rec, err := validation.Check(h.validate, validation.Inventory{
		MedicineName: req.MedicineName,
		Category:     req.Category,
		Price:        string(req.Price),
		Quantity:     string(req.Quantity),
		ExpiryDate:   req.ExpiryDate,
		Supplier:     req.Supplier,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, validation.Message(err))
		return domain.InventoryRecord{}, false
	}
	return rec, true
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListInventory(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "inventory")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handler) addInventory(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInventory(w, r)
	if !ok {
		return
	}
	if in.ExpiryDate < h.today() {
		respondError(w, http.StatusBadRequest, "Expiry date cannot be in the past")
		return
	}

	rec, merged, err := h.store.AddInventory(r.Context(), in)
	if err != nil {
		h.respondStoreError(w, err, "inventory")
		return
	}
	if merged {
		h.log.Info().Int64("id", rec.ID).Str("medicine", rec.MedicineName).Int64("quantity", rec.Quantity).Msg("inventory quantity merged")
		respondJSON(w, http.StatusOK, inventoryResponse{Message: "Existing inventory updated. New quantity: " + strconv.FormatInt(rec.Quantity, 10), Item: rec})
		return
	}
	h.log.Info().Int64("id", rec.ID).Str("medicine", rec.MedicineName).Msg("inventory added")
	respondJSON(w, http.StatusCreated, inventoryResponse{Message: "Medicine added to inventory", Item: rec})
}

func (h *Handler) checkInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("medicineName"))
	expiry := q.Get("expiryDate")
	if name == "" || expiry == "" {
		respondError(w, http.StatusBadRequest, "medicineName, price and expiryDate are required")
		return
	}
	price, err := decimal.NewFromString(q.Get("price"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "price must be a number")
		return
	}

	_, exists, err := h.store.FindDuplicate(r.Context(), name, price, expiry)
	if err != nil {
		h.respondStoreError(w, err, "inventory")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}
	rec, ok := h.decodeInventory(w, r)
	if !ok {
		return
	}
	rec.ID = id
	if err := h.store.UpdateInventory(r.Context(), rec); err != nil {
		h.respondStoreError(w, err, "Inventory item")
		return
	}
	updated, err := h.store.GetInventory(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "Inventory item")
		return
	}
	respondJSON(w, http.StatusOK, inventoryResponse{Message: "Inventory updated", Item: updated})
}

func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}
	if err := h.store.DeleteInventory(r.Context(), id); err != nil {
		h.respondStoreError(w, err, "Inventory item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Inventory item deleted"})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := h.opts.LowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "threshold must be a non-negative whole number")
			return
		}
		threshold = n
	}
	records, err := h.store.LowStock(r.Context(), threshold)
	if err != nil {
		h.respondStoreError(w, err, "inventory")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListInventory(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "inventory")
		return
	}
	respondJSON(w, http.StatusOK, store.GroupByCategory(records))
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListInventory(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "inventory")
		return
	}
	matches := billing.FilterSuggestions(r.URL.Query().Get("q"), billing.NewSnapshot(records))
	if matches == nil {
		matches = []domain.InventoryRecord{}
	}
	respondJSON(w, http.StatusOK, matches)
}
