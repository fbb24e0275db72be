package httppresentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domorder "github.com/corpz/marketplace/internal/domain/order"
)

func toOrderResponses(orders []*domorder.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	entity, err := h.orders.Get(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(entity))
}

func (h *Handler) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListPurchases(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListSales(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) handleSellerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.SellerStats(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.orders.UpdateStatus(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), domorder.Status(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(entity))
}
