package httppresentation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domcart "github.com/corpz/marketplace/internal/domain/cart"
)

type cartLineResponse struct {
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCartLineResponse(l *domcart.Line) cartLineResponse {
	return cartLineResponse{ItemID: l.ItemID, Quantity: l.Quantity, UpdatedAt: l.UpdatedAt}
}

type addToCartRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := h.cart.Add(r.Context(), userIDFromContext(r.Context()), req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartLineResponse(line))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := h.cart.SetQuantity(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartLineResponse(line))
}

func (h *Handler) handleListCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toCartLineResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Remove(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "itemID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), userIDFromContext(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
