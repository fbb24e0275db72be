package httppresentation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appcatalog "github.com/corpz/marketplace/internal/application/catalog"
	domitem "github.com/corpz/marketplace/internal/domain/item"
)

type itemPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

type itemResponse struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

func toItemResponse(i *domitem.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		SellerID:    i.SellerID,
		Title:       i.Title,
		Description: i.Description,
		Price:       i.Price,
		Stock:       i.Stock,
		Category:    i.Category,
		CreatedAt:   i.CreatedAt,
	}
}

func toItemResponses(items []*domitem.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.catalog.CreateListing(r.Context(), userIDFromContext(r.Context()), appcatalog.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(entity))
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := h.catalog.UpdateListing(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), appcatalog.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(entity))
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteListing(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	entity, err := h.catalog.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(entity))
}

// handleListItems serves the browse queries: ?seller=<id> or ?category=<name>.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	if seller := r.URL.Query().Get("seller"); seller != "" {
		items, err := h.catalog.ListBySeller(r.Context(), seller)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		writeErrorMsg(w, http.StatusBadRequest, "seller or category query parameter is required")
		return
	}
	items, err := h.catalog.ListByCategory(r.Context(), category)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}
