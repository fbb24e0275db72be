package httppresentation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dompayment "github.com/corpz/marketplace/internal/domain/payment"
)

type paymentResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount_cents"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toPaymentResponse(p *dompayment.Record) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Reference: p.Reference,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func (h *Handler) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.payments.History(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(records))
	for _, p := range records {
		out = append(out, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePaymentMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.payments.Methods())
}

func (h *Handler) handleOrderPayment(w http.ResponseWriter, r *http.Request) {
	record, err := h.payments.ForOrder(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(record))
}
