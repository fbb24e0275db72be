package httppresentation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appcheckout "github.com/corpz/marketplace/internal/application/checkout"
	domorder "github.com/corpz/marketplace/internal/domain/order"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	"github.com/corpz/marketplace/internal/observability"
	"github.com/corpz/marketplace/internal/observability/logctx"
)

const headerIdempotencyKey = "Idempotency-Key"

type shippingPayload struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type checkoutRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity int             `json:"quantity"`
	Method   string          `json:"payment_method"`
	Shipping shippingPayload `json:"shipping"`
}

type orderResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	Quantity  int       `json:"quantity"`
	Amount    int64     `json:"amount_cents"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		ItemID:    o.ItemID,
		BuyerID:   o.BuyerID,
		SellerID:  o.SellerID,
		Quantity:  o.Quantity,
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

type checkoutResponse struct {
	Order         orderResponse `json:"order"`
	TransactionID string        `json:"transaction_id,omitempty"`
}

// handleCheckout runs PlaceOrder. A replayed Idempotency-Key returns 409
// before the orchestrator, and the gateway, is ever touched. The key is
// released on failure so the client can retry it after fixing the request.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	idemKey := r.Header.Get(headerIdempotencyKey)
	if h.idem != nil && idemKey != "" {
		claimed, err := h.idem.Begin(r.Context(), idemKey)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		if !claimed {
			writeErrorMsg(w, http.StatusConflict, "duplicate checkout submission")
			return
		}
	}

	result, err := h.place.Execute(r.Context(), appcheckout.PlaceOrderInput{
		BuyerID:  userIDFromContext(r.Context()),
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Method:   dompayment.Method(req.Method),
		Shipping: domorder.Shipping{
			FullName:   req.Shipping.FullName,
			Address:    req.Shipping.Address,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
			Phone:      req.Shipping.Phone,
		},
	})
	if err != nil {
		if h.idem != nil && idemKey != "" {
			if relErr := h.idem.Release(r.Context(), idemKey); relErr != nil {
				logctx.FromOr(r.Context(), h.log).Warn("idempotency_release_failed",
					observability.F("error", relErr),
				)
			}
		}
		writeDomainError(w, err)
		return
	}

	resp := checkoutResponse{Order: toOrderResponse(result.Order)}
	if result.Payment != nil {
		resp.TransactionID = result.Payment.Reference
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	entity, err := h.cancel.Execute(r.Context(), appcheckout.CancelOrderInput{
		OrderID: chi.URLParam(r, "id"),
		BuyerID: userIDFromContext(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(entity))
}
