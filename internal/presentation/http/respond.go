package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"

	appauth "github.com/corpz/marketplace/internal/application/auth"
	appcheckout "github.com/corpz/marketplace/internal/application/checkout"
	apppayment "github.com/corpz/marketplace/internal/application/payment"
	domcart "github.com/corpz/marketplace/internal/domain/cart"
	domitem "github.com/corpz/marketplace/internal/domain/item"
	domorder "github.com/corpz/marketplace/internal/domain/order"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	domsocial "github.com/corpz/marketplace/internal/domain/social"
	domuser "github.com/corpz/marketplace/internal/domain/user"
)

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the application error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appcheckout.ErrValidation),
		errors.Is(err, appauth.ErrWeakPassword),
		errors.Is(err, domitem.ErrInvalidTitle),
		errors.Is(err, domitem.ErrInvalidDesc),
		errors.Is(err, domitem.ErrInvalidPrice),
		errors.Is(err, domitem.ErrInvalidStock),
		errors.Is(err, domitem.ErrInvalidQuantity),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidAmount),
		errors.Is(err, dompayment.ErrInvalidAmount),
		errors.Is(err, dompayment.ErrUnsupportedMethod),
		errors.Is(err, domsocial.ErrSelfFollow),
		errors.Is(err, domuser.ErrInvalidEmail),
		errors.Is(err, domuser.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err)

	case errors.Is(err, domuser.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err)

	case errors.Is(err, appcheckout.ErrOwnItem),
		errors.Is(err, appcheckout.ErrNotBuyer),
		errors.Is(err, domorder.ErrNotParty),
		errors.Is(err, apppayment.ErrNotParty),
		errors.Is(err, domitem.ErrNotSeller):
		writeError(w, http.StatusForbidden, err)

	case errors.Is(err, appcheckout.ErrItemNotFound),
		errors.Is(err, domitem.ErrNotFound),
		errors.Is(err, domorder.ErrNotFound),
		errors.Is(err, dompayment.ErrNotFound),
		errors.Is(err, domcart.ErrNotFound),
		errors.Is(err, domsocial.ErrNotFound),
		errors.Is(err, domuser.ErrNotFound):
		writeError(w, http.StatusNotFound, err)

	case errors.Is(err, appcheckout.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, err)

	case errors.Is(err, appcheckout.ErrOutOfStock),
		errors.Is(err, appcheckout.ErrInventoryRaceLost),
		errors.Is(err, domorder.ErrInvalidTransition),
		errors.Is(err, domorder.ErrConflict),
		errors.Is(err, domuser.ErrEmailTaken):
		writeError(w, http.StatusConflict, err)

	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
