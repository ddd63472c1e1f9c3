// internal/adapters/in/http/mall/handler/checkout_handler.go
package mallHandler

import (
	"errors"
	"log"
	"net/http"

	usecase "fisha/internal/application/usecase"
)

// CheckoutHandler turns the session cart into an order.
//
//	POST /mall/checkout {name,address,phone}
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var in usecase.CheckoutInput
	if err := readJSON(w, r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	sid := sessionID(w, r)
	o, err := h.uc.PlaceOrder(r.Context(), sid, in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCheckoutInvalidInput),
			errors.Is(err, usecase.ErrCheckoutEmptyCart),
			errors.Is(err, usecase.ErrCartInvalidArgument):
			writeErr(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrCheckoutInProgress):
			writeErr(w, http.StatusConflict, err.Error())
		default:
			log.Printf("[mall_checkout_handler] place order failed session=%s err=%v", sid, err)
			writeErr(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}
	writeJSON(w, http.StatusCreated, o)
}
