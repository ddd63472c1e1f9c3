// internal/adapters/in/http/mall/handler/cart_handler.go
package mallHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	usecase "fisha/internal/application/usecase"
	cartdom "fisha/internal/domain/cart"
)

// CartHandler serves the session cart.
//
//	GET    /mall/cart
//	DELETE /mall/cart
//	POST   /mall/cart/items            {productId,size,color}
//	PUT    /mall/cart/items            {productId,size,color,quantity}
//	DELETE /mall/cart/items?productId=&size=&color=
//	DELETE /mall/cart/products/{id}
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity,omitempty"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	sid := sessionID(w, r)

	var (
		snap cartdom.Snapshot
		err  error
	)
	switch {
	case path == "/mall/cart" && r.Method == http.MethodGet:
		snap, err = h.uc.Get(r.Context(), sid)

	case path == "/mall/cart" && r.Method == http.MethodDelete:
		snap, err = h.uc.Clear(r.Context(), sid)

	case path == "/mall/cart/items" && r.Method == http.MethodPost:
		var req cartItemRequest
		if err := readJSON(w, r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		snap, err = h.uc.AddProduct(r.Context(), sid, req.ProductID, strings.TrimSpace(req.Size), strings.TrimSpace(req.Color))

	case path == "/mall/cart/items" && r.Method == http.MethodPut:
		var req cartItemRequest
		if err := readJSON(w, r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		snap, err = h.uc.UpdateQuantity(r.Context(), sid, cartdom.NewLineKey(req.ProductID, req.Size, req.Color), req.Quantity)

	case path == "/mall/cart/items" && r.Method == http.MethodDelete:
		q := r.URL.Query()
		snap, err = h.uc.RemoveLine(r.Context(), sid, cartdom.NewLineKey(q.Get("productId"), q.Get("size"), q.Get("color")))

	case strings.HasPrefix(path, "/mall/cart/products/") && r.Method == http.MethodDelete:
		pid := pathTail(path, "/mall/cart/products")
		if pid == "" {
			notFound(w)
			return
		}
		snap, err = h.uc.RemoveProduct(r.Context(), sid, pid)

	default:
		notFound(w)
		return
	}

	if err != nil {
		h.writeCartErr(w, err)
		log.Printf("[mall_cart_handler] %s %s failed elapsed=%s err=%v", r.Method, path, time.Since(start), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *CartHandler) writeCartErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrCartProductNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrCartOptionNotOffered):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "cart operation failed")
	}
}
