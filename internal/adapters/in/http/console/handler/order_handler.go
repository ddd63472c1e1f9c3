// internal/adapters/in/http/console/handler/order_handler.go
package consoleHandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	usecase "fisha/internal/application/usecase"
	orderdom "fisha/internal/domain/order"
)

const streamKeepAlive = 25 * time.Second

// OrderHandler is the admin order screen.
//
//	GET   /console/orders?status=all|pending|processing|completed|cancelled
//	GET   /console/orders/stream?status=...   (Server-Sent Events)
//	GET   /console/orders/{id}
//	PATCH /console/orders/{id}/status {status}
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}

	parts := splitPath(r.URL.Path, "/console/orders")
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.list(w, r)
	case len(parts) == 1 && parts[0] == "stream" && r.Method == http.MethodGet:
		h.stream(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.get(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "status" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		h.changeStatus(w, r, parts[0])
	default:
		notFound(w)
	}
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := usecase.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	orders, err := h.uc.List(r.Context(), f)
	if err != nil {
		log.Printf("[console_order_handler] list failed err=%v", err)
		writeErr(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) changeStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req statusRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := orderdom.ParseStatus(req.Status)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.uc.ChangeStatus(r.Context(), id, st)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	if n := report.Failed(); n > 0 {
		log.Printf("[console_order_handler] WARN: orderId=%s status=%s inventory failures=%d", report.OrderID, report.Status, n)
	}
	writeJSON(w, http.StatusOK, report)
}

// stream pushes the filtered order list on every change until the client
// disconnects.
func (h *OrderHandler) stream(w http.ResponseWriter, r *http.Request) {
	f, err := usecase.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	rc := http.NewResponseController(w)
	// the server-wide write timeout would cut the stream
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Printf("[console_order_handler] stream unsupported err=%v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var mu sync.Mutex
	send := func(chunk string) error {
		mu.Lock()
		defer mu.Unlock()
		if _, err := fmt.Fprint(w, chunk); err != nil {
			return err
		}
		return rc.Flush()
	}

	go func() {
		t := time.NewTicker(streamKeepAlive)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := send(": keep-alive\n\n"); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	err = h.uc.Watch(ctx, f, func(orders []orderdom.Order) error {
		b, err := json.Marshal(orders)
		if err != nil {
			return err
		}
		return send("event: orders\ndata: " + string(b) + "\n\n")
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[console_order_handler] stream ended err=%v", err)
		_ = send("event: error\ndata: {\"error\":\"feed interrupted\"}\n\n")
	}
}

func (h *OrderHandler) writeOrderErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderdom.ErrNotFound):
		notFound(w)
	case errors.Is(err, usecase.ErrOrderInvalidArgument),
		errors.Is(err, usecase.ErrReconcileInvalidArgument),
		errors.Is(err, orderdom.ErrInvalidStatus):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[console_order_handler] error: %v", err)
		writeErr(w, http.StatusInternalServerError, "order operation failed")
	}
}
