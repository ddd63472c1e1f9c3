// internal/adapters/in/http/mall/handler/product_handler.go
package mallHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "fisha/internal/application/usecase"
	productdom "fisha/internal/domain/product"
)

// ProductHandler serves the read-only catalog.
//
//	GET /mall/products                (facets in query)
//	GET /mall/products/{id}
//	GET /mall/categories/{category}   (storefront category page)
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case path == "/mall/products":
		h.list(w, r)
	case strings.HasPrefix(path, "/mall/products/"):
		h.get(w, r, pathTail(path, "/mall/products"))
	case strings.HasPrefix(path, "/mall/categories/"):
		h.browse(w, r, pathTail(path, "/mall/categories"))
	default:
		notFound(w)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.uc.List(r.Context(), f)
	if err != nil {
		log.Printf("[mall_product_handler] list failed err=%v", err)
		writeErr(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		notFound(w)
		return
	}
	p, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, productdom.ErrNotFound) {
			notFound(w)
			return
		}
		log.Printf("[mall_product_handler] get failed id=%s err=%v", id, err)
		writeErr(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) browse(w http.ResponseWriter, r *http.Request, category string) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.uc.Browse(r.Context(), category, f)
	if err != nil {
		if errors.Is(err, productdom.ErrInvalidCategory) {
			writeErr(w, http.StatusNotFound, "unknown category")
			return
		}
		log.Printf("[mall_product_handler] browse failed category=%s err=%v", category, err)
		writeErr(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
