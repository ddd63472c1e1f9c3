// internal/adapters/in/http/console/handler/product_handler.go
package consoleHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "fisha/internal/application/usecase"
	productdom "fisha/internal/domain/product"
)

// ProductHandler is the admin catalog.
//
//	GET    /console/products?category=&minPrice=&maxPrice=&size=&color=&q=
//	POST   /console/products
//	GET    /console/products/{id}
//	PATCH  /console/products/{id}
//	DELETE /console/products/{id}
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

// productPatchRequest mirrors productdom.Patch; absent fields stay unchanged.
type productPatchRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"menSubcategory"`
	Stock       *int      `json:"stock"`
	Status      *string   `json:"status"`
}

func (req productPatchRequest) toPatch() (productdom.Patch, error) {
	p := productdom.Patch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Subcategory: req.Subcategory,
		Stock:       req.Stock,
		Status:      req.Status,
	}
	if req.Category != nil {
		c, err := productdom.ParseCategory(*req.Category)
		if err != nil {
			return productdom.Patch{}, err
		}
		p.Category = &c
	}
	return p, nil
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}

	parts := splitPath(r.URL.Path, "/console/products")
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.list(w, r)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.create(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.get(w, r, parts[0])
	case len(parts) == 1 && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		h.update(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.delete(w, r, parts[0])
	case len(parts) <= 1:
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := productdom.Filter{
		Size:   strings.TrimSpace(q.Get("size")),
		Color:  strings.TrimSpace(q.Get("color")),
		Search: strings.TrimSpace(q.Get("q")),
	}
	if c := strings.TrimSpace(q.Get("category")); c != "" && !strings.EqualFold(c, "all") {
		f.Categories = []string{c}
	}
	var err error
	if f.MinPrice, err = parseOptionalFloat(q.Get("minPrice")); err != nil {
		writeErr(w, http.StatusBadRequest, "minPrice: "+err.Error())
		return
	}
	if f.MaxPrice, err = parseOptionalFloat(q.Get("maxPrice")); err != nil {
		writeErr(w, http.StatusBadRequest, "maxPrice: "+err.Error())
		return
	}

	items, err := h.uc.List(r.Context(), f)
	if err != nil {
		h.writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProductInput
	if err := readJSON(w, r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.uc.Create(r.Context(), in)
	if err != nil {
		h.writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		h.writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req productPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		h.writeProductErr(w, err)
		return
	}
	p, err := h.uc.Update(r.Context(), id, patch)
	if err != nil {
		h.writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.Delete(r.Context(), id); err != nil {
		h.writeProductErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) writeProductErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, productdom.ErrNotFound):
		notFound(w)
	case errors.Is(err, usecase.ErrProductInvalidArgument),
		errors.Is(err, productdom.ErrInvalidID),
		errors.Is(err, productdom.ErrInvalidName),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, productdom.ErrInvalidStock),
		errors.Is(err, productdom.ErrInvalidCategory),
		errors.Is(err, productdom.ErrInvalidSubcategory),
		errors.Is(err, productdom.ErrInvalidSize),
		errors.Is(err, productdom.ErrInvalidColor):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[console_product_handler] error: %v", err)
		writeErr(w, http.StatusInternalServerError, "product operation failed")
	}
}
