// internal/adapters/in/http/mall/router.go
package mall

import (
	"log"
	"net/http"
)

// Deps is the storefront (mall) handler set.
type Deps struct {
	Product  http.Handler
	Cart     http.Handler
	Checkout http.Handler
}

// handleSafe registers pattern with h.
// A nil h is logged and replaced by NotFoundHandler so boot never panics.
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[mall.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers storefront routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog
	handleSafe(mux, "/mall/products", deps.Product, "Product")
	handleSafe(mux, "/mall/products/", deps.Product, "Product")
	handleSafe(mux, "/mall/categories/", deps.Product, "Product(category)")

	// cart
	handleSafe(mux, "/mall/cart", deps.Cart, "Cart")
	handleSafe(mux, "/mall/cart/", deps.Cart, "Cart")

	// checkout
	handleSafe(mux, "/mall/checkout", deps.Checkout, "Checkout")
}
