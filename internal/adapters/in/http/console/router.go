// internal/adapters/in/http/console/router.go
package console

import (
	"log"
	"net/http"

	"fisha/internal/adapters/in/http/middleware"
)

// Deps is the operator console handler set.
type Deps struct {
	Auth    http.Handler
	Product http.Handler
	Image   http.Handler
	Order   http.Handler

	// AdminAuth guards everything except login/logout.
	AdminAuth *middleware.AdminAuth
}

func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[console.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers console routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	protect := func(h http.Handler) http.Handler {
		if h == nil {
			return nil
		}
		return deps.AdminAuth.Handler(h)
	}

	// auth (public)
	handleSafe(mux, "/console/login", deps.Auth, "Auth(login)")
	handleSafe(mux, "/console/logout", deps.Auth, "Auth(logout)")
	handleSafe(mux, "/console/me", protect(deps.Auth), "Auth(me)")

	// products
	handleSafe(mux, "/console/products", protect(deps.Product), "Product")
	handleSafe(mux, "/console/products/", protect(deps.Product), "Product")

	// images
	handleSafe(mux, "/console/images", protect(deps.Image), "Image")

	// orders
	handleSafe(mux, "/console/orders", protect(deps.Order), "Order")
	handleSafe(mux, "/console/orders/", protect(deps.Order), "Order")
}
