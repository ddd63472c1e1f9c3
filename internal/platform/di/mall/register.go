// internal/platform/di/mall/register.go
package mall

import (
	"net/http"

	mallhttp "fisha/internal/adapters/in/http/mall"
	mallhandler "fisha/internal/adapters/in/http/mall/handler"
)

// Register registers storefront routes onto mux.
// Pure DI: construct handlers and pass them into the mall router.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	mallhttp.Register(mux, mallhttp.Deps{
		Product:  mallhandler.NewProductHandler(cont.ProductUC),
		Cart:     mallhandler.NewCartHandler(cont.CartUC),
		Checkout: mallhandler.NewCheckoutHandler(cont.CheckoutUC),
	})
}
