// internal/platform/di/mall/container.go
package mall

import (
	"context"
	"errors"
	"log"

	usecase "fisha/internal/application/usecase"
	shared "fisha/internal/platform/di/shared"
)

// Container is the storefront DI container.
// Infra (clients) is owned by the caller; Container only builds usecases on top.
type Container struct {
	Infra *shared.Infra

	ProductUC  *usecase.ProductUsecase
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("mall.container: infra is nil")
	}
	if infra.CartKV() == nil {
		return nil, errors.New("mall.container: cart store is not initialized")
	}

	// ============================================================
	// Repositories
	// ============================================================
	productRepo := infra.ProductRepo()
	orderRepo := infra.OrderRepo()

	// ============================================================
	// Usecases
	// ============================================================
	// storefront never uploads images
	productUC := usecase.NewProductUsecase(productRepo, nil)
	cartUC := usecase.NewCartUsecase(infra.CartKV(), productUC)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, orderRepo, infra.OrderNotifier(ctx))

	log.Printf("[mall.container] usecases ready")

	return &Container{
		Infra:      infra,
		ProductUC:  productUC,
		CartUC:     cartUC,
		CheckoutUC: checkoutUC,
	}, nil
}

// Close does not close Infra; the process entrypoint owns it.
func (c *Container) Close() error { return nil }
