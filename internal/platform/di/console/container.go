// internal/platform/di/console/container.go
package console

import (
	"context"
	"errors"
	"log"

	usecase "fisha/internal/application/usecase"
	shared "fisha/internal/platform/di/shared"
)

// Container is the operator console DI container.
type Container struct {
	Infra *shared.Infra

	AuthUC       *usecase.AuthUsecase
	ProductUC    *usecase.ProductUsecase
	OrderUC      *usecase.OrderUsecase
	ReconcilerUC *usecase.OrderReconciler
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("console.container: infra is nil")
	}
	cfg := infra.Config

	// ============================================================
	// Admin credentials (password may live in Secret Manager)
	// ============================================================
	creds := usecase.AdminCredentials{
		Email:    cfg.AdminEmail,
		Password: infra.ResolveSecret(ctx, cfg.AdminPassword, cfg.AdminPasswordSecret),
	}
	if creds.Email == "" || creds.Password == "" {
		log.Printf("[console.container] WARN: ADMIN_EMAIL/ADMIN_PASSWORD not set; password login disabled")
	}

	// ============================================================
	// Repositories
	// ============================================================
	productRepo := infra.ProductRepo()
	orderRepo := infra.OrderRepo()
	inventoryRepo := infra.InventoryRepo()

	// ============================================================
	// Usecases
	// ============================================================
	authUC := usecase.NewAuthUsecase(creds, infra.AdminSessions())
	productUC := usecase.NewProductUsecase(productRepo, infra.ImageUploader())
	reconciler := usecase.NewOrderReconciler(orderRepo, inventoryRepo)
	orderUC := usecase.NewOrderUsecase(orderRepo, reconciler)

	log.Printf("[console.container] usecases ready")

	return &Container{
		Infra:        infra,
		AuthUC:       authUC,
		ProductUC:    productUC,
		OrderUC:      orderUC,
		ReconcilerUC: reconciler,
	}, nil
}

// Close does not close Infra; the process entrypoint owns it.
func (c *Container) Close() error { return nil }
