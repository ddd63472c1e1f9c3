// internal/platform/di/console/register.go
package console

import (
	"log"
	"net/http"

	consolehttp "fisha/internal/adapters/in/http/console"
	consolehandler "fisha/internal/adapters/in/http/console/handler"
	"fisha/internal/adapters/in/http/middleware"
)

// Register registers console routes onto mux.
// Pure DI: construct handlers and the admin middleware, then pass them into
// the console router.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	adminAuth := &middleware.AdminAuth{Sessions: cont.AuthUC}
	if cont.Infra != nil && cont.Infra.Config != nil && cont.Infra.Config.AdminFirebaseAuth {
		if cont.Infra.FirebaseAuth != nil {
			adminAuth.FirebaseAuth = cont.Infra.FirebaseAuth
			adminAuth.AdminEmails = []string{cont.Infra.Config.AdminEmail}
			log.Printf("[console.register] Firebase ID tokens accepted for admin endpoints")
		} else {
			log.Printf("[console.register] WARN: ADMIN_FIREBASE_AUTH set but Firebase Auth is not initialized")
		}
	}

	consolehttp.Register(mux, consolehttp.Deps{
		Auth:      consolehandler.NewAuthHandler(cont.AuthUC),
		Product:   consolehandler.NewProductHandler(cont.ProductUC),
		Image:     consolehandler.NewImageHandler(cont.ProductUC),
		Order:     consolehandler.NewOrderHandler(cont.OrderUC),
		AdminAuth: adminAuth,
	})
}
