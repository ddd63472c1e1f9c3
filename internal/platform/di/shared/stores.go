// internal/platform/di/shared/stores.go
package shared

import (
	"context"
	"fmt"
	"log"
	"strings"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	cloudinaryadapter "fisha/internal/adapters/out/cloudinary"
	fs "fisha/internal/adapters/out/firestore"
	gcsadapter "fisha/internal/adapters/out/gcs"
	mailadapter "fisha/internal/adapters/out/mail"
	usecase "fisha/internal/application/usecase"
	cartdom "fisha/internal/domain/cart"
	inventorydom "fisha/internal/domain/inventory"
	orderdom "fisha/internal/domain/order"
	productdom "fisha/internal/domain/product"
)

// ============================================================
// Repositories (Firestore or process memory)
// ============================================================

func (i *Infra) ProductRepo() productdom.Repository {
	if i.Memory != nil {
		return i.Memory.Products()
	}
	return fs.NewProductRepositoryFS(i.Firestore)
}

func (i *Infra) InventoryRepo() inventorydom.RepositoryPort {
	if i.Memory != nil {
		return i.Memory.Inventory()
	}
	return fs.NewInventoryRepositoryFS(i.Firestore)
}

func (i *Infra) OrderRepo() orderdom.Repository {
	if i.Memory != nil {
		return i.Memory.Orders()
	}
	return fs.NewOrderRepositoryFS(i.Firestore)
}

// CartKV is shared by every cart session of the process.
func (i *Infra) CartKV() cartdom.KVStore { return i.cartKV }

func (i *Infra) AdminSessions() usecase.AdminSessionStore { return i.sessions }

// ============================================================
// Optional adapters
// ============================================================

// ImageUploader returns nil when the configured backend has no credentials;
// image uploads then fail with ErrImageUploaderMissing.
func (i *Infra) ImageUploader() usecase.ImageUploader {
	cfg := i.Config
	switch cfg.ImageBackend {
	case "gcs":
		if i.GCS == nil || strings.TrimSpace(cfg.GCSBucket) == "" {
			log.Printf("[shared.infra] WARN: IMAGE_BACKEND=gcs but GCS client or GCS_BUCKET is missing; uploads disabled")
			return nil
		}
		return gcsadapter.NewImageUploaderGCS(i.GCS, cfg.GCSBucket)
	default:
		up, err := cloudinaryadapter.NewImageUploader(
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
			cfg.CloudinaryFolder,
		)
		if err != nil {
			log.Printf("[shared.infra] WARN: cloudinary uploader disabled: %v", err)
			return nil
		}
		return up
	}
}

// OrderNotifier returns nil when no SendGrid key or operator address is set.
func (i *Infra) OrderNotifier(ctx context.Context) usecase.OrderNotifier {
	cfg := i.Config
	apiKey := i.ResolveSecret(ctx, cfg.SendGridAPIKey, cfg.SendGridAPIKeySecret)
	if apiKey == "" || strings.TrimSpace(cfg.OperatorEmail) == "" {
		log.Printf("[shared.infra] order mail disabled (SENDGRID_API_KEY or OPERATOR_EMAIL empty)")
		return nil
	}
	client := mailadapter.NewSendGridClient(apiKey, "")
	return mailadapter.NewOrderMailer(client, cfg.MailFrom, cfg.OperatorEmail, cfg.ConsoleBaseURL)
}

// ============================================================
// Secrets
// ============================================================

// ResolveSecret prefers the plain value; otherwise it reads the latest
// version of secretID from Secret Manager. Failures resolve to "".
func (i *Infra) ResolveSecret(ctx context.Context, plain, secretID string) string {
	if v := strings.TrimSpace(plain); v != "" {
		return v
	}
	secretID = strings.TrimSpace(secretID)
	if secretID == "" {
		return ""
	}
	if i == nil || i.SecretManager == nil {
		log.Printf("[shared.infra] WARN: secret %q requested but Secret Manager is unavailable", secretID)
		return ""
	}

	v, err := i.accessSecret(ctx, secretID)
	if err != nil {
		log.Printf("[shared.infra] WARN: secret %q: %v", secretID, err)
		return ""
	}
	return v
}

func (i *Infra) accessSecret(ctx context.Context, secretID string) (string, error) {
	name := secretID
	if !strings.HasPrefix(name, "projects/") {
		if i.ProjectID == "" {
			return "", fmt.Errorf("projectID is empty")
		}
		name = fmt.Sprintf("projects/%s/secrets/%s/versions/latest", i.ProjectID, secretID)
	}

	resp, err := i.SecretManager.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret version: %w", err)
	}
	if resp.GetPayload() == nil {
		return "", fmt.Errorf("secret payload is empty")
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}
