// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"fisha/internal/adapters/out/kv"
	"fisha/internal/adapters/out/memory"
	usecase "fisha/internal/application/usecase"
	cartdom "fisha/internal/domain/cart"
	appcfg "fisha/internal/infra/config"
)

const redisPingTimeout = 5 * time.Second

// Infra is shared runtime infrastructure for DI.
//   - owns external clients (Firestore, GCS, Firebase Auth, Secret Manager, Redis)
//   - owns the process-local stores used when those are not configured
//
// Infra must NOT depend on console/mall routers or handlers.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Redis         *redis.Client

	// Local fallbacks
	Memory   *memory.Store
	cartKV   cartdom.KVStore
	sessions usecase.AdminSessionStore
}

// NewInfra loads the config from the environment and initializes shared infra.
func NewInfra(ctx context.Context) (*Infra, error) {
	return NewInfraWithConfig(ctx, appcfg.Load())
}

// NewInfraWithConfig initializes shared infra.
//
// Firestore (document store), Redis (when configured) and GCS (when it is
// the image backend) are strict and return an error.
// Firebase Auth and Secret Manager are best-effort (warn + continue).
// With STORE_BACKEND=memory no Google client is created at all.
func NewInfraWithConfig(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	inf := &Infra{Config: cfg, ProjectID: resolveProjectID(cfg)}

	// 1) Redis (strict when configured)
	if cfg.UseRedis() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("shared.infra: redis ping failed (addr=%s): %w", cfg.RedisAddr, err)
		}
		inf.Redis = rdb
		inf.cartKV = kv.NewRedisKV(rdb, cartdom.DefaultCartTTL)
		inf.sessions = kv.NewRedisSessionStore(rdb)
		log.Printf("[shared.infra] Redis connected addr=%s db=%d", cfg.RedisAddr, cfg.RedisDB)
	} else {
		inf.cartKV = kv.NewMemoryKV()
		inf.sessions = kv.NewMemorySessionStore()
		log.Printf("[shared.infra] WARN: REDIS_ADDR empty; carts and admin sessions are process-local")
	}

	// 2) Local mode: everything in memory
	if cfg.UseMemoryStore() {
		inf.Memory = memory.NewStore()
		log.Printf("[shared.infra] STORE_BACKEND=memory; products and orders are process-local")
		return inf, nil
	}

	if inf.ProjectID == "" {
		_ = inf.Close()
		return nil, errors.New("shared.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GOOGLE_CLOUD_PROJECT)")
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 3) Secret Manager (best-effort)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (*_SECRET settings will be ignored)", err)
	} else {
		inf.SecretManager = sm
	}

	// 4) Firestore (strict)
	fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
	}
	inf.Firestore = fsClient
	log.Printf("[shared.infra] Firestore connected project=%s", inf.ProjectID)

	// 5) GCS (strict when it hosts images)
	if cfg.ImageBackend == "gcs" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
		}
		inf.GCS = gcsClient
		log.Printf("[shared.infra] GCS storage client initialized bucket=%s", cfg.GCSBucket)
	}

	// 6) Firebase App/Auth (best-effort)
	if fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, clientOpts...); err != nil {
		log.Printf("[shared.infra] WARN: firebase app init failed: %v", err)
	} else {
		inf.FirebaseApp = fbApp
		if authClient, err := fbApp.Auth(ctx); err != nil {
			log.Printf("[shared.infra] WARN: firebase auth init failed: %v", err)
		} else {
			inf.FirebaseAuth = authClient
			log.Printf("[shared.infra] Firebase Auth initialized")
		}
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	return nil
}

func resolveProjectID(cfg *appcfg.Config) string {
	// Priority:
	// 1) cfg.FirestoreProjectID (resolved by config.Load)
	// 2) GOOGLE_CLOUD_PROJECT (set in Cloud Run)
	// 3) FIREBASE_PROJECT_ID
	if cfg != nil {
		if v := strings.TrimSpace(cfg.FirestoreProjectID); v != "" {
			return v
		}
	}
	for _, k := range []string{"GOOGLE_CLOUD_PROJECT", "FIREBASE_PROJECT_ID"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func redactPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
