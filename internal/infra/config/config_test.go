package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "GCP_PROJECT_ID", "FIRESTORE_PROJECT_ID", "REDIS_ADDR", "IMAGE_BACKEND", "CORS_ALLOWED_ORIGINS", "ADMIN_FIREBASE_AUTH", "REDIS_DB", "STORE_BACKEND"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "kenzo-store", cfg.FirestoreProjectID)
	assert.Equal(t, "cloudinary", cfg.ImageBackend)
	assert.False(t, cfg.UseRedis())
	assert.False(t, cfg.UseMemoryStore())
	assert.False(t, cfg.AdminFirebaseAuth)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GCP_PROJECT_ID", "proj-a")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("REDIS_DB", "oops")
	t.Setenv("IMAGE_BACKEND", "GCS")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("ADMIN_FIREBASE_AUTH", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://kenzo.eg/, ,https://admin.kenzo.eg")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "proj-a", cfg.GetFirestoreProjectID())
	assert.True(t, cfg.UseRedis())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "gcs", cfg.ImageBackend)
	assert.True(t, cfg.UseMemoryStore())
	assert.True(t, cfg.AdminFirebaseAuth)
	assert.Equal(t, []string{"https://kenzo.eg", "https://admin.kenzo.eg"}, cfg.AllowedOrigins)
}
