// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the environment-driven settings shared by cmd/mall and cmd/console.
type Config struct {
	Port                     string
	LogFile                  string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// StoreBackend selects the document store: "firestore" or "memory".
	StoreBackend string

	// Redis (optional; in-memory stores are used when empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Image hosting: "cloudinary" or "gcs"
	ImageBackend        string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	GCSBucket           string

	// Mail
	SendGridAPIKey       string
	SendGridAPIKeySecret string
	MailFrom             string
	OperatorEmail        string
	ConsoleBaseURL       string

	// Admin
	AdminEmail          string
	AdminPassword       string
	AdminPasswordSecret string
	AdminFirebaseAuth   bool

	// CORS
	AllowedOrigins []string
}

// Load reads the environment and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "kenzo-store")

	return &Config{
		Port:                     getenvDefault("PORT", "8080"),
		LogFile:                  strings.TrimSpace(os.Getenv("LOG_FILE")),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		StoreBackend:             strings.ToLower(getenvDefault("STORE_BACKEND", "firestore")),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		ImageBackend:        strings.ToLower(getenvDefault("IMAGE_BACKEND", "cloudinary")),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getenvDefault("CLOUDINARY_FOLDER", "products"),
		GCSBucket:           os.Getenv("GCS_BUCKET"),

		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		SendGridAPIKeySecret: os.Getenv("SENDGRID_API_KEY_SECRET"),
		MailFrom:             getenvDefault("MAIL_FROM", "no-reply@kenzo-store.com"),
		OperatorEmail:        os.Getenv("OPERATOR_EMAIL"),
		ConsoleBaseURL:       os.Getenv("CONSOLE_BASE_URL"),

		AdminEmail:          strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordSecret: os.Getenv("ADMIN_PASSWORD_SECRET"),
		AdminFirebaseAuth:   getenvBool("ADMIN_FIREBASE_AUTH", false),

		AllowedOrigins: splitList(getenvDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

// UseMemoryStore reports whether products and orders live in process memory.
func (c *Config) UseMemoryStore() bool {
	return c != nil && c.StoreBackend == "memory"
}

// UseRedis reports whether a Redis server is configured.
func (c *Config) UseRedis() bool {
	return c != nil && c.RedisAddr != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimRight(strings.TrimSpace(s), "/"); s != "" {
			out = append(out, s)
		}
	}
	return out
}
