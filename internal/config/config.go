package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	PublicDir string

	AdminUser     string
	AdminPassHash string // bcrypt
	HMACSecret    string

	CORSOrigins       []string
	AllowedQCMOrigins []string // empty disables the origin check
}

// FromEnv reads configuration from a .env file (if present) and the
// environment, applying defaults when values are missing.
func FromEnv() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:          envOr("HTTP_ADDR", ":8080"),
		DBDriver:          envOr("DB_DRIVER", "sqlite"),
		DBDSN:             envOr("DB_DSN", ""),
		PublicDir:         envOr("PUBLIC_DIR", "./public"),
		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPassHash:     envOr("ADMIN_PASS_HASH", ""),
		HMACSecret:        envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOrigins:       csvOr("CORS_ORIGINS", "*"),
		AllowedQCMOrigins: csvOr("ALLOWED_QCM_ORIGINS", ""),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
