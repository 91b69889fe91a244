package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         string
	DataDir      string
	CatalogPath  string
	StoreDriver  string // "json" or "sqlite"
	DBPath       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool
	AMQPURL      string // empty disables event publishing
	EventsExch   string
}

func LoadConfig() (*Config, error) {
	dataDir := getEnv("DATA_DIR", "./data")
	cfg := &Config{
		Port:         getEnv("PORT", "8585"),
		DataDir:      dataDir,
		CatalogPath:  getEnv("CATALOG_PATH", filepath.Join(dataDir, "catalog.json")),
		StoreDriver:  getEnv("STORE_DRIVER", "json"),
		DBPath:       getEnv("DB_PATH", filepath.Join(dataDir, "store.db")),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		AMQPURL:      getEnvFromFile("AMQP_URL_FILE", "AMQP_URL", ""),
		EventsExch:   getEnv("EVENTS_EXCHANGE", "storefront.events"),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	switch cfg.StoreDriver {
	case "json", "sqlite":
	default:
		slog.Error("Unknown STORE_DRIVER. Falling back to json.", "STORE_DRIVER", cfg.StoreDriver)
		cfg.StoreDriver = "json"
	}

	return cfg, nil
}

// loadKey reads a base64 key from NAME or the file named by NAME_FILE. Missing or
// short keys are replaced by a random one, which invalidates sessions on restart.
func loadKey(name string) []byte {
	raw := getEnvFromFile(name+"_FILE", name, "")
	if raw == "" {
		slog.Warn(name + " not set. Generating a random key for development. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development.")
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvFromFile prefers the contents of the file named by fileKey (Docker secrets style).
func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if path := os.Getenv(fileKey); path != "" {
		if content, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(content))
		}
		slog.Warn("Could not read secret file", "var", fileKey, "path", path)
	}
	return getEnv(envKey, defaultValue)
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		padded := make([]byte, n)
		copy(padded, fallbackKey)
		return padded
	}
	return b
}
