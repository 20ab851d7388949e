package config

import (
	"math"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// AttachmentsConfig holds upload and presentation settings.
type AttachmentsConfig struct {
	// MaxUploadBytes bounds an upload held in memory before it is stored.
	// Zero or negative means unbounded.
	MaxUploadBytes int64
	// MediaURL prefixes static document icons.
	MediaURL string
	// RedirectURL is where a successful create redirects when the form has no redirect field.
	RedirectURL string
	// DefaultForm is the form variant used when a request does not name one.
	DefaultForm string
}

// multipartOverhead leaves room for form fields and part headers beyond the file itself.
const multipartOverhead = 1 << 20

// BodyLimit is the request body size the HTTP server accepts. A non-positive
// MaxUploadBytes means uploads are unbounded.
func (a AttachmentsConfig) BodyLimit() int {
	if a.MaxUploadBytes <= 0 || a.MaxUploadBytes > int64(math.MaxInt-multipartOverhead) {
		return math.MaxInt
	}
	return int(a.MaxUploadBytes) + multipartOverhead
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Timezone    string
	LogLevel    string
	Debug       bool
	Database    DatabaseConfig
	Attachments AttachmentsConfig
	// OwnerTables maps owner types to the host tables that hold them.
	OwnerTables map[string]string
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("TZ_NAME", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnvBool("DEBUG", false),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Attachments: AttachmentsConfig{
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
			MediaURL:       getEnv("MEDIA_URL", "/media/"),
			RedirectURL:    getEnv("REDIRECT_URL", "/"),
			DefaultForm:    getEnv("DEFAULT_FORM", "optional"),
		},
		OwnerTables: getEnvMap("OWNER_TABLES", nil),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvMap parses "k1=v1,k2=v2". Malformed pairs are skipped.
func getEnvMap(key string, def map[string]string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" || val == "" {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out
}
