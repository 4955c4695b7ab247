package internal

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPServerPort string
	DBPath         string
	SecretKey      string
	AllowedOrigins []string
	ReadTimeout    int64
	WriteTimeout   int64
	EnableLogging  bool
}

// LoadConfig reads the configuration from the environment. Callers load a
// .env file first if one is present.
func LoadConfig() *Config {
	cfg := &Config{
		HTTPServerPort: envOr("HTTP_SERVER_PORT", "8080"),
		DBPath:         envOr("DB_PATH", "linq.db"),
		SecretKey:      envOr("SECRET_KEY", "linq-dev-secret"),
		ReadTimeout:    envInt64Or("READ_TIMEOUT", 15),
		WriteTimeout:   envInt64Or("WRITE_TIMEOUT", 15),
		EnableLogging:  envOr("ENABLE_LOGGING", "true") == "true",
	}

	origins := envOr("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	cfg.AllowedOrigins = strings.Split(origins, ",")
	for i := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(cfg.AllowedOrigins[i])
	}

	return cfg
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
