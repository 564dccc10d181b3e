package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token transports accepted by the verifier middleware.
const (
	TransportCookie = "cookie"
	TransportBearer = "bearer"
	TransportBoth   = "both"
)

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	TokenTTL        time.Duration
	AuthTransport   string
	AllowedOrigins  []string
	StripeSecretKey string
	CookieSecure    bool
	Port            string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "MedEasyDB"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:        getDurationEnv("TOKEN_TTL_DAYS", 365, 24*time.Hour),
		AuthTransport:   getEnvOrDefault("AUTH_TRANSPORT", TransportBoth),
		AllowedOrigins:  getListEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174"),
		StripeSecretKey: getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		CookieSecure:    getBoolEnv("COOKIE_SECURE", false),
		Port:            getEnvOrDefault("PORT", "4000"),
	}

	switch cfg.AuthTransport {
	case TransportCookie, TransportBearer, TransportBoth:
	default:
		log.Printf("unknown AUTH_TRANSPORT %q, falling back to %q", cfg.AuthTransport, TransportBoth)
		cfg.AuthTransport = TransportBoth
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnvOrDefault(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
