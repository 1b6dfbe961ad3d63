package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultUpstreamURL     = "https://demonstrativos.api.daf.bb.com.br/v1/demonstrativo/daf/consulta"
	defaultUpstreamOrigin  = "https://demonstrativos.apps.bb.com.br"
	defaultUpstreamReferer = "https://demonstrativos.apps.bb.com.br/"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port     string
	LogLevel string
	AppEnv   string

	// Upstream (Banco do Brasil DAF statements API)
	UpstreamURL                string
	UpstreamUserAgent          string
	UpstreamOrigin             string
	UpstreamReferer            string
	UpstreamTimeout            time.Duration
	UpstreamInsecureSkipVerify bool

	// Fund category codes sent as codigoFundo
	FundCodeFPM       int
	FundCodeRoyalties int
	FundCodeAll       int

	// Reject codigo <= 0 before calling the upstream
	ValidateBeneficiaryCode bool

	// Data file paths
	MunicipalityDataPath string
	FrontendDir          string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	TrustedProxy       bool

	// Error reporting
	SentryDSN string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppEnv:   getEnv("APP_ENV", "development"),

		UpstreamURL:                getEnv("UPSTREAM_URL", defaultUpstreamURL),
		UpstreamUserAgent:          getEnv("UPSTREAM_USER_AGENT", "Mozilla/5.0"),
		UpstreamOrigin:             getEnv("UPSTREAM_ORIGIN", defaultUpstreamOrigin),
		UpstreamReferer:            getEnv("UPSTREAM_REFERER", defaultUpstreamReferer),
		UpstreamTimeout:            getEnvAsDuration("UPSTREAM_TIMEOUT", 60*time.Second),
		UpstreamInsecureSkipVerify: getEnvAsBool("UPSTREAM_INSECURE_SKIP_VERIFY", true),

		FundCodeFPM:       getEnvAsInt("FUND_CODE_FPM", 4),
		FundCodeRoyalties: getEnvAsInt("FUND_CODE_ROYALTIES", 28),
		FundCodeAll:       getEnvAsInt("FUND_CODE_ALL", 0),

		ValidateBeneficiaryCode: getEnvAsBool("VALIDATE_BENEFICIARY_CODE", true),

		MunicipalityDataPath: getEnv("MUNICIPALITY_DATA_PATH", "data/municipios.json"),
		FrontendDir:          getEnv("FRONTEND_DIR", "frontend"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		TrustedProxy:       getEnvAsBool("TRUSTED_PROXY", false),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	if Cfg.UpstreamInsecureSkipVerify {
		log.Println("WARNING: TLS certificate verification towards the upstream is DISABLED (UPSTREAM_INSECURE_SKIP_VERIFY=true).")
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, Upstream=%s, Timeout=%s, MunicipalityData=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.UpstreamURL, Cfg.UpstreamTimeout, Cfg.MunicipalityDataPath)
}

// UpstreamHeaders returns the fixed header set sent with every statement request.
func (c *AppConfig) UpstreamHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   c.UpstreamUserAgent,
		"Origin":       c.UpstreamOrigin,
		"Referer":      c.UpstreamReferer,
	}
}

// ServerWriteTimeout leaves room for the three sequential upstream calls of a /consulta request.
func (c *AppConfig) ServerWriteTimeout() time.Duration {
	return 3*c.UpstreamTimeout + 15*time.Second
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	if value, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsBool accepts the forms understood by strconv.ParseBool.
func getEnvAsBool(key string, fallback bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(strings.TrimSpace(valueStr)); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strings.TrimSpace(valueStr)); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList parses a comma-separated list, dropping empty entries.
func getEnvAsList(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
