package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// App variants. A deployment mounts the finance routes, the project routes,
// or both.
const (
	VariantFinance  = "finance"
	VariantProjects = "projects"
	VariantFull     = "full"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed to the components that need it; nothing
// reads os.Getenv after startup.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string
	Variant string

	DatabaseURL string

	FrontendURL string

	// JWT
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	// Rate limiting
	RateLimit  int
	RateWindow time.Duration

	// AI
	AnthropicAPIKey string
	AIModel         string
	AIMaxTokens     int
	AITimeout       time.Duration
	AICacheTTL      time.Duration
	AIRecentLimit   int

	// 2FA
	TOTPIssuer        string
	DataEncryptionKey string // 32 bytes; TOTP secrets are sealed with it

	LogLevel string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "lifetrack-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),
		Variant: getenv("APP_VARIANT", VariantFull),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),

		JWTAccessSecret:  os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        getdur("JWT_EXPIRE", 15*time.Minute),
		RefreshTTL:       getdur("JWT_REFRESH_EXPIRE", 7*24*time.Hour),

		RateLimit:  getint("RATE_LIMIT_MAX", 100),
		RateWindow: getdur("RATE_LIMIT_WINDOW", time.Minute),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AIModel:         getenv("AI_MODEL", "claude-3-5-sonnet-latest"),
		AIMaxTokens:     getint("AI_MAX_TOKENS", 2000),
		AITimeout:       getdur("AI_TIMEOUT", 60*time.Second),
		AICacheTTL:      getdur("AI_CACHE_TTL", 24*time.Hour),
		AIRecentLimit:   getint("AI_RECENT_LIMIT", 30),

		TOTPIssuer:        getenv("TOTP_ISSUER", "LifeTrack"),
		DataEncryptionKey: os.Getenv("DATA_ENCRYPTION_KEY"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}
