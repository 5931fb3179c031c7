package config

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Cookie CookieConfig
	Sale   SaleConfig
	Rate   RateLimitConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	AccessTTL        time.Duration `env:"ACCESS_TOKEN_TTL,  default=10m"`
	RefreshTTL       time.Duration `env:"REFRESH_TOKEN_TTL, default=72h"`
	DemoUsername     string        `env:"DEMO_USERNAME, default=clerk01"`
	DemoPasswordHash string        `env:"DEMO_PASSWORD_HASH"`
	// DemoPassword is a development fallback: when no hash is configured it is
	// bcrypt-hashed at startup. Never set both in production.
	DemoPassword  string   `env:"DEMO_PASSWORD"`
	GrantedScopes []string `env:"GRANTED_SCOPES"`
}

type CookieConfig struct {
	Name     string `env:"COOKIE_NAME,     default=refresh_token"`
	Path     string `env:"COOKIE_PATH,     default=/auth"`
	Secure   bool   `env:"COOKIE_SECURE,   default=true"`
	SameSite string `env:"COOKIE_SAMESITE, default=lax"`
}

type SaleConfig struct {
	TaxRatePercent   int    `env:"TAX_RATE_PERCENT,   default=10"`
	TaxCode          string `env:"TAX_CODE,           default=10"`
	AllowCustomItems bool   `env:"ALLOW_CUSTOM_ITEMS, default=false"`
	IDHashSalt       string `env:"ID_HASH_SALT"`
	ClerkCode        string `env:"CLERK_CD, default=9999999999"`
	StoreCode        string `env:"STORE_CD, default=30"`
	PosID            string `env:"POS_ID,   default=90"`
}

type RateLimitConfig struct {
	Window       time.Duration `env:"RATE_WINDOW,      default=60s"`
	AuthLimit    int           `env:"AUTH_RATE_LIMIT,  default=5"`
	SalesLimit   int           `env:"SALES_RATE_LIMIT, default=30"`
	GeneralRPS   float64       `env:"GENERAL_RPS,      default=20"`
	GeneralBurst int           `env:"GENERAL_BURST,    default=40"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pos"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// Disabled switches the refresh-rotation store to the in-memory
	// implementation; fine for single-process dev setups.
	Disabled bool `env:"REDIS_DISABLED, default=false"`
}

var defaultScopes = []string{"items:read", "sales:read", "sales:write", "sales:delete"}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.Auth.GrantedScopes) == 0 {
		cfg.Auth.GrantedScopes = defaultScopes
	}
	return &cfg, nil
}

// SameSite maps the configured cookie policy onto http.SameSite. Unrecognised
// values fall back to Lax.
func (c CookieConfig) SameSiteMode() http.SameSite {
	switch strings.ToLower(strings.TrimSpace(c.SameSite)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
