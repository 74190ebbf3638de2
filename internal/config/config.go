package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	AuthClerk    = "clerk"
	AuthFirebase = "firebase"
	AuthHMAC     = "hmac"

	StoreFirestore = "firestore"
	StoreMemory    = "memory"

	ProgressDocument = "document"
	ProgressPostgres = "postgres"
)

type Config struct {
	Port     string        `env:"PORT" envDefault:"3333"`
	LogLevel zapcore.Level `env:"LOG_LEVEL" envDefault:"info"`

	AuthProvider   string `env:"AUTH_PROVIDER" envDefault:"clerk"`
	ClerkSecretKey string `env:"CLERK_SECRET_KEY"`
	AuthJWTSecret  string `env:"AUTH_JWT_SECRET"`

	// StoreDriver backs the catalog, final pages and, by default, challenge progress.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"firestore"`
	// ProgressDriver moves user challenge records to Postgres when set to "postgres".
	ProgressDriver string `env:"PROGRESS_DRIVER" envDefault:"document"`
	DatabaseURL    string `env:"DATABASE_URL"`

	FirebaseCredentialsFile    string `env:"FIREBASE_CREDENTIALS_FILE" envDefault:"./serviceAccountKey.json"`
	FirebaseServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	FirebaseProjectID          string `env:"FIREBASE_PROJECT_ID"`
	PushNotifications          bool   `env:"PUSH_NOTIFICATIONS" envDefault:"true"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL"`

	MetricsUser string `env:"METRICS_USER"`
	MetricsPass string `env:"METRICS_PASS"`
	PprofSecret string `env:"PPROF_SECRET"`

	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"30"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.AuthProvider {
	case AuthClerk:
		if c.ClerkSecretKey == "" {
			return errors.New("CLERK_SECRET_KEY is required when AUTH_PROVIDER=clerk")
		}
	case AuthFirebase:
	case AuthHMAC:
		if len(c.AuthJWTSecret) < 16 {
			return errors.New("AUTH_JWT_SECRET of at least 16 bytes is required when AUTH_PROVIDER=hmac")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q (want clerk, firebase or hmac)", c.AuthProvider)
	}

	switch c.StoreDriver {
	case StoreFirestore, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want firestore or memory)", c.StoreDriver)
	}

	switch c.ProgressDriver {
	case ProgressDocument:
	case ProgressPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when PROGRESS_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown PROGRESS_DRIVER %q (want document or postgres)", c.ProgressDriver)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// NeedsFirebase reports whether start-up must fail without a Firebase app.
func (c *Config) NeedsFirebase() bool {
	return c.StoreDriver == StoreFirestore || c.AuthProvider == AuthFirebase
}

// NewLogger builds the production JSON logger at the configured level.
func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
