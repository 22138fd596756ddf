package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the identity service.
type Config struct {
	Addr            string        `env:"ADDR,default=:8080"`
	DatabaseURL     string        `env:"DATABASE_URL,default=file:identity.db"`
	DBRetries       int           `env:"DB_RETRIES,default=5"`
	DBRetryDelay    time.Duration `env:"DB_RETRY_DELAY,default=2s"`
	DBDebug         bool          `env:"DB_DEBUG,default=false"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE,default=true"`
	SQLMigrations   bool          `env:"SQL_MIGRATIONS,default=false"`
	SeedRoles       []string      `env:"SEED_ROLES"`
	SecretKey       string        `env:"SECRET_KEY"`
	TokenIssuer     string        `env:"TOKEN_ISSUER,default=identityd"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,default=30m"`
	CallerCacheTTL  time.Duration `env:"CALLER_CACHE_TTL,default=1m"`
	BcryptCost      int           `env:"BCRYPT_COST,default=10"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	RateLimit       int           `env:"RATE_LIMIT_PER_MINUTE,default=100"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=console"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName     string        `env:"OTEL_SERVICE_NAME,default=identityd"`
}

// ErrMissingSecret is returned by RequireSecret when SECRET_KEY is unset.
var ErrMissingSecret = errors.New("SECRET_KEY is required")

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RequireSecret fails when no token signing key is configured.
func (c Config) RequireSecret() error {
	if c.SecretKey == "" {
		return ErrMissingSecret
	}
	return nil
}
