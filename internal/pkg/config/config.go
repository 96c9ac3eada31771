package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token         TokenConfig
	Stripe        StripeConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	Reconcile     ReconcileConfig
	PaymentIntent RateLimitConfig
}

type TokenConfig struct {
	Secret string        `env:"ACCESS_TOKEN, required"`
	TTL    time.Duration `env:"TOKEN_TTL,    default=1h"`
}

type StripeConfig struct {
	SecretKey string        `env:"STRIPE_SECRET_KEY, required"`
	Timeout   time.Duration `env:"STRIPE_TIMEOUT,    default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,   default=mongodb://localhost:27017"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Database string `env:"MONGO_DB,    default=teatree"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ReconcileConfig struct {
	Interval time.Duration `env:"RECONCILE_INTERVAL, default=1m"`
	Workers  int           `env:"RECONCILE_WORKERS,  default=4"`
}

// RateLimitConfig bounds requests per authenticated identity.
type RateLimitConfig struct {
	Rate  float64 `env:"PAYMENT_INTENT_RATE,  default=1"`
	Burst int     `env:"PAYMENT_INTENT_BURST, default=5"`
}

// IsDevelopment reports whether the service runs with human-friendly logs.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
