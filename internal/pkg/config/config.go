package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// StaticDir, when set, is served as a single-page app next to the API.
	StaticDir        string   `env:"STATIC_DIR"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Mongo     MongoConfig
	RateLimit RateLimitConfig
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=3s"`
}

type OpenAIConfig struct {
	APIKey      string        `env:"OPENAI_API_KEY"`
	BaseURL     string        `env:"OPENAI_BASE_URL"`
	Model       string        `env:"OPENAI_MODEL,        default=gpt-4o"`
	MaxTokens   int           `env:"OPENAI_MAX_TOKENS,   default=1000"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT,      default=60s"`
	MaxAttempts int           `env:"OPENAI_MAX_ATTEMPTS, default=1"`
}

// MongoConfig configures the optional transcript archive. An empty URI
// disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB,        default=site_archive"`
	Workers  int    `env:"ARCHIVE_WORKERS, default=4"`
}

// RateLimitConfig bounds chat requests per client IP. A zero ChatPerWindow
// disables the limiter.
type RateLimitConfig struct {
	ChatPerWindow int           `env:"RATE_LIMIT_CHAT,   default=20"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
}

// IsProduction reports whether error details and dev conveniences must be hidden.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ArchiveEnabled reports whether transcripts are archived to MongoDB.
func (c *Config) ArchiveEnabled() bool {
	return c.Mongo.URI != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Parse reads configuration through lookuper and checks it for values the
// server cannot run with.
func Parse(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimit.ChatPerWindow < 0 {
		return fmt.Errorf("RATE_LIMIT_CHAT must not be negative")
	}
	if c.RateLimit.ChatPerWindow > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive")
	}
	return nil
}
