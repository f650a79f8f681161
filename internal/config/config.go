package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// DevJWTSecret is only used outside production when ADMIN_JWT_SECRET is unset.
const DevJWTSecret = "genix-dev-jwt-secret-do-not-use-in-production"

const EnvProduction = "production"

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password", "jwt-secret", DevJWTSecret,
}

type Config struct {
	Port                int           `env:"PORT" envDefault:"8080"`
	Environment         string        `env:"APP_ENV" envDefault:"development"`
	DatabaseURL         string        `env:"DATABASE_URL,required"`
	RedisURL            string        `env:"REDIS_URL"`
	JWTSecret           string        `env:"ADMIN_JWT_SECRET"`
	TokenTTL            time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"24h"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir           string        `env:"STATIC_DIR" envDefault:"static/admin"`
	DBMaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime   time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"1m"`
	LoginAttemptsPerMin int           `env:"LOGIN_ATTEMPTS_PER_MIN" envDefault:"5"`
	TrustedProxies      []string      `env:"TRUSTED_PROXIES" envSeparator:","`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvProduction)
}

// Pool returns the connection pool settings for database.Connect.
func (c *Config) Pool() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnMaxIdleTime: c.DBConnMaxIdleTime,
	}
}

// Validate refuses to start a production process without an explicit,
// strong signing secret. Outside production an empty secret is replaced by
// DevJWTSecret.
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("ADMIN_TOKEN_TTL must be positive")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}

	if c.IsProduction() {
		if err := validateSecret("ADMIN_JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}
		if c.RedisURL == "" {
			log.Warn().Msg("REDIS_URL is empty in production: login rate limiting is per instance")
		} else if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		return nil
	}

	if c.JWTSecret == "" {
		log.Warn().Str("env", c.Environment).Msg("ADMIN_JWT_SECRET is empty: using development fallback secret")
		c.JWTSecret = DevJWTSecret
	}
	return nil
}

func validateSecret(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required in production", name)
	}
	if len(value) < MinSecretLength {
		return fmt.Errorf("%s must be at least %d characters in production (generate with: openssl rand -base64 32)", name, MinSecretLength)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
