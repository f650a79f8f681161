package config

import "time"

// PoolConfig bounds the Postgres connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Database connection pool defaults
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
	DBConnMaxIdleTime = time.Minute
)

// DefaultPool is used by tooling that does not load the full server config.
var DefaultPool = PoolConfig{
	MaxOpenConns:    DBMaxOpenConns,
	MaxIdleConns:    DBMaxIdleConns,
	ConnMaxLifetime: DBConnMaxLifetime,
	ConnMaxIdleTime: DBConnMaxIdleTime,
}

// HTTP server timeouts
const (
	ServerRequestTimeout  = 30 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Token issuer embedded in admin session tokens
const TokenIssuer = "genix-admin"

const MinSecretLength = 32

// Window for LOGIN_ATTEMPTS_PER_MIN
const LoginRateWindow = time.Minute
