package constants

import "time"

type ContextKey string

// TraceIDKey carries the request trace ID through contexts so the logger can
// attach it to every line.
const TraceIDKey ContextKey = "trace_id"

const (
	UsernameMinLength  = 5
	UsernameMaxLength  = 32
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	BcryptCost = 10

	DefaultTokenTTL       = 7 * 24 * time.Hour
	DefaultRequestTimeout = 5 * time.Second
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40
)
