package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendSQL    = "sql"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	DefaultSessionCookie = "sf_session"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvLogLevel       = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL     = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout     = "STOREFRONT_API_TIMEOUT"
	EnvSessionBackend = "STOREFRONT_SESSION_BACKEND"
	EnvSessionTTL     = "STOREFRONT_SESSION_TTL"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvDBDriver       = "STOREFRONT_DB_DRIVER"
	EnvDBDSN          = "STOREFRONT_DB_DSN"
	EnvRedirectDelay  = "STOREFRONT_CHECKOUT_REDIRECT_DELAY"
	EnvCORSOrigins    = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)
