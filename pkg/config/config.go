package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Service   ServiceConfig
	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	DB        DBConfig
	Checkout  CheckoutConfig
	Cron      CronConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STOREFRONT_SERVICE_KIND" default:"api"`
}

// APIConfig points at the remote commerce API that owns all business logic.
type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:8000/api"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"0s"`
}

type SessionConfig struct {
	Backend    string        `envconfig:"STOREFRONT_SESSION_BACKEND" default:"memory"`
	TTL        time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"720h"`
	CookieName string        `envconfig:"STOREFRONT_SESSION_COOKIE" default:"sf_session"`
	Secure     bool          `envconfig:"STOREFRONT_SESSION_COOKIE_SECURE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"STOREFRONT_REDIS_KEY_PREFIX" default:"sf"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"file:storefront.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type CheckoutConfig struct {
	RedirectDelay time.Duration `envconfig:"STOREFRONT_CHECKOUT_REDIRECT_DELAY" default:"2s"`
	SuccessPath   string        `envconfig:"STOREFRONT_CHECKOUT_SUCCESS_PATH" default:"/payment-success"`
	LockTTL       time.Duration `envconfig:"STOREFRONT_CHECKOUT_LOCK_TTL" default:"30s"`
	AbandonAfter  time.Duration `envconfig:"STOREFRONT_CHECKOUT_ABANDON_AFTER" default:"1h"`
}

type CronConfig struct {
	Interval    time.Duration `envconfig:"STOREFRONT_CRON_INTERVAL" default:"15m"`
	LockTTL     time.Duration `envconfig:"STOREFRONT_CRON_LOCK_TTL" default:"10m"`
	MetricsAddr string        `envconfig:"STOREFRONT_CRON_METRICS_ADDR" default:":9090"`
}

type RateLimitConfig struct {
	LoginWindow time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginLimit  int           `envconfig:"STOREFRONT_RATE_LIMIT_LOGIN_LIMIT" default:"10"`
	OTPWindow   time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_OTP_WINDOW" default:"10m"`
	OTPLimit    int           `envconfig:"STOREFRONT_RATE_LIMIT_OTP_LIMIT" default:"5"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Session.Backend)) {
	case SessionBackendMemory, SessionBackendSQL:
	case SessionBackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvSessionBackend, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%s is required", EnvAPIBaseURL)
	}
	return nil
}
