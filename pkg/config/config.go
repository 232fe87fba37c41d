package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	KV           KVConfig
	Checkout     CheckoutConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.KV.UsesRedis() && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required when %s=redis", EnvRedisURL, EnvRedisAddr, EnvKVDriver)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"IZZAH_APP_ENV" required:"true"`
	Port         string `envconfig:"IZZAH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"IZZAH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"IZZAH_LOG_WARN_STACK" default:"false"`
	// Comma separated origins allowed by CORS.
	CORSOrigins []string `envconfig:"IZZAH_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"IZZAH_DB_DSN"`
	Driver string `envconfig:"IZZAH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"IZZAH_DB_HOST"`
	LegacyPort     int    `envconfig:"IZZAH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"IZZAH_DB_USER"`
	LegacyPassword string `envconfig:"IZZAH_DB_PASSWORD"`
	LegacyName     string `envconfig:"IZZAH_DB_NAME"`
	LegacySSLMode  string `envconfig:"IZZAH_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"IZZAH_SQLITE_PATH" default:"file:izzah.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"IZZAH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"IZZAH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"IZZAH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"IZZAH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery logs statements slower than this at warn; zero disables it.
	SlowQuery time.Duration `envconfig:"IZZAH_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"IZZAH_REDIS_URL"`
	Address      string        `envconfig:"IZZAH_REDIS_ADDR"`
	Password     string        `envconfig:"IZZAH_REDIS_PASSWORD"`
	DB           int           `envconfig:"IZZAH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"IZZAH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"IZZAH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"IZZAH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"IZZAH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"IZZAH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// KVConfig selects the key-value backend used for carts and session handoffs.
type KVConfig struct {
	Driver     string        `envconfig:"IZZAH_KV_DRIVER" default:"redis"`
	CartTTL    time.Duration `envconfig:"IZZAH_KV_CART_TTL" default:"0"`
	SessionTTL time.Duration `envconfig:"IZZAH_KV_SESSION_TTL" default:"24h"`
}

func (k KVConfig) UsesRedis() bool {
	return !strings.EqualFold(strings.TrimSpace(k.Driver), KVDriverMemory)
}

type CheckoutConfig struct {
	MaxProofMB     int           `envconfig:"IZZAH_CHECKOUT_MAX_PROOF_MB" default:"5"`
	MaxOrderBytes  int           `envconfig:"IZZAH_CHECKOUT_MAX_ORDER_BYTES" default:"1048576"`
	SessionLockTTL time.Duration `envconfig:"IZZAH_CHECKOUT_SESSION_LOCK_TTL" default:"2m"`
	PromoCodes     PromoCodeList `envconfig:"IZZAH_CHECKOUT_PROMO_CODES" default:"IJS12:12:2026-01-01:2026-12-31"`
	IdempotencyTTL time.Duration `envconfig:"IZZAH_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

// MaxProofBytes converts the configured proof limit into bytes.
func (c CheckoutConfig) MaxProofBytes() int64 {
	if c.MaxProofMB <= 0 {
		return 5 * 1024 * 1024
	}
	return int64(c.MaxProofMB) * 1024 * 1024
}

type GCPConfig struct {
	ProjectID string `envconfig:"IZZAH_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"IZZAH_PUBSUB_ORDERS_TOPIC"`
	// CreateTopic creates a missing orders topic at boot; meant for the emulator.
	CreateTopic    bool          `envconfig:"IZZAH_PUBSUB_CREATE_TOPIC" default:"false"`
	PublishTimeout time.Duration `envconfig:"IZZAH_PUBSUB_PUBLISH_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"IZZAH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"IZZAH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
