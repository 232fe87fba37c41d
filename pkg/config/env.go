package config

const (
	EnvPrefix = "IZZAH"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	KVDriverRedis  = "redis"
	KVDriverMemory = "memory"

	EnvAppEnv   = "IZZAH_APP_ENV"
	EnvPort     = "IZZAH_APP_PORT"
	EnvLogLevel = "IZZAH_LOG_LEVEL"

	EnvDBDSN  = "IZZAH_DB_DSN"
	EnvDBHost = "IZZAH_DB_HOST"
	EnvDBUser = "IZZAH_DB_USER"
	EnvDBName = "IZZAH_DB_NAME"

	EnvRedisURL  = "IZZAH_REDIS_URL"
	EnvRedisAddr = "IZZAH_REDIS_ADDR"
	EnvKVDriver  = "IZZAH_KV_DRIVER"

	EnvUseSQLite        = "IZZAH_USE_SQLITE"
	EnvMaxProofMB       = "IZZAH_CHECKOUT_MAX_PROOF_MB"
	EnvPromoCodes       = "IZZAH_CHECKOUT_PROMO_CODES"
	EnvPubSubOrderTopic = "IZZAH_PUBSUB_ORDERS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
