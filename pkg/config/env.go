package config

const EnvPrefix = "CATERING"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
	DefaultSQLiteDSN = "file:catering.db?_foreign_keys=on"
)

const (
	SnapshotBackendMemory = "memory"
	SnapshotBackendBadger = "badger"
	SnapshotBackendRedis  = "redis"
	SnapshotBackendFile   = "file"
)

const (
	EnvAppEnv  = "CATERING_APP_ENV"
	EnvAppPort = "CATERING_APP_PORT"

	EnvDBDSN    = "CATERING_DB_DSN"
	EnvDBDriver = "CATERING_DB_DRIVER"
	EnvDBHost   = "CATERING_DB_HOST"
	EnvDBUser   = "CATERING_DB_USER"
	EnvDBName   = "CATERING_DB_NAME"

	EnvRedisURL  = "CATERING_REDIS_URL"
	EnvRedisAddr = "CATERING_REDIS_ADDR"

	EnvSnapshotBackend = "CATERING_SNAPSHOT_BACKEND"

	EnvPricingAddOnFee = "CATERING_PRICING_ADD_ON_FEE"
	EnvPricingTaxRate  = "CATERING_PRICING_TAX_RATE"

	EnvOrderMinPartySize = "CATERING_ORDER_MIN_PARTY_SIZE"
	EnvOrderMinWeightKg  = "CATERING_ORDER_MIN_WEIGHT_KG"

	EnvSMTPHost   = "CATERING_SMTP_HOST"
	EnvSMTPPort   = "CATERING_SMTP_PORT"
	EnvSMTPSecure = "CATERING_SMTP_SECURE"
	EnvSMTPUser   = "CATERING_SMTP_USER"
	EnvSMTPPass   = "CATERING_SMTP_PASS"
	EnvToEmail    = "CATERING_TO_EMAIL"
	EnvFromEmail  = "CATERING_FROM_EMAIL"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
