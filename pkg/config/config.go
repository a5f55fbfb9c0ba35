package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Snapshot SnapshotConfig
	Pricing  PricingConfig
	Order    OrderConfig
	SMTP     SMTPConfig
	Relay    RelayConfig
	HTTP     HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Pricing.AddOnFee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvPricingAddOnFee)
	}
	if c.Pricing.TaxRate.IsNegative() || c.Pricing.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be in [0, 1)", EnvPricingTaxRate)
	}
	if c.Order.MinPartySize < 1 {
		return fmt.Errorf("%s must be at least 1", EnvOrderMinPartySize)
	}
	if !c.Order.MinWeightKg.IsPositive() {
		return fmt.Errorf("%s must be positive", EnvOrderMinWeightKg)
	}
	switch strings.ToLower(c.Snapshot.Backend) {
	case SnapshotBackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("snapshot backend redis requires %s or %s", EnvRedisURL, EnvRedisAddr)
		}
	case SnapshotBackendMemory, SnapshotBackendBadger, SnapshotBackendFile:
	default:
		return fmt.Errorf("unknown %s %q", EnvSnapshotBackend, c.Snapshot.Backend)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"CATERING_APP_ENV" default:"dev"`
	Port         string `envconfig:"CATERING_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CATERING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATERING_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"CATERING_LOG_FORMAT"`
	AutoMigrate  bool   `envconfig:"CATERING_AUTO_MIGRATE" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"CATERING_DB_DSN"`
	Driver string `envconfig:"CATERING_DB_DRIVER" default:"sqlite"`

	Host     string `envconfig:"CATERING_DB_HOST"`
	Port     int    `envconfig:"CATERING_DB_PORT" default:"5432"`
	User     string `envconfig:"CATERING_DB_USER"`
	Password string `envconfig:"CATERING_DB_PASSWORD"`
	Name     string `envconfig:"CATERING_DB_NAME"`
	SSLMode  string `envconfig:"CATERING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATERING_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CATERING_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CATERING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATERING_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"CATERING_DB_SLOW_QUERY" default:"200ms"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

// RedisConfig is optional; leaving both URL and address empty disables
// redis-backed idempotency and rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"CATERING_REDIS_URL"`
	Address      string        `envconfig:"CATERING_REDIS_ADDR"`
	Password     string        `envconfig:"CATERING_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATERING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATERING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATERING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATERING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATERING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATERING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type SnapshotConfig struct {
	Backend   string        `envconfig:"CATERING_SNAPSHOT_BACKEND" default:"badger"`
	Path      string        `envconfig:"CATERING_SNAPSHOT_PATH" default:"data/snapshots"`
	RedisTTL  time.Duration `envconfig:"CATERING_SNAPSHOT_REDIS_TTL" default:"720h"`
	QueueSize int           `envconfig:"CATERING_SNAPSHOT_QUEUE_SIZE" default:"256"`
	OpTimeout time.Duration `envconfig:"CATERING_SNAPSHOT_OP_TIMEOUT" default:"5s"`
}

type PricingConfig struct {
	AddOnFee decimal.Decimal `envconfig:"CATERING_PRICING_ADD_ON_FEE" default:"0.99"`
	TaxRate  decimal.Decimal `envconfig:"CATERING_PRICING_TAX_RATE" default:"0.13"`
}

type OrderConfig struct {
	MinPartySize    int             `envconfig:"CATERING_ORDER_MIN_PARTY_SIZE" default:"15"`
	MinWeightKg     decimal.Decimal `envconfig:"CATERING_ORDER_MIN_WEIGHT_KG" default:"0.5"`
	DefaultWeightKg decimal.Decimal `envconfig:"CATERING_ORDER_DEFAULT_WEIGHT_KG" default:"1"`
	SessionIdleTTL  time.Duration   `envconfig:"CATERING_ORDER_SESSION_IDLE_TTL" default:"2h"`
	EvictInterval   time.Duration   `envconfig:"CATERING_ORDER_EVICT_INTERVAL" default:"5m"`
}

// SMTPConfig credentials are not required at load time; the mailer refuses
// to send without them.
type SMTPConfig struct {
	Host      string        `envconfig:"CATERING_SMTP_HOST" default:"smtp.gmail.com"`
	Port      int           `envconfig:"CATERING_SMTP_PORT" default:"465"`
	Secure    bool          `envconfig:"CATERING_SMTP_SECURE" default:"true"`
	User      string        `envconfig:"CATERING_SMTP_USER"`
	Password  string        `envconfig:"CATERING_SMTP_PASS"`
	ToEmail   string        `envconfig:"CATERING_TO_EMAIL"`
	FromEmail string        `envconfig:"CATERING_FROM_EMAIL"`
	FromName  string        `envconfig:"CATERING_FROM_NAME" default:"Veg Thali Club Catering"`
	Timeout   time.Duration `envconfig:"CATERING_SMTP_TIMEOUT" default:"15s"`
}

// HasCredentials reports whether both the username and password are set.
func (s SMTPConfig) HasCredentials() bool {
	return strings.TrimSpace(s.User) != "" && s.Password != ""
}

// Sender resolves the from address: explicit from, then the SMTP user, then the recipient.
func (s SMTPConfig) Sender() string {
	for _, v := range []string{s.FromEmail, s.User, s.ToEmail} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Recipient resolves the to address, falling back to the SMTP user.
func (s SMTPConfig) Recipient() string {
	if to := strings.TrimSpace(s.ToEmail); to != "" {
		return to
	}
	return strings.TrimSpace(s.User)
}

// RelayConfig points the submission gateway at a remote relay endpoint. An
// empty URL relays in process.
type RelayConfig struct {
	URL            string        `envconfig:"CATERING_RELAY_URL"`
	Timeout        time.Duration `envconfig:"CATERING_RELAY_TIMEOUT" default:"30s"`
	IdempotencyTTL time.Duration `envconfig:"CATERING_RELAY_IDEMPOTENCY_TTL" default:"24h"`
	RateLimit      int           `envconfig:"CATERING_RELAY_RATE_LIMIT" default:"5"`
	RateWindow     time.Duration `envconfig:"CATERING_RELAY_RATE_WINDOW" default:"1m"`
	// LogRetention bounds how long settled request log rows are kept.
	LogRetention  time.Duration `envconfig:"CATERING_RELAY_LOG_RETENTION" default:"2160h"`
	PruneInterval time.Duration `envconfig:"CATERING_RELAY_PRUNE_INTERVAL" default:"24h"`
}

type HTTPConfig struct {
	AllowedOrigins  []string      `envconfig:"CATERING_HTTP_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RequestLimit    int           `envconfig:"CATERING_HTTP_REQUEST_LIMIT" default:"120"`
	RequestWindow   time.Duration `envconfig:"CATERING_HTTP_REQUEST_WINDOW" default:"1m"`
	ReadTimeout     time.Duration `envconfig:"CATERING_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"CATERING_HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"CATERING_HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
	CookieSecure    bool          `envconfig:"CATERING_HTTP_COOKIE_SECURE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
