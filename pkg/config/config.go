package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Tx    TxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if !cfg.App.IsProd() && !cfg.App.IsStaging() {
		return nil, fmt.Errorf("unknown app env %q (expected %s or %s)", cfg.App.Env, AppEnvProd, AppEnvStaging)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GUDANGPOS_APP_ENV" default:"production"`
	Port         string `envconfig:"GUDANGPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GUDANGPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GUDANGPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a AppConfig) IsStaging() bool {
	return strings.EqualFold(a.Env, AppEnvStaging)
}

// Namespace returns the storage namespace prefix for the configured
// environment. Staging data lives in prefixed tables so both environments
// can share one database, mirroring the original deployment layout.
func (a AppConfig) Namespace() string {
	if a.IsStaging() {
		return StagingTablePrefix
	}
	return ""
}

type DBConfig struct {
	DSN string `envconfig:"GUDANGPOS_DB_DSN"`

	LegacyHost     string `envconfig:"GUDANGPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"GUDANGPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GUDANGPOS_DB_USER"`
	LegacyPassword string `envconfig:"GUDANGPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"GUDANGPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"GUDANGPOS_DB_SSLMODE" default:"disable"`

	AutoMigrate     bool          `envconfig:"GUDANGPOS_DB_AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"GUDANGPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GUDANGPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GUDANGPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GUDANGPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GUDANGPOS_REDIS_URL"`
	Password     string        `envconfig:"GUDANGPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GUDANGPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GUDANGPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GUDANGPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GUDANGPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GUDANGPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GUDANGPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
	ProductTTL   time.Duration `envconfig:"GUDANGPOS_REDIS_PRODUCT_TTL" default:"5m"`
}

// Enabled reports whether a cache endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// TxConfig bounds the optimistic transaction retry loop.
type TxConfig struct {
	MaxAttempts    int           `envconfig:"GUDANGPOS_TX_MAX_ATTEMPTS" default:"4"`
	InitialBackoff time.Duration `envconfig:"GUDANGPOS_TX_INITIAL_BACKOFF" default:"10ms"`
	BackoffJitter  time.Duration `envconfig:"GUDANGPOS_TX_BACKOFF_JITTER" default:"5ms"`
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
