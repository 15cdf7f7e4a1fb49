package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SOURCEDESK_APP_ENV" default:"dev"`
	Port         string `envconfig:"SOURCEDESK_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"SOURCEDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOURCEDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOURCEDESK_DB_DSN"`
	Driver string `envconfig:"SOURCEDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SOURCEDESK_DB_HOST"`
	Port     int    `envconfig:"SOURCEDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"SOURCEDESK_DB_USER"`
	Password string `envconfig:"SOURCEDESK_DB_PASSWORD"`
	Name     string `envconfig:"SOURCEDESK_DB_NAME"`
	SSLMode  string `envconfig:"SOURCEDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOURCEDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOURCEDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOURCEDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOURCEDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOURCEDESK_REDIS_URL"`
	Address      string        `envconfig:"SOURCEDESK_REDIS_ADDR"`
	Password     string        `envconfig:"SOURCEDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOURCEDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOURCEDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOURCEDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOURCEDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOURCEDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOURCEDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool          `envconfig:"SOURCEDESK_AUTO_MIGRATE" default:"false"`
	Idempotency bool          `envconfig:"SOURCEDESK_IDEMPOTENCY" default:"true"`
	IdemTTL     time.Duration `envconfig:"SOURCEDESK_IDEMPOTENCY_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		"SOURCEDESK_DB_HOST": db.Host,
		"SOURCEDESK_DB_USER": db.User,
		"SOURCEDESK_DB_NAME": db.Name,
	}
	for _, key := range []string{"SOURCEDESK_DB_HOST", "SOURCEDESK_DB_USER", "SOURCEDESK_DB_NAME"} {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either SOURCEDESK_DB_DSN or %s are required", strings.Join(missing, ", "))
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
