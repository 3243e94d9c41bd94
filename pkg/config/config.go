package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	Session         SessionConfig
	Petfinder       PetfinderConfig
	Mirror          MirrorConfig
	Search          SearchConfig
	Password        PasswordConfig
	AuthRateLimit   AuthRateLimitConfig
	BrowseRateLimit BrowseRateLimitConfig
	FeatureFlags    FeatureFlagsConfig
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
	Env          string `envconfig:"PAWPRINT_APP_ENV" required:"true"`
	Port         string `envconfig:"PAWPRINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAWPRINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAWPRINT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"PAWPRINT_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"PAWPRINT_DB_DSN"`
	Driver string `envconfig:"PAWPRINT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAWPRINT_DB_HOST"`
	LegacyPort     int    `envconfig:"PAWPRINT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAWPRINT_DB_USER"`
	LegacyPassword string `envconfig:"PAWPRINT_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAWPRINT_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAWPRINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAWPRINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAWPRINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAWPRINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAWPRINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PAWPRINT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PAWPRINT_REDIS_ADDR"`
	Password     string        `envconfig:"PAWPRINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAWPRINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAWPRINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAWPRINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAWPRINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAWPRINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAWPRINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig controls the signed visitor cookie.
type SessionConfig struct {
	Secret string        `envconfig:"PAWPRINT_SESSION_SECRET" required:"true"`
	Name   string        `envconfig:"PAWPRINT_SESSION_NAME" default:"pawprint_session"`
	MaxAge time.Duration `envconfig:"PAWPRINT_SESSION_MAX_AGE" default:"720h"`
}

// MaxAgeSeconds returns the cookie max age in whole seconds.
func (s SessionConfig) MaxAgeSeconds() int {
	if s.MaxAge <= 0 {
		return 0
	}
	return int(s.MaxAge / time.Second)
}

type PetfinderConfig struct {
	ClientID     string        `envconfig:"PAWPRINT_PETFINDER_CLIENT_ID" required:"true"`
	ClientSecret string        `envconfig:"PAWPRINT_PETFINDER_CLIENT_SECRET" required:"true"`
	BaseURL      string        `envconfig:"PAWPRINT_PETFINDER_BASE_URL" default:"https://api.petfinder.com/v2"`
	TokenURL     string        `envconfig:"PAWPRINT_PETFINDER_TOKEN_URL" default:"https://api.petfinder.com/v2/oauth2/token"`
	Timeout      time.Duration `envconfig:"PAWPRINT_PETFINDER_TIMEOUT" default:"10s"`
}

// MirrorConfig holds the placeholders used when upstream payloads omit optional fields.
type MirrorConfig struct {
	DefaultColor    string `envconfig:"PAWPRINT_MIRROR_DEFAULT_COLOR" default:"No Color Listed"`
	DefaultImageURL string `envconfig:"PAWPRINT_MIRROR_DEFAULT_IMAGE_URL"`
}

type SearchConfig struct {
	StateTTL time.Duration `envconfig:"PAWPRINT_SEARCH_STATE_TTL" default:"24h"`
	PageSize int           `envconfig:"PAWPRINT_SEARCH_PAGE_SIZE" default:"20"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PAWPRINT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PAWPRINT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PAWPRINT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PAWPRINT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PAWPRINT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow         time.Duration `envconfig:"PAWPRINT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit  int           `envconfig:"PAWPRINT_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit        int           `envconfig:"PAWPRINT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow        time.Duration `envconfig:"PAWPRINT_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupIdentityLimit int           `envconfig:"PAWPRINT_AUTH_RATE_LIMIT_SIGNUP_IDENTITY_LIMIT" default:"3"`
	SignupIPLimit       int           `envconfig:"PAWPRINT_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

// BrowseRateLimitConfig throttles routes that fan out to the upstream API.
type BrowseRateLimitConfig struct {
	Requests int           `envconfig:"PAWPRINT_BROWSE_RATE_LIMIT_REQUESTS" default:"60"`
	Window   time.Duration `envconfig:"PAWPRINT_BROWSE_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PAWPRINT_AUTO_MIGRATE" default:"false"`
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
