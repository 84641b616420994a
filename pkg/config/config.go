package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "wesavefood"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Telegram      TelegramConfig
	Session       SessionConfig
	Password      PasswordConfig
	GitHub        GitHubConfig
	Geocoder      GeocoderConfig
	Redis         RedisConfig
	AuthRateLimit AuthRateLimitConfig
	Reconcile     ReconcileConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.GitHub.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env       string `envconfig:"WESAVEFOOD_APP_ENV" default:"dev"`
	Port      string `envconfig:"WESAVEFOOD_APP_PORT" default:"8080"`
	LogLevel  string `envconfig:"WESAVEFOOD_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"WESAVEFOOD_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type TelegramConfig struct {
	BotToken string `envconfig:"WESAVEFOOD_TELEGRAM_BOT_TOKEN"`
	// MaxAssertionAge bounds how old a login-widget payload may be.
	MaxAssertionAge time.Duration `envconfig:"WESAVEFOOD_TELEGRAM_MAX_ASSERTION_AGE" default:"120s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"WESAVEFOOD_SESSION_COOKIE_NAME" default:"telegram_id"`
	TTL        time.Duration `envconfig:"WESAVEFOOD_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"WESAVEFOOD_SESSION_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WESAVEFOOD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WESAVEFOOD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WESAVEFOOD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WESAVEFOOD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WESAVEFOOD_ARGON_KEY_LEN" default:"32"`
}

// GitHubConfig locates the versioned repository acting as the durable
// document store. Backend selects the implementation: "github" commits one
// JSON file per collection through the contents API, "fs" keeps the same
// layout on local disk for development and tests.
type GitHubConfig struct {
	Backend   string `envconfig:"WESAVEFOOD_STORE_BACKEND" default:"github"`
	Token     string `envconfig:"WESAVEFOOD_GITHUB_TOKEN"`
	RepoOwner string `envconfig:"WESAVEFOOD_GITHUB_REPO_OWNER"`
	RepoName  string `envconfig:"WESAVEFOOD_GITHUB_REPO_NAME"`
	Branch    string `envconfig:"WESAVEFOOD_GITHUB_BRANCH" default:"main"`
	DataPath  string `envconfig:"WESAVEFOOD_GITHUB_DATA_PATH" default:"data"`
	LocalDir  string `envconfig:"WESAVEFOOD_STORE_LOCAL_DIR" default:"./data"`

	// FlushMode is either "write-through" (flush on every mutation) or
	// "interval" (batched by the flush job; loses at most one interval of
	// writes on ungraceful termination).
	FlushMode     string        `envconfig:"WESAVEFOOD_STORE_FLUSH_MODE" default:"write-through"`
	FlushInterval time.Duration `envconfig:"WESAVEFOOD_STORE_FLUSH_INTERVAL" default:"5m"`
	WriteRetries  int           `envconfig:"WESAVEFOOD_STORE_WRITE_RETRIES" default:"3"`
}

func (g GitHubConfig) validate() error {
	switch g.Backend {
	case "github":
		if g.RepoOwner == "" || g.RepoName == "" {
			return fmt.Errorf("github backend requires WESAVEFOOD_GITHUB_REPO_OWNER and WESAVEFOOD_GITHUB_REPO_NAME")
		}
	case "fs":
	default:
		return fmt.Errorf("unknown store backend %q", g.Backend)
	}
	switch g.FlushMode {
	case "write-through", "interval":
	default:
		return fmt.Errorf("unknown flush mode %q", g.FlushMode)
	}
	return nil
}

// WriteThrough reports whether every mutation should flush immediately.
func (g GitHubConfig) WriteThrough() bool {
	return g.FlushMode != "interval"
}

type GeocoderConfig struct {
	APIKey  string        `envconfig:"WESAVEFOOD_YANDEX_GEOCODER_API_KEY"`
	BaseURL string        `envconfig:"WESAVEFOOD_YANDEX_GEOCODER_BASE_URL" default:"https://geocode-maps.yandex.ru/1.x"`
	Timeout time.Duration `envconfig:"WESAVEFOOD_YANDEX_GEOCODER_TIMEOUT" default:"5s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WESAVEFOOD_REDIS_URL"`
	Address      string        `envconfig:"WESAVEFOOD_REDIS_ADDR"`
	Password     string        `envconfig:"WESAVEFOOD_REDIS_PASSWORD"`
	DB           int           `envconfig:"WESAVEFOOD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WESAVEFOOD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WESAVEFOOD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WESAVEFOOD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WESAVEFOOD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WESAVEFOOD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"WESAVEFOOD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit    int           `envconfig:"WESAVEFOOD_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"WESAVEFOOD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"WESAVEFOOD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIdentityLimit int           `envconfig:"WESAVEFOOD_AUTH_RATE_LIMIT_REGISTER_IDENTITY_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"WESAVEFOOD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type ReconcileConfig struct {
	Interval time.Duration `envconfig:"WESAVEFOOD_RECONCILE_INTERVAL" default:"10m"`
}
