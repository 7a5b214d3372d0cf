package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string        `env:"PORT,            default=8080"`
	Env            string        `env:"ENV,             default=development"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=30s"`
	PhoneRegion    string        `env:"PHONE_REGION,    default=ES"`
	SeedRoles      []string      `env:"SEED_ROLES,      default=admin,partner,student"`

	Auth        AuthConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	SMTP        SMTPConfig
	Mail        MailQueueConfig
	Credentials CredentialsConfig
	Tracing     TracingConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,    default=change-me"`
	TokenTTL  time.Duration `env:"JWT_TTL,       default=24h"`
	Required  bool          `env:"AUTH_REQUIRED, default=false"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=comedor"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=false"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	RoleTTL  time.Duration `env:"ROLE_CACHE_TTL, default=5m"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT,    default=587"`
	From     string        `env:"SMTP_EMAIL"`
	Username string        `env:"SMTP_ACCOUNT"`
	Password string        `env:"SMTP_PASSWORD"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT, default=15s"`
}

// Enabled reports whether enough is configured to deliver mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type MailQueueConfig struct {
	Workers   int `env:"MAIL_WORKERS,    default=2"`
	QueueSize int `env:"MAIL_QUEUE_SIZE, default=100"`
}

type CredentialsConfig struct {
	PasswordLength  int `env:"PASSWORD_LENGTH,  default=12"`
	PasswordDigits  int `env:"PASSWORD_DIGITS,  default=3"`
	PasswordSymbols int `env:"PASSWORD_SYMBOLS, default=2"`
	BcryptCost      int `env:"BCRYPT_COST,      default=10"`
}

type TracingConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=comedor-admin-api"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.Credentials.PasswordLength < c.Credentials.PasswordDigits+c.Credentials.PasswordSymbols {
		problems = append(problems, "PASSWORD_LENGTH must cover PASSWORD_DIGITS and PASSWORD_SYMBOLS")
	}
	if c.Mail.Workers < 1 {
		problems = append(problems, "MAIL_WORKERS must be at least 1")
	}
	if c.Mail.QueueSize < 1 {
		problems = append(problems, "MAIL_QUEUE_SIZE must be at least 1")
	}
	if c.Auth.Required && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "change-me") {
		problems = append(problems, "JWT_SECRET must be set when AUTH_REQUIRED is true")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
