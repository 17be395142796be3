package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	platformstrings "signup/pkg/platform/strings"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Mail drivers.
const (
	MailSMTP = "smtp"
	MailLog  = "log"
)

// Config is the process configuration. It is built once in main and treated
// as read-only afterwards.
type Config struct {
	Addr             string
	DefaultLocale    string
	LogLevel         string
	BcryptCost       int
	UniqueIdentities bool
	ActivationTTL    time.Duration
	ShutdownTimeout  time.Duration

	Store       string
	DatabaseURL string
	Migrate     bool

	Redis RedisConfig

	KafkaBrokers []string
	AuditTopic   string

	Mail MailConfig
}

// RedisConfig holds Redis connection settings. An empty URL keeps activation
// tokens in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MailConfig holds activation mail settings.
type MailConfig struct {
	Driver       string
	SMTPAddr     string
	SMTPUsername string
	SMTPPassword string
	InsecureTLS  bool
	From         string
}

// FromEnv loads an optional .env file, then reads the environment.
func FromEnv() (Config, error) {
	// .env is optional when the environment is provided by the runtime.
	_ = godotenv.Load()
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Config, error) {
	env := source{getenv: getenv}
	cfg := Config{
		Addr:             env.str("SIGNUP_ADDR", ":8080"),
		DefaultLocale:    env.str("SIGNUP_DEFAULT_LOCALE", "en"),
		LogLevel:         env.str("SIGNUP_LOG_LEVEL", "info"),
		BcryptCost:       env.integer("SIGNUP_BCRYPT_COST", bcrypt.DefaultCost),
		UniqueIdentities: env.boolean("SIGNUP_UNIQUE_IDENTITIES", false),
		ActivationTTL:    env.duration("SIGNUP_ACTIVATION_TTL", 24*time.Hour),
		ShutdownTimeout:  env.duration("SIGNUP_SHUTDOWN_TIMEOUT", 10*time.Second),

		Store:       strings.ToLower(env.str("SIGNUP_STORE", StoreMemory)),
		DatabaseURL: env.str("DATABASE_URL", ""),
		Migrate:     env.boolean("SIGNUP_MIGRATIONS", true),

		Redis: RedisConfig{
			URL:          env.str("REDIS_URL", ""),
			PoolSize:     env.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: env.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		KafkaBrokers: env.list("KAFKA_BROKERS"),
		AuditTopic:   env.str("SIGNUP_AUDIT_TOPIC", "signup.audit"),

		Mail: MailConfig{
			Driver:       strings.ToLower(env.str("SIGNUP_MAIL_DRIVER", MailSMTP)),
			SMTPAddr:     env.str("SIGNUP_SMTP_ADDR", "localhost:8587"),
			SMTPUsername: env.str("SIGNUP_SMTP_USERNAME", ""),
			SMTPPassword: env.str("SIGNUP_SMTP_PASSWORD", ""),
			InsecureTLS:  env.boolean("SIGNUP_SMTP_TLS_INSECURE", false),
			From:         env.str("SIGNUP_MAIL_FROM", "My App <me@mail.com>"),
		},
	}
	if env.err != nil {
		return Config{}, env.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("config: SIGNUP_DEFAULT_LOCALE %q: %w", c.DefaultLocale, err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: SIGNUP_BCRYPT_COST must be within [%d, %d], got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.ActivationTTL <= 0 {
		return fmt.Errorf("config: SIGNUP_ACTIVATION_TTL must be positive")
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if err := validateURL("DATABASE_URL", c.DatabaseURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: SIGNUP_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store)
	}
	if c.Redis.URL != "" {
		if err := validateURL("REDIS_URL", c.Redis.URL); err != nil {
			return err
		}
	}
	switch c.Mail.Driver {
	case MailLog:
	case MailSMTP:
		if strings.TrimSpace(c.Mail.SMTPAddr) == "" {
			return fmt.Errorf("config: SIGNUP_SMTP_ADDR is required for the smtp driver")
		}
	default:
		return fmt.Errorf("config: SIGNUP_MAIL_DRIVER must be %q or %q, got %q", MailSMTP, MailLog, c.Mail.Driver)
	}
	if strings.TrimSpace(c.Mail.From) == "" {
		return fmt.Errorf("config: SIGNUP_MAIL_FROM is required")
	}
	return nil
}

func validateURL(key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("config: %s is required", key)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s invalid (%q): %w", key, raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: %s invalid (%q): missing scheme or host", key, raw)
	}
	return nil
}

// source reads typed values and keeps the first parse error.
type source struct {
	getenv func(string) string
	err    error
}

func (s *source) str(key, def string) string {
	if v := strings.TrimSpace(s.getenv(key)); v != "" {
		return v
	}
	return def
}

func (s *source) integer(key string, def int) int {
	v := strings.TrimSpace(s.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.fail(key, v, err)
		return def
	}
	return n
}

func (s *source) boolean(key string, def bool) bool {
	v := strings.TrimSpace(s.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.fail(key, v, err)
		return def
	}
	return b
}

func (s *source) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(s.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		s.fail(key, v, err)
		return def
	}
	return d
}

func (s *source) list(key string) []string {
	return platformstrings.SplitList(s.getenv(key), ",")
}

func (s *source) fail(key, value string, err error) {
	if s.err == nil {
		s.err = fmt.Errorf("config: %s invalid (%q): %w", key, value, err)
	}
}
