package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestDefaults(t *testing.T) {
	cfg, err := fromLookup(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.ActivationTTL)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, MailSMTP, cfg.Mail.Driver)
	assert.Equal(t, "localhost:8587", cfg.Mail.SMTPAddr)
	assert.Equal(t, "My App <me@mail.com>", cfg.Mail.From)
	assert.Equal(t, "signup.audit", cfg.AuditTopic)
	assert.False(t, cfg.UniqueIdentities)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestOverrides(t *testing.T) {
	cfg, err := fromLookup(lookup(map[string]string{
		"SIGNUP_ADDR":              ":9090",
		"SIGNUP_DEFAULT_LOCALE":    "th",
		"SIGNUP_BCRYPT_COST":       "4",
		"SIGNUP_STORE":             "Postgres",
		"DATABASE_URL":             "postgres://u:p@localhost:5432/signup?sslmode=disable",
		"REDIS_URL":                "redis://localhost:6379/0",
		"KAFKA_BROKERS":            "k1:9092, k2:9092,",
		"SIGNUP_MAIL_DRIVER":       "log",
		"SIGNUP_UNIQUE_IDENTITIES": "true",
		"SIGNUP_ACTIVATION_TTL":    "90m",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "th", cfg.DefaultLocale)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, MailLog, cfg.Mail.Driver)
	assert.True(t, cfg.UniqueIdentities)
	assert.Equal(t, 90*time.Minute, cfg.ActivationTTL)
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bcrypt cost too low", map[string]string{"SIGNUP_BCRYPT_COST": "2"}},
		{"bcrypt cost not a number", map[string]string{"SIGNUP_BCRYPT_COST": "ten"}},
		{"postgres without url", map[string]string{"SIGNUP_STORE": "postgres"}},
		{"postgres url without host", map[string]string{"SIGNUP_STORE": "postgres", "DATABASE_URL": "signup"}},
		{"unknown store", map[string]string{"SIGNUP_STORE": "sqlite"}},
		{"unknown mail driver", map[string]string{"SIGNUP_MAIL_DRIVER": "carrier-pigeon"}},
		{"bad ttl", map[string]string{"SIGNUP_ACTIVATION_TTL": "soon"}},
		{"negative ttl", map[string]string{"SIGNUP_ACTIVATION_TTL": "-1h"}},
		{"bad locale", map[string]string{"SIGNUP_DEFAULT_LOCALE": "not_a_locale!"}},
		{"bad bool", map[string]string{"SIGNUP_UNIQUE_IDENTITIES": "maybe"}},
		{"bad redis url", map[string]string{"REDIS_URL": "localhost"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fromLookup(lookup(tc.env))
			assert.Error(t, err)
		})
	}
}
