package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Hikvision HikvisionConfig `mapstructure:"hikvision"`
	Razorpay  RazorpayConfig  `mapstructure:"razorpay"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Billing   BillingConfig   `mapstructure:"billing"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
		return errors.New("postgres credentials are required")
	}
	if c.Postgres.Host == "" {
		return errors.New("postgres.host is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Hikvision.BackoffFactor < 1 {
		return errors.New("hikvision.backoff_factor must be >= 1")
	}
	if _, err := decimal.NewFromString(c.Billing.TaxRate); err != nil {
		return fmt.Errorf("billing.tax_rate: %w", err)
	}
	if _, err := decimal.NewFromString(c.Billing.ReferralReward); err != nil {
		return fmt.Errorf("billing.referral_reward: %w", err)
	}
	if c.Hikvision.MaxRetries < 0 {
		return errors.New("hikvision.max_retries must be >= 0")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password" masked:"true"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// AuthConfig configures session token verification.
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret" masked:"true"`
	ProfileCacheTTL time.Duration `mapstructure:"profile_cache_ttl"`
}

// HikvisionConfig configures the access-control OpenAPI client.
// Per-branch credentials live in the hikvision_api_settings table.
type HikvisionConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialDelay   time.Duration `mapstructure:"initial_delay"`
	MaxDelay       time.Duration `mapstructure:"max_delay"`
	BackoffFactor  float64       `mapstructure:"backoff_factor"`
}

// RazorpayConfig configures the payment gateway.
type RazorpayConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	KeyID          string        `mapstructure:"key_id"`
	KeySecret      string        `mapstructure:"key_secret" masked:"true"`
	WebhookSecret  string        `mapstructure:"webhook_secret" masked:"true"`
	Currency       string        `mapstructure:"currency"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// KafkaConfig configures the notification outbox topic.
type KafkaConfig struct {
	Brokers            string `mapstructure:"brokers"`
	NotificationsTopic string `mapstructure:"notifications_topic"`
	GroupID            string `mapstructure:"group_id"`
}

// BrokerList splits the comma separated broker list.
func (k KafkaConfig) BrokerList() []string {
	return splitList(k.Brokers)
}

// NotifierConfig configures the SMS/email gateway used by the notifier worker.
type NotifierConfig struct {
	GatewayURL   string        `mapstructure:"gateway_url"`
	GatewayToken string        `mapstructure:"gateway_token" masked:"true"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// JobsConfig configures background jobs.
type JobsConfig struct {
	ExpiryInterval time.Duration `mapstructure:"expiry_interval"`
	ReminderDays   int           `mapstructure:"reminder_days"`
}

// BillingConfig configures invoice defaults. Amounts are decimal strings.
type BillingConfig struct {
	TaxRate        string `mapstructure:"tax_rate"`
	ReferralReward string `mapstructure:"referral_reward"`
}

// Tax returns the tax rate in percent.
func (b BillingConfig) Tax() decimal.Decimal {
	d, _ := decimal.NewFromString(b.TaxRate)
	return d
}

// Reward returns the amount credited to a referrer when the referred member first pays.
func (b BillingConfig) Reward() decimal.Decimal {
	d, _ := decimal.NewFromString(b.ReferralReward)
	return d
}

// CORSOriginList returns configured CORS origins joined the way fiber expects.
func (s ServerConfig) CORSOriginList() string {
	return strings.Join(splitList(s.CORSOrigins), ",")
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
