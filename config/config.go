// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = "config/.env"

// NewConfig loads configuration from environment using viper with typed defaults and validation.
func NewConfig() (*Config, error) {
	return Load(envFile)
}

// Load reads an optional dotenv file and then the process environment.
// Variables already present in the environment win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		if envMap, err := godotenv.Read(path); err == nil {
			for k, val := range envMap {
				if _, exists := os.LookupEnv(k); !exists {
					_ = os.Setenv(k, val)
				}
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors_origins", "*")

	v.SetDefault("http.request_timeout", 5*time.Second)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db_name", "gymhub")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.migrations_dir", "db/migrations")
	v.SetDefault("postgres.migrate_timeout", 10*time.Second)
	v.SetDefault("postgres.query_timeout", 2*time.Second)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.profile_cache_ttl", time.Minute)

	v.SetDefault("hikvision.base_url", "https://isgp.hikcentralconnect.com")
	v.SetDefault("hikvision.request_timeout", 10*time.Second)
	v.SetDefault("hikvision.max_retries", 3)
	v.SetDefault("hikvision.initial_delay", time.Second)
	v.SetDefault("hikvision.max_delay", 10*time.Second)
	v.SetDefault("hikvision.backoff_factor", 2.0)

	v.SetDefault("razorpay.base_url", "https://api.razorpay.com")
	v.SetDefault("razorpay.currency", "INR")
	v.SetDefault("razorpay.request_timeout", 10*time.Second)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.notifications_topic", "gym.notifications")
	v.SetDefault("kafka.group_id", "gymhub-notifier")

	v.SetDefault("notifier.timeout", 10*time.Second)

	v.SetDefault("jobs.expiry_interval", time.Hour)
	v.SetDefault("jobs.reminder_days", 3)

	v.SetDefault("billing.tax_rate", "18")
	v.SetDefault("billing.referral_reward", "500")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.host",
		"server.port",
		"server.shutdown_timeout",
		"server.body_limit",
		"server.cors_origins",
		"http.request_timeout",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.db_name",
		"postgres.ssl_mode",
		"postgres.migrations_dir",
		"postgres.migrate_timeout",
		"postgres.query_timeout",
		"postgres.max_conns",
		"postgres.min_conns",
		"auth.jwt_secret",
		"auth.profile_cache_ttl",
		"hikvision.base_url",
		"hikvision.request_timeout",
		"hikvision.max_retries",
		"hikvision.initial_delay",
		"hikvision.max_delay",
		"hikvision.backoff_factor",
		"razorpay.base_url",
		"razorpay.key_id",
		"razorpay.key_secret",
		"razorpay.webhook_secret",
		"razorpay.currency",
		"razorpay.request_timeout",
		"kafka.brokers",
		"kafka.notifications_topic",
		"kafka.group_id",
		"notifier.gateway_url",
		"notifier.gateway_token",
		"notifier.timeout",
		"jobs.expiry_interval",
		"jobs.reminder_days",
		"billing.tax_rate",
		"billing.referral_reward",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
