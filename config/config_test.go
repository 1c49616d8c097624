package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "0.0.0.0:8080", cfg.ServerAddr())
	require.Equal(t, 3, cfg.Hikvision.MaxRetries)
	require.Equal(t, time.Second, cfg.Hikvision.InitialDelay)
	require.Equal(t, 10*time.Second, cfg.Hikvision.MaxDelay)
	require.InDelta(t, 2.0, cfg.Hikvision.BackoffFactor, 0.0001)
	require.Equal(t, "INR", cfg.Razorpay.Currency)
	require.Empty(t, cfg.Kafka.BrokerList())
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "AUTH_JWT_SECRET=from-file\nSERVER_PORT=9090\nKAFKA_BROKERS=a:9092, b:9092\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("AUTH_JWT_SECRET", "from-env")
	// godotenv values land in the process env; make sure they are cleaned up.
	t.Setenv("SERVER_PORT", "")
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	t.Setenv("KAFKA_BROKERS", "")
	require.NoError(t, os.Unsetenv("KAFKA_BROKERS"))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Auth.JWTSecret)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.BrokerList())
}

func TestValidate(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load("")
	require.ErrorContains(t, err, "auth.jwt_secret")

	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("HIKVISION_BACKOFF_FACTOR", "0.5")
	_, err = Load("")
	require.ErrorContains(t, err, "backoff_factor")
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "gym", SSLMode: "disable"}
	require.Equal(t, "host=db port=5433 user=u password=p dbname=gym sslmode=disable", p.DSN())
}

func TestBillingDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "18", cfg.Billing.Tax().String())
	require.Equal(t, "500", cfg.Billing.Reward().String())
	require.Equal(t, 3, cfg.Jobs.ReminderDays)
	require.Equal(t, time.Hour, cfg.Jobs.ExpiryInterval)

	t.Setenv("BILLING_TAX_RATE", "eighteen")
	_, err = Load("")
	require.ErrorContains(t, err, "billing.tax_rate")
}
