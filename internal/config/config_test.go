package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.EnvFile)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "gst-invoice.db", cfg.Database.SQLitePath)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.CORS.AllowedHeaders, "Idempotency-Key")
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PRINTER_TYPE", "network")
	t.Setenv("PRINTER_ADDRESS", "10.0.0.5:9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "10.0.0.5:9100", cfg.Printer.Address)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_PORT=9090\nADMIN_EMAIL=admin@example.com\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".env", cfg.EnvFile)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "Asia/Kolkata"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=Asia/Kolkata", c.DSN())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
