package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"EMPLOYER_API_PRIMARY.ENV":           "local",
		"EMPLOYER_API_SERVER.PORT":           "8080",
		"EMPLOYER_API_SERVER.READ_TIMEOUT":   "30",
		"EMPLOYER_API_SERVER.WRITE_TIMEOUT":  "30",
		"EMPLOYER_API_SERVER.IDLE_TIMEOUT":   "60",
		"EMPLOYER_API_DATABASES.DWH.HOST":     "localhost",
		"EMPLOYER_API_DATABASES.DWH.PORT":     "8000",
		"EMPLOYER_API_DATABASES.DWH.USER":     "ETL",
		"EMPLOYER_API_DATABASES.DWH.PASSWORD": "secret",
		"EMPLOYER_API_DATABASES.DWH.NAME":     "postgres",

		"EMPLOYER_API_DATABASES.DWH.TABLES.CV_EMPLOYER_DETAIL": "stg.cv_employer_detail",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, DefaultDatabase, cfg.Primary.Database)
	assert.Equal(t, "8080", cfg.Server.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 8000, cfg.Database.Port)
	assert.Equal(t, "ETL", cfg.Database.User)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, DefaultMinConns, cfg.Database.MinConns)
	assert.Equal(t, DefaultMaxConns, cfg.Database.MaxConns)
	assert.Equal(t, "stg.cv_employer_detail", cfg.Database.Table("cv_employer_detail"))

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, 30*time.Second, cfg.Observability.HealthChecks.Interval)
}

func TestLoadPoolSizing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMPLOYER_API_DATABASES.DWH.MIN_CONNS", "2")
	t.Setenv("EMPLOYER_API_DATABASES.DWH.MAX_CONNS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Database.MinConns)
	assert.Equal(t, 4, cfg.Database.MaxConns)
}

func TestLoadRejectsMinAboveMax(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMPLOYER_API_DATABASES.DWH.MIN_CONNS", "12")
	t.Setenv("EMPLOYER_API_DATABASES.DWH.MAX_CONNS", "4")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds max_conns")
}

func TestLoadUnknownDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMPLOYER_API_PRIMARY.DATABASE", "crawling")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `database "crawling" is not configured`)
	assert.Contains(t, err.Error(), "dwh")
}

func TestLoadMissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMPLOYER_API_SERVER.PORT", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadPartialObservability(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMPLOYER_API_OBSERVABILITY.LOGGING.LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Observability.GetLogLevel())
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoadInvalidLogLevel(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMPLOYER_API_OBSERVABILITY.LOGGING.LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level")
}

func TestTableFallsBackToKey(t *testing.T) {
	db := DatabaseConfig{Tables: map[string]string{"a": "stg.a"}}
	assert.Equal(t, "stg.a", db.Table("a"))
	assert.Equal(t, "public.b", db.Table("public.b"))
}

func TestGetLogLevel(t *testing.T) {
	c := &ObservabilityConfig{Environment: "production"}
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "local"
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Logging.Level = "error"
	assert.Equal(t, "error", c.GetLogLevel())
}
