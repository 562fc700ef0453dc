package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
env: dev
server:
  addr: ":9090"
  read_timeout: 5s
source:
  kind: mysql
  timeout: 3s
  fallback: false
mysql:
  dsn: "bi:secret@tcp(db:3306)/sensores"
  table: leituras_iot
redis:
  addr: "redis:6379"
  db: 2
analytics:
  timezone: UTC
  dedup: identity
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "rest", cfg.Source.Kind)
	assert.True(t, cfg.Source.Fallback)
	assert.Equal(t, "value", cfg.Analytics.Dedup)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "mysql", cfg.Source.Kind)
	assert.False(t, cfg.Source.Fallback)
	assert.Equal(t, "leituras_iot", cfg.MySQL.Table)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "identity", cfg.Analytics.Dedup)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("REDIS_DB", "5")
	t.Setenv("PAIRING_DEDUP", "value")
	t.Setenv("SOURCE_FALLBACK", "true")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Redis.DB)
	assert.Equal(t, "value", cfg.Analytics.Dedup)
	assert.True(t, cfg.Source.Fallback)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == "REDIS_DB" {
			return "two", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty addr":       func(c *Config) { c.Server.Addr = "" },
		"unknown kind":     func(c *Config) { c.Source.Kind = "kafka" },
		"rest without url": func(c *Config) { c.Source.URL = "" },
		"mysql without dsn": func(c *Config) {
			c.Source.Kind = "mysql"
			c.MySQL.DSN = ""
		},
		"unknown dedup":    func(c *Config) { c.Analytics.Dedup = "fuzzy" },
		"unknown timezone": func(c *Config) { c.Analytics.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	fixture := Default()
	fixture.Source.Kind = "fixture"
	fixture.Source.URL = ""
	assert.NoError(t, fixture.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
