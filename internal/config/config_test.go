package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "csrf_token", c.CSRF.CookieName)
	assert.Equal(t, "lru", c.Rate.Backend)
	assert.Equal(t, 5, c.Rate.Submit.Limit)
	assert.True(t, c.Rate.Enabled)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, []string{"/api/"}, c.CSRF.EdgePrefixes)
	require.NoError(t, c.Validate())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: staging
server:
  addr: ":9090"
  allowed_origins: ["https://llmstxthub.com"]
rate:
  enabled: true
  backend: ttl
  max_requests: 30
  submit:
    limit: 3
`), 0o600))

	t.Setenv("RATE_BACKEND", "REDIS")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("METRICS_ENABLED", "false")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", c.App.Env)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, "redis", c.Rate.Backend)
	assert.Equal(t, 30, c.Rate.MaxRequests)
	assert.Equal(t, 3, c.Rate.Submit.Limit)
	assert.Equal(t, "1m", c.Rate.Submit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.AllowedOrigins)
	assert.False(t, c.Metrics.Enabled)
	require.NoError(t, c.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Rate.Backend = "redis"
	c.Rate.Window = "soon"
	c.Server.AllowedOrigins = []string{"example.com"}

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
	assert.Contains(t, err.Error(), "rate.window")
	assert.Contains(t, err.Error(), "example.com")
}

func TestDur(t *testing.T) {
	assert.Equal(t, 90*time.Second, Dur("90s", time.Minute))
	assert.Equal(t, time.Minute, Dur("bogus", time.Minute))
	assert.Equal(t, time.Minute, Dur("-1s", time.Minute))
}
