package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Limit es un par límite/ventana para un endpoint puntual.
type Limit struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"`
}

type Config struct {
	App struct {
		// dev | staging | prod
		Env         string `yaml:"env"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr            string   `yaml:"addr"`
		AllowedOrigins  []string `yaml:"allowed_origins"`
		ReadTimeout     string   `yaml:"read_timeout"`
		WriteTimeout    string   `yaml:"write_timeout"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
		MaxBodyBytes    int64    `yaml:"max_body_bytes"`
	} `yaml:"server"`

	CSRF struct {
		CookieName string `yaml:"cookie_name"`
		TTL        string `yaml:"ttl"`
		// Prefijos donde corre el validador edge (middleware global).
		EdgePrefixes []string `yaml:"edge_prefixes"`
	} `yaml:"csrf"`

	Rate struct {
		Enabled         bool   `yaml:"enabled"`
		Backend         string `yaml:"backend"` // lru | ttl | redis
		Window          string `yaml:"window"`
		MaxRequests     int    `yaml:"max_requests"`
		Capacity        int    `yaml:"capacity"`
		CleanupInterval string `yaml:"cleanup_interval"`
		FailClosed      bool   `yaml:"fail_closed"`
		Submit          Limit  `yaml:"submit"`
		Username        Limit  `yaml:"username"`
	} `yaml:"rate"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Default devuelve la configuración por defecto (sin archivo).
func Default() *Config {
	var c Config
	c.Rate.Enabled = true
	c.Metrics.Enabled = true
	c.applyDefaults()
	return &c
}

// Load lee el YAML en path (opcional), aplica defaults y pisa con env.
func Load(path string) (*Config, error) {
	c := Default()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		c.applyDefaults()
	}
	c.applyEnvOverrides()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.ServiceName == "" {
		c.App.ServiceName = "hubguard"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "15s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.CSRF.CookieName == "" {
		c.CSRF.CookieName = "csrf_token"
	}
	if c.CSRF.TTL == "" {
		c.CSRF.TTL = "24h"
	}
	if c.CSRF.EdgePrefixes == nil {
		c.CSRF.EdgePrefixes = []string{"/api/"}
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "lru"
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
	if c.Rate.Capacity == 0 {
		c.Rate.Capacity = 10000
	}
	if c.Rate.CleanupInterval == "" {
		c.Rate.CleanupInterval = "1m"
	}
	if c.Rate.Submit.Limit == 0 {
		c.Rate.Submit.Limit = 5
	}
	if c.Rate.Submit.Window == "" {
		c.Rate.Submit.Window = "1m"
	}
	if c.Rate.Username.Limit == 0 {
		c.Rate.Username.Limit = 10
	}
	if c.Rate.Username.Window == "" {
		c.Rate.Username.Window = "1m"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "hubguard:rl:"
	}
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP / LOG
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = v
	}
	if v, ok := getEnvInt("SERVER_MAX_BODY_BYTES"); ok {
		c.Server.MaxBodyBytes = int64(v)
	}

	// CSRF
	if v, ok := getEnvStr("CSRF_COOKIE_NAME"); ok {
		c.CSRF.CookieName = v
	}
	if v, ok := getEnvStr("CSRF_TTL"); ok {
		c.CSRF.TTL = v
	}
	if v, ok := getEnvCSV("CSRF_EDGE_PREFIXES"); ok {
		c.CSRF.EdgePrefixes = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvStr("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}
	if v, ok := getEnvInt("RATE_MAX_REQUESTS"); ok {
		c.Rate.MaxRequests = v
	}
	if v, ok := getEnvInt("RATE_CAPACITY"); ok {
		c.Rate.Capacity = v
	}
	if v, ok := getEnvBool("RATE_FAIL_CLOSED"); ok {
		c.Rate.FailClosed = v
	}
	if v, ok := getEnvInt("RATE_SUBMIT_LIMIT"); ok {
		c.Rate.Submit.Limit = v
	}
	if v, ok := getEnvStr("RATE_SUBMIT_WINDOW"); ok {
		c.Rate.Submit.Window = v
	}

	// REDIS
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Redis.Prefix = v
	}

	// METRICS
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}

// Dur parsea una duración del config; si es inválida devuelve def.
func Dur(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil && d > 0 {
		return d
	}
	return def
}

// Validate chequea valores críticos.
func (c *Config) Validate() error {
	var errs []error
	switch c.Rate.Backend {
	case "lru", "ttl":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, errors.New("rate.backend=redis requires redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("rate.backend %q not supported (lru|ttl|redis)", c.Rate.Backend))
	}
	for _, field := range []struct{ name, v string }{
		{"csrf.ttl", c.CSRF.TTL},
		{"rate.window", c.Rate.Window},
		{"rate.submit.window", c.Rate.Submit.Window},
		{"rate.username.window", c.Rate.Username.Window},
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	} {
		if d, err := time.ParseDuration(field.v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", field.name, field.v))
		}
	}
	for _, o := range c.Server.AllowedOrigins {
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("server.allowed_origins: invalid origin %q", o))
		}
	}
	return errors.Join(errs...)
}
