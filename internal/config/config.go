package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Backend  BackendConfig  `yaml:"backend"`
	Console  ConsoleConfig  `yaml:"console"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	// Service tags every record so console logs can be told apart from the backend's.
	Service    string `yaml:"service"`
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// BackendConfig points at the awards REST backend that owns members and awards.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ConsoleConfig struct {
	LoginURL          string `yaml:"login_url"`
	Timezone          string `yaml:"timezone"`
	SessionSecret     string `yaml:"session_secret"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
	SecureCookies     bool   `yaml:"secure_cookies"`
}

type SecurityConfig struct {
	// CSRFKey is 32 bytes, hex encoded.
	CSRFKey        string   `yaml:"csrf_key"`
	// TrustedOrigins are extra hosts allowed to post forms, given as
	// host[:port] without a scheme (e.g. "admin.example.com:8443").
	TrustedOrigins []string `yaml:"trusted_origins"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 9872},
		Log:     LogConfig{Service: "awards-console", Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Backend: BackendConfig{BaseURL: "http://localhost:8080", TimeoutSeconds: 15},
		Console: ConsoleConfig{LoginURL: "/login.html", Timezone: "Local", SessionTTLMinutes: 720},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func Load(configFile string) (*Config, error) {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/awards-console/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if configFile != "" {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		break
	}

	envOverride(&c.Backend.BaseURL, "BACKEND_URL")
	envOverride(&c.Console.LoginURL, "LOGIN_URL")
	envOverride(&c.Console.Timezone, "CONSOLE_TZ")
	envOverride(&c.Console.SessionSecret, "SESSION_SECRET")
	envOverride(&c.Security.CSRFKey, "CSRF_KEY")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Backend.TimeoutSeconds, "BACKEND_TIMEOUT")
	envOverrideInt(&c.Console.SessionTTLMinutes, "SESSION_TTL")
	envOverrideBool(&c.Console.SecureCookies, "SECURE_COOKIES")
	envOverrideBool(&c.Metrics.Enabled, "METRICS_ENABLED")
	envOverrideList(&c.Server.AllowOrigins, "ALLOW_ORIGINS")
	envOverrideList(&c.Security.TrustedOrigins, "TRUSTED_ORIGINS")

	c.Backend.BaseURL = strings.TrimSuffix(c.Backend.BaseURL, "/")
	for i, o := range c.Security.TrustedOrigins {
		c.Security.TrustedOrigins[i] = hostOnly(o)
	}
	return c, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	if c.Console.SessionTTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Console.SessionTTLMinutes) * time.Minute
}

// Location resolves console.timezone; the starting week is computed in it.
func (c *Config) Location() (*time.Location, error) {
	switch c.Console.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Console.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Console.Timezone, err)
	}
	return loc, nil
}

// CSRFKeyBytes decodes security.csrf_key. An empty key returns nil, nil.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.Security.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Security.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("security.csrf_key must be 64 hex characters")
	}
	return key, nil
}

// hostOnly reduces "https://host:port/" to "host:port", the form the CSRF
// origin check compares against.
func hostOnly(origin string) string {
	if _, rest, ok := strings.Cut(origin, "://"); ok {
		origin = rest
	}
	return strings.TrimSuffix(origin, "/")
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envOverrideList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*dst = out
}
