package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	BCryptCost          int           `mapstructure:"bcrypt_cost"`
	CookieHashKey       string        `mapstructure:"cookie_hash_key"`
	CookieBlockKey      string        `mapstructure:"cookie_block_key"`
	CookieSecure        bool          `mapstructure:"cookie_secure"`
	RevocationCacheSize int           `mapstructure:"revocation_cache_size"`
}

// AuthConfig selects which credential source is authoritative for login.
type AuthConfig struct {
	Mode string `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig is used by the CLI commands that talk to a running server.
type ClientConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

const (
	AuthModeBackend = "backend"
	AuthModeMock    = "mock"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ----------------- DEFAULTS -----------------

// ApplyDefaults fills zero values so a sparse config file still boots.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 8 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Security.RevocationCacheSize == 0 {
		c.Security.RevocationCacheSize = 4096
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = AuthModeBackend
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = fmt.Sprintf("http://localhost:%d/api/v1", c.Server.Port)
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 10 * time.Second
	}
}

// LoadConfigFromEnv builds the configuration for container deployments.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 8080),
			BaseURL:        getEnv("BASE_URL", ""),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", DriverPostgres),
			Source:       getEnv("DATABASE_URL", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			BCryptCost:     getEnvAsInt("BCRYPT_COST", 10),
			CookieHashKey:  getEnv("COOKIE_HASH_KEY", ""),
			CookieBlockKey: getEnv("COOKIE_BLOCK_KEY", ""),
			CookieSecure:   getEnv("COOKIE_SECURE", "true") == "true",
		},
		Auth: AuthConfig{
			Mode: getEnv("AUTH_MODE", AuthModeBackend),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("auth config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed_origins value.
func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.Driver != DriverPostgres && c.Driver != DriverSQLite {
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	if len(c.CookieHashKey) < 32 {
		return errors.New("cookie_hash_key must be at least 32 characters")
	}
	switch len(c.CookieBlockKey) {
	case 0, 16, 24, 32:
	default:
		return errors.New("cookie_block_key must be empty or 16, 24 or 32 characters")
	}
	return nil
}

func (c *AuthConfig) Validate() error {
	if c.Mode != AuthModeBackend && c.Mode != AuthModeMock {
		return fmt.Errorf("mode must be %q or %q", AuthModeBackend, AuthModeMock)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}
