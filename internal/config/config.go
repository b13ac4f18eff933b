// Package config loads server configuration from YAML and environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Health   HealthConfig   `yaml:"health"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Limiter  LimiterConfig  `yaml:"limiter"`
	Hosting  HostingConfig  `yaml:"hosting"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// Addr returns host:port of the HTTP listener.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// HealthConfig holds the gRPC health listener settings.
type HealthConfig struct {
	Addr         string        `yaml:"addr"          env:"HEALTH_ADDR"          env-default:":8081"`
	PollInterval time.Duration `yaml:"poll_interval" env:"HEALTH_POLL_INTERVAL" env-default:"5s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"       env:"DATABASE_DSN"       env-required:"true"`
	MaxConns int32  `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"25"`
	MinConns int32  `yaml:"min_conns" env:"DATABASE_MIN_CONNS" env-default:"2"`
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	ResetTokenTTL  time.Duration `yaml:"reset_token_ttl"  env:"AUTH_RESET_TOKEN_TTL"  env-default:"1h"`
	ResetURL       string        `yaml:"reset_url"        env:"AUTH_RESET_URL"        env-default:"studysync reset-password --token"`
}

// LimiterConfig holds sign-in lockout settings.
type LimiterConfig struct {
	Window   time.Duration `yaml:"window"    env:"LIMITER_WINDOW"    env-default:"15m"`
	MaxFails int           `yaml:"max_fails" env:"LIMITER_MAX_FAILS" env-default:"5"`
	BlockFor time.Duration `yaml:"block_for" env:"LIMITER_BLOCK_FOR" env-default:"15m"`
}

// HostingConfig holds file hosting API settings.
type HostingConfig struct {
	BaseURL      string        `yaml:"base_url"      env:"HOSTING_BASE_URL"      env-default:"https://api.cloudinary.com"`
	CloudName    string        `yaml:"cloud_name"    env:"HOSTING_CLOUD_NAME"`
	UploadPreset string        `yaml:"upload_preset" env:"HOSTING_UPLOAD_PRESET"`
	APIKey       string        `yaml:"api_key"       env:"HOSTING_API_KEY"`
	APISecret    string        `yaml:"api_secret"    env:"HOSTING_API_SECRET"`
	Timeout      time.Duration `yaml:"timeout"       env:"HOSTING_TIMEOUT"       env-default:"60s"`
}

// Signed reports whether uploads are signed with the API secret.
func (h HostingConfig) Signed() bool { return h.APIKey != "" && h.APISecret != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Authorization,Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// Origins splits the configured origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
