package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port            int      `mapstructure:"port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	FrontendBaseURL string   `mapstructure:"frontend_base_url"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// GenAIConfig contains settings for the text-generation provider.
// APIKey is required: generation requests must never reach the network
// without a configured credential.
type GenAIConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
}

// AuthConfig contains JWT signing material and token lifetimes.
type AuthConfig struct {
	PrivateKeyPath  string        `mapstructure:"private_key_path"`
	PublicKeyPath   string        `mapstructure:"public_key_path"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// SecurityConfig contains abuse-control knobs.
type SecurityConfig struct {
	CookieDomain          string        `mapstructure:"cookie_domain"`
	ClamdAddr             string        `mapstructure:"clamd_addr"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
	MaxResumeUploadBytes  int64         `mapstructure:"max_resume_upload_bytes"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns the host:port pair for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.frontend_base_url", "http://localhost:3000")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "folioforge")
	v.SetDefault("database.user", "folioforge")
	v.SetDefault("database.password", "folioforge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "portfolios")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("genai.provider", "gemini")
	v.SetDefault("genai.model", "gemini-2.0-flash")
	v.SetDefault("auth.private_key_path", "keys/jwt_private.pem")
	v.SetDefault("auth.public_key_path", "keys/jwt_public.pem")
	v.SetDefault("auth.access_token_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_token_ttl", 720*time.Hour)
	v.SetDefault("security.login_rate_limit_per_hour", 10)
	v.SetDefault("security.login_lock_threshold", 5)
	v.SetDefault("security.login_lock_ttl", 15*time.Minute)
	v.SetDefault("security.max_resume_upload_bytes", 10*1024*1024)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                          "API_PORT",
		"api.allowed_origins":               "API_ALLOWED_ORIGINS",
		"api.frontend_base_url":             "FRONTEND_BASE_URL",
		"database.host":                     "DATABASE_HOST",
		"database.port":                     "DATABASE_PORT",
		"database.name":                     "POSTGRES_DB",
		"database.user":                     "POSTGRES_USER",
		"database.password":                 "POSTGRES_PASSWORD",
		"database.sslmode":                  "DATABASE_SSLMODE",
		"redis.host":                        "REDIS_HOST",
		"redis.port":                        "REDIS_PORT",
		"minio.endpoint":                    "MINIO_ENDPOINT",
		"minio.public_endpoint":             "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":               "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":           "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                     "MINIO_USE_SSL",
		"minio.bucket":                      "MINIO_BUCKET",
		"minio.auto_create_bucket":          "MINIO_AUTO_CREATE_BUCKET",
		"genai.provider":                    "GENAI_PROVIDER",
		"genai.api_key":                     "GENAI_API_KEY",
		"genai.model":                       "GENAI_MODEL",
		"genai.base_url":                    "GENAI_BASE_URL",
		"auth.private_key_path":             "JWT_PRIVATE_KEY_PATH",
		"auth.public_key_path":              "JWT_PUBLIC_KEY_PATH",
		"auth.access_token_ttl":             "ACCESS_TOKEN_TTL",
		"auth.refresh_token_ttl":            "REFRESH_TOKEN_TTL",
		"security.cookie_domain":             "COOKIE_DOMAIN",
		"security.clamd_addr":                "CLAMD_ADDR",
		"security.login_rate_limit_per_hour": "LOGIN_RATE_LIMIT_PER_HOUR",
		"security.login_lock_threshold":      "LOGIN_LOCK_THRESHOLD",
		"security.login_lock_ttl":            "LOGIN_LOCK_TTL",
		"security.max_resume_upload_bytes":   "MAX_RESUME_UPLOAD_BYTES",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.GenAI.Provider == "" {
		return errors.New("genai provider is required")
	}
	if cfg.GenAI.APIKey == "" {
		return errors.New("genai api key is required")
	}
	if cfg.GenAI.Model == "" {
		return errors.New("genai model is required")
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		return errors.New("access token ttl must be positive")
	}
	if cfg.Auth.RefreshTokenTTL <= 0 {
		return errors.New("refresh token ttl must be positive")
	}
	return nil
}
