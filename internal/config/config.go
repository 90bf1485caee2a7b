package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Notify    NotifyConfig
	Points    PointsConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Mode           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI                   string
	Database              string
	ConnectTimeoutSeconds int
}

// JWTConfig holds JWT-specific configuration.
// ExpiresIn is expressed in seconds.
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// RedisConfig holds Redis connection values, used by the redis notification backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NotifyConfig selects and tunes the notification channel
type NotifyConfig struct {
	Backend    string // "memory" or "redis"
	Channel    string
	SendBuffer int
}

// PointsConfig holds the weight-to-points conversion rate
type PointsConfig struct {
	PerKg float64
}

// AdminConfig describes the administrator account bootstrapped at startup.
// Bootstrap is skipped when Email is empty.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// RateLimitConfig limits unauthenticated auth endpoints per client IP
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// TokenTTL returns the JWT lifetime as a duration.
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpiresIn) * time.Second
}

// ConnectTimeout returns the Mongo connect timeout.
func (c MongoDBConfig) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from a .env file, an optional config.yaml in
// path (or path/config) and environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(path + "/config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Hosting platforms inject a bare PORT.
	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)
	if origins := GetEnvAsSlice("ALLOWED_ORIGINS", ",", nil); origins != nil {
		cfg.Server.AllowedOrigins = origins
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MongoDB.URI == "" {
		return errors.New("config: MONGODB_URI is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Points.PerKg <= 0 {
		return errors.New("config: POINTS_PERKG must be positive")
	}
	switch c.Notify.Backend {
	case "memory", "redis":
	default:
		return errors.New("config: NOTIFY_BACKEND must be memory or redis")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.Mode", "release")
	v.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("MongoDB.URI", "")
	v.SetDefault("MongoDB.Database", "plastira")
	v.SetDefault("MongoDB.ConnectTimeoutSeconds", 10)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 7*24*60*60) // 7 days
	v.SetDefault("Redis.Addr", "127.0.0.1:6379")
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Notify.Backend", "memory")
	v.SetDefault("Notify.Channel", "plastira:notifications")
	v.SetDefault("Notify.SendBuffer", 16)
	v.SetDefault("Points.PerKg", 10)
	v.SetDefault("Admin.Name", "Administrator")
	v.SetDefault("Admin.Email", "")
	v.SetDefault("Admin.Password", "")
	v.SetDefault("RateLimit.RPS", 1)
	v.SetDefault("RateLimit.Burst", 5)
	v.SetDefault("LogLevel", "info")
}
