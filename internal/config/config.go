package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	JWT        JWTConfig
	RateLimit  RateLimitConfig
	ArtStudio  ArtStudioConfig
	Printhouse PrinthouseConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	StartPerHour int
	StatusPerMin int
}

// ArtStudioConfig holds credentials for the image generation service.
type ArtStudioConfig struct {
	APIKey  string
	BaseURL string
	Timeout int // seconds
}

// PrinthouseConfig holds credentials for the print-on-demand service.
type PrinthouseConfig struct {
	APIKey  string
	BaseURL string
	ShopID  string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("ARTSTUDIO_API_KEY")
	readSecret("PRINTHOUSE_API_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("ratelimit.start_per_hour", "RATELIMIT_START_PER_HOUR")
	_ = viper.BindEnv("ratelimit.status_per_min", "RATELIMIT_STATUS_PER_MIN")
	_ = viper.BindEnv("artstudio.api_key", "ARTSTUDIO_API_KEY")
	_ = viper.BindEnv("artstudio.base_url", "ARTSTUDIO_BASE_URL")
	_ = viper.BindEnv("artstudio.timeout", "ARTSTUDIO_TIMEOUT")
	_ = viper.BindEnv("printhouse.api_key", "PRINTHOUSE_API_KEY")
	_ = viper.BindEnv("printhouse.base_url", "PRINTHOUSE_BASE_URL")
	_ = viper.BindEnv("printhouse.shop_id", "PRINTHOUSE_SHOP_ID")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.start_per_hour", 10)
	viper.SetDefault("ratelimit.status_per_min", 120)

	// ArtStudio defaults
	viper.SetDefault("artstudio.base_url", "https://artstudio.cratescan.com")
	viper.SetDefault("artstudio.timeout", 120)

	// Printhouse defaults
	viper.SetDefault("printhouse.base_url", "https://api.printhouse.io")

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			StartPerHour: viper.GetInt("ratelimit.start_per_hour"),
			StatusPerMin: viper.GetInt("ratelimit.status_per_min"),
		},
		ArtStudio: ArtStudioConfig{
			APIKey:  viper.GetString("artstudio.api_key"),
			BaseURL: viper.GetString("artstudio.base_url"),
			Timeout: viper.GetInt("artstudio.timeout"),
		},
		Printhouse: PrinthouseConfig{
			APIKey:  viper.GetString("printhouse.api_key"),
			BaseURL: viper.GetString("printhouse.base_url"),
			ShopID:  viper.GetString("printhouse.shop_id"),
		},
	}

	return cfg, nil
}
