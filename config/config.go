package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string
	AutoMigrate bool

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Language model configuration
	LLMProvider      string
	LLMAPIKey        string
	LLMModel         string
	LLMBaseURL       string
	LLMTimeout       time.Duration
	LLMMaxToolRounds int
	LLMMaxTokens     int

	// Image search and storage
	PexelsAPIKey   string
	ImageSearchRPS float64
	S3BucketName   string
	AWSRegion      string

	// AI endpoint rate limiting and caching
	AIRateLimit       int
	AIRateWindow      time.Duration
	NutritionCacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// secretKeys maps Docker secret file names to the settings they override.
var secretKeys = map[string]string{
	"db_user":        "DB_USER",
	"db_password":    "DB_PASSWORD",
	"redis_password": "REDIS_PASSWORD",
	"redis_url":      "REDIS_URL",
	"llm_api_key":    "LLM_API_KEY",
	"pexels_api_key": "PEXELS_API_KEY",
}

// LoadConfig reads configuration from the environment, an optional .env file
// and Docker secrets, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// Production never reads a .env file
	if env != Production {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for name, key := range secretKeys {
		if value := readSecret(name); value != "" {
			v.Set(key, value)
		}
	}

	cfg := fromViper(v)
	cfg.Environment = env

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "recipes")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "recipes.db")
	v.SetDefault("AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LLM_PROVIDER", "groq")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("LLM_MAX_TOOL_ROUNDS", 6)
	v.SetDefault("LLM_MAX_TOKENS", 2000)

	v.SetDefault("IMAGE_SEARCH_RPS", 1.0)
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "us-east-1")

	v.SetDefault("AI_RATE_LIMIT", 10)
	v.SetDefault("AI_RATE_WINDOW", "1m")
	v.SetDefault("NUTRITION_CACHE_TTL", "24h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:  v.GetString("SERVER_PORT"),
		ServerHost:  v.GetString("SERVER_HOST"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSL_MODE"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),

		RedisURL:      v.GetString("REDIS_URL"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		LLMProvider:      strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMAPIKey:        v.GetString("LLM_API_KEY"),
		LLMModel:         v.GetString("LLM_MODEL"),
		LLMBaseURL:       v.GetString("LLM_BASE_URL"),
		LLMTimeout:       v.GetDuration("LLM_TIMEOUT"),
		LLMMaxToolRounds: v.GetInt("LLM_MAX_TOOL_ROUNDS"),
		LLMMaxTokens:     v.GetInt("LLM_MAX_TOKENS"),

		PexelsAPIKey:   v.GetString("PEXELS_API_KEY"),
		ImageSearchRPS: v.GetFloat64("IMAGE_SEARCH_RPS"),
		S3BucketName:   v.GetString("S3_BUCKET_NAME"),
		AWSRegion:      v.GetString("AWS_REGION"),

		AIRateLimit:       v.GetInt("AI_RATE_LIMIT"),
		AIRateWindow:      v.GetDuration("AI_RATE_WINDOW"),
		NutritionCacheTTL: v.GetDuration("NUTRITION_CACHE_TTL"),

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
