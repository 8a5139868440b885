package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	URL      string
	Password string
}

// IsConfigured returns true if all required Redis configuration is present
func (c RedisConfig) IsConfigured() bool {
	return c.URL != ""
}

type StorageConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// IsConfigured returns true if all required storage configuration is present
func (c StorageConfig) IsConfigured() bool {
	return c.AccessKeyID != "" &&
		c.SecretAccessKey != "" &&
		c.Bucket != "" &&
		c.PublicBaseURL != ""
	// Note: Endpoint is optional, AWS-hosted buckets derive it from the region
}

type SchedulerConfig struct {
	Token          string
	DestinationURL string
	CallbackToken  string
}

// IsConfigured returns true if all required scheduler configuration is present
func (c SchedulerConfig) IsConfigured() bool {
	return c.Token != "" &&
		c.DestinationURL != "" &&
		c.CallbackToken != ""
}

type AnthropicConfig struct {
	APIKey string
}

// IsConfigured returns true if all required Anthropic configuration is present
func (c AnthropicConfig) IsConfigured() bool {
	return c.APIKey != ""
}

type ResendConfig struct {
	APIKey      string
	FromAddress string
}

// IsConfigured returns true if all required Resend configuration is present
func (c ResendConfig) IsConfigured() bool {
	return c.APIKey != "" && c.FromAddress != ""
}

type ClerkConfig struct {
	SecretKey string
}

// IsConfigured returns true if all required Clerk configuration is present
func (c ClerkConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL          string
	DatabaseSchema       string
	TokenEncryptionKey   string // base64-encoded 32-byte key
	Port                 string // Optional with default "8080"
	CORSAllowedOrigins   string // Optional with default "*"
	Environment          string
	ServerLogsURL        string
	SlackAlertWebhookURL string
	UseStrictConfig      bool   // If true, error when any integration is not fully configured

	// Integration configurations (grouped)
	RedisConfig     RedisConfig
	StorageConfig   StorageConfig
	SchedulerConfig SchedulerConfig
	AnthropicConfig AnthropicConfig
	ResendConfig    ResendConfig
	ClerkConfig     ClerkConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	tokenEncryptionKey, err := getEnvRequired("TOKEN_ENCRYPTION_KEY")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:          databaseURL,
		DatabaseSchema:       databaseSchema,
		TokenEncryptionKey:   tokenEncryptionKey,
		Port:                 getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins:   getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:          getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:        getEnvWithDefault("SERVER_LOGS_URL", ""),
		SlackAlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		UseStrictConfig:      getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		// Redis configuration (required for webhook logs)
		RedisConfig: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},

		// Object storage configuration
		StorageConfig: StorageConfig{
			Region:          getEnvWithDefault("STORAGE_REGION", "auto"),
			Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("STORAGE_BUCKET"),
			PublicBaseURL:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		},

		// External scheduler configuration
		SchedulerConfig: SchedulerConfig{
			Token:          os.Getenv("QSTASH_TOKEN"),
			DestinationURL: os.Getenv("QSTASH_DESTINATION_URL"),
			CallbackToken:  os.Getenv("QSTASH_CALLBACK_TOKEN"),
		},

		// Anthropic configuration
		AnthropicConfig: AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		},

		// Resend configuration (optional)
		ResendConfig: ResendConfig{
			APIKey:      os.Getenv("RESEND_API_KEY"),
			FromAddress: os.Getenv("RESEND_FROM_ADDRESS"),
		},

		// Clerk configuration (optional)
		ClerkConfig: ClerkConfig{
			SecretKey: os.Getenv("CLERK_SECRET_KEY"),
		},
	}

	// Log which integrations are configured
	if config.RedisConfig.IsConfigured() {
		log.Printf("✅ Redis configured")
	} else {
		log.Printf("⚠️ Redis not configured - webhook logs will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("redis is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.StorageConfig.IsConfigured() {
		log.Printf("✅ Object storage configured")
	} else {
		log.Printf("⚠️ Object storage not configured - uploads will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("object storage is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.SchedulerConfig.IsConfigured() {
		log.Printf("✅ Scheduler configured")
	} else {
		log.Printf("⚠️ Scheduler not configured - cron triggers will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("scheduler is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.AnthropicConfig.IsConfigured() {
		log.Printf("✅ Anthropic configured")
	} else {
		log.Printf("⚠️ Anthropic not configured - content generation will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("anthropic is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.ResendConfig.IsConfigured() {
		log.Printf("✅ Resend configured")
	} else {
		log.Printf("⚠️ Resend not configured - email notifications will be disabled")
	}

	if config.ClerkConfig.IsConfigured() {
		log.Printf("✅ Clerk authentication configured")
	} else {
		log.Printf("⚠️ Clerk authentication not configured - dashboard authentication will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("clerk authentication is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
