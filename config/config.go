package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and passed down by value; nothing in the
// process mutates it afterwards.
type Config struct {
	ServerPort int
	Auth       AuthConfig
	Admin      AdminConfig
	Database   DatabaseConfig
	RabbitMQ   RabbitMQConfig
	PubSub     PubSubConfig
}

type AuthConfig struct {
	// Secret signs every issued token. Rotating it invalidates all
	// outstanding tokens.
	Secret   string
	TokenTTL time.Duration
	// HashCost is the bcrypt cost factor for new password hashes.
	HashCost int
	// MaxConcurrentHashes bounds in-flight bcrypt work per process.
	MaxConcurrentHashes int
}

type AdminConfig struct {
	Username string
	Password string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Auth: AuthConfig{
			Secret:              getEnv("TOKEN_KEY", ""),
			TokenTTL:            getEnvDuration("TOKEN_TTL", 15*time.Minute),
			HashCost:            getEnvInt("HASH_COST", 12),
			MaxConcurrentHashes: getEnvInt("HASH_MAX_CONCURRENT", 8),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USER", "admin"),
			Password: getEnv("ADMIN_PASS", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postboard"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "postboard_db"),
			UseSSL:   getEnvBool("DB_USE_SSL", false),
		},
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTODELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 0),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "1" || valueStr == "true" || valueStr == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
