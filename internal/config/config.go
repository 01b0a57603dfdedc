package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// Backend (dashboard) API
	APIBaseURL         string
	APIPathPrefix      string
	RequestTimeoutSec  int
	ResourceTimeoutSec int
	// Catalog provider (optional - dashboard catalog is used when no token is set)
	CatalogProviderURL     string
	CatalogProviderVersion string
	CatalogProviderToken   string
	// Device registration
	DevicePlatform string
	DeviceName     string
	// Local persistence (key-value table). Empty path keeps state in memory.
	SQLitePath string
	// Redis Configuration (optional - catalog cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      int  // Cache TTL in seconds
	UseCache      bool // Whether to use Redis or the in-memory cache
	// Kafka Configuration (optional - push arrival triggers)
	KafkaBrokers       []string
	KafkaTopicPush     string
	KafkaTopicReceipts string
	KafkaGroupID       string
	UseKafka           bool
	MaxRetries         int
	RetryDelayMs       int
	// Scheduling
	PollIntervalSec int
}

func Load() *Config {
	// .env file is optional, continue with environment variables
	_ = godotenv.Load()

	// Parse Kafka brokers (comma-separated)
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9093")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8085"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// Backend API
		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", "https://dashboard.3strands.co"), "/"),
		APIPathPrefix:      getEnv("API_PATH_PREFIX", "/api/public"),
		RequestTimeoutSec:  getEnvAsInt("REQUEST_TIMEOUT_SEC", 15),
		ResourceTimeoutSec: getEnvAsInt("RESOURCE_TIMEOUT_SEC", 30),
		// Catalog provider
		CatalogProviderURL:     strings.TrimRight(getEnv("CATALOG_PROVIDER_URL", "https://connect.squareup.com/v2"), "/"),
		CatalogProviderVersion: getEnv("CATALOG_PROVIDER_VERSION", "2024-01-18"),
		CatalogProviderToken:   getEnv("CATALOG_PROVIDER_TOKEN", ""),
		// Device registration
		DevicePlatform: getEnv("DEVICE_PLATFORM", "ios"),
		DeviceName:     getEnv("DEVICE_NAME", hostname()),
		// Local persistence
		SQLitePath: getEnv("SQLITE_PATH", "./storefront.db"),
		// Redis Configuration (optional)
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsInt("CACHE_TTL", 300),    // 5 minutes default
		UseCache:      getEnvAsBool("USE_CACHE", false), // Redis is optional, default false
		// Kafka Configuration (optional)
		KafkaBrokers:       kafkaBrokers,
		KafkaTopicPush:     getEnv("KAFKA_TOPIC_PUSH", "storefront.push"),
		KafkaTopicReceipts: getEnv("KAFKA_TOPIC_RECEIPTS", "storefront.push.receipts"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "storefront-sync"),
		UseKafka:           getEnvAsBool("USE_KAFKA", false),
		MaxRetries:         getEnvAsInt("MAX_RETRIES", 3),
		RetryDelayMs:       getEnvAsInt("RETRY_DELAY_MS", 1000),
		// Scheduling
		PollIntervalSec: getEnvAsInt("POLL_INTERVAL_SEC", 300),
	}
}

// BackendURL joins the base URL, path prefix and a resource path.
func (c *Config) BackendURL(path string) string {
	return c.APIBaseURL + c.APIPathPrefix + path
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "storefront-device"
	}
	return name
}
