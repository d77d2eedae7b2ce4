package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	CORSOrigin     string
	RateLimitRPS   int
	RateLimitBurst int

	// KumoRFM external prediction service
	KumoAPIKey       string
	KumoBaseURL      string
	KumoTimeout      time.Duration
	KumoModelVersion string

	// Prediction catalogue
	EventCatalogPath string

	// Aggregation
	DemoMultiplier int

	// Alerts
	AlertMinInterval time.Duration
	AlertMaxInterval time.Duration

	// Redis (optional alert fan-out)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka (optional ingestion events)
	KafkaBrokers        []string
	IngestionKafkaTopic string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", getEnv("PORT", "8080")),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 8*1024*1024)),
		CORSOrigin:     getEnv("CORS_ALLOWED_ORIGIN", "*"),
		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		KumoAPIKey:       getEnv("KUMORFM_API_KEY", ""),
		KumoBaseURL:      getEnv("KUMORFM_BASE_URL", "https://api.kumo.ai"),
		KumoTimeout:      getDuration("KUMORFM_TIMEOUT", 10*time.Second),
		KumoModelVersion: getEnv("KUMORFM_MODEL_VERSION", "Kumo-RFM-2.1"),

		EventCatalogPath: getEnv("EVENT_CATALOG_PATH", ""),

		DemoMultiplier: getIntEnv("DEMO_MULTIPLIER", 1),

		AlertMinInterval: getDuration("ALERT_MIN_INTERVAL", 10*time.Second),
		AlertMaxInterval: getDuration("ALERT_MAX_INTERVAL", 60*time.Second),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:        getStringSliceEnv("KAFKA_BROKERS", nil),
		IngestionKafkaTopic: getEnv("INGESTION_KAFKA_TOPIC", "patient-ingestion"),
	}
}

// KumoConfigured reports whether credentials for the external prediction
// service are present. Without them every prediction takes the mock path.
func (c *Config) KumoConfigured() bool {
	return c.KumoAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
