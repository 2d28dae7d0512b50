// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port           string
	Environment    string
	OperatorSecret string

	// Record store
	StoreBackend string // "dynamodb" or "memory"

	// External Services
	GuestServiceGRPCAddr string

	// AWS / DynamoDB
	AWSRegion             string
	DynamoDBEventsTable   string
	DynamoDBSessionsTable string
	DynamoDBEndpoint      string // Local DynamoDB
	KinesisStreamName     string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Live-video platform (Mux)
	MuxBaseURL     string
	MuxTokenID     string
	MuxTokenSecret string

	// URL templates parameterized by playback id / stream key
	PlaybackURLTemplate string
	RTMPURLTemplate     string

	// Timeouts
	StoreTimeout   time.Duration // soft-failure internal store calls
	RequestTimeout time.Duration // user-initiated toggle/start/end
}

func Load() *Config {
	return &Config{
		// Server
		Port:           getEnv("PORT", "8084"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		OperatorSecret: getEnv("OPERATOR_SECRET", "operator-secret-dev"),

		// Record store
		StoreBackend: getEnv("STORE_BACKEND", "dynamodb"),

		// External Services
		GuestServiceGRPCAddr: getEnv("GUEST_SERVICE_GRPC_ADDR", "guest-service:8082"),

		// AWS / DynamoDB
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		DynamoDBEventsTable:   getEnv("DYNAMODB_EVENTS_TABLE", "events"),
		DynamoDBSessionsTable: getEnv("DYNAMODB_SESSIONS_TABLE", "stream_sessions"),
		DynamoDBEndpoint:      getEnv("DYNAMODB_ENDPOINT", ""),
		KinesisStreamName:     getEnv("KINESIS_STREAM_NAME", ""),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Mux
		MuxBaseURL:     getEnv("MUX_BASE_URL", "https://api.mux.com"),
		MuxTokenID:     getEnv("MUX_TOKEN_ID", ""),
		MuxTokenSecret: getEnv("MUX_TOKEN_SECRET", ""),

		// URL templates
		PlaybackURLTemplate: getEnv("PLAYBACK_URL_TEMPLATE", "https://stream.mux.com/%s.m3u8"),
		RTMPURLTemplate:     getEnv("RTMP_URL_TEMPLATE", "rtmp://global-live.mux.com:5222/app/%s"),

		// Timeouts
		StoreTimeout:   getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
