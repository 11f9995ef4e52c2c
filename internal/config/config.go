package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDynamo   = "dynamo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Delivery failure policies accepted by DELIVERY_FAILURE_POLICY.
const (
	DeliveryFailureKeep   = "keep"
	DeliveryFailureRevoke = "revoke"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	StoreDriver string
	DatabaseURL string

	OTPTTL                time.Duration
	OTPHashKey            string
	DeliveryFailurePolicy string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SendWindow    time.Duration
	SendMax       int

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	SNSRegion      string
	SMSSenderID    string

	AllowedOrigins []string // CORS allowed origins
	RateLimitRPS   float64
	RateLimitBurst int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Verifications string
	Users         string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:               getEnv("APP_PORT", "3000"),
		AppEnv:                getEnv("APP_ENV", "production"),
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", StoreDynamo)),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		OTPTTL:                time.Duration(getEnvInt("OTP_TTL_SECONDS", 300)) * time.Second,
		OTPHashKey:            getEnv("OTP_HASH_KEY", ""),
		DeliveryFailurePolicy: strings.ToLower(getEnv("DELIVERY_FAILURE_POLICY", DeliveryFailureKeep)),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		SendWindow:            time.Duration(getEnvInt("OTP_SEND_WINDOW_SECONDS", 60)) * time.Second,
		SendMax:               getEnvInt("OTP_SEND_MAX", 3),
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:        getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:          getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verification_codes"),
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
		},
		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		SMSSenderID:    getEnv("SMS_SENDER_ID", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

// IsDevelopment reports whether the delivery bypass is enabled.
// Only the literal "development" turns it on.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// RevokeOnDeliveryFailure reports whether a code must be withdrawn when SMS delivery fails.
func (c *Config) RevokeOnDeliveryFailure() bool {
	return c.DeliveryFailurePolicy == DeliveryFailureRevoke
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
