package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	ServerPort string

	// Session tokens are issued by the identity provider and signed with this secret.
	AuthJWTSecret   string
	AuthJWTAudience string

	RedisURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	RateLimitPerMinute int
	RateLimitBurst     int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "require"
	}

	audience := os.Getenv("AUTH_JWT_AUDIENCE")
	if audience == "" {
		audience = "authenticated"
	}

	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MINUTE"))
	if err != nil || rateLimit <= 0 {
		rateLimit = 30
	}

	rateBurst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || rateBurst <= 0 {
		rateBurst = 10
	}

	autoMigrate := true
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			autoMigrate = parsed
		}
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBSSLMode:   sslMode,
		AutoMigrate: autoMigrate,

		ServerPort: serverPort,

		AuthJWTSecret:   os.Getenv("AUTH_JWT_SECRET"),
		AuthJWTAudience: audience,

		RedisURL: os.Getenv("REDIS_URL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		RateLimitPerMinute: rateLimit,
		RateLimitBurst:     rateBurst,
	}

	if cfg.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string. DATABASE_URL wins over the
// discrete DB_* variables when both are set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// MediaEnabled reports whether object storage credentials are complete.
func (c *Config) MediaEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}
