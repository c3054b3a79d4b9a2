package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort  string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Access control
	JWTSecret      string
	AccessCodeHash string

	// Rate Limiting (public check-in endpoint)
	CheckInRateLimitMaxRequests   string
	CheckInRateLimitWindowSeconds string
	CheckInRateLimitBlockMinutes  string

	// MinIO Configuration (roster upload archive)
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Server
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "rollcall"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// OpenAI
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		// Access control
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		AccessCodeHash: getEnv("ACCESS_CODE_HASH", ""),

		// Rate Limiting
		CheckInRateLimitMaxRequests:   getEnv("CHECKIN_RATE_LIMIT_MAX_REQUESTS", "30"),
		CheckInRateLimitWindowSeconds: getEnv("CHECKIN_RATE_LIMIT_WINDOW_SECONDS", "60"),
		CheckInRateLimitBlockMinutes:  getEnv("CHECKIN_RATE_LIMIT_BLOCK_MINUTES", "15"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "rollcall-rosters"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// GetCheckInRateLimitMaxRequests returns the check-in rate limit max requests as integer
func (c *Config) GetCheckInRateLimitMaxRequests() int {
	if value, err := strconv.Atoi(c.CheckInRateLimitMaxRequests); err == nil {
		return value
	}
	return 30
}

// GetCheckInRateLimitWindowSeconds returns the check-in rate limit time window as integer
func (c *Config) GetCheckInRateLimitWindowSeconds() int {
	if value, err := strconv.Atoi(c.CheckInRateLimitWindowSeconds); err == nil {
		return value
	}
	return 60
}

// GetCheckInRateLimitBlockMinutes returns the check-in rate limit block duration as integer
func (c *Config) GetCheckInRateLimitBlockMinutes() int {
	if value, err := strconv.Atoi(c.CheckInRateLimitBlockMinutes); err == nil {
		return value
	}
	return 15
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
