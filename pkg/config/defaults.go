// Package config provides centralized default values for the funnel engine
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func loadEnvFile() {
	if err := godotenv.Load(); err != nil {
		return
	}
	log.Println("Loaded configuration overrides from .env file")
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	PublicBaseURL      string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Funnel Configuration
	ChallengeTimeLimitSeconds int
	ResumeTextMaxChars        int
	MaxSessions               int
	SessionIdleTTL            time.Duration
	CounterCapacity           int

	// Cleanup and Dispatch Intervals
	CleanupInterval    time.Duration
	DispatchInterval   time.Duration
	SlowQueryThreshold time.Duration

	// Re-engagement Offsets
	ReengageFirstDelay  time.Duration
	ReengageSecondDelay time.Duration
	ReengageFinalDelay  time.Duration

	// Database Configuration
	DBDriver       string
	DBPath         string
	DBMaxOpenConns int
	DBMaxIdleConns int
	EmailDryRun    bool

	// Secrets
	JWTSecret         string
	AESKey            string
	SysOpPasswordHash string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	PublicBaseURL = getEnvString("PUBLIC_BASE_URL", "http://localhost:8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Funnel Configuration
	ChallengeTimeLimitSeconds = getEnvInt("CHALLENGE_TIME_LIMIT_SECONDS", 1800)
	ResumeTextMaxChars = getEnvInt("RESUME_TEXT_MAX_CHARS", 50000)
	MaxSessions = getEnvInt("MAX_SESSIONS", 5000)
	SessionIdleTTL = time.Duration(getEnvInt("SESSION_IDLE_TTL_MINUTES", 45)) * time.Minute
	CounterCapacity = getEnvInt("COUNTER_CAPACITY", 50)

	// Cleanup and Dispatch Intervals
	CleanupInterval = time.Duration(getEnvInt("SESSION_CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute
	DispatchInterval = time.Duration(getEnvInt("EMAIL_DISPATCH_INTERVAL_MINUTES", 1)) * time.Minute
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Re-engagement Offsets
	ReengageFirstDelay = getEnvDuration("REENGAGE_FIRST_DELAY", 2*time.Hour)
	ReengageSecondDelay = getEnvDuration("REENGAGE_SECOND_DELAY", 24*time.Hour)
	ReengageFinalDelay = getEnvDuration("REENGAGE_FINAL_DELAY", 7*24*time.Hour)

	// Database Configuration
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "funnel.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	EmailDryRun = getEnvBool("EMAIL_DRY_RUN", os.Getenv("RESEND_API_KEY") == "")

	// Secrets
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	SysOpPasswordHash = getEnvString("SYSOP_PASSWORD_HASH", "")
}
