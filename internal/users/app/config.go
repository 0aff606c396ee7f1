package app

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port      int    // HTTP server port (default: 8080)
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	LogFile   string // Optional: file receiving a JSON copy of every log record

	StoreDriver   string // Optional: mongo or sqlite (default: mongo)
	MongoURI      string // Optional: MongoDB connection string (default: mongodb://localhost:27017)
	MongoDatabase string // Optional: MongoDB database name (default: userapi)
	DatabaseFile  string // Optional: SQLite database file (default: users.db)

	SecretKey   string        // Optional: HS256 signing secret, generated when empty
	TokenIssuer string        // Optional: issuer claim for tokens (default: userapi)
	TokenTTL    time.Duration // Optional: identity token lifetime (default: 1h)
	PepperFile  string        // Optional: path to file containing pepper for password hashing

	RedisURL string // Optional: enables the shared Redis token denylist

	AdminUsername string // Optional: admin account created at startup
	AdminPassword string // Optional: password for AdminUsername

	EnableTestRoutes     bool          // Exposes GET /api/usersTest (default: false)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 10m)
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the environment win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		Port:      getEnvIntOrDefault("PORT", 8080),
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		LogFile:   os.Getenv("LOG_FILE"),

		StoreDriver:   strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverMongo)),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "userapi"),
		DatabaseFile:  getEnvOrDefault("DATABASE_FILE", "users.db"),

		SecretKey:   os.Getenv("SECRET_KEY"),
		TokenIssuer: getEnvOrDefault("TOKEN_ISSUER", "userapi"),
		TokenTTL:    getEnvDurationOrDefault("TOKEN_TTL", time.Hour),
		PepperFile:  os.Getenv("PEPPER_FILE"), // Empty disables the pepper

		RedisURL: os.Getenv("REDIS_URL"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		EnableTestRoutes:     getEnvBoolOrDefault("ENABLE_TEST_ROUTES", false),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 10*time.Minute),
	}

	switch cfg.StoreDriver {
	case DriverMongo, DriverSQLite:
	default:
		return Config{}, errors.New("STORE_DRIVER must be one of mongo, sqlite")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
