package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	"STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE", "DATABASE_FILE",
	"SECRET_KEY", "TOKEN_ISSUER", "TOKEN_TTL", "PEPPER_FILE", "REDIS_URL",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "ENABLE_TEST_ROUTES",
	"SHUTDOWN_GRACE_PERIOD", "HOUSEKEEPING_INTERVAL",
}

// clearConfigEnv blanks every variable LoadConfig reads for the duration of
// the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, DriverMongo, cfg.StoreDriver)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	require.Equal(t, "userapi", cfg.MongoDatabase)
	require.Equal(t, "userapi", cfg.TokenIssuer)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 10*time.Minute, cfg.HousekeepingInterval)
	require.Empty(t, cfg.SecretKey)
	require.Empty(t, cfg.PepperFile)
	require.Empty(t, cfg.RedisURL)
	require.False(t, cfg.EnableTestRoutes)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DATABASE_FILE", "/data/users.db")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "5")
	t.Setenv("ENABLE_TEST_ROUTES", "true")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "Passw0rd!")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.Equal(t, "/data/users.db", cfg.DatabaseFile)
	require.Equal(t, "s3cret", cfg.SecretKey)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, 5*time.Second, cfg.ShutdownGracePeriod)
	require.True(t, cfg.EnableTestRoutes)
	require.Equal(t, "root", cfg.AdminUsername)
	require.Equal(t, "Passw0rd!", cfg.AdminPassword)
}

func TestLoadConfigBadValuesFallBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("TOKEN_TTL", "soon")
	t.Setenv("ENABLE_TEST_ROUTES", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.False(t, cfg.EnableTestRoutes)
}

func TestLoadConfigUnknownDriver(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearConfigEnv(t)
	// godotenv only fills variables that are unset, not empty.
	require.NoError(t, os.Unsetenv("TOKEN_ISSUER"))
	t.Setenv("MONGO_DATABASE", "from-env")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TOKEN_ISSUER=from-dotenv\nMONGO_DATABASE=ignored\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("TOKEN_ISSUER") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.TokenIssuer)
	require.Equal(t, "from-env", cfg.MongoDatabase)
}
