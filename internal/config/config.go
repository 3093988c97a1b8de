package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	BaseURL       string // external base URL, used to build password-reset links
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign session tokens
	SessionTTLMin int    // session cookie time-to-live in minutes
	ResetTTLMin   int    // password-reset token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	UploadDir     string // directory where resized store photos are written
}

// Load reads configuration values from environment variables and returns a
// Config. A .env file in the working directory is loaded first on a
// best-effort basis; explicitly exported variables win over file values.
// Required variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absence of .env is normal outside dev

	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		BaseURL:       getenv("APP_BASE_URL", "http://localhost:"+os.Getenv("APP_PORT")),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		SessionTTLMin: envInt("SESSION_TTL_MIN", 60*24),
		ResetTTLMin:   envInt("RESET_TOKEN_TTL_MIN", 60),
		BcryptCost:    envInt("BCRYPT_COST", 12),
		UploadDir:     getenv("UPLOAD_DIR", "public/uploads"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envInt reads an integer environment variable, falling back to def when it
// is unset. A malformed value is fatal rather than silently defaulted.
func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
