package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	DBMigrate      bool     // apply embedded migrations on startup
	JWTSecret      string   // secret used to sign JWTs
	AccessTTLMin   int      // access token time‑to‑live in minutes
	RefreshTTLDays int      // refresh token time‑to‑live in days
	BcryptCost     int      // bcrypt cost for password hashing
	LogLevel       string   // debug, info, warn or error
	CORSOrigins    []string // origins allowed to call the API from a browser
	ConflictCheck  bool     // reject a second active booking of a property on the same date
	AMQPURL        string   // broker URL for booking events; empty disables publishing
}

// Load reads an optional .env file, then configuration values from
// environment variables.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMigrate:      envBool("DB_MIGRATE", true),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		LogLevel:       strings.ToLower(envStr("LOG_LEVEL", "info")),
		CORSOrigins:    splitList(envStr("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ConflictCheck:  envBool("BOOKING_CONFLICT_CHECK", true),
		AMQPURL:        AMQPURL(),
	}
}

// AMQPURL returns RABBITMQ_URL, falling back to AMQP_URL.  An empty result
// means event publishing is switched off.
func AMQPURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
