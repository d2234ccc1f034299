package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"

	"github.com/iliyamo/timeclock/internal/attendance"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBDriver       string // "mysql" or "sqlite3"
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	DBPath         string // sqlite file path
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	AdminPassword  string // initial password of the seeded admin
	RabbitURL      string // AMQP URL for punch events, empty disables publishing
	Attendance     Attendance
}

// Attendance carries the evaluator settings.
type Attendance struct {
	Location  *time.Location
	Tolerance int
	Slots     []attendance.SlotSpec // nil keeps the default schedule
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		DBDriver:       envStr("DB_DRIVER", "mysql"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		AdminPassword:  envStr("ADMIN_INITIAL_PASSWORD", "admin123"),
		RabbitURL:      os.Getenv("RABBITMQ_URL"),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite3":
		cfg.DBPath = envStr("DB_PATH", "timeclock.db")
	default:
		log.Fatalf("invalid DB_DRIVER: %q", cfg.DBDriver)
	}

	att, err := LoadAttendance()
	if err != nil {
		log.Fatalf("attendance config: %v", err)
	}
	cfg.Attendance = att
	return cfg
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
