package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Env struct {
	AppAddr string
	GinMode string

	StoreDriver   string
	MySQLDSN      string
	DBPool        DBPool
	MongoURI      string
	MongoDatabase string
	RedisURL      string

	JWTSecret    string
	CookieSecure bool
	CORSOrigins  []string

	LogFile  string
	LogLevel string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string

	BookingRateLimit string

	AdminEmail    string
	AdminPassword string
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr:          getenv("APP_ADDR", ":8080"),
		GinMode:          getenv("GIN_MODE", ""),
		StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", StoreMySQL)),
		MySQLDSN:         getenv("MYSQL_DSN", "root:@tcp(127.0.0.1:3306)/travel_agency?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),
		DBPool: DBPool{
			MaxOpen:     getint("DB_MAX_OPEN_CONNS", 0),
			MaxIdle:     getint("DB_MAX_IDLE_CONNS", 0),
			MaxLifetime: getduration("DB_CONN_MAX_LIFETIME", 0),
			MaxIdleTime: getduration("DB_CONN_MAX_IDLE_TIME", 0),
		},
		MongoURI:         getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:    getenv("MONGO_DATABASE", "travel_agency"),
		RedisURL:         getenv("REDIS_URL", ""),
		JWTSecret:        getenv("JWT_SECRET", "change-me-in-production"),
		CookieSecure:     getbool("COOKIE_SECURE", false),
		CORSOrigins:      splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")),
		LogFile:          getenv("LOG_FILE", "logs/app.log"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		SMTPHost:         getenv("SMTP_HOST", ""),
		SMTPPort:         getint("SMTP_PORT", 587),
		SMTPUsername:     getenv("SMTP_USERNAME", ""),
		SMTPPassword:     getenv("SMTP_PASSWORD", ""),
		FromEmail:        getenv("FROM_EMAIL", ""),
		BookingRateLimit: getenv("BOOKING_RATE_LIMIT", "30-M"),
		AdminEmail:       getenv("ADMIN_EMAIL", ""),
		AdminPassword:    getenv("ADMIN_PASSWORD", ""),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getbool(key string, def bool) bool {
	v, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
