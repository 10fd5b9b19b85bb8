// Package config reads settings from the environment. Values in .env and
// .env.local fill in variables that are not already set.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
}

// Client configures the terminal client.
type Client struct {
	APIURL  string
	Timeout time.Duration
	RPS     float64
	LogFile string
}

// Server configures the books backend.
type Server struct {
	Addr           string
	DSN            string
	DBTimeout      time.Duration
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
}

// LoadEnvFiles reads .env then .env.local without overriding the
// environment provided by the runtime.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func LoadClient() Client {
	return Client{
		APIURL:  strings.TrimRight(getEnv("BOOKS_API_URL", "http://127.0.0.1:8000"), "/"),
		Timeout: getDuration("BOOKS_API_TIMEOUT", 15*time.Second),
		RPS:     getFloat("BOOKS_API_RPS", 20),
		LogFile: os.Getenv("BOOKSHELF_LOG"),
	}
}

func LoadServer() Server {
	return Server{
		Addr:           getEnv("APP_ADDR", ":8000"),
		DSN:            os.Getenv("DB_DSN"),
		DBTimeout:      getDuration("DB_TIMEOUT", 3*time.Second),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 100),
		MaxBodyBytes:   int64(getInt("MAX_BODY_BYTES", 1<<20)),
	}
}

// MigrationsDir is where goose looks for SQL files.
func MigrationsDir() string {
	return getEnv("MIGRATIONS_DIR", "db/migrations")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return def
}

// getDuration accepts Go durations ("15s") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
