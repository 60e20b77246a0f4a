// Package config reads settings from the environment and an optional .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBaseURL   = "http://localhost:3000/api"
	DefaultPort      = "3000"
	DefaultLatency   = 500 * time.Millisecond
	DevelopmentEnv   = "development"
	devJWTSecret     = "carelink-dev-secret"
	defaultMongoDB   = "carelink"
	defaultSessionDB = ".carelink/session"
)

type Config struct {
	// APIURL is the explicitly configured backend; empty means none was set.
	APIURL        string
	Env           string
	JWTSecret     string
	MockLatency   time.Duration
	Port          string
	CORSOrigins   []string
	MongoURI      string
	MongoDatabase string
	SessionDir    string
	HTTPTimeout   time.Duration
	PasswordCost  int
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		APIURL:        strings.TrimSpace(getenv("API_URL")),
		Env:           getenv("APP_ENV"),
		JWTSecret:     getenv("JWT_SECRET"),
		MockLatency:   duration(getenv("MOCK_LATENCY"), DefaultLatency),
		Port:          getenv("API_PORT"),
		MongoURI:      getenv("MONGO_URI"),
		MongoDatabase: getenv("MONGO_DATABASE"),
		SessionDir:    getenv("SESSION_DIR"),
		HTTPTimeout:   duration(getenv("HTTP_TIMEOUT"), 0),
		PasswordCost:  bcrypt.DefaultCost,
	}
	if cfg.Env == "" {
		cfg.Env = DevelopmentEnv
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = defaultMongoDB
	}
	if cfg.SessionDir == "" {
		cfg.SessionDir = defaultSessionDB
	}
	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		log.Println("JWT_SECRET is NOT SET, using the development secret.")
		cfg.JWTSecret = devJWTSecret
	}
	if cost, err := strconv.Atoi(getenv("BCRYPT_COST")); err == nil {
		cfg.PasswordCost = cost
	}
	for _, o := range strings.Split(getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	return cfg
}

func (c Config) IsDevelopment() bool { return c.Env == DevelopmentEnv }

// BaseURL is the backend the gateway talks to.
func (c Config) BaseURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	return DefaultBaseURL
}

// Simulate reports whether failed network calls are answered by the mock
// backend: no explicit backend URL and a development environment.
func (c Config) Simulate() bool {
	return c.APIURL == "" && c.IsDevelopment()
}

func duration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("config: ignoring invalid duration %q", v)
	return def
}
