package config

import (
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	AppEnv       string
	IsStaging    bool
	IsProduction bool

	JWTSecret             string
	AccessTokenTTLMinutes int
	Port                  string

	// database
	DBDriver    string
	DatabaseDSN string

	// revocation store
	RedisURL            string
	RevocationBackend   string // "auto", "redis" or "memory"
	RevocationTimeoutMS int

	// runtime tunables
	RateLimitWindowSeconds int
	RateLimitCapacity      int
	CORSOrigins            []string
)

const devJWTSecret = "dev-insecure-secret-change-me"

// loadAppEnv loads .env outside production. A missing file is not fatal so
// that tests and containers configured purely through the environment work.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env loaded: %v", err)
	}
}

func initLogger() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logLevelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", logLevelStr)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func init() {
	initLogger()
	loadAppEnv()

	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "" {
		AppEnv = "development"
	}
	if !slices.Contains([]string{"development", "staging", "production"}, AppEnv) {
		logrus.Fatal("environment variable APP_ENV must be 'development', 'staging' or 'production'")
	}
	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if IsProduction && JWTSecret == "" {
		logrus.Fatal("JWT_SECRET_KEY must be set in production")
	}
	if JWTSecret == "" {
		JWTSecret = devJWTSecret
	}
	AccessTokenTTLMinutes = atoiOr(os.Getenv("ACCESS_TOKEN_TTL_MINUTES"), 24*60)

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "5000"
	}

	DBDriver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if DBDriver == "" {
		DBDriver = "sqlite"
	}
	DatabaseDSN = os.Getenv("DATABASE_DSN")
	if DatabaseDSN == "" && DBDriver == "sqlite" {
		DatabaseDSN = "app.db"
	}

	RedisURL = os.Getenv("REDIS_URL")
	if RedisURL == "" {
		RedisURL = "redis://localhost:6379/0"
	}
	// production must not silently lose revocations on a restart
	RevocationBackend = strings.ToLower(os.Getenv("REVOCATION_BACKEND"))
	if RevocationBackend == "" {
		RevocationBackend = "auto"
		if IsProduction {
			RevocationBackend = "redis"
		}
	}
	RevocationTimeoutMS = atoiOr(os.Getenv("REVOCATION_TIMEOUT_MS"), 500)

	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 5)
	CORSOrigins = splitOr(os.Getenv("CORS_ORIGINS"), []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"})

	logrus.WithFields(logrus.Fields{
		"app_env":            AppEnv,
		"db_driver":          DBDriver,
		"revocation_backend": RevocationBackend,
		"revocation_timeout": RevocationTimeoutMS,
	}).Info("[config] loaded")
	logrus.Infof("[config] RateLimit window=%ds capacity=%d tokenTTL=%dm",
		RateLimitWindowSeconds, RateLimitCapacity, AccessTokenTTLMinutes)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func splitOr(s string, def []string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
