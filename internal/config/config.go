package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store          string        // "redis" | "mongo" | "memory"
	GenreFile      string        // optional genre catalog (empty = built-in list)
	RepairInterval time.Duration // interval between stranded-entry repairs (0 = only at startup)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize         int           // Redis connection pool size

	// MongoDB
	MongoURI      string // full connection string, built from MONGO_* when not given
	MongoDatabase string // ex: "Leseapp"
	MongoAppName  string // reported to the server

	// Startup connection, shared by all remote backends
	ConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	WarnThreshold  int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict /readyz to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads .env when present, then the environment.
// Missing required variables panic with a FATAL message.
func Load() *Config {
	// A missing .env is fine: the environment may be set by the container.
	_ = godotenv.Load(".env")

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BOOKSHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BOOKSHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BOOKSHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BOOKSHELF_PRETTY_LOG", true),

		// Data
		Store:          strings.ToLower(getenv("BOOKSHELF_STORE", StoreRedis)),
		GenreFile:      getenv("BOOKSHELF_GENRE_FILE", ""),
		RepairInterval: mustDuration("BOOKSHELF_REPAIR_INTERVAL", 0),

		// Startup connection
		ConnectTimeout: mustDuration("BOOKSHELF_CONNECT_TIMEOUT", 30*time.Second),
		RetryInterval:  mustDuration("BOOKSHELF_RETRY_INTERVAL", 2*time.Second),
		MaxWait:        mustDuration("BOOKSHELF_MAX_WAIT", 10*time.Second),
		PingTimeout:    mustDuration("BOOKSHELF_PING_TIMEOUT", 5*time.Second),
		WarnThreshold:  getenvInt("BOOKSHELF_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("BOOKSHELF_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BOOKSHELF_TRUST_PROXY", true),
	}

	switch cfg.Store {
	case StoreRedis:
		loadRedis(cfg)
	case StoreMongo:
		loadMongo(cfg)
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: BOOKSHELF_STORE must be one of %s, %s, %s (got %q)",
			StoreRedis, StoreMongo, StoreMemory, cfg.Store))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("BOOKSHELF_REDIS_ADDR")
	cfg.RedisUser = getenv("BOOKSHELF_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("BOOKSHELF_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("BOOKSHELF_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("BOOKSHELF_REDIS_DB")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BOOKSHELF_REDIS_PASSWORD is required when BOOKSHELF_REDIS_PASSWORD_REQUIRED=true")
	}
}

func loadMongo(cfg *Config) {
	cfg.MongoDatabase = getenv("BOOKSHELF_MONGO_DATABASE", "Leseapp")
	cfg.MongoAppName = getenv("BOOKSHELF_MONGO_APP_NAME", "Leseapp")

	cfg.MongoURI = getenv("BOOKSHELF_MONGO_URI", "")
	if cfg.MongoURI == "" {
		cfg.MongoURI = mongoURI(
			requireEnv("MONGO_USERNAME"),
			requireEnv("MONGO_PASSWORD"),
			requireEnv("MONGO_CLUSTER"),
			cfg.MongoAppName,
		)
	}
}

// mongoURI builds an Atlas style SRV connection string.
// Credentials are escaped so that reserved characters survive.
func mongoURI(user, password, cluster, appName string) string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=%s",
		url.QueryEscape(user), url.QueryEscape(password), cluster, url.QueryEscape(appName))
}

// Redacted returns a copy safe to log
func (c Config) Redacted() Config {
	cp := c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	if cp.MongoURI != "" {
		cp.MongoURI = redactURI(cp.MongoURI)
	}
	return cp
}

func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return "***REDACTED***"
	}
	u.User = url.User("***REDACTED***")
	return u.String()
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
