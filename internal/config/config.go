package config

import (
	"os"
	"strconv"
	"time"
)

// Storage modes accepted by STORAGE_MODE.
const (
	StorageModeAuto   = "auto"
	StorageModeRemote = "remote"
	StorageModeLocal  = "local"
)

type Config struct {
	// Storage mode selection
	StorageMode        string
	RemoteInitTimeout  time.Duration
	RemoteInitAttempts int

	// Remote backend (Firestore + Firebase Auth)
	FirebaseProjectID       string
	FirebaseCredentialsFile string

	// Local backend (key-value area in a SQL database)
	LocalDBDriver string
	LocalDBPath   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Generation upstreams
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	AITimeout    time.Duration

	// Client
	GeminiProxyURL      string
	FeedRefreshInterval time.Duration

	// Server
	Port             string
	CORSOrigins      string
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		StorageMode:        getEnv("STORAGE_MODE", StorageModeAuto),
		RemoteInitTimeout:  parseDuration(getEnv("REMOTE_INIT_TIMEOUT", "10s"), 10*time.Second),
		RemoteInitAttempts: parseInt(getEnv("REMOTE_INIT_ATTEMPTS", "3"), 3),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		LocalDBDriver: getEnv("LOCAL_DB_DRIVER", "sqlite"),
		LocalDBPath:   getEnv("LOCAL_DB_PATH", "cookiverse.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "cookiverse"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AITimeout:    parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		GeminiProxyURL:      getEnv("GEMINI_PROXY_URL", "http://localhost:3000/api/gemini"),
		FeedRefreshInterval: parseDuration(getEnv("FEED_REFRESH_INTERVAL", "30s"), 30*time.Second),

		Port:             getEnv("PORT", "3000"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

// DSN returns the postgres connection string for the local backend.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// RemoteConfigured reports whether enough settings exist to attempt the remote backend.
func (c *Config) RemoteConfigured() bool {
	return c.FirebaseProjectID != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
