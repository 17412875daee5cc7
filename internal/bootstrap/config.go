package bootstrap

import (
	"os"
	"strconv"
	"time"
)

// Provider modes. The realtime mode multiplexes every request over one
// persistent websocket; the oneshot mode issues an independent HTTP request
// per call.
const (
	ProviderRealtime = "realtime"
	ProviderOneshot  = "oneshot"
)

type Config struct {
	ServerAddr string
	LogLevel   string
	Version    string

	ProviderMode string
	APIKey       string
	Model        string
	Voice        string

	UpstreamURL    string
	OneshotURL     string
	RequestTimeout time.Duration
	MaxTokens      int

	AudioMaxBoost   float64
	AudioTargetPeak int

	CacheEnabled  bool
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Version:    getEnv("SERVICE_VERSION", "dev"),

		ProviderMode: getEnv("PROVIDER_MODE", ProviderRealtime),
		APIKey:       getEnv("OPENAI_API_KEY", ""),
		Model:        getEnv("MODEL", "gpt-4o-realtime-preview"),
		Voice:        getEnv("VOICE", "alloy"),

		UpstreamURL:    getEnv("UPSTREAM_URL", ""),
		OneshotURL:     getEnv("ONESHOT_URL", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		MaxTokens:      getEnvInt("MAX_TOKENS", 4096),

		AudioMaxBoost:   getEnvFloat("AUDIO_MAX_BOOST", 1.8),
		AudioTargetPeak: getEnvInt("AUDIO_TARGET_PEAK", 29490),

		CacheEnabled:  getEnv("CACHE_ENABLED", "true") == "true",
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
