package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server's runtime settings, read from the environment.
type Config struct {
	HTTPPort string

	// MongoURI selects the question-bank backend. Empty means the JSON files under QuestionDir.
	MongoURI    string
	MongoDB     string
	QuestionDir string

	// RedisAddr selects the session store. Empty means in-process memory.
	RedisAddr    string
	// PoolCacheTTL is how long a Mongo-loaded bank is served from Redis.
	PoolCacheTTL time.Duration

	AudioDir       string
	AudioURLPrefix string

	SessionTTL     time.Duration
	SessionLockTTL time.Duration
	HistoryLimit   int

	JWTSecret    string
	CookieSecure bool

	Narration NarrationConfig
}

// NarrationConfig configures the text-to-speech backend.
type NarrationConfig struct {
	Provider string // "gtts" or "silent"
	Lang     string
	TLD      string // accent, as gTTS understands it
	Timeout  time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "dyslexiatutor"),
		QuestionDir:    getEnv("QUESTION_DIR", "static/json"),
		RedisAddr:      strings.TrimPrefix(getEnv("REDIS_ADDR", ""), "redis://"),
		PoolCacheTTL:   getDuration("POOL_CACHE_TTL", 10*time.Minute),
		AudioDir:       getEnv("AUDIO_DIR", "static/audio"),
		AudioURLPrefix: getEnv("AUDIO_URL_PREFIX", "/audio"),
		SessionTTL:     getDuration("SESSION_TTL", 2*time.Hour),
		SessionLockTTL: getDuration("SESSION_LOCK_TTL", 60*time.Second),
		HistoryLimit:   getInt("HISTORY_LIMIT", 20),
		JWTSecret:      getEnv("JWT_SECRET", "dyslexia-tutor-dev-secret"),
		CookieSecure:   getEnv("COOKIE_SECURE", "") == "true",
		Narration: NarrationConfig{
			Provider: getEnv("NARRATION_PROVIDER", "gtts"),
			Lang:     getEnv("NARRATION_LANG", "en"),
			TLD:      getEnv("NARRATION_TLD", "co.in"),
			Timeout:  time.Duration(getInt("NARRATION_TIMEOUT_MS", 10000)) * time.Millisecond,
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
