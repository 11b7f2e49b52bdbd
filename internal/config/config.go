// Package config loads portal settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreRedis  = "redis"
)

type Config struct {
	// Backend
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Vehicle lookup debounce
	LookupDelay time.Duration

	// Local-scoped storage (session token, reception form draft)
	LocalStore string
	MongoURI   string
	MongoDB    string

	// Session-scoped storage (pending booking)
	SessionStore string
	RedisURL     string
	SessionTTL   time.Duration

	// Queue board
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	// Payment return listener
	PaymentReturnAddr string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080/api"),
		HTTPTimeout: parseDuration(getEnv("HTTP_TIMEOUT", "15s"), 15*time.Second),
		LookupDelay: parseDuration(getEnv("LOOKUP_DELAY", "800ms"), 800*time.Millisecond),

		LocalStore: strings.ToLower(getEnv("LOCAL_STORE", StoreMemory)),
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "ev_portal"),

		SessionStore: strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:   parseDuration(getEnv("SESSION_TTL", "2h"), 2*time.Hour),

		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "ev-portal/queue"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "ev-portal"),

		PaymentReturnAddr: getEnv("PAYMENT_RETURN_ADDR", "127.0.0.1:5173"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// ConfigureLogging applies the level and format to the standard logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// QueueBoardEnabled reports whether a broker is configured.
func (c *Config) QueueBoardEnabled() bool {
	return c.MQTTBroker != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration accepts Go durations and plain seconds.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
