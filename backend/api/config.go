package api

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds the config server's settings, read from the
// environment (and a .env file when present).
type ServerConfig struct {
	Addr      string
	DBPath    string
	UploadDir string
	LogLevel  string

	Models       []string
	DefaultModel string
	MaxUploadMB  int

	// MQTT; an empty broker disables publishing.
	MQTTBroker      string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

// LoadServerConfig reads ZONESERVER_* variables, falling back to defaults.
func LoadServerConfig(logger *slog.Logger) ServerConfig {
	// Load .env file if it exists
	_ = godotenv.Load()

	models := splitList(getEnv("ZONESERVER_MODELS", "yolov8n-pose.pt,yolov8s-pose.pt,yolov8m-pose.pt,yolov8l-pose.pt,yolov8x-pose.pt"))
	return ServerConfig{
		Addr:      getEnv("ZONESERVER_ADDR", ":5000"),
		DBPath:    getEnv("ZONESERVER_DB_PATH", "./data/zones.db"),
		UploadDir: getEnv("ZONESERVER_UPLOAD_DIR", "./data/uploads"),
		LogLevel:  getEnv("ZONESERVER_LOG_LEVEL", "info"),

		Models:       models,
		DefaultModel: getEnv("ZONESERVER_DEFAULT_MODEL", models[0]),
		MaxUploadMB:  getEnvInt(logger, "ZONESERVER_MAX_UPLOAD_MB", 512),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "zoneserver"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "zoneguard"),
	}
}

// Level maps LogLevel onto a slog level; unknown values mean info.
func (c ServerConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"yolov8n-pose.pt"}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(logger *slog.Logger, key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to parse env var, using default", "key", key, "error", err)
		}
		return defaultValue
	}
	return i
}
