package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the zone editor.
// Fields may be loaded from a JSON file and overridden by ZONEGUARD_* environment variables.
type Config struct {
	Debug bool `json:"debug"`

	// Backend
	ServerURL             string `json:"server_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	LogPollMillis         int    `json:"log_poll_millis"`

	// Window, canvas and theme
	WindowWidth     int  `json:"window_width"`
	WindowHeight    int  `json:"window_height"`
	CanvasMaxWidth  int  `json:"canvas_max_width"`
	CanvasMaxHeight int  `json:"canvas_max_height"`
	DarkMode        bool `json:"dark_mode"`

	// Backdrop: an image file when set, the screen region otherwise.
	BackdropFile       string `json:"backdrop_file"`
	BackdropIntervalMs int    `json:"backdrop_interval_ms"`
	SelectionX         int    `json:"selection_x"`
	SelectionY         int    `json:"selection_y"`
	SelectionW         int    `json:"selection_w"`
	SelectionH         int    `json:"selection_h"`

	// Detection models offered in the model selector.
	Models []string `json:"models"`
}

// DefaultModels are the pose models the backend ships with.
var DefaultModels = []string{
	"yolov8n-pose.pt",
	"yolov8s-pose.pt",
	"yolov8m-pose.pt",
	"yolov8l-pose.pt",
	"yolov8x-pose.pt",
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                 false,
		ServerURL:             "http://localhost:5000",
		RequestTimeoutSeconds: 15,
		LogPollMillis:         1000,
		WindowWidth:           1280,
		WindowHeight:          800,
		CanvasMaxWidth:        800,
		CanvasMaxHeight:       600,
		BackdropIntervalMs:    500,
		Models:                append([]string(nil), DefaultModels...),
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:5000"
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 15
	}
	if c.LogPollMillis < 100 {
		c.LogPollMillis = 1000
	}
	if c.WindowWidth < 320 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight < 240 {
		c.WindowHeight = 800
	}
	if c.CanvasMaxWidth < 64 {
		c.CanvasMaxWidth = 800
	}
	if c.CanvasMaxHeight < 64 {
		c.CanvasMaxHeight = 600
	}
	if c.BackdropIntervalMs < 50 {
		c.BackdropIntervalMs = 500
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	if len(c.Models) == 0 {
		c.Models = append([]string(nil), DefaultModels...)
	}
	return nil
}

// RequestTimeout returns the per-request deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LogPollInterval returns how often the alert log is fetched.
func (c *Config) LogPollInterval() time.Duration {
	return time.Duration(c.LogPollMillis) * time.Millisecond
}

// BackdropInterval returns the backdrop capture period.
func (c *Config) BackdropInterval() time.Duration {
	return time.Duration(c.BackdropIntervalMs) * time.Millisecond
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Environment variables read by ApplyEnv.
const (
	EnvServerURL    = "ZONEGUARD_SERVER_URL"
	EnvDebug        = "ZONEGUARD_DEBUG"
	EnvBackdropFile = "ZONEGUARD_BACKDROP_FILE"
	EnvTimeout      = "ZONEGUARD_REQUEST_TIMEOUT_SECONDS"
	EnvDarkMode     = "ZONEGUARD_DARK_MODE"
)

// ApplyEnv loads envFiles (a missing file is fine; none means ".env") and
// overrides the matching fields. Unparsable values are logged and ignored.
func (c *Config) ApplyEnv(logger *slog.Logger, envFiles ...string) {
	_ = godotenv.Load(envFiles...)
	c.ServerURL = getEnv(EnvServerURL, c.ServerURL)
	c.BackdropFile = getEnv(EnvBackdropFile, c.BackdropFile)
	c.Debug = getEnvBool(logger, EnvDebug, c.Debug)
	c.DarkMode = getEnvBool(logger, EnvDarkMode, c.DarkMode)
	c.RequestTimeoutSeconds = getEnvInt(logger, EnvTimeout, c.RequestTimeoutSeconds)
	_ = c.Validate()
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
		warn(logger, key, err)
		return defaultValue
	}
	return i
}

func getEnvBool(logger *slog.Logger, key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		warn(logger, key, err)
		return defaultValue
	}
	return b
}

func warn(logger *slog.Logger, key string, err error) {
	if logger != nil {
		logger.Warn("ignoring environment override", "key", key, "error", err)
	}
}
