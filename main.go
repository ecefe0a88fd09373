package main

import (
	"log/slog"
	"time"

	"github.com/soocke/zone-guard-go/app"
	"github.com/soocke/zone-guard-go/config"
	"github.com/soocke/zone-guard-go/debug"
)

const configPath = "config.json"

func main() {
	// Base config from file, defaults when absent
	cfg, err := config.Load(configPath)

	// Set up logger; the level follows the debug flag once env overrides are in
	var level slog.LevelVar
	logger := NewLogger(&level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", configPath, "error", err)
	}
	cfg.ApplyEnv(logger)
	if cfg.Debug {
		level.Set(slog.LevelDebug)
		stop := debug.StartRuntimeLogger(10*time.Second, logger)
		defer stop()
	}

	application := app.NewApp("Zone Guard", cfg, logger)
	application.Start()
}
