// Command zoneserver serves the zone editor's configuration endpoints backed
// by SQLite, announcing saved configs over MQTT when a broker is set.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/soocke/zone-guard-go/backend/api"
	"github.com/soocke/zone-guard-go/backend/notify"
	"github.com/soocke/zone-guard-go/backend/store"
)

func main() {
	boot := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := api.LoadServerConfig(boot)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := run(cfg, logger); err != nil {
		logger.Error("zoneserver stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg api.ServerConfig, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var publisher notify.Publisher = notify.Nop{}
	if cfg.MQTTBroker != "" {
		p, err := notify.Connect(notify.ClientConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
			Prefix:   cfg.MQTTTopicPrefix,
		}, logger)
		if err != nil {
			// Configs are still stored; workers fall back to polling.
			logger.Warn("mqtt disabled", "error", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	srv := api.NewServer(cfg, st, publisher, logger)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("zoneserver listening", "addr", cfg.Addr, "db", cfg.DBPath, "uploads", cfg.UploadDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
		return server.Close()
	}
	logger.Info("zoneserver stopped")
	return nil
}
