// Package api serves the zone editor's persistence endpoints: per-source
// zone and detection settings, video uploads, model selection and the
// alert log.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/soocke/zone-guard-go/backend/notify"
	"github.com/soocke/zone-guard-go/domain/remote"
)

// ConfigStore persists snapshots and log lines.
type ConfigStore interface {
	Config(ctx context.Context, key string) (*remote.Snapshot, error)
	UpdateConfig(ctx context.Context, key string, fn func(*remote.Snapshot)) (*remote.Snapshot, error)
	ResetConfig(ctx context.Context, key string) error
	AppendLog(ctx context.Context, level, message, source string) error
	Logs(ctx context.Context, limit int, source string) ([]remote.LogEntry, error)
}

// Server holds the active source and model; everything else lives in the
// store.
type Server struct {
	store     ConfigStore
	notifier  notify.Publisher
	uploadDir string
	models    []string
	maxUpload int64
	logger    *slog.Logger

	mu        sync.Mutex
	source    string
	sourceKey string
	model     string
}

// NewServer returns a server starting on the webcam source.
func NewServer(cfg ServerConfig, store ConfigStore, notifier notify.Publisher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	maxUpload := int64(cfg.MaxUploadMB) << 20
	if maxUpload <= 0 {
		maxUpload = 512 << 20
	}
	model := cfg.DefaultModel
	if model == "" && len(cfg.Models) > 0 {
		model = cfg.Models[0]
	}
	return &Server{
		store:     store,
		notifier:  notifier,
		uploadDir: cfg.UploadDir,
		models:    cfg.Models,
		maxUpload: maxUpload,
		logger:    logger,
		source:    "0",
		sourceKey: webcamKey,
		model:     model,
	}
}

// Routes builds the router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)
	r.HandleFunc(remote.PathUpdateZones, s.UpdateZones).Methods(http.MethodPost)
	r.HandleFunc(remote.PathDetectConfig, s.UpdateDetectConfig).Methods(http.MethodPost)
	r.HandleFunc(remote.PathDisplayConfig, s.UpdateDisplayConfig).Methods(http.MethodPost)
	r.HandleFunc(remote.PathChangeSource, s.ChangeSource).Methods(http.MethodPost)
	r.HandleFunc(remote.PathUploadVideo, s.UploadVideo).Methods(http.MethodPost)
	r.HandleFunc(remote.PathModelUpdate, s.UpdateModel).Methods(http.MethodPost)
	r.HandleFunc(remote.PathVideos, s.GetVideos).Methods(http.MethodGet)
	r.HandleFunc(remote.PathLogs, s.GetLogs).Methods(http.MethodGet)
	return r
}

// current returns the active source key and name.
func (s *Server) current() (key, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceKey, s.source
}

func (s *Server) setSource(key, source string) {
	s.mu.Lock()
	s.sourceKey, s.source = key, source
	s.mu.Unlock()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs each request with its correlation id, minting one
// when the client sent none.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(remote.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(remote.RequestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, statusBody{Status: remote.StatusError, Message: msg})
}

func writeOK(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, statusBody{Status: remote.StatusSuccess, Message: msg})
}
