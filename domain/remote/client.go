// Package remote is the HTTP client for the inference backend's
// configuration endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
)

// HTTPDoer abstracts the transport so tests can swap in a fake.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client issues requests against one backend base URL. Methods are safe for
// concurrent use.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	newID   func() string
}

// NewClient creates a Client. A nil doer gets a plain http.Client with a 30s timeout.
func NewClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// PushZones saves the zone collection and expansion ratio for the active source.
func (c *Client) PushZones(ctx context.Context, p ZonesPayload) error {
	if p.Zones == nil {
		p.Zones = []zone.Zone{}
	}
	_, err := c.postStatus(ctx, PathUpdateZones, p)
	return err
}

// PushDetection saves detection parameters for the active source.
func (c *Client) PushDetection(ctx context.Context, d settings.Detection) error {
	_, err := c.postStatus(ctx, PathDetectConfig, d)
	return err
}

// PushDisplay saves display toggles for the active source.
func (c *Client) PushDisplay(ctx context.Context, d settings.Display) error {
	_, err := c.postStatus(ctx, PathDisplayConfig, d)
	return err
}

// ChangeSource switches the backend to a new video source and returns the
// configuration stored for it, if any.
func (c *Client) ChangeSource(ctx context.Context, source string, kind SourceKind) (SourceResult, error) {
	if strings.TrimSpace(source) == "" {
		return SourceResult{}, fmt.Errorf("change source: empty source: %w", ErrPrecondition)
	}
	resp, err := c.postStatus(ctx, PathChangeSource, sourceRequest{Source: source, Type: kind})
	if err != nil {
		return SourceResult{}, err
	}
	return SourceResult{Source: resp.Source, Config: resp.Config}, nil
}

// SelectModel asks the backend to load a different detection model.
func (c *Client) SelectModel(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("select model: empty name: %w", ErrPrecondition)
	}
	resp, err := c.postStatus(ctx, PathModelUpdate, modelRequest{Model: name})
	if err != nil {
		return "", err
	}
	return resp.Model, nil
}

// Upload sends a local video file as multipart field "file" and returns the
// source name the backend stored it under. Missing or unreadable files are
// refused before any request is made.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	const op = "upload video"
	if err := CheckUploadPath(path); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", op, err, ErrPrecondition)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("%s: read %s: %v: %w", op, path, err, ErrPrecondition)
	}
	if err := mw.Close(); err != nil {
		return "", &TransportError{Op: op, Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, PathUploadVideo, &body)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var resp statusResponse
	code, err := c.do(req, op, &resp)
	if err != nil {
		return "", err
	}
	if err := checkStatus(op, code, resp); err != nil {
		return "", err
	}
	return resp.Source, nil
}

// Videos lists the video files available on the backend.
func (c *Client) Videos(ctx context.Context) ([]string, error) {
	var out videosResponse
	if err := c.get(ctx, PathVideos, &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

// Logs fetches the backend's recent alert log, newest first.
func (c *Client) Logs(ctx context.Context) ([]LogEntry, error) {
	var out logsResponse
	if err := c.get(ctx, PathLogs, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	op := opName(path)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	_, err = c.do(req, op, out)
	return err
}

func (c *Client) postStatus(ctx context.Context, path string, payload any) (statusResponse, error) {
	op := opName(path)
	data, err := json.Marshal(payload)
	if err != nil {
		return statusResponse{}, fmt.Errorf("%s: encode: %w", op, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return statusResponse{}, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	var resp statusResponse
	code, err := c.do(req, op, &resp)
	if err != nil {
		return statusResponse{}, err
	}
	if err := checkStatus(op, code, resp); err != nil {
		return statusResponse{}, err
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(RequestIDHeader, c.newID())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a JSON body into out, returning the HTTP status.
// Any failure before a JSON body is in hand is a TransportError.
func (c *Client) do(req *http.Request, op string, out any) (int, error) {
	id := req.Header.Get(RequestIDHeader)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("remote request failed", "op", op, "request_id", id, "error", err)
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.Debug("remote request", "op", op, "request_id", id, "status", resp.StatusCode, "elapsed", time.Since(start))
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			// The server answered; what it sent does not fit the contract.
			c.logger.Warn("remote response malformed", "op", op, "request_id", id, "error", err)
			return resp.StatusCode, &RejectedError{Op: op, Status: resp.StatusCode, Message: MalformedResponse}
		}
		return resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("http %d: decode response: %w", resp.StatusCode, err)}
	}
	return resp.StatusCode, nil
}

// CheckUploadPath refuses paths that cannot be uploaded: nothing selected,
// a missing file or a directory.
func CheckUploadPath(path string) error {
	const op = "upload video"
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s: no file selected: %w", op, ErrPrecondition)
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, ErrPrecondition)
	}
	if st.IsDir() {
		return fmt.Errorf("%s: %s is not a regular file: %w", op, path, ErrPrecondition)
	}
	return nil
}

func checkStatus(op string, code int, sr statusResponse) error {
	if sr.Status == StatusSuccess {
		return nil
	}
	return &RejectedError{Op: op, Status: code, Message: sr.Message}
}

func opName(path string) string {
	return strings.ReplaceAll(strings.TrimPrefix(path, "/"), "_", " ")
}
