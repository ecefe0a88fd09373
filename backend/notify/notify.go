// Package notify announces saved source configurations over MQTT so the
// inference workers can pick them up without polling.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/soocke/zone-guard-go/domain/remote"
)

// Publisher announces a source's configuration after it changed.
type Publisher interface {
	PublishConfig(ctx context.Context, source string, snap *remote.Snapshot) error
}

// Nop discards every announcement. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishConfig(context.Context, string, *remote.Snapshot) error { return nil }

// ClientConfig holds MQTT connection settings.
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Prefix   string // topic prefix, e.g. "zoneguard"
}

// MQTTPublisher publishes JSON snapshots with QoS 1.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

const defaultPublishTimeout = 5 * time.Second

// Connect dials the broker and returns a publisher on it.
func Connect(cfg ClientConfig, logger *slog.Logger) (*MQTTPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return NewMQTTPublisher(client, cfg.Prefix, logger), nil
}

// NewMQTTPublisher wraps an already connected client.
func NewMQTTPublisher(client mqtt.Client, prefix string, logger *slog.Logger) *MQTTPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTPublisher{client: client, prefix: prefix, timeout: defaultPublishTimeout, logger: logger}
}

// Topic returns the config topic for source. MQTT wildcard and level
// characters in the source are replaced.
func Topic(prefix, source string) string {
	clean := strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(source)
	if clean == "" {
		clean = "_"
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return clean + "/config"
	}
	return prefix + "/" + clean + "/config"
}

// PublishConfig publishes snap to the source's topic and waits for the
// broker to acknowledge it, the context or the timeout, whichever ends first.
func (p *MQTTPublisher) PublishConfig(ctx context.Context, source string, snap *remote.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	topic := Topic(p.prefix, source)
	token := p.client.Publish(topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("publish %s: timed out after %s", topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish config: %w", err)
	}
	p.logger.Debug("published config", "topic", topic, "bytes", len(payload))
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
