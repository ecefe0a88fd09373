package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/domain/zone"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newToken(err error, complete bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

// fakeClient records publishes. Unused mqtt.Client methods panic through
// the nil embedded interface.
type fakeClient struct {
	mqtt.Client
	topic    string
	qos      byte
	retained bool
	payload  []byte
	token    *fakeToken
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic, c.qos, c.retained = topic, qos, retained
	c.payload, _ = payload.([]byte)
	return c.token
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "zoneguard/webcam/config", Topic("zoneguard", "webcam"))
	assert.Equal(t, "zoneguard/a_b_c.mp4/config", Topic("/zoneguard/", "a/b#c.mp4"))
	assert.Equal(t, "clip.mp4/config", Topic("", "clip.mp4"))
	assert.Equal(t, "p/_/config", Topic("p", ""))
}

func TestPublishConfig(t *testing.T) {
	c := &fakeClient{token: newToken(nil, true)}
	p := NewMQTTPublisher(c, "zoneguard", nil)
	ratio := 0.1
	snap := &remote.Snapshot{Zones: []zone.Zone{{ID: 4}}, ExpandRatio: &ratio}

	require.NoError(t, p.PublishConfig(context.Background(), "clip.mp4", snap))
	assert.Equal(t, "zoneguard/clip.mp4/config", c.topic)
	assert.Equal(t, byte(1), c.qos)
	assert.False(t, c.retained)

	var got remote.Snapshot
	require.NoError(t, json.Unmarshal(c.payload, &got))
	assert.True(t, got.HasZones)
	assert.InDelta(t, 0.1, *got.ExpandRatio, 1e-9)
}

func TestPublishConfig_BrokerError(t *testing.T) {
	c := &fakeClient{token: newToken(errors.New("not authorized"), true)}
	p := NewMQTTPublisher(c, "zoneguard", nil)
	err := p.PublishConfig(context.Background(), "webcam", &remote.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
}

func TestPublishConfig_ContextCancelled(t *testing.T) {
	c := &fakeClient{token: newToken(nil, false)}
	p := NewMQTTPublisher(c, "zoneguard", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishConfig(ctx, "webcam", &remote.Snapshot{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishConfig(context.Background(), "webcam", nil))
}
