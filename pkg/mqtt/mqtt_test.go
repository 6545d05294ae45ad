package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

func completed(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient implements the parts of mqtt.Client the communicator uses
type fakeClient struct {
	mqtt.Client
	mu        sync.Mutex
	connected bool
	token     *fakeToken
	sent      []published
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return c.token
}

func TestPublishEvent(t *testing.T) {
	client := &fakeClient{connected: true, token: completed(nil)}
	mc := newWithClient(client, "pancymod")

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := mc.PublishEvent(context.Background(), moderation.Event{
		Type: moderation.EventWarn, GuildID: "g", UserID: "u", Points: 2, Total: 5, At: at,
	})
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	assert.Equal(t, "pancymod/events/warn", client.sent[0].topic)
	assert.Equal(t, byte(1), client.sent[0].qos)

	var got moderation.Event
	require.NoError(t, json.Unmarshal(client.sent[0].payload, &got))
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, "u", got.UserID)
	assert.True(t, at.Equal(got.At))
}

func TestPublishEventDisconnected(t *testing.T) {
	client := &fakeClient{token: completed(nil)}
	mc := newWithClient(client, "pancymod")

	require.NoError(t, mc.PublishEvent(context.Background(), moderation.Event{Type: moderation.EventPunish}))
	assert.Empty(t, client.sent)
}

func TestPublishReportsBrokerError(t *testing.T) {
	client := &fakeClient{connected: true, token: completed(errors.New("not authorized"))}
	mc := newWithClient(client, "p")

	err := mc.Publish(context.Background(), "p/x", map[string]int{"a": 1})
	assert.EqualError(t, err, "not authorized")
}

func TestPublishHonoursContext(t *testing.T) {
	client := &fakeClient{connected: true, token: &fakeToken{done: make(chan struct{})}}
	mc := newWithClient(client, "p")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := mc.Publish(ctx, "p/x", "payload")
	assert.ErrorIs(t, err, context.Canceled)
}
