package telemetry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	channel string
	message interface{}
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message = message
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	}
	return cmd
}

func TestRedisRecorder_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	rec := NewRedisRecorder(pub, "suggest:telemetry")

	ev := Event{
		RequestID: "req-1",
		Method:    "POST",
		Route:     "/api/suggest-prompts",
		Status:    200,
		LatencyMs: 3,
		At:        time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, rec.publish(context.Background(), ev))

	assert.Equal(t, "suggest:telemetry", pub.channel)
	payload, ok := pub.message.([]byte)
	require.True(t, ok, "expected []byte payload, got %T", pub.message)

	var decoded Event
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.True(t, ev.At.Equal(decoded.At))
	decoded.At = ev.At
	assert.Equal(t, ev, decoded)
}

func TestRedisRecorder_PublishErrorIsWrapped(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	rec := NewRedisRecorder(pub, "suggest:telemetry")

	err := rec.publish(context.Background(), Event{Route: "/api/suggest-prompts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggest:telemetry")
	assert.Contains(t, err.Error(), "connection refused")

	// Record swallows the failure.
	rec.Record(context.Background(), Event{})
}

func TestNoopAndLogRecorders(t *testing.T) {
	var recorders = []Recorder{NoopRecorder{}, LogRecorder{}}
	for _, r := range recorders {
		r.Record(context.Background(), Event{Method: "GET", Route: "/health", Status: 200})
	}
}
