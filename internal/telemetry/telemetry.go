// Package telemetry records per-request latency events for the suggest
// endpoint. Recording never influences the response sent to the client.
package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// Event describes one completed HTTP request.
type Event struct {
	RequestID string    `json:"request_id"`
	Method    string    `json:"method"`
	Route     string    `json:"route"`
	Status    int       `json:"status"`
	LatencyMs int64     `json:"latency_ms"`
	At        time.Time `json:"at"`
}

// Recorder receives telemetry events.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, Event) {}

// LogRecorder writes events through the standard logger.
type LogRecorder struct{}

func (LogRecorder) Record(_ context.Context, ev Event) {
	log.Printf("telemetry: %s %s status=%d latency=%dms request_id=%s",
		ev.Method, ev.Route, ev.Status, ev.LatencyMs, ev.RequestID)
}

// publisher is the subset of *redis.Client used by RedisRecorder.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisRecorder publishes events as JSON on a Redis pub/sub channel.
type RedisRecorder struct {
	client  publisher
	channel string
	timeout time.Duration
}

func NewRedisRecorder(client publisher, channel string) *RedisRecorder {
	return &RedisRecorder{
		client:  client,
		channel: channel,
		timeout: 2 * time.Second,
	}
}

// Record publishes ev. Failures are logged and dropped.
func (r *RedisRecorder) Record(ctx context.Context, ev Event) {
	if err := r.publish(ctx, ev); err != nil {
		log.Printf("telemetry: %v", err)
	}
}

func (r *RedisRecorder) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "failed to encode telemetry event")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "failed to publish to %s", r.channel)
	}
	return nil
}
