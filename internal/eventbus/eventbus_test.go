package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client)
}

func TestRouteEvent_KnownAndFallback(t *testing.T) {
	assert.Equal(t, Discovery, RouteEvent("subdomain_discovered"))
	assert.Equal(t, Validation, RouteEvent("dnsx_basic_scan_requested"))
	assert.Equal(t, Enumeration, RouteEvent("ports_discovered"))
	assert.Equal(t, Analysis, RouteEvent("httpx_scan_requested"))
	assert.Equal(t, Analysis, RouteEvent("some_unlisted_event"), "unlisted events fall back to analysis")
}

func TestPublish_RejectsMissingEventName(t *testing.T) {
	bus := newTestBus(t)
	err := bus.Publish(context.Background(), Event{Target: "example.com"})
	assert.Error(t, err)
}

func TestPublish_ThenConsumeRoundTrip(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "a.example.com", Confidence: 0.7}))

	id, evt, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a.example.com", evt.Target)
	assert.NotEmpty(t, id)
}

func TestConsume_HigherConfidencePopsFirst(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "low.example.com", Confidence: 0.2}))
	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "high.example.com", Confidence: 0.9}))

	_, first, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "high.example.com", first.Target)

	_, second, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "low.example.com", second.Target)
}

func TestConsume_FIFOWithinEqualConfidence(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "first.example.com", Confidence: 0.5}))
	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "second.example.com", Confidence: 0.5}))

	_, first, _, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	assert.Equal(t, "first.example.com", first.Target)

	_, second, _, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	assert.Equal(t, "second.example.com", second.Target)
}

func TestConsume_EmptyQueueReturnsNotOK(t *testing.T) {
	bus := newTestBus(t)
	_, _, ok, err := bus.Consume(context.Background(), Validation)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAck_RemovesFromInFlight(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Confidence: 0.5}))
	id, _, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, bus.Ack(ctx, Discovery, id))

	n, err := bus.client.HLen(ctx, inflightKey(Discovery)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestNack_RedeliversToQueue(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "retry.example.com", Confidence: 0.5}))
	id, _, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, bus.Nack(ctx, Discovery, id))

	depth, err := bus.Depth(ctx, Discovery)
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth)

	_, evt, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "retry.example.com", evt.Target)
}

func TestConsumeAtomic_RoundTrip(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "atomic.example.com", Confidence: 0.5}))

	id, evt, ok, err := bus.ConsumeAtomic(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "atomic.example.com", evt.Target)
	assert.NotEmpty(t, id)

	_, _, ok, err = bus.ConsumeAtomic(ctx, Discovery)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReapStale_RequeuesGivenIDs(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Confidence: 0.5}))
	id, _, ok, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, bus.ReapStale(ctx, Discovery, []string{id}, time.Minute))

	depth, err := bus.Depth(ctx, Discovery)
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth)
}

func TestConfidenceToPriority_Clamps(t *testing.T) {
	assert.Equal(t, 0, ConfidenceToPriority(-1))
	assert.Equal(t, 0, ConfidenceToPriority(0.0))
	assert.Equal(t, 5, ConfidenceToPriority(0.5))
	assert.Equal(t, 7, ConfidenceToPriority(0.7))
	assert.Equal(t, 10, ConfidenceToPriority(1.0))
	assert.Equal(t, 10, ConfidenceToPriority(1.5))
}

func TestConsume_FIFOWithinSamePriorityBand(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	// 0.52 and 0.55 both land in band 5; arrival order must hold even
	// though the raw confidences differ.
	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "first.example.com", Confidence: 0.52}))
	require.NoError(t, bus.Publish(ctx, Event{Name: "subdomain_discovered", Target: "second.example.com", Confidence: 0.55}))

	_, first, _, err := bus.Consume(ctx, Discovery)
	require.NoError(t, err)
	assert.Equal(t, "first.example.com", first.Target)
}

func TestEvent_EnvelopeFlattensPayloadFields(t *testing.T) {
	evt := Event{
		Name:       "subdomain_discovered",
		Confidence: 0.7,
		ProgramID:  "prog-1",
		Fields:     map[string]any{"subdomains": []any{"a.example.com"}},
	}

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "subdomain_discovered", doc["event"])
	assert.Contains(t, doc, "subdomains", "payload lists sit at the top level of the envelope, not nested")

	var back Event
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, evt.Name, back.Name)
	assert.Equal(t, []any{"a.example.com"}, back.Fields["subdomains"])
}

func TestEvent_MissingConfidenceDefaultsToMiddleBand(t *testing.T) {
	var evt Event
	require.NoError(t, json.Unmarshal([]byte(`{"event":"subdomain_discovered"}`), &evt))
	assert.InDelta(t, DefaultConfidence, evt.Confidence, 0.0001)
	assert.Equal(t, 5, ConfidenceToPriority(evt.Confidence))
}

func TestEvent_ExplicitZeroConfidenceStaysZero(t *testing.T) {
	var evt Event
	require.NoError(t, json.Unmarshal([]byte(`{"event":"subdomain_discovered","confidence":0}`), &evt))
	assert.Equal(t, 0, ConfidenceToPriority(evt.Confidence))
}
