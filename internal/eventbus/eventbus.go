// Package eventbus is the durable, topic-routed, priority queue that
// moves events between pipeline stages. It runs on Redis sorted sets:
// durability and priority ordering come from ZADD/ZPOPMAX rather than a
// broker's native priority queue.
package eventbus

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/reconerr"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

const subsystem = "EventBus"

// Queue is one of the four pipeline-stage queues.
type Queue string

const (
	Discovery   Queue = "discovery"
	Enumeration Queue = "enumeration"
	Validation  Queue = "validation"
	Analysis    Queue = "analysis"
)

// DefaultConfidence is assumed for an envelope that arrives without a
// confidence field, putting it in the middle priority band.
const DefaultConfidence = 0.5

// Event is the envelope published and consumed on the bus: `{event,
// target, source, confidence, program_id}` plus any tool-specific
// payload fields. Payload fields (`subdomains`, `urls`, `hosts`, `ips`,
// `targets`, `js_files`, `result`, ...) live at the top level of the
// wire document, not nested; the codec in codec.go flattens Fields in
// and out.
type Event struct {
	Name       string
	Target     string
	Source     string
	Confidence float64
	ProgramID  string
	Fields     map[string]any
}

// queueKey is the Redis sorted-set key backing a queue's backlog.
func queueKey(q Queue) string { return "scan:queue:" + string(q) }

// inflightKey is the Redis hash key backing a queue's in-flight set.
func inflightKey(q Queue) string { return "scan:inflight:" + string(q) }

// Bus publishes and consumes Events over Redis, with routing derived
// from eventToQueue and priority derived from confidence.
type Bus struct {
	client *redis.Client
	seq    atomic.Int64
}

// New wraps an existing Redis client. The caller owns the client's
// lifecycle (creation, auth, close).
func New(client *redis.Client) *Bus {
	return &Bus{client: client}
}

// Publish routes evt to its queue (eventToQueue, falling back to
// Analysis for unlisted event names) and ZADDs its encoded envelope with
// a score combining priority band and arrival order, so events in a
// higher priority band and, within the same band, earlier-published
// events pop first. Publish rejects an event with no Name.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	if evt.Name == "" {
		return reconerr.InvalidEvent("event missing \"event\" field")
	}

	queue := RouteEvent(evt.Name)
	seq := b.seq.Add(1)
	member, err := encodeMember(seq, evt)
	if err != nil {
		return fmt.Errorf("eventbus: encode event %s: %w", evt.Name, err)
	}

	score := scoreFor(evt.Confidence, seq)
	if err := b.client.ZAdd(ctx, queueKey(queue), redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("eventbus: publish %s to %s: %w", evt.Name, queue, err)
	}

	logging.Debug(subsystem, "published event=%s queue=%s priority_score=%.4f", evt.Name, queue, score)
	return nil
}

// scoreFor computes score = priority*1e13 - sequence over the 0-10
// integer priority band, so a higher priority always outranks a lower
// one, and within the same band an earlier sequence number (smaller
// subtraction) sorts higher: FIFO per priority level under Redis's
// max-first ZPOPMAX ordering. Two confidences that land in the same
// band deliberately keep arrival order rather than sub-sorting on the
// raw float.
func scoreFor(confidence float64, seq int64) float64 {
	return float64(ConfidenceToPriority(confidence))*1e13 - float64(seq)
}

// Consume pops the highest-priority pending event from queue, if any,
// and then records it in the queue's in-flight hash under id. The pop
// and the HSET are two separate Redis calls; ConsumeAtomic does both in
// one script. ok is false when the queue was empty.
func (b *Bus) Consume(ctx context.Context, queue Queue) (id string, evt Event, ok bool, err error) {
	members, err := b.client.ZPopMax(ctx, queueKey(queue), 1).Result()
	if err != nil {
		return "", Event{}, false, fmt.Errorf("eventbus: consume from %s: %w", queue, err)
	}
	if len(members) == 0 {
		return "", Event{}, false, nil
	}

	raw, ok := members[0].Member.(string)
	if !ok {
		return "", Event{}, false, fmt.Errorf("eventbus: unexpected member type in %s", queue)
	}

	inflightID, decoded, err := decodeMember(raw)
	if err != nil {
		return "", Event{}, false, fmt.Errorf("eventbus: decode member from %s: %w", queue, err)
	}

	if err := b.client.HSet(ctx, inflightKey(queue), inflightID, raw).Err(); err != nil {
		return "", Event{}, false, fmt.Errorf("eventbus: mark %s in-flight on %s: %w", inflightID, queue, err)
	}

	return inflightID, decoded, true, nil
}

// Ack removes id from queue's in-flight hash, finalizing delivery.
func (b *Bus) Ack(ctx context.Context, queue Queue, id string) error {
	if err := b.client.HDel(ctx, inflightKey(queue), id).Err(); err != nil {
		return fmt.Errorf("eventbus: ack %s on %s: %w", id, queue, err)
	}
	return nil
}

// Nack moves id's envelope from the in-flight hash back onto queue's
// backlog at its original score, so a handler failure results in
// redelivery rather than silent loss. Delivery is at-least-once.
func (b *Bus) Nack(ctx context.Context, queue Queue, id string) error {
	raw, err := b.client.HGet(ctx, inflightKey(queue), id).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("eventbus: nack %s on %s: %w", id, queue, err)
	}

	_, evt, err := decodeMember(raw)
	if err != nil {
		return fmt.Errorf("eventbus: decode %s for redelivery: %w", id, err)
	}

	seq, err := seqFromMemberID(id)
	if err != nil {
		return fmt.Errorf("eventbus: parse sequence from %s: %w", id, err)
	}

	if err := b.client.ZAdd(ctx, queueKey(queue), redis.Z{Score: scoreFor(evt.Confidence, seq), Member: raw}).Err(); err != nil {
		return fmt.Errorf("eventbus: requeue %s on %s: %w", id, queue, err)
	}
	return b.client.HDel(ctx, inflightKey(queue), id).Err()
}

// ReapStale re-queues (via Nack) each in-flight entry on queue named in
// staleIDs, guarding against a consumer that crashed mid-processing. It
// does not track claim times and does not read visibilityTimeout:
// deciding which ids are stale is left to the caller, which re-runs
// ReapStale on a schedule and passes the ids it independently knows are
// stale.
func (b *Bus) ReapStale(ctx context.Context, queue Queue, staleIDs []string, visibilityTimeout time.Duration) error {
	for _, id := range staleIDs {
		if err := b.Nack(ctx, queue, id); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of pending (not in-flight) events on queue.
func (b *Bus) Depth(ctx context.Context, queue Queue) (int64, error) {
	n, err := b.client.ZCard(ctx, queueKey(queue)).Result()
	if err != nil {
		return 0, fmt.Errorf("eventbus: depth of %s: %w", queue, err)
	}
	return n, nil
}
