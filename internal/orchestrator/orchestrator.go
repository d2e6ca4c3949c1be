// Package orchestrator binds each of the four stage queues to the
// ScanServices subscribed to it, pulls events off the bus, and
// dispatches them with a per-stage concurrency cap.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/eventbus"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

const subsystem = "Orchestrator"

// pollInterval is how often an idle queue consumer re-checks the bus
// when ConsumeAtomic reports nothing pending.
const pollInterval = 200 * time.Millisecond

// ScanService is anything that can handle one event from its bound stage
// queue and optionally emit downstream events back onto the bus. A scan
// service's Handle typically runs a Tool Runner and feeds
// the resulting stream to a Batch Ingestor.
type ScanService interface {
	Name() string
	Stage() eventbus.Queue
	Handle(ctx context.Context, evt eventbus.Event) ([]eventbus.Event, error)
}

// Registry binds stage queues to the scan services subscribed to them.
// A stage fans out to every subscriber bound to it.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[eventbus.Queue][]ScanService
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[eventbus.Queue][]ScanService)}
}

// Bind subscribes svc to its own Stage().
func (r *Registry) Bind(svc ScanService) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[svc.Stage()] = append(r.subscribers[svc.Stage()], svc)
}

// SubscribersOf returns every ScanService bound to queue.
func (r *Registry) SubscribersOf(queue eventbus.Queue) []ScanService {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ScanService, len(r.subscribers[queue]))
	copy(out, r.subscribers[queue])
	return out
}

// StageConcurrency caps how many events from a given queue may be
// dispatched concurrently.
type StageConcurrency map[eventbus.Queue]int64

// Orchestrator runs one consumer loop per stage queue, invoking every
// ScanService bound to that queue for each event it pops, publishing any
// events the service returns, and acking or nacking based on the
// outcome: any subscriber error triggers redelivery.
type Orchestrator struct {
	bus      *eventbus.Bus
	registry *Registry
	limits   StageConcurrency
}

// New returns an Orchestrator dispatching bus events through registry
// with the given per-stage concurrency caps.
func New(bus *eventbus.Bus, registry *Registry, limits StageConcurrency) *Orchestrator {
	return &Orchestrator{bus: bus, registry: registry, limits: limits}
}

// Run starts one consumer goroutine per stage queue and blocks until ctx
// is cancelled or a consumer returns an error, at which point every
// consumer is cancelled and Run returns the first error reported.
func (o *Orchestrator) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, queue := range eventbus.AllQueues() {
		queue := queue
		group.Go(func() error {
			return o.consumeQueue(groupCtx, queue)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (o *Orchestrator) consumeQueue(ctx context.Context, queue eventbus.Queue) error {
	concurrency := o.limits[queue]
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(concurrency)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			id, evt, ok, err := o.bus.ConsumeAtomic(ctx, queue)
			if err != nil {
				logging.Error(subsystem, err, "consume from %s", queue)
				continue
			}
			if !ok {
				continue
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			wg.Add(1)
			go func(id string, evt eventbus.Event) {
				defer wg.Done()
				defer sem.Release(1)
				o.dispatch(ctx, queue, id, evt)
			}(id, evt)
		}
	}
}

// dispatch invokes every ScanService bound to queue against evt. A
// subscriber's error nacks the delivery for redelivery; a
// clean return from every subscriber acks it and publishes whatever
// downstream events they returned.
func (o *Orchestrator) dispatch(ctx context.Context, queue eventbus.Queue, id string, evt eventbus.Event) {
	subscribers := o.registry.SubscribersOf(queue)
	if len(subscribers) == 0 {
		_ = o.bus.Ack(ctx, queue, id)
		return
	}

	var firstErr error
	var downstream []eventbus.Event
	for _, svc := range subscribers {
		events, err := svc.Handle(ctx, evt)
		if err != nil {
			logging.Error(subsystem, err, "scan service %s failed on event=%s", svc.Name(), evt.Name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		downstream = append(downstream, events...)
	}

	if firstErr != nil {
		if err := o.bus.Nack(ctx, queue, id); err != nil {
			logging.Error(subsystem, err, "nack %s on %s", id, queue)
		}
		return
	}

	for _, next := range downstream {
		if err := o.bus.Publish(ctx, next); err != nil {
			logging.Error(subsystem, err, "publish downstream event %s", next.Name)
		}
	}
	if err := o.bus.Ack(ctx, queue, id); err != nil {
		logging.Error(subsystem, err, "ack %s on %s", id, queue)
	}
}

// Seed publishes evt as the initial event of a scan run (a REST call or
// scheduled trigger starts every pipeline this way), warning if the
// event's routed queue has no bound subscriber, since such an event
// would otherwise sit on the queue until a subscriber is deployed.
func (o *Orchestrator) Seed(ctx context.Context, evt eventbus.Event) error {
	queue := eventbus.RouteEvent(evt.Name)
	if len(o.registry.SubscribersOf(queue)) == 0 {
		logging.Warn(subsystem, "%v", errUnboundQueue(queue))
	}
	return o.bus.Publish(ctx, evt)
}

// errUnboundQueue builds the warning Seed logs when the queue it is about
// to publish the seed event to has no subscriber.
func errUnboundQueue(queue eventbus.Queue) error {
	return fmt.Errorf("orchestrator: no scan service bound to queue %s", queue)
}
