package ups

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventType enumerates the kinds of UPS events the dispatcher fans out to
// subscribers.
type EventType string

const (
	EventStateReport    EventType = "StateReport"
	EventProgressReport EventType = "ProgressReport"
	EventCancelRequested EventType = "CancelRequested"
	EventAssigned       EventType = "Assigned"
	EventCompleted      EventType = "Completed"
	EventCanceled       EventType = "Canceled"
)

// Event is a single occurrence delivered to interested subscribers.
type Event struct {
	Type           EventType
	WorkitemUID    string
	TransactionUID string
	Timestamp      time.Time
	Payload        map[string]any
}

// Delivery is the callback a Dispatcher invokes to actually hand an event
// to a subscriber (e.g. POST to the subscriber's AE over UPS-RS, or a
// DIMSE N-EVENT-REPORT in a DIMSE-backed deployment). Returning an error
// counts as a delivery failure and triggers a retry.
type Delivery func(ctx context.Context, sub Subscription, evt Event) error

// DispatcherConfig controls queue and retry behavior.
type DispatcherConfig struct {
	MaxQueueSize         int
	MaxDeliveryAttempts  int
	EventRetentionTime   time.Duration
	Workers              int
	Logger               *slog.Logger
}

func (c *DispatcherConfig) applyDefaults() {
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 1000
	}
	if c.MaxDeliveryAttempts <= 0 {
		c.MaxDeliveryAttempts = 3
	}
	if c.EventRetentionTime <= 0 {
		c.EventRetentionTime = 24 * time.Hour
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// queuedDelivery is one (event, subscription) pairing awaiting delivery.
type queuedDelivery struct {
	evt      Event
	sub      Subscription
	attempts int
}

// Dispatcher fans out committed workitem events to subscribers. It owns
// the subscription store, a bounded FIFO queue, and a worker pool that
// drains the queue by invoking Delivery.
type Dispatcher struct {
	cfg      DispatcherConfig
	subs     *SubscriptionStore
	deliver  Delivery
	queue    chan queuedDelivery
	dropped  int64
	mu       sync.Mutex
	history  []Event // retained for EventRetentionTime, newest last
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher and starts its worker pool. Call
// Stop to drain and shut it down.
func NewDispatcher(subs *SubscriptionStore, deliver Delivery, cfg DispatcherConfig) *Dispatcher {
	cfg.applyDefaults()
	d := &Dispatcher{
		cfg:     cfg,
		subs:    subs,
		deliver: deliver,
		queue:   make(chan queuedDelivery, cfg.MaxQueueSize),
		stopCh:  make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Publish fans the event out to every interested, non-suspended
// subscription and enqueues one delivery per match. Overflow beyond
// MaxQueueSize is dropped FIFO-oldest-first is not attempted; instead the
// newest enqueue is dropped, since an already-queued older delivery
// represents a commit that happened first and should not be starved.
func (d *Dispatcher) Publish(ctx context.Context, evt Event) {
	d.mu.Lock()
	d.history = append(d.history, evt)
	d.evictOldLocked()
	d.mu.Unlock()

	for _, sub := range d.subs.MatchingSubscriptions(evt) {
		select {
		case d.queue <- queuedDelivery{evt: evt, sub: sub}:
		default:
			d.mu.Lock()
			d.dropped++
			d.mu.Unlock()
			d.cfg.Logger.Warn("ups: event queue full, dropping delivery",
				"workitem", evt.WorkitemUID, "subscriber", sub.SubscriberID)
		}
	}
}

// Dropped returns the number of deliveries dropped for queue overflow.
func (d *Dispatcher) Dropped() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// HasDeletionLock reports whether any non-suspended subscription with
// DeletionLock=true exists for workitemUID (including the global
// subscription, which guards every workitem).
func (d *Dispatcher) HasDeletionLock(workitemUID string) bool {
	return d.subs.HasDeletionLock(workitemUID)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stopCh:
			return
		case qd := <-d.queue:
			d.attemptDelivery(qd)
		}
	}
}

func (d *Dispatcher) attemptDelivery(qd queuedDelivery) {
	qd.attempts++
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.deliver(ctx, qd.sub, qd.evt); err != nil {
		d.cfg.Logger.Warn("ups: delivery failed",
			"subscriber", qd.sub.SubscriberID, "workitem", qd.evt.WorkitemUID,
			"attempt", qd.attempts, "err", err)

		if qd.attempts >= d.cfg.MaxDeliveryAttempts {
			d.cfg.Logger.Error("ups: delivery abandoned after max attempts",
				"subscriber", qd.sub.SubscriberID, "workitem", qd.evt.WorkitemUID)
			return
		}
		select {
		case d.queue <- qd:
		default:
			d.mu.Lock()
			d.dropped++
			d.mu.Unlock()
		}
	}
}

// evictOldLocked drops history entries older than EventRetentionTime.
// Callers must hold d.mu.
func (d *Dispatcher) evictOldLocked() {
	cutoff := time.Now().Add(-d.cfg.EventRetentionTime)
	i := 0
	for ; i < len(d.history); i++ {
		if d.history[i].Timestamp.After(cutoff) {
			break
		}
	}
	d.history = d.history[i:]
}

// Stop shuts down the worker pool, letting in-flight deliveries finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	d.wg.Wait()
}
