package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
)

// ErrQueueFull is returned by Publish when the event was dropped.
var ErrQueueFull = errors.New("outbox queue full")

// Sink receives every event the Dispatcher delivers.
type Sink interface {
	Publish(ctx context.Context, evt events.Event) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, evt events.Event) error

func (f SinkFunc) Publish(ctx context.Context, evt events.Event) error { return f(ctx, evt) }

type Config struct {
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		BufferSize: 256,
		MaxRetries: 3,
		RetryDelay: 200 * time.Millisecond,
	}
}

type namedSink struct {
	name string
	sink Sink
}

// Dispatcher queues draft events in memory and fans them out to its sinks on
// a background goroutine. Publish never blocks the caller.
type Dispatcher struct {
	queue   chan events.Event
	config  Config
	metrics MetricsCollector
	clock   clockwork.Clock

	mu       sync.Mutex
	sinks    []namedSink
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	processed atomic.Uint64
	dropped   atomic.Uint64
	lastEvent atomic.Int64 // unix nanos
}

func NewDispatcher(cfg Config, metrics MetricsCollector) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	return &Dispatcher{
		queue:    make(chan events.Event, cfg.BufferSize),
		config:   cfg,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		stopChan: make(chan struct{}),
	}
}

// AddSink registers a sink. Sinks added after Start receive later events only.
func (d *Dispatcher) AddSink(name string, sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, namedSink{name: name, sink: sink})
}

// Publish queues evt for delivery. A full queue drops the event.
func (d *Dispatcher) Publish(_ context.Context, evt events.Event) error {
	select {
	case d.queue <- evt:
		return nil
	default:
		d.dropped.Add(1)
		d.metrics.RecordDropped(string(evt.Type))
		log.Warn().
			Str("event_id", evt.ID.String()).
			Str("event_type", string(evt.Type)).
			Str("draft_id", evt.DraftID.String()).
			Msg("outbox queue full, dropping event")
		return ErrQueueFull
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("outbox dispatcher already running")
	}
	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.run(ctx)

	log.Info().
		Int("buffer_size", cap(d.queue)).
		Int("sinks", len(d.snapshotSinks())).
		Msg("outbox dispatcher started")
	return nil
}

// Stop delivers whatever is already queued and waits for the worker to exit.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return fmt.Errorf("outbox dispatcher not running")
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopChan)
	d.wg.Wait()

	log.Info().Uint64("processed", d.processed.Load()).Msg("outbox dispatcher stopped")
	return nil
}

// Stats reports delivered and dropped counts and when the last event went out.
func (d *Dispatcher) Stats() (processed, dropped uint64, last time.Time) {
	if ns := d.lastEvent.Load(); ns != 0 {
		last = time.Unix(0, ns).UTC()
	}
	return d.processed.Load(), d.dropped.Load(), last
}

// Running reports whether the worker goroutine is active.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// QueueDepth is the number of events waiting for delivery.
func (d *Dispatcher) QueueDepth() int { return len(d.queue) }

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopChan:
			d.drain(ctx)
			return
		case evt := <-d.queue:
			d.dispatch(ctx, evt)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case evt := <-d.queue:
			d.dispatch(ctx, evt)
		default:
			return
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, evt events.Event) {
	for _, s := range d.snapshotSinks() {
		start := d.clock.Now()
		err := d.publishWithRetry(ctx, s, evt)
		d.metrics.RecordEventProcessed(s.name, string(evt.Type), err == nil, d.clock.Since(start))
		if err != nil {
			log.Error().Err(err).
				Str("sink", s.name).
				Str("event_id", evt.ID.String()).
				Str("event_type", string(evt.Type)).
				Msg("failed to deliver event")
		}
	}
	d.processed.Add(1)
	d.lastEvent.Store(d.clock.Now().UnixNano())
}

func (d *Dispatcher) publishWithRetry(ctx context.Context, s namedSink, evt events.Event) error {
	var lastErr error

	for attempt := 0; attempt <= d.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-d.clock.After(d.config.RetryDelay * time.Duration(attempt)):
			}
		}

		err := s.sink.Publish(ctx, evt)
		d.metrics.RecordPublishAttempt(s.name, string(evt.Type), attempt+1, err == nil)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).
				Str("sink", s.name).
				Str("event_id", evt.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", d.config.MaxRetries+1, lastErr)
}

func (d *Dispatcher) snapshotSinks() []namedSink {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]namedSink(nil), d.sinks...)
}
