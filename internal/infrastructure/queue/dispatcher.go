package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/api/metrics"
	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

const (
	defaultWorkers     = 4
	defaultBuffer      = 256
	defaultSinkTimeout = 5 * time.Second
)

// Options tunes a Dispatcher. Zero values fall back to defaults.
type Options struct {
	Workers     int
	Buffer      int
	SinkTimeout time.Duration
}

// Dispatcher fans notifications out to every sink from a fixed set of
// workers. Notifications about the same subject always land on the same
// worker, so a post's created and updated events arrive in order.
type Dispatcher struct {
	workers     []chan domain.Notification
	sinks       []ports.NotificationSink
	sinkTimeout time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
}

// NewDispatcher creates a Dispatcher delivering to sinks.
func NewDispatcher(opts Options, sinks []ports.NotificationSink, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.SinkTimeout <= 0 {
		opts.SinkTimeout = defaultSinkTimeout
	}
	d := &Dispatcher{
		workers:     make([]chan domain.Notification, opts.Workers),
		sinks:       sinks,
		sinkTimeout: opts.SinkTimeout,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, opts.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Notify enqueues n without blocking. When the target worker is saturated the
// notification is dropped and counted.
func (d *Dispatcher) Notify(n domain.Notification) {
	idx := d.shardIndex(shardKey(n))
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(n.Kind)).Int("worker_id", idx).Msg("notification queue full, dropping")
	}
}

// shardKey falls back to the kind for notifications without a subject.
func shardKey(n domain.Notification) string {
	if n.Subject != "" {
		return n.Subject
	}
	return string(n.Kind)
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

// deliver hands n to every sink. A failing sink never affects the others.
func (d *Dispatcher) deliver(ctx context.Context, worker int, n domain.Notification) {
	for _, sink := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, d.sinkTimeout)
		start := time.Now()
		err := sink.Broadcast(sctx, n)
		cancel()

		metrics.NotificationDeliveryDuration.WithLabelValues(sink.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.NotificationsDispatchedTotal.WithLabelValues(sink.Name(), "error").Inc()
			d.log.Error().Err(err).
				Str("sink", sink.Name()).
				Str("kind", string(n.Kind)).
				Int("worker_id", worker).
				Msg("notification delivery failed")
			continue
		}
		metrics.NotificationsDispatchedTotal.WithLabelValues(sink.Name(), "ok").Inc()
	}
}
