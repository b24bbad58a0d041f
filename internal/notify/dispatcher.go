package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/redact"
	"golang.org/x/time/rate"
)

// Config holds dispatcher settings.
type Config struct {
	// QueueSize bounds the number of undelivered messages. If zero or
	// negative, defaults to 100.
	QueueSize int
	// WorkerCount is the number of concurrent delivery goroutines. If zero
	// or negative, defaults to 1.
	WorkerCount int
	// RatePerSecond caps deliveries per second across all workers. Zero or
	// negative disables throttling.
	RatePerSecond float64
	// Timeout bounds a single delivery. If zero or negative, defaults to 10s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:     100,
		WorkerCount:   1,
		RatePerSecond: 1,
		Timeout:       10 * time.Second,
	}
}

// Dispatcher queues notification messages and delivers them asynchronously.
type Dispatcher struct {
	sender  Sender
	queue   *queue
	limiter *rate.Limiter
	workers int
	timeout time.Duration
	logger  *slog.Logger

	// ctx is cancelled when Stop gives up waiting for the queue to drain.
	ctx    context.Context
	cancel context.CancelFunc

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewDispatcher creates a dispatcher delivering through sender. A nil sender
// disables delivery: messages are logged and discarded.
func NewDispatcher(sender Sender, cfg Config, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "notify")

	defaults := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.WorkerCount <= 0 {
		log.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", defaults.WorkerCount)
		cfg.WorkerCount = defaults.WorkerCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	limit := rate.Inf
	burst := cfg.WorkerCount
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		sender:  sender,
		queue:   newQueue(cfg.QueueSize),
		limiter: rate.NewLimiter(limit, burst),
		workers: cfg.WorkerCount,
		timeout: cfg.Timeout,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Enabled reports whether messages are actually delivered.
func (d *Dispatcher) Enabled() bool {
	return d.sender != nil
}

// Start launches the delivery workers. Calling Start more than once has no
// further effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.logger.Info("starting notification dispatcher",
			"worker_count", d.workers,
			"queue_capacity", cap(d.queue.messages),
			"delivery_enabled", d.Enabled())

		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.worker(i)
		}

		go func() {
			d.wg.Wait()
			close(d.done)
		}()
	})
}

// Stop closes the queue and waits for queued messages to be delivered. If
// ctx expires first, in-flight deliveries are cancelled and ctx's error is
// returned. Stop is safe to call more than once.
func (d *Dispatcher) Stop(ctx context.Context) error {
	var err error
	d.stopOnce.Do(func() {
		d.queue.close()
		// Start may never have been called.
		d.startOnce.Do(func() { close(d.done) })

		select {
		case <-d.done:
			d.logger.Info("notification dispatcher stopped")
		case <-ctx.Done():
			d.cancel()
			<-d.done
			err = ctx.Err()
			d.logger.Warn("notification dispatcher stopped before queue drained",
				"error", err,
				"dropped_count", d.queue.len())
		}
		d.cancel()
	})
	return err
}

// Enqueue queues text for delivery and returns the delivery id. It never
// blocks; a full or closed queue is reported as an error.
func (d *Dispatcher) Enqueue(ctx context.Context, text string) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)
	msg := Message{ID: uuid.New(), Text: text, EnqueuedAt: time.Now().UTC()}

	if !d.Enabled() {
		log.Info("notification delivery disabled, message discarded",
			"delivery_id", msg.ID.String())
		return msg.ID, nil
	}

	if err := d.queue.enqueue(msg); err != nil {
		return msg.ID, err
	}

	log.Debug("notification enqueued",
		"delivery_id", msg.ID.String(),
		"queue_len", d.queue.len())
	return msg.ID, nil
}

// Notify queues text for delivery. Failures to enqueue are logged and
// swallowed.
func (d *Dispatcher) Notify(ctx context.Context, text string) {
	id, err := d.Enqueue(ctx, text)
	if err != nil {
		logger.FromContextOrDefault(ctx, d.logger).Warn("notification dropped",
			"delivery_id", id.String(),
			"error", err)
	}
}

func (d *Dispatcher) worker(n int) {
	defer d.wg.Done()

	log := d.logger.With("worker_id", n)
	for msg := range d.queue.messages {
		d.deliver(log, msg)
	}
}

func (d *Dispatcher) deliver(log *slog.Logger, msg Message) {
	log = log.With("delivery_id", msg.ID.String())

	if err := d.limiter.Wait(d.ctx); err != nil {
		log.Warn("notification dropped while throttled", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(ctx, msg.Text)
	elapsed := time.Since(start)

	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelInfo
		}
		log.Log(ctx, level, "notification delivery failed",
			"error", redact.Error(err),
			"duration_ms", elapsed.Milliseconds())
		return
	}

	log.Info("notification delivered",
		"duration_ms", elapsed.Milliseconds(),
		"queued_ms", start.Sub(msg.EnqueuedAt).Milliseconds())
}
