package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
	"github.com/comedor/admin-api/internal/pkg/metrics"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 256
	defaultSendLimit = 30 * time.Second
)

// Sender performs one blocking delivery.
type Sender interface {
	Send(ctx context.Context, msg ports.CredentialEmail) error
}

// MailDispatcher is a fire-and-forget Notifier: emails are queued in memory
// and delivered by a fixed set of workers. Enqueueing never blocks.
type MailDispatcher struct {
	jobs      chan ports.CredentialEmail
	sender    Sender
	workers   int
	sendLimit time.Duration
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMailDispatcher creates a dispatcher with numWorkers workers and a queue
// of queueSize pending emails. Non-positive values fall back to defaults.
// sendLimit bounds each delivery independently of the request that queued it.
func NewMailDispatcher(sender Sender, numWorkers, queueSize int, sendLimit time.Duration, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if sendLimit <= 0 {
		sendLimit = defaultSendLimit
	}
	return &MailDispatcher{
		jobs:      make(chan ports.CredentialEmail, queueSize),
		sender:    sender,
		workers:   numWorkers,
		sendLimit: sendLimit,
		log:       log,
	}
}

// Start launches the workers. They exit when ctx is cancelled or after Close
// has drained the queue.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// SendCredentialEmail queues msg. It returns domain.ErrMailQueueFull when the
// queue is saturated or the dispatcher is closed.
func (d *MailDispatcher) SendCredentialEmail(_ context.Context, msg ports.CredentialEmail) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.CredentialEmailsTotal.WithLabelValues("dropped").Inc()
		return domain.ErrMailQueueFull
	}

	select {
	case d.jobs <- msg:
		metrics.MailQueueDepth.Set(float64(len(d.jobs)))
		return nil
	default:
		metrics.CredentialEmailsTotal.WithLabelValues("dropped").Inc()
		return domain.ErrMailQueueFull
	}
}

// Close stops accepting emails and waits for queued ones to be delivered.
func (d *MailDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.jobs:
			if !ok {
				return
			}
			metrics.MailQueueDepth.Set(float64(len(d.jobs)))
			d.deliver(id, msg)
		}
	}
}

func (d *MailDispatcher) deliver(worker int, msg ports.CredentialEmail) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendLimit)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(ctx, msg)
	metrics.MailDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CredentialEmailsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("to", msg.To).
			Str("username", msg.Username).
			Int("worker_id", worker).
			Msg("credential email delivery failed")
		return
	}
	metrics.CredentialEmailsTotal.WithLabelValues("sent").Inc()
	d.log.Info().Str("to", msg.To).Str("username", msg.Username).Msg("credential email sent")
}
