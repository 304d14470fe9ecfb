package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/scientifictooffi/itransition-4task/internal/api/metrics"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	sendTimeout    = 30 * time.Second
)

// Dispatcher delivers verification emails asynchronously on a fixed set of
// workers, sharded by recipient so deliveries to one address never reorder.
// Delivery is best-effort: failures are logged and counted, never surfaced
// to the request that enqueued them.
type Dispatcher struct {
	workers []chan ports.VerificationEmail
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VerificationEmail, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VerificationEmail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an email to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(email ports.VerificationEmail) {
	d.workers[d.shardIndex(email.To)] <- email
}

func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VerificationEmail) {
	for {
		select {
		case <-ctx.Done():
			return
		case email, ok := <-ch:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := d.mailer.SendVerification(sendCtx, email.To, email.Link)
			cancel()
			if err != nil {
				metrics.EmailsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("to", email.To).
					Int("worker_id", id).
					Msg("verification email delivery failed")
				continue
			}
			metrics.EmailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
