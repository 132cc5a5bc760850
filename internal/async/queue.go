package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/receiptscan/email-receipts/internal/entity"
	"github.com/receiptscan/email-receipts/internal/parser"
	"github.com/receiptscan/email-receipts/internal/repository"
)

// Job is one message waiting to be parsed.
type Job struct {
	Message     entity.InboundMessage
	SubmittedAt time.Time
}

var ErrQueueClosed = errors.New("parse queue closed")

// ParseQueue fans messages out to a fixed set of parse workers. Safe
// because the engine is stateless: workers share one Parser and never
// coordinate beyond the channel.
type ParseQueue struct {
	parser        *parser.Parser
	validator     *parser.RecordValidator
	repo          *repository.ReceiptRepository
	minConfidence float64
	logger        *slog.Logger
	workers       int
	timeout       time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// mu serializes Enqueue against Shutdown's close; accMu only guards
	// the accepted slice so workers never contend with a blocked sender.
	mu     sync.Mutex
	closed bool

	accMu    sync.Mutex
	accepted []entity.ReceiptRecord
}

type Option func(*ParseQueue)

func WithWorkers(n int) Option {
	return func(q *ParseQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ParseQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithStoreTimeout(d time.Duration) Option {
	return func(q *ParseQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewParseQueue(
	p *parser.Parser,
	validator *parser.RecordValidator,
	repo *repository.ReceiptRepository,
	minConfidence float64,
	logger *slog.Logger,
	opts ...Option,
) *ParseQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ParseQueue{
		parser:        p,
		validator:     validator,
		repo:          repo,
		minConfidence: minConfidence,
		logger:        logger,
		workers:       4,
		timeout:       30 * time.Second,
		ch:            make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ParseQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.process(workerID, job)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ParseQueue) process(workerID int, job Job) {
	rec := q.parser.Parse(job.Message)

	if rec.Confidence < q.minConfidence {
		q.logger.Info("receipt.skipped",
			"worker_id", workerID,
			"subject", job.Message.Subject,
			"confidence", rec.Confidence,
		)
		return
	}

	if q.validator != nil {
		if err := q.validator.Validate(&rec); err != nil {
			q.logger.Error("receipt.invalid", "worker_id", workerID, "subject", job.Message.Subject, "error", err)
			return
		}
	}

	if q.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		_, err := q.repo.Save(ctx, &rec)
		cancel()
		if err != nil {
			q.logger.Error("receipt.store_failed", "worker_id", workerID, "subject", job.Message.Subject, "error", err)
			return
		}
	}

	q.accMu.Lock()
	q.accepted = append(q.accepted, rec)
	q.accMu.Unlock()
}

// Enqueue submits one message for parsing. The lock is held across the
// send so Shutdown cannot close the channel mid-send.
func (q *ParseQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for in-flight work, or until
// the context expires.
func (q *ParseQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		q.logger.Warn("shutdown timed out with jobs in flight")
	}
}

// Accepted returns the records that cleared the confidence cutoff, in
// completion order.
func (q *ParseQueue) Accepted() []entity.ReceiptRecord {
	q.accMu.Lock()
	defer q.accMu.Unlock()
	out := make([]entity.ReceiptRecord, len(q.accepted))
	copy(out, q.accepted)
	return out
}
