package async_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptscan/email-receipts/internal/async"
	"github.com/receiptscan/email-receipts/internal/entity"
	"github.com/receiptscan/email-receipts/internal/parser"
	"github.com/receiptscan/email-receipts/internal/repository"
)

var _ = Describe("ParseQueue", func() {
	var (
		ctx   context.Context
		store *repository.Store
		repo  *repository.ReceiptRepository
		queue *async.ParseQueue
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
		Expect(err).NotTo(HaveOccurred())
		repo = repository.NewReceiptRepository(store, nil)
		Expect(repo.Migrate(ctx)).To(Succeed())

		validator, err := parser.NewRecordValidator()
		Expect(err).NotTo(HaveOccurred())

		p := parser.New(parser.Config{DefaultCurrency: "USD"}, nil)
		queue = async.NewParseQueue(p, validator, repo, 0.3, nil, async.WithWorkers(2))
	})

	AfterEach(func() {
		store.Close(nil)
	})

	It("stores confident receipts and drops the rest", func() {
		good := entity.InboundMessage{
			Subject: "Your Amazon.com order",
			From:    "orders@amazon.com",
			Date:    "Fri, 5 Jan 2024 10:11:12 -0500",
			Body:    "Order #112-7366223\nOrder Date: January 5, 2024\nOrder Total: $42.10",
		}
		noise := entity.InboundMessage{
			Subject: "Lunch?",
			From:    "friend@example.com",
			Body:    "See you at noon",
		}

		Expect(queue.Enqueue(ctx, async.Job{Message: good, SubmittedAt: time.Now()})).To(Succeed())
		Expect(queue.Enqueue(ctx, async.Job{Message: noise, SubmittedAt: time.Now()})).To(Succeed())

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		queue.Shutdown(shutdownCtx)

		accepted := queue.Accepted()
		Expect(accepted).To(HaveLen(1))
		Expect(*accepted[0].Vendor).To(Equal("Amazon"))
		Expect(accepted[0].Total.String()).To(Equal("42.10"))

		stored, err := repo.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(HaveLen(1))
		Expect(*stored[0].Vendor).To(Equal("Amazon"))
	})

	It("survives enqueues racing a shutdown", func() {
		p := parser.New(parser.Config{DefaultCurrency: "USD"}, nil)
		q := async.NewParseQueue(p, nil, nil, 0.3, nil,
			async.WithWorkers(2),
			async.WithQueueSize(1),
		)

		var wg sync.WaitGroup
		panics := make(chan any, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						panics <- r
					}
				}()
				for {
					job := async.Job{Message: entity.InboundMessage{Subject: "noise"}}
					if err := q.Enqueue(ctx, job); err != nil {
						return
					}
				}
			}()
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		q.Shutdown(shutdownCtx)
		wg.Wait()

		Expect(panics).To(BeEmpty())
	})

	It("rejects jobs after shutdown", func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		queue.Shutdown(shutdownCtx)

		err := queue.Enqueue(ctx, async.Job{Message: entity.InboundMessage{Subject: "late"}})
		Expect(err).To(MatchError(async.ErrQueueClosed))
	})
})
