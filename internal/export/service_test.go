package export_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/receiptscan/email-receipts/internal/entity"
	"github.com/receiptscan/email-receipts/internal/export"
	"github.com/receiptscan/email-receipts/internal/repository"
)

var _ = Describe("Service", func() {
	var (
		ctx   context.Context
		store *repository.Store
		repo  *repository.ReceiptRepository
		svc   *export.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
		Expect(err).NotTo(HaveOccurred())
		repo = repository.NewReceiptRepository(store, nil)
		Expect(repo.Migrate(ctx)).To(Succeed())
		svc = export.NewService(repo, nil)
	})

	AfterEach(func() {
		store.Close(nil)
	})

	When("the store is empty", func() {
		It("writes a workbook with only the header row", func() {
			out, err := svc.ExportReceiptsXLSX(ctx)
			Expect(err).NotTo(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			rows, err := f.GetRows("Receipts")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(Equal(entity.RowHeader))
		})
	})

	When("receipts are stored", func() {
		BeforeEach(func() {
			vendor := "Amazon"
			date := "2024-01-05"
			total := decimal.RequireFromString("42.10")
			Expect(repo.Save(ctx, &entity.ReceiptRecord{
				Vendor:       &vendor,
				Date:         &date,
				Total:        &total,
				Currency:     "USD",
				EmailSubject: "Your order",
				EmailFrom:    "orders@amazon.com",
				Confidence:   0.76,
			})).Error().NotTo(HaveOccurred())

			cafe := "Joe's Cafe"
			tiny := decimal.RequireFromString("7.50")
			Expect(repo.Save(ctx, &entity.ReceiptRecord{
				Vendor:       &cafe,
				Total:        &tiny,
				Currency:     "USD",
				EmailSubject: "Receipt",
				EmailFrom:    "pos@joescafe.example",
				Confidence:   0.4666,
			})).Error().NotTo(HaveOccurred())
		})

		It("writes one row per stored receipt after the header", func() {
			out, err := svc.ExportReceiptsXLSX(ctx)
			Expect(err).NotTo(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			rows, err := f.GetRows("Receipts")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))

			Expect(rows[1][0]).To(Equal("2024-01-05"))
			Expect(rows[1][1]).To(Equal("Amazon"))
			Expect(rows[1][2]).To(Equal("42.1"))
			Expect(rows[1][8]).To(Equal("USD"))

			Expect(rows[2][1]).To(Equal("Joe's Cafe"))
			Expect(rows[2][0]).To(BeEmpty())
		})
	})
})
