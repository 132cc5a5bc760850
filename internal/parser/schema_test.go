package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/receiptscan/email-receipts/internal/common"
	"github.com/receiptscan/email-receipts/internal/entity"
)

var _ = Describe("RecordValidator", func() {
	var validator *RecordValidator

	BeforeEach(func() {
		var err error
		validator, err = NewRecordValidator()
		Expect(err).NotTo(HaveOccurred())
	})

	It("accepts a freshly parsed record", func() {
		p := New(Config{}, nil)
		rec := p.Parse(entity.InboundMessage{
			Subject: "Your Amazon.com order confirmation",
			From:    "orders@amazon.com",
			Body:    "Grand Total: $42.10\nOrder Placed: January 5, 2024",
		})
		Expect(validator.Validate(&rec)).To(Succeed())
	})

	It("accepts an all-empty record", func() {
		rec := entity.ReceiptRecord{Items: []entity.LineItem{}, Currency: "USD"}
		Expect(validator.Validate(&rec)).To(Succeed())
	})

	It("rejects a confidence outside [0,1]", func() {
		rec := entity.ReceiptRecord{Items: []entity.LineItem{}, Currency: "USD", Confidence: 1.5}
		Expect(validator.Validate(&rec)).To(MatchError(common.ErrValidation))
	})

	It("rejects a negative total", func() {
		d := decimal.RequireFromString("-5.00")
		rec := entity.ReceiptRecord{Items: []entity.LineItem{}, Currency: "USD", Total: &d}
		Expect(validator.Validate(&rec)).NotTo(Succeed())
	})

	It("rejects a bad currency code", func() {
		rec := entity.ReceiptRecord{Items: []entity.LineItem{}, Currency: "DOLLARS"}
		Expect(validator.Validate(&rec)).NotTo(Succeed())
	})
})
