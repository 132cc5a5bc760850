package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeBody", func() {
	When("the body has no markup indicators", func() {
		It("returns the body verbatim", func() {
			body := "Total: $7.50\nThanks for shopping"
			Expect(NormalizeBody(body)).To(Equal(body))
		})

		It("leaves stray angle brackets alone", func() {
			body := "price < 10 and quantity > 2"
			Expect(NormalizeBody(body)).To(Equal(body))
		})
	})

	When("the body is HTML", func() {
		It("strips tags and joins fragments with newlines", func() {
			body := "<html><body><p>Order Confirmation</p><p>Total: $25.99</p></body></html>"
			Expect(NormalizeBody(body)).To(Equal("Order Confirmation\nTotal: $25.99"))
		})

		It("drops script and style content", func() {
			body := "<html><body><style>p{color:red}</style><script>track();</script><p>Total: $9.99</p></body></html>"
			Expect(NormalizeBody(body)).To(Equal("Total: $9.99"))
		})

		It("collapses whitespace inside fragments", func() {
			body := "<html><body><p>  Grand   Total:\n\t$42.10  </p></body></html>"
			Expect(NormalizeBody(body)).To(Equal("Grand Total: $42.10"))
		})

		It("matches the markup indicator case-insensitively", func() {
			body := "<HTML><BODY><p>Total: $1.00</p></BODY></HTML>"
			Expect(NormalizeBody(body)).To(Equal("Total: $1.00"))
		})
	})
})
