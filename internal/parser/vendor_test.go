package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IdentifyVendor", func() {
	When("the subject has no receipt keyword", func() {
		It("returns nothing even for a known domain", func() {
			Expect(IdentifyVendor("Big summer deals", "deals@amazon.com")).To(BeEmpty())
		})
	})

	When("the sender domain is known", func() {
		It("resolves the vendor from a bare address", func() {
			Expect(IdentifyVendor("Your order confirmation", "orders@amazon.com")).To(Equal("Amazon"))
		})

		It("resolves the vendor from an angle-bracketed address", func() {
			Expect(IdentifyVendor("Receipt", "Walmart <no-reply@walmart.com>")).To(Equal("Walmart"))
		})

		It("matches the table key by containment within the domain", func() {
			Expect(IdentifyVendor("Your invoice", "billing@mail.target.com")).To(Equal("Target"))
		})
	})

	When("the domain is unknown", func() {
		It("falls back to vendor names in the subject", func() {
			Expect(IdentifyVendor("Your Starbucks receipt", "noreply@sbux.example")).To(Equal("Starbucks"))
		})

		It("matches subject names case-insensitively", func() {
			Expect(IdentifyVendor("your DOORDASH order", "mail@example.com")).To(Equal("DoorDash"))
		})
	})

	When("no signal matches", func() {
		It("returns nothing", func() {
			Expect(IdentifyVendor("Receipt from Joe's Cafe", "noreply@joescafe.example.com")).To(BeEmpty())
		})
	})
})
