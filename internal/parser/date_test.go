package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeDate", func() {
	DescribeTable("recognized formats",
		func(raw, want string) {
			got, ok := NormalizeDate(raw)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("full month name", "January 5, 2024", "2024-01-05"),
		Entry("abbreviated month", "Jan 5, 2024", "2024-01-05"),
		Entry("abbreviated month with period", "Jan. 5, 2024", "2024-01-05"),
		Entry("US slashed", "1/5/2024", "2024-01-05"),
		Entry("US slashed two-digit year", "1/5/24", "2024-01-05"),
		Entry("dashed", "1-5-2024", "2024-01-05"),
		Entry("ISO", "2024-01-05", "2024-01-05"),
		Entry("ISO with slashes", "2024/01/05", "2024-01-05"),
		Entry("ISO unpadded", "2024-1-5", "2024-01-05"),
		Entry("ISO with slashes unpadded", "2024/1/5", "2024-01-05"),
		Entry("day first", "5 January 2024", "2024-01-05"),
		Entry("year first with month name", "2024 January 5", "2024-01-05"),
		Entry("surrounding whitespace", "  March 14, 2024 ", "2024-03-14"),
	)

	DescribeTable("unparseable input",
		func(raw string) {
			_, ok := NormalizeDate(raw)
			Expect(ok).To(BeFalse())
		},
		Entry("free text", "sometime last week"),
		Entry("impossible month", "13/45/2024"),
		Entry("empty", ""),
	)
})
