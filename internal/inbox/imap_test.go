package inbox

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewIMAPSource", func() {
	It("derives the host from a well-known domain", func() {
		src, err := NewIMAPSource(IMAPConfig{Address: "me@gmail.com", Password: "pw"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.cfg.Host).To(Equal("imap.gmail.com"))
		Expect(src.cfg.Port).To(Equal(993))
		Expect(src.cfg.Mailbox).To(Equal("INBOX"))
	})

	It("refuses an unknown domain without an explicit host", func() {
		_, err := NewIMAPSource(IMAPConfig{Address: "me@corp.example", Password: "pw"}, nil)
		Expect(err).To(MatchError(ContainSubstring("IMAP_HOST")))
	})

	It("requires credentials", func() {
		_, err := NewIMAPSource(IMAPConfig{Address: "me@gmail.com"}, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("guessIMAPHost", func() {
	DescribeTable("known providers",
		func(address, want string) {
			got, ok := guessIMAPHost(address)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("gmail", "a@gmail.com", "imap.gmail.com"),
		Entry("gmail uppercased", "a@GMAIL.COM", "imap.gmail.com"),
		Entry("outlook", "a@outlook.com", "outlook.office365.com"),
		Entry("hotmail", "a@hotmail.com", "outlook.office365.com"),
		Entry("yahoo", "a@yahoo.com", "imap.mail.yahoo.com"),
	)

	It("reports unknown domains", func() {
		_, ok := guessIMAPHost("a@corp.example")
		Expect(ok).To(BeFalse())
	})

	It("reports a missing domain", func() {
		_, ok := guessIMAPHost("not-an-address")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("messageFromRFC822", func() {
	crlf := func(s string) []byte {
		return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
	}

	It("parses a single-part plain message", func() {
		raw := crlf(`From: orders@amazon.com
Date: Fri, 5 Jan 2024 10:11:12 -0500
Subject: Your order
Content-Type: text/plain

Order Total: $42.10
`)
		msg, err := messageFromRFC822(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Subject).To(Equal("Your order"))
		Expect(msg.From).To(Equal("orders@amazon.com"))
		Expect(msg.Date).To(Equal("Fri, 5 Jan 2024 10:11:12 -0500"))
		Expect(msg.Body).To(ContainSubstring("Order Total: $42.10"))
	})

	It("prefers the plain part of a multipart alternative", func() {
		raw := crlf(`From: pos@joescafe.example
Subject: Receipt
Content-Type: multipart/alternative; boundary=BOUND

--BOUND
Content-Type: text/plain

Total: $7.50
--BOUND
Content-Type: text/html

<html><body><b>Total: $9.99</b></body></html>
--BOUND--
`)
		msg, err := messageFromRFC822(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Body).To(ContainSubstring("Total: $7.50"))
		Expect(msg.Body).NotTo(ContainSubstring("9.99"))
	})

	It("falls back to the html part when no plain part exists", func() {
		raw := crlf(`From: pos@joescafe.example
Subject: Receipt
Content-Type: multipart/alternative; boundary=BOUND

--BOUND
Content-Type: text/html

<html><body>Total: $9.99</body></html>
--BOUND--
`)
		msg, err := messageFromRFC822(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Body).To(ContainSubstring("Total: $9.99"))
	})
})
