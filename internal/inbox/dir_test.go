package inbox_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptscan/email-receipts/internal/inbox"
)

var _ = Describe("DirSource", func() {
	var (
		ctx context.Context
		dir string
		src *inbox.DirSource
	)

	write := func(name, body string) {
		Expect(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		src = inbox.NewDirSource(dir, nil)
	})

	It("reads JSON messages in file-name order", func() {
		write("02_second.json", `{"subject":"Receipt B","from":"b@example.com","date":"","body":"Total: $2.00"}`)
		write("01_first.json", `{"subject":"Receipt A","from":"a@example.com","date":"","body":"Total: $1.00"}`)

		msgs, err := src.Fetch(ctx, "", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].Subject).To(Equal("Receipt A"))
		Expect(msgs[1].Subject).To(Equal("Receipt B"))
	})

	It("skips non-JSON files and unparseable JSON", func() {
		write("readme.txt", "not a message")
		write("broken.json", "{nope")
		write("good.json", `{"subject":"Receipt","from":"x@example.com","date":"","body":"Total: $3.00"}`)

		msgs, err := src.Fetch(ctx, "", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].From).To(Equal("x@example.com"))
	})

	It("honors the max limit", func() {
		write("a.json", `{"subject":"A","from":"a@example.com","date":"","body":""}`)
		write("b.json", `{"subject":"B","from":"b@example.com","date":"","body":""}`)
		write("c.json", `{"subject":"C","from":"c@example.com","date":"","body":""}`)

		msgs, err := src.Fetch(ctx, "", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].Subject).To(Equal("A"))
		Expect(msgs[1].Subject).To(Equal("B"))
	})

	It("fails when the directory does not exist", func() {
		missing := inbox.NewDirSource(filepath.Join(dir, "nope"), nil)
		_, err := missing.Fetch(ctx, "", 0)
		Expect(err).To(HaveOccurred())
	})
})
