package generator

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RunRecord", func() {
	It("writes a complete file that reads back", func() {
		dir := GinkgoT().TempDir()
		record := newRunRecord("openai", "gpt-4", "says hello")
		record.addFile("index.ts", "console.log(1)")
		record.warn("index.ts: no code fence found")

		Expect(WriteRunRecord(dir, record)).To(Succeed())

		saved, err := ReadRunRecord(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.ID).To(Equal(record.ID))
		Expect(saved.Files).To(Equal(record.Files))
		Expect(saved.Warnings).To(Equal(record.Warnings))
	})

	It("reports a record that cannot be created", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, ".plugingen"), []byte("not a dir"), 0644)).To(Succeed())

		err := WriteRunRecord(dir, newRunRecord("openai", "gpt-4", "t"))
		Expect(err).To(HaveOccurred())
	})
})
