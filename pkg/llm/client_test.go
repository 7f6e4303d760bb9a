package llm

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewClient", func() {
	ctx := context.Background()

	It("defaults to OpenAI", func() {
		c, err := NewClient(ctx, ClientConfig{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Provider()).To(Equal(ProviderOpenAI))
	})

	It("builds an Ollama client without a key", func() {
		c, err := NewClient(ctx, ClientConfig{Provider: ProviderOllama})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Provider()).To(Equal(ProviderOllama))
	})

	It("rejects unknown providers", func() {
		_, err := NewClient(ctx, ClientConfig{Provider: "bard"})
		Expect(err).To(MatchError(ContainSubstring(`unknown provider "bard"`)))
	})
})
