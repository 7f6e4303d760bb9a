package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OllamaClient", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("accumulates streamed chunks into one response", func() {
		var (
			got  ChatRequest
			path string
		)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"Hel"},"done":false}` + "\n"))
			w.Write([]byte("\n"))
			w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"lo"},"done":false}` + "\n"))
			w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":""},"done":true,"prompt_eval_count":7,"eval_count":2}` + "\n"))
		}))

		c := NewOllamaClient(ClientConfig{BaseURL: server.URL})
		resp, err := c.Chat(context.Background(), &ChatRequest{
			Model:    "llama3",
			Messages: []Message{{Role: RoleUser, Content: "hi"}},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(path).To(Equal("/api/chat"))
		Expect(got.Stream).NotTo(BeNil())
		Expect(*got.Stream).To(BeTrue())
		Expect(resp.Message.Content).To(Equal("Hello"))
		Expect(resp.Done).To(BeTrue())
		Expect(resp.PromptEvalCount).To(Equal(7))
		Expect(resp.EvalCount).To(Equal(2))
	})

	It("surfaces upstream errors", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"model not found"}`))
		}))

		c := NewOllamaClient(ClientConfig{BaseURL: server.URL})
		_, err := c.Chat(context.Background(), &ChatRequest{Model: "missing"})

		var apiErr *APIError
		Expect(errors.As(err, &apiErr)).To(BeTrue())
		Expect(apiErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	Describe("accumulateStream", func() {
		It("fails when the stream ends without a done chunk", func() {
			_, err := accumulateStream(strings.NewReader(`{"message":{"content":"partial"},"done":false}` + "\n"))
			Expect(err).To(MatchError(ContainSubstring("before the final chunk")))
		})

		It("fails on a malformed chunk", func() {
			_, err := accumulateStream(strings.NewReader("not json\n"))
			Expect(err).To(MatchError(ContainSubstring("parse chunk")))
		})
	})
})
