package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAIClient", func() {
	var (
		ctx    context.Context
		server *httptest.Server
	)

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	newClient := func(handler http.HandlerFunc) *OpenAIClient {
		server = httptest.NewServer(handler)
		c, err := NewOpenAIClient(ClientConfig{APIKey: "sk-test", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())
		c.backoff = func(int) time.Duration { return time.Millisecond }
		return c
	}

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("requires an API key", func() {
		_, err := NewOpenAIClient(ClientConfig{})
		Expect(errors.Is(err, ErrMissingAPIKey)).To(BeTrue())
	})

	It("sends every message in order with bearer auth", func() {
		var (
			got        openAIRequest
			path, auth string
		)
		c := newClient(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			auth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			w.Write([]byte(`{"model":"gpt-4-0613","created":1700000000,"choices":[{"message":{"role":"assistant","content":"hi"}}],"usage":{"prompt_tokens":12,"completion_tokens":3}}`))
		})

		resp, err := c.Chat(ctx, &ChatRequest{
			Model: "gpt-4",
			Messages: []Message{
				{Role: RoleSystem, Content: "sys"},
				{Role: RoleUser, Content: "one"},
				{Role: RoleAssistant, Content: "two"},
				{Role: RoleUser, Content: "three"},
			},
			Options: &Options{Temperature: Float64(0)},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(path).To(Equal("/chat/completions"))
		Expect(auth).To(Equal("Bearer sk-test"))
		Expect(got.Model).To(Equal("gpt-4"))
		Expect(got.Messages).To(HaveLen(4))
		Expect(got.Messages[0]).To(Equal(openAIMessage{Role: "system", Content: "sys"}))
		Expect(got.Messages[3]).To(Equal(openAIMessage{Role: "user", Content: "three"}))
		Expect(got.Temperature).NotTo(BeNil())
		Expect(*got.Temperature).To(Equal(0.0))

		Expect(resp.Message.Content).To(Equal("hi"))
		Expect(resp.Message.Role).To(Equal(RoleAssistant))
		Expect(resp.Model).To(Equal("gpt-4-0613"))
		Expect(resp.PromptEvalCount).To(Equal(12))
		Expect(resp.EvalCount).To(Equal(3))
	})

	It("retries on 429 and then succeeds", func() {
		var calls atomic.Int32
		c := newClient(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
		})

		resp, err := c.Chat(ctx, &ChatRequest{Model: "gpt-4"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Message.Content).To(Equal("ok"))
		Expect(calls.Load()).To(Equal(int32(3)))
	})

	It("gives up after the retry budget", func() {
		var calls atomic.Int32
		c := newClient(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.Chat(ctx, &ChatRequest{Model: "gpt-4"})
		Expect(err).To(MatchError(ContainSubstring("max retries exceeded")))
		Expect(calls.Load()).To(Equal(int32(4)))
	})

	It("does not retry other failures", func() {
		var calls atomic.Int32
		c := newClient(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
		})

		_, err := c.Chat(ctx, &ChatRequest{Model: "gpt-4"})
		var apiErr *APIError
		Expect(errors.As(err, &apiErr)).To(BeTrue())
		Expect(apiErr.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(apiErr.Body).To(ContainSubstring("bad key"))
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("fails when no choices come back", func() {
		c := newClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		})

		_, err := c.Chat(ctx, &ChatRequest{Model: "gpt-4"})
		Expect(err).To(MatchError(ContainSubstring("no choices")))
	})
})
