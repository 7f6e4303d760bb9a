package generatecmder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/plugingen/pkg/llm"
	"github.com/papercomputeco/plugingen/pkg/scaffold"
)

var responses = []string{
	"```ts\nconsole.log(\"hello\");\n```\n",
	"```yaml\nopenapi: 3.0.1\ninfo:\n  title: Hello\n  version: v1\npaths: {}\n```\n",
	"```json\n{\"schema_version\": \"v1\"}\n```\n",
	"No extra packages are needed.",
}

func setenv(key, value string) {
	old, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

var _ = Describe("Generate Command", func() {
	var (
		ctx     context.Context
		tmpDir  string
		server  *httptest.Server
		calls   atomic.Int32
		authHdr atomic.Value
	)

	BeforeEach(func() {
		ctx = context.Background()
		tmpDir = GinkgoT().TempDir()
		setenv("HOME", tmpDir)
		setenv("OPENAI_API_KEY", "")

		calls.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHdr.Store(r.Header.Get("Authorization"))
			i := int(calls.Add(1) - 1)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"model": "gpt-4",
				"choices": []map[string]any{{
					"message": map[string]string{"role": "assistant", "content": responses[i%len(responses)]},
				}},
			})
		}))
		DeferCleanup(server.Close)
	})

	execute := func(args ...string) (string, error) {
		cmd := NewGenerateCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.ExecuteContext(ctx)
		return out.String(), err
	}

	It("generates a project from flags alone", func() {
		dir := filepath.Join(tmpDir, "hello-plugin")

		out, err := execute(
			"--name", dir,
			"--topic", "says hello",
			"--model", "gpt-4",
			"--api-key", "sk-test",
			"--base-url", server.URL,
			"--skip-install",
		)
		Expect(err).NotTo(HaveOccurred())

		Expect(calls.Load()).To(Equal(int32(4)))
		Expect(authHdr.Load()).To(Equal("Bearer sk-test"))
		Expect(out).To(ContainSubstring("Generating index.ts file..."))

		index, err := os.ReadFile(filepath.Join(dir, scaffold.OutputIndex))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(index)).To(Equal("console.log(\"hello\");"))

		Expect(filepath.Join(dir, scaffold.OutputRunRecord)).To(BeAnExistingFile())
		Expect(filepath.Join(dir, "tsconfig.json")).To(BeAnExistingFile())
	})

	It("stores the transcript when --db is set", func() {
		dir := filepath.Join(tmpDir, "stored")
		db := filepath.Join(tmpDir, "transcripts.db")

		_, err := execute(
			"--name", dir,
			"--api-key", "sk-test",
			"--base-url", server.URL,
			"--skip-install",
			"--db", db,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(db).To(BeAnExistingFile())
	})

	It("reads the key from the environment", func() {
		setenv("OPENAI_API_KEY", "sk-env")

		_, err := execute(
			"--name", filepath.Join(tmpDir, "env-key"),
			"--base-url", server.URL,
			"--skip-install",
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(authHdr.Load()).To(Equal("Bearer sk-env"))
	})

	It("fails without an API key", func() {
		_, err := execute("--name", filepath.Join(tmpDir, "no-key"), "--skip-install")

		Expect(err).To(MatchError(llm.ErrMissingAPIKey))
		Expect(calls.Load()).To(BeZero())
	})

	It("will not replace the working directory", func() {
		work := filepath.Join(tmpDir, "work")
		Expect(os.MkdirAll(work, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(work, "thesis.md"), []byte("draft"), 0644)).To(Succeed())

		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(work)).To(Succeed())
		DeferCleanup(os.Chdir, wd)

		_, err = execute("--name", ".", "--api-key", "sk-test", "--base-url", server.URL, "--skip-install")

		Expect(err).To(MatchError(scaffold.ErrUnsafeDestination))
		Expect(filepath.Join(work, "thesis.md")).To(BeAnExistingFile())
		Expect(calls.Load()).To(BeZero())
	})

	It("rejects an unknown provider", func() {
		_, err := execute("--provider", "bard", "--skip-install")

		Expect(err).To(MatchError(ContainSubstring(`unknown provider "bard"`)))
	})
})
