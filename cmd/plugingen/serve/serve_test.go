package servecmder

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func freeAddr() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer l.Close()
	return l.Addr().String()
}

var _ = Describe("Serve Command", func() {
	var projectDir string

	BeforeEach(func() {
		projectDir = GinkgoT().TempDir()
		wellKnown := filepath.Join(projectDir, "public", ".well-known")
		Expect(os.MkdirAll(wellKnown, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(wellKnown, "ai-plugin.json"), []byte(`{"schema_version":"v1"}`), 0644)).To(Succeed())

		home := GinkgoT().TempDir()
		old := os.Getenv("HOME")
		Expect(os.Setenv("HOME", home)).To(Succeed())
		DeferCleanup(os.Setenv, "HOME", old)
	})

	It("requires a directory argument", func() {
		cmd := NewServeCmd()
		cmd.SetArgs([]string{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		Expect(cmd.Execute()).To(HaveOccurred())
	})

	It("rejects a directory without public/", func() {
		cmd := NewServeCmd()
		cmd.SetArgs([]string{GinkgoT().TempDir()})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		Expect(cmd.Execute()).To(MatchError(ContainSubstring("missing public/")))
	})

	It("serves the manifest until the context ends", func() {
		addr := freeAddr()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cmd := NewServeCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--listen", addr, projectDir})

		done := make(chan error, 1)
		go func() {
			done <- cmd.ExecuteContext(ctx)
		}()

		url := fmt.Sprintf("http://%s/.well-known/ai-plugin.json", addr)
		Eventually(func() (int, error) {
			resp, err := http.Get(url)
			if err != nil {
				return 0, err
			}
			resp.Body.Close()
			return resp.StatusCode, nil
		}).Should(Equal(http.StatusOK))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
