package prompt_test

import (
	"errors"
	"io/fs"
	"math/rand"
	"strings"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/plugingen/pkg/prompt"
)

const (
	indexTS      = "app.post(\"/api/add\", (req, res) => {\n  res.json({ result: 1 });\n});\n"
	openapiYAML  = "openapi: 3.0.1\ninfo:\n  title: Add\n"
	aiPluginJSON = "{\n  \"schema_version\": \"v1\",\n  \"auth\": { \"type\": \"none\" }\n}\n"
)

func referenceFS() fstest.MapFS {
	return fstest.MapFS{
		"index.ts":                          {Data: []byte(indexTS)},
		"public/openapi.yaml":               {Data: []byte(openapiYAML)},
		"public/.well-known/ai-plugin.json": {Data: []byte(aiPluginJSON)},
	}
}

var _ = Describe("LoadReferences", func() {
	It("loads all three references raw and escaped", func() {
		refs, err := prompt.LoadReferences(referenceFS(), prompt.DefaultReferencePaths)
		Expect(err).NotTo(HaveOccurred())

		Expect(refs.Index.Name).To(Equal("index.ts"))
		Expect(refs.Index.Raw).To(Equal(indexTS))
		Expect(refs.Index.Escaped).To(Equal(prompt.Escape(indexTS)))
		Expect(refs.OpenAPI.Path).To(Equal("public/openapi.yaml"))
		Expect(refs.OpenAPI.Escaped).To(Equal(openapiYAML))
		Expect(refs.Manifest.Name).To(Equal("ai-plugin.json"))
		Expect(refs.Manifest.Escaped).To(ContainSubstring(`"auth": {{ "type": "none" }}`))
	})

	DescribeTable("fails with ErrNotFound when a file is missing",
		func(missing string) {
			fsys := referenceFS()
			delete(fsys, missing)

			_, err := prompt.LoadReferences(fsys, prompt.DefaultReferencePaths)
			Expect(errors.Is(err, prompt.ErrNotFound)).To(BeTrue())
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(missing))
		},
		Entry("server skeleton", "index.ts"),
		Entry("schema", "public/openapi.yaml"),
		Entry("manifest", "public/.well-known/ai-plugin.json"),
	)
})

var _ = Describe("Escape", func() {
	braces := func(s string) int {
		return strings.Count(s, "{") + strings.Count(s, "}")
	}

	It("doubles every brace and grows by the brace count", func() {
		alphabet := []rune("{}ab \n{x}é")
		rng := rand.New(rand.NewSource(42))

		for i := 0; i < 500; i++ {
			n := rng.Intn(40)
			var b strings.Builder
			for j := 0; j < n; j++ {
				b.WriteRune(alphabet[rng.Intn(len(alphabet))])
			}
			in := b.String()
			out := prompt.Escape(in)

			Expect(len(out)).To(Equal(len(in) + braces(in)))
			Expect(strings.Count(out, "{")).To(Equal(2 * strings.Count(in, "{")))
			Expect(strings.Count(out, "}")).To(Equal(2 * strings.Count(in, "}")))
			Expect(strings.NewReplacer("{{", "{", "}}", "}").Replace(out)).To(Equal(in))
		}
	})

	It("quadruples braces that were already doubled", func() {
		Expect(prompt.Escape("{{x}}")).To(Equal("{{{{x}}}}"))
	})

	It("leaves brace-free text alone", func() {
		Expect(prompt.Escape("openapi: 3.0.1")).To(Equal("openapi: 3.0.1"))
	})
})
