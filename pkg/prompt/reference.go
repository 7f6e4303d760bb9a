// Package prompt loads the reference files shown to the model and composes
// the message list sent on every turn of a generation run.
package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrNotFound is returned when a reference file is missing. It is fatal for a
// run: without the examples the model has nothing to imitate.
var ErrNotFound = errors.New("reference template not found")

// ReferenceTemplate is one example file embedded in the system message.
type ReferenceTemplate struct {
	// Name is the label shown to the model, e.g. "index.ts".
	Name string

	// Path is the slash-separated location the file was read from.
	Path string

	// Raw is the file's text as read.
	Raw string

	// Escaped is Raw with every brace doubled, ready to sit inside a
	// template without being read as a placeholder. It is computed once, at
	// load time.
	Escaped string
}

// ReferencePaths locates the three reference files inside a template tree.
type ReferencePaths struct {
	Index    string
	OpenAPI  string
	Manifest string
}

// DefaultReferencePaths matches the layout of the embedded plugin template.
var DefaultReferencePaths = ReferencePaths{
	Index:    "index.ts",
	OpenAPI:  "public/openapi.yaml",
	Manifest: "public/.well-known/ai-plugin.json",
}

// References holds the server skeleton, API schema and manifest examples.
type References struct {
	Index    ReferenceTemplate
	OpenAPI  ReferenceTemplate
	Manifest ReferenceTemplate
}

// LoadReferences reads the three reference files from fsys and escapes each.
func LoadReferences(fsys fs.FS, paths ReferencePaths) (References, error) {
	var refs References

	targets := []struct {
		dst  *ReferenceTemplate
		name string
		path string
	}{
		{&refs.Index, "index.ts", paths.Index},
		{&refs.OpenAPI, "openapi.yaml", paths.OpenAPI},
		{&refs.Manifest, "ai-plugin.json", paths.Manifest},
	}

	for _, t := range targets {
		data, err := fs.ReadFile(fsys, t.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return References{}, fmt.Errorf("%w: %s: %w", ErrNotFound, t.path, err)
			}
			return References{}, fmt.Errorf("read reference %s: %w", t.path, err)
		}

		raw := string(data)
		*t.dst = ReferenceTemplate{
			Name:    t.name,
			Path:    t.path,
			Raw:     raw,
			Escaped: Escape(raw),
		}
	}

	return refs, nil
}

// Escape doubles every brace: each { becomes {{, then each } becomes }}.
// It is not idempotent; escaping twice quadruples the braces.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}
