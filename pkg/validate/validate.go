// Package validate checks generated plugin files. Findings are warnings: a
// project is written even when the model's output does not validate.
package validate

// Issue is a single validation finding.
type Issue struct {
	File    string // Project-relative file the issue belongs to
	Path    string // Location inside the document, when known (e.g. "/auth/type")
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.File + ": " + i.Message
	}
	return i.File + ": " + i.Path + ": " + i.Message
}
