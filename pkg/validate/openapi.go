package validate

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI loads data as an OpenAPI 3 document and validates it. Examples are
// not validated.
func OpenAPI(ctx context.Context, file string, data []byte) []Issue {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return []Issue{{File: file, Message: "load document: " + err.Error()}}
	}

	var issues []Issue
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		issues = append(issues, Issue{File: file, Message: err.Error()})
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		issues = append(issues, Issue{File: file, Path: "/paths", Message: "document does not contain any paths"})
	}

	return issues
}
