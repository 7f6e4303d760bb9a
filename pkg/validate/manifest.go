package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/ai-plugin.schema.json
var manifestSchemaBytes []byte

var (
	manifestSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

func getManifestSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("ai-plugin.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		manifestSchema, compileErr = c.Compile("ai-plugin.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return manifestSchema, compileErr
}

// Manifest validates an ai-plugin.json document against the embedded schema
// and checks that auth is "none", which is what the generation prompt asks for.
func Manifest(file string, data []byte) []Issue {
	schema, err := getManifestSchema()
	if err != nil {
		return []Issue{{File: file, Message: "loading schema: " + err.Error()}}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []Issue{{File: file, Message: "parse JSON: " + err.Error()}}
	}

	var issues []Issue
	if err := schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return []Issue{{File: file, Message: err.Error()}}
		}
		collectIssues(file, ve, &issues)
		if len(issues) == 0 {
			issues = append(issues, Issue{File: file, Message: ve.Error()})
		}
	}

	var manifest struct {
		Auth struct {
			Type string `json:"type"`
		} `json:"auth"`
	}
	if err := json.Unmarshal(data, &manifest); err == nil && manifest.Auth.Type != "" && manifest.Auth.Type != "none" {
		issues = append(issues, Issue{File: file, Path: "/auth/type", Message: fmt.Sprintf("auth type is %q, expected \"none\"", manifest.Auth.Type)})
	}

	return issues
}

// collectIssues walks the error tree and keeps the leaves.
func collectIssues(file string, ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}

		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		*issues = append(*issues, Issue{File: file, Path: path, Message: msg})
		return
	}

	for _, cause := range ve.Causes {
		collectIssues(file, cause, issues)
	}
}
