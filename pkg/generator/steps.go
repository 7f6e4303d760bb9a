package generator

import (
	"context"
	"fmt"

	"github.com/papercomputeco/plugingen/pkg/scaffold"
	"github.com/papercomputeco/plugingen/pkg/validate"
)

// fileStep is one instruction whose response becomes a project file.
type fileStep struct {
	name        string
	output      string
	instruction string

	// expectFence marks responses that should be exactly one fenced block.
	expectFence bool
	validate    func(ctx context.Context, file string, data []byte) []validate.Issue
}

func discussInstruction(topic string) string {
	return fmt.Sprintf("What are your high level thoughts on creating a plugin to %s:", topic)
}

func fileSteps(topic string) []fileStep {
	return []fileStep{
		{
			name:        "index.ts",
			output:      scaffold.OutputIndex,
			instruction: fmt.Sprintf("You should create a plugin that %s. Return only the index.ts file with no commentary:", topic),
			expectFence: true,
		},
		{
			name:        "openapi.yaml",
			output:      scaffold.OutputOpenAPI,
			instruction: "Return only the openapi.yaml file with no commentary:",
			expectFence: true,
			validate:    validate.OpenAPI,
		},
		{
			name:        "ai-plugin.json",
			output:      scaffold.OutputManifest,
			instruction: "Return only the ai-plugin.json file with no commentary make sure auth is set to none:",
			expectFence: true,
			validate: func(_ context.Context, file string, data []byte) []validate.Issue {
				return validate.Manifest(file, data)
			},
		},
		{
			name:        "dependencies",
			output:      scaffold.OutputDependencies,
			instruction: "What packages should we install? Give the command to install them:",
		},
	}
}
