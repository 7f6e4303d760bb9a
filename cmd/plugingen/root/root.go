package rootcmder

import (
	"github.com/spf13/cobra"

	generatecmder "github.com/papercomputeco/plugingen/cmd/plugingen/generate"
	servecmder "github.com/papercomputeco/plugingen/cmd/plugingen/serve"
)

const rootLongDesc string = `Scaffold a ChatGPT plugin from a one-line description.

plugingen copies a TypeScript and Express plugin skeleton, asks a model to
rewrite its index.ts, openapi.yaml and ai-plugin.json for your topic, then
installs and builds the project.

Running plugingen with no subcommand is the same as "plugingen generate".`

const rootShortDesc string = "Generate ChatGPT plugins with an LLM"

// NewRootCmd returns the plugingen command tree.
func NewRootCmd() *cobra.Command {
	generate := generatecmder.NewGenerateCmd()

	cmd := &cobra.Command{
		Use:          "plugingen",
		Short:        rootShortDesc,
		Long:         rootLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         generate.RunE,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.plugingen/config.toml)")

	// The bare command runs generate, so it takes generate's flags too.
	cmd.Flags().AddFlagSet(generate.Flags())

	cmd.AddCommand(generate)
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
