package servecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/plugingen/pkg/config"
	"github.com/papercomputeco/plugingen/pkg/logger"
	"github.com/papercomputeco/plugingen/pkg/preview"
)

const serveLongDesc string = `Serve a generated plugin's manifest and OpenAPI document.

Serves <dir>/public at the root, so /.well-known/ai-plugin.json and
/openapi.yaml resolve, and exposes the generation record and stored
transcripts for inspection:

  GET /health
  GET /run
  GET /transcripts/stats
  GET /transcripts/node/:hash
  GET /transcripts/history
  GET /transcripts/history/:hash

Examples:
  plugingen serve ./my-plugin
  plugingen serve --listen :8080 --db ~/.plugingen/transcripts.db ./my-plugin`

const serveShortDesc string = "Serve a generated plugin for preview"

type serveCommander struct {
	listen string
	dbPath string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve <dir>",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":3333", "Address to listen on")
	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "SQLite database with transcripts (default: in-memory)")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command, dir string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	configFile, _ := cmd.Flags().GetString("config")

	log := logger.NewLogger(debug)
	defer log.Sync()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	server, err := preview.New(preview.Config{
		ListenAddr: c.listen,
		Dir:        dir,
		DBPath:     cfg.DBPath,
	}, log)
	if err != nil {
		return err
	}
	defer server.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", dir, c.listen)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
