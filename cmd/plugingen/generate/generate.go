package generatecmder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/plugingen/pkg/config"
	"github.com/papercomputeco/plugingen/pkg/generator"
	"github.com/papercomputeco/plugingen/pkg/llm"
	"github.com/papercomputeco/plugingen/pkg/logger"
	"github.com/papercomputeco/plugingen/pkg/merkle"
	"github.com/papercomputeco/plugingen/pkg/npm"
)

const generateLongDesc string = `Generate a ChatGPT plugin project.

Asks for a project name, model and topic, copies the plugin skeleton into
./<name>, then has the model write index.ts, public/openapi.yaml and
public/.well-known/ai-plugin.json. Packages the model suggests are installed
after confirmation, and the project is built with npm.

Flags answer questions up front; when stdin is not a terminal every
unanswered question takes its default.

Examples:
  plugingen generate
  plugingen generate --name pr-titles --model gpt-4 --yes
  plugingen generate --provider ollama --model llama3.1 --skip-install
  plugingen generate --db ~/.plugingen/transcripts.db --discuss`

const generateShortDesc string = "Generate a plugin project"

type generateCommander struct {
	name        string
	topic       string
	discuss     bool
	skipInstall bool
	yes         bool

	// provider, model, api-key, base-url and db are read through config.Load.
	provider string
	model    string
	apiKey   string
	baseURL  string
	dbPath   string
}

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: generateShortDesc,
		Long:  generateLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.name, "name", "n", "", "Project name, also the output directory")
	cmd.Flags().StringVarP(&cmder.topic, "topic", "t", "", "What the plugin should do")
	cmd.Flags().BoolVar(&cmder.discuss, "discuss", false, "Ask the model for design thoughts first")
	cmd.Flags().BoolVar(&cmder.skipInstall, "skip-install", false, "Do not run npm")
	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Install suggested packages without asking")

	cmd.Flags().StringVar(&cmder.provider, "provider", "", "LLM provider: openai, ollama or gemini")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model name")
	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "Provider API key")
	cmd.Flags().StringVar(&cmder.baseURL, "base-url", "", "Provider API base URL")
	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "SQLite database for transcripts (default: not stored)")

	return cmd
}

func (c *generateCommander) run(ctx context.Context, cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")
	configFile, _ := cmd.Flags().GetString("config")

	log := logger.NewLogger(debug)
	defer log.Sync()

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	models, ok := generator.Models[cfg.Provider]
	if !ok {
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	asker := generator.NewSurveyAsker(models, c.yes)
	answers, err := asker.Ask(ctx, generator.Answers{
		Name:   c.name,
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
		Topic:  c.topic,
	}, cfg.Provider != llm.ProviderOllama)
	if err != nil {
		return err
	}
	cfg.APIKey = answers.APIKey

	client, err := llm.NewClient(ctx, cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("could not create %s client: %w", cfg.Provider, err)
	}

	dir, err := filepath.Abs(answers.Name)
	if err != nil {
		return fmt.Errorf("could not resolve project directory: %w", err)
	}

	var store merkle.Storer
	if cfg.DBPath != "" {
		sqliteStore, err := merkle.NewSQLiteStorer(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("could not open transcript database %s: %w", cfg.DBPath, err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	gen, err := generator.New(generator.Config{
		Client: client,
		Asker:  asker,
		NPM:    npm.NewManager(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Store:  store,
		Out:    cmd.OutOrStdout(),
	}, log)
	if err != nil {
		return err
	}

	log.Debug("generating plugin",
		zap.String("provider", cfg.Provider),
		zap.String("model", answers.Model),
		zap.String("dir", dir),
	)

	record, err := gen.Run(ctx, generator.Request{
		Dir:         dir,
		Model:       answers.Model,
		Topic:       answers.Topic,
		Discuss:     c.discuss,
		SkipInstall: c.skipInstall,
	})
	if err != nil {
		return err
	}

	log.Info("generated plugin",
		zap.String("dir", dir),
		zap.String("run", record.ID),
		zap.Int("warnings", len(record.Warnings)),
	)
	return nil
}
