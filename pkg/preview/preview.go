// Package preview serves a generated plugin's manifest and OpenAPI document
// alongside the stored generation transcripts.
package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/papercomputeco/plugingen/pkg/generator"
	"github.com/papercomputeco/plugingen/pkg/llm"
	"github.com/papercomputeco/plugingen/pkg/merkle"
)

// chatOrigin is where ChatGPT loads plugin manifests from.
const chatOrigin = "https://chat.openai.com"

// Server serves one project directory.
type Server struct {
	config Config
	storer merkle.Storer
	logger *zap.Logger
	app    *fiber.App
}

// New creates a new Server. The project's public/ directory must exist.
func New(config Config, logger *zap.Logger) (*Server, error) {
	public := filepath.Join(config.Dir, "public")
	if info, err := os.Stat(public); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s is not a generated project: missing public/", config.Dir)
	}

	var storer merkle.Storer
	var err error
	if config.DBPath != "" {
		storer, err = merkle.NewSQLiteStorer(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		logger.Info("using SQLite storage", zap.String("path", config.DBPath))
	} else {
		storer = merkle.NewMemoryStorer()
		logger.Warn("no transcript database given; /transcripts routes will be empty until --db points at one")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		storer: storer,
		logger: logger,
		app:    app,
	}

	app.Use(cors.New(cors.Config{AllowOrigins: chatOrigin}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	app.Get("/run", s.handleRunRecord)

	app.Get("/transcripts/stats", s.handleStats)
	app.Get("/transcripts/node/:hash", s.handleGetNode)
	app.Get("/transcripts/history", s.handleListHistories)
	app.Get("/transcripts/history/:hash", s.handleGetHistory)

	app.Static("/", public)

	return s, nil
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting preview server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("dir", s.config.Dir),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Close stops the server and releases the store.
func (s *Server) Close() error {
	return errors.Join(s.app.Shutdown(), s.storer.Close())
}

// handleRunRecord returns the project's run.toml as JSON.
func (s *Server) handleRunRecord(c *fiber.Ctx) error {
	record, err := generator.ReadRunRecord(s.config.Dir)
	if err != nil {
		s.logger.Debug("no run record", zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "run record not found"})
	}
	return c.JSON(record)
}
