// Package generator runs the fixed conversation that turns a plugin topic
// into a buildable ChatGPT plugin project.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/plugingen/pkg/llm"
	"github.com/papercomputeco/plugingen/pkg/markdown"
	"github.com/papercomputeco/plugingen/pkg/merkle"
	"github.com/papercomputeco/plugingen/pkg/npm"
	"github.com/papercomputeco/plugingen/pkg/prompt"
	"github.com/papercomputeco/plugingen/pkg/scaffold"
)

// Config wires a Generator's collaborators.
type Config struct {
	Client llm.Client
	Asker  Asker
	NPM    *npm.Manager

	// Store receives the run transcript. Nil skips storing it.
	Store merkle.Storer

	// Templates is the project skeleton. Defaults to scaffold.TemplateFS().
	Templates fs.FS

	// Out receives progress lines. Defaults to io.Discard.
	Out io.Writer

	// Render formats the design discussion. Defaults to RenderMarkdown.
	Render func(string) (string, error)
}

// Generator produces plugin projects.
type Generator struct {
	client    llm.Client
	asker     Asker
	npm       *npm.Manager
	store     merkle.Storer
	templates fs.FS
	render    func(string) (string, error)
	out       printer
	logger    *zap.Logger
}

// Request describes one run.
type Request struct {
	// Dir is the project directory. It is replaced.
	Dir   string
	Model string
	Topic string

	// Discuss asks for a design discussion before any file is generated.
	Discuss bool

	// SkipInstall leaves npm alone.
	SkipInstall bool
}

// New creates a Generator.
func New(config Config, logger *zap.Logger) (*Generator, error) {
	if config.Client == nil {
		return nil, errors.New("generator: client is required")
	}
	if config.Asker == nil {
		return nil, errors.New("generator: asker is required")
	}
	if config.NPM == nil {
		config.NPM = npm.NewManager(io.Discard, io.Discard)
	}
	if config.Templates == nil {
		config.Templates = scaffold.TemplateFS()
	}
	if config.Out == nil {
		config.Out = io.Discard
	}
	if config.Render == nil {
		config.Render = RenderMarkdown
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:    config.Client,
		asker:     config.Asker,
		npm:       config.NPM,
		store:     config.Store,
		templates: config.Templates,
		render:    config.Render,
		out:       printer{w: config.Out},
		logger:    logger,
	}, nil
}

// Run generates the project described by req. Steps run strictly in order
// and the first failure ends the run as a *StepError.
func (g *Generator) Run(ctx context.Context, req Request) (*RunRecord, error) {
	record := newRunRecord(g.client.Provider(), req.Model, req.Topic)
	log := g.logger.With(zap.String("run", record.ID), zap.String("dir", req.Dir))

	prepared, err := scaffold.Prepare(g.templates, req.Dir)
	if err != nil {
		return nil, stepError("prepare project", err)
	}
	for _, w := range prepared.Warnings {
		log.Warn("prepare", zap.String("warning", w))
		record.warn(w)
	}
	log.Debug("copied template", zap.Int("files", len(prepared.Files)))

	refs, err := prompt.LoadReferences(g.templates, prompt.DefaultReferencePaths)
	if err != nil {
		return nil, stepError("load references", err)
	}
	composer, err := prompt.NewComposer(refs)
	if err != nil {
		return nil, stepError("build prompt", err)
	}

	var history prompt.History
	g.out.raw("Generating project, this may take a few minutes...")

	if req.Discuss {
		g.out.step("Thinking about the design...")
		response, err := g.ask(ctx, log, composer, &history, req.Model, discussInstruction(req.Topic))
		if err != nil {
			return nil, stepError("design discussion", err)
		}
		rendered, err := g.render(response)
		if err != nil {
			log.Debug("render failed, printing raw", zap.Error(err))
			rendered = response
		}
		g.out.raw(rendered)
	}

	var dependencies string
	for _, step := range fileSteps(req.Topic) {
		g.out.step("Generating %s file...", step.name)

		response, err := g.ask(ctx, log, composer, &history, req.Model, step.instruction)
		if err != nil {
			return nil, stepError("generate "+step.name, err)
		}
		if step.output == scaffold.OutputDependencies {
			dependencies = response
		}

		if step.expectFence {
			if report := markdown.Inspect(response); !report.SingleBlock() {
				msg := fmt.Sprintf("%s: %s", step.output, report.Describe())
				log.Warn("unexpected response fencing", zap.String("file", step.output), zap.String("reason", report.Describe()))
				record.warn(msg)
			}
		}

		content := markdown.StripFences(response)
		if err := scaffold.Write(req.Dir, step.output, content); err != nil {
			return nil, stepError("write "+step.output, err)
		}
		record.addFile(step.output, content)

		if step.validate != nil {
			for _, issue := range step.validate(ctx, step.output, []byte(content)) {
				log.Warn("validation", zap.String("file", issue.File), zap.String("path", issue.Path), zap.String("message", issue.Message))
				g.out.warn("%s", issue)
				record.warn(issue.String())
			}
		}
	}

	record.Packages = npm.ParseInstall(dependencies)
	if !req.SkipInstall {
		if err := g.install(ctx, log, req.Dir, record); err != nil {
			return nil, err
		}
	}

	if g.store != nil {
		head, err := merkle.RecordTranscript(ctx, g.store, req.Model, composer.System(), history.Turns())
		if err != nil {
			return nil, stepError("store transcript", err)
		}
		record.Transcript = head
		log.Debug("stored transcript", zap.String("head", head), zap.Int("turns", history.Len()))
	}

	record.FinishedAt = time.Now().UTC()
	if err := WriteRunRecord(req.Dir, record); err != nil {
		return nil, stepError("write run record", err)
	}

	if req.SkipInstall {
		g.out.done("Done! Run `npm install && npm run build` in %s, then `npm start`.", filepath.Base(req.Dir))
	} else {
		g.out.done("Done! Run `npm start` to start the plugin.")
	}
	return record, nil
}

// ask sends instruction with the full history and records the turn.
func (g *Generator) ask(ctx context.Context, log *zap.Logger, composer *prompt.Composer, history *prompt.History, model, instruction string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messages, err := composer.Compose(history.Turns(), instruction)
	if err != nil {
		return "", err
	}

	log.Debug("sending instruction",
		zap.String("instruction", truncate(instruction, 80)),
		zap.Int("messages", len(messages)),
	)

	resp, err := g.client.Chat(ctx, &llm.ChatRequest{
		Model:    model,
		Messages: messages,
		Options:  &llm.Options{Temperature: llm.Float64(0)},
	})
	if err != nil {
		return "", err
	}

	content := resp.Message.Content
	log.Debug("received response",
		zap.String("model", resp.Model),
		zap.Int("bytes", len(content)),
		zap.Int("prompt_tokens", resp.PromptEvalCount),
		zap.Int("completion_tokens", resp.EvalCount),
		zap.String("preview", truncate(content, 80)),
	)

	history.Append(instruction, content)
	return content, nil
}

func (g *Generator) install(ctx context.Context, log *zap.Logger, dir string, record *RunRecord) error {
	if version, err := g.npm.CheckVersion(ctx); err != nil {
		log.Warn("npm version check", zap.Error(err))
		record.warn(err.Error())
	} else {
		log.Debug("npm", zap.String("version", version.String()))
	}

	if len(record.Packages) > 0 {
		ok, err := g.asker.ConfirmInstall(ctx, record.Packages)
		if err != nil {
			return stepError("confirm install", err)
		}
		if ok {
			g.out.step("Installing %d packages...", len(record.Packages))
			if err := g.npm.Install(ctx, dir, record.Packages...); err != nil {
				return stepError("install packages", err)
			}
		}
	}

	g.out.step("Installing dependencies...")
	if err := g.npm.Install(ctx, dir); err != nil {
		return stepError("npm install", err)
	}

	g.out.step("Building...")
	if err := g.npm.Build(ctx, dir); err != nil {
		return stepError("npm run build", err)
	}
	return nil
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
