package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	"github.com/papercomputeco/plugingen/pkg/llm"
)

// Defaults used when a question is not asked.
const (
	DefaultName  = "my-plugin"
	DefaultTopic = "an endpoint that takes a github PR link and returns the title of the PR"
)

// Models offered per provider; the first entry is the default.
var Models = map[string][]string{
	llm.ProviderOpenAI: {"gpt-3.5-turbo", "gpt-4", "gpt-4o"},
	llm.ProviderGemini: {"gemini-2.5-flash", "gemini-2.5-pro"},
	llm.ProviderOllama: {"llama3.1", "qwen2.5-coder"},
}

// Answers are the user's choices for a run. Non-empty fields passed to Ask
// are kept and their questions skipped.
type Answers struct {
	Name   string
	Model  string
	APIKey string
	Topic  string
}

// Asker collects run settings from the user.
type Asker interface {
	// Ask fills in the missing answers. The API key is only asked for when
	// needKey is set.
	Ask(ctx context.Context, prefilled Answers, needKey bool) (Answers, error)

	// ConfirmInstall asks whether the suggested packages may be installed.
	ConfirmInstall(ctx context.Context, packages []string) (bool, error)
}

// SurveyAsker asks on the terminal. Off a terminal every missing answer
// takes its default.
type SurveyAsker struct {
	// Models are the select choices for the model question.
	Models []string

	// AssumeYes accepts the install confirmation without asking.
	AssumeYes bool

	interactive bool
}

// NewSurveyAsker returns an asker on stdin/stdout, interactive only when
// stdin is a terminal.
func NewSurveyAsker(models []string, assumeYes bool) *SurveyAsker {
	return &SurveyAsker{
		Models:      models,
		AssumeYes:   assumeYes,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Ask implements Asker.
func (a *SurveyAsker) Ask(ctx context.Context, prefilled Answers, needKey bool) (Answers, error) {
	out := prefilled
	out.Name = strings.TrimSpace(out.Name)

	if out.Name == "" {
		name, err := a.input(ctx, &survey.Input{
			Message: "What is your project named?",
			Default: DefaultName,
		}, DefaultName, survey.WithValidator(validateName))
		if err != nil {
			return Answers{}, err
		}
		out.Name = strings.TrimSpace(name)
	}

	if out.Model == "" {
		model, err := a.selectModel(ctx)
		if err != nil {
			return Answers{}, err
		}
		out.Model = model
	}

	if needKey && out.APIKey == "" {
		key, err := a.input(ctx, &survey.Password{
			Message: "What is your API key?",
		}, "")
		if err != nil {
			return Answers{}, err
		}
		out.APIKey = strings.TrimSpace(key)
	}

	if strings.TrimSpace(out.Topic) == "" {
		topic, err := a.input(ctx, &survey.Input{
			Message: "What is the topic of your plugin for the model to use for generation?",
			Default: DefaultTopic,
		}, DefaultTopic)
		if err != nil {
			return Answers{}, err
		}
		out.Topic = topic
	}

	return out, nil
}

// ConfirmInstall implements Asker.
func (a *SurveyAsker) ConfirmInstall(ctx context.Context, packages []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.AssumeYes || !a.interactive {
		return true, nil
	}

	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("The model wants to install %s, is this ok?", strings.Join(packages, ", ")),
		Default: true,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, translateSurveyErr(err)
	}
	return ok, nil
}

func (a *SurveyAsker) input(ctx context.Context, prompt survey.Prompt, fallback string, opts ...survey.AskOpt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !a.interactive {
		return fallback, nil
	}

	var out string
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (a *SurveyAsker) selectModel(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(a.Models) == 0 {
		return "", errors.New("no models to choose from")
	}
	if !a.interactive || len(a.Models) == 1 {
		return a.Models[0], nil
	}

	var out string
	prompt := &survey.Select{
		Message: "Which model would you like to use?",
		Options: a.Models,
		Default: a.Models[0],
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func validateName(ans interface{}) error {
	s, _ := ans.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("project name cannot be empty")
	}
	return nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
