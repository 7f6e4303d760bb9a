// Package npm runs the package manager against a generated project.
package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinVersion is the oldest npm known to handle the generated package.json.
var MinVersion = semver.MustParse("7.0.0")

// ErrUnsupportedVersion is returned by CheckVersion for an npm older than MinVersion.
var ErrUnsupportedVersion = errors.New("unsupported npm version")

var installLine = regexp.MustCompile(`npm install ([^\r\n]*)\r?\n`)

// ParseInstall extracts the package list from the first "npm install ..."
// line in a model response. The line must end with a newline. An inline code
// span ends the command, and packages are split on runs of whitespace.
func ParseInstall(response string) []string {
	m := installLine.FindStringSubmatch(response)
	if m == nil {
		return nil
	}
	args := m[1]
	if i := strings.IndexByte(args, '`'); i >= 0 {
		args = args[:i]
	}
	packages := strings.Fields(args)
	if len(packages) == 0 {
		return nil
	}
	return packages
}

// Runner runs a single command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run waits for the command to finish. A non-zero exit is an error.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Output runs the command and returns its trimmed stdout.
func (r ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Manager wraps the npm subcommands a generation run needs.
type Manager struct {
	Runner Runner

	// Binary is the executable name; defaults to "npm".
	Binary string
}

// NewManager returns a Manager that spawns npm with the given output streams.
func NewManager(stdout, stderr io.Writer) *Manager {
	return &Manager{Runner: ExecRunner{Stdout: stdout, Stderr: stderr}}
}

func (m *Manager) binary() string {
	if m.Binary == "" {
		return "npm"
	}
	return m.Binary
}

// Install runs "npm install" with the given packages in dir.
func (m *Manager) Install(ctx context.Context, dir string, packages ...string) error {
	return m.Runner.Run(ctx, dir, m.binary(), append([]string{"install"}, packages...)...)
}

// Build runs "npm run build" in dir.
func (m *Manager) Build(ctx context.Context, dir string) error {
	return m.Runner.Run(ctx, dir, m.binary(), "run", "build")
}

// CheckVersion returns the installed npm version, or ErrUnsupportedVersion
// alongside it when it is older than MinVersion.
func (m *Manager) CheckVersion(ctx context.Context) (*semver.Version, error) {
	out, err := m.Runner.Output(ctx, "", m.binary(), "--version")
	if err != nil {
		return nil, err
	}

	v, err := semver.NewVersion(out)
	if err != nil {
		return nil, fmt.Errorf("parse npm version %q: %w", out, err)
	}
	if v.LessThan(MinVersion) {
		return v, fmt.Errorf("%w: %s is older than %s", ErrUnsupportedVersion, v, MinVersion)
	}
	return v, nil
}
