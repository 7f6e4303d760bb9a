package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fixed locations of generated files, relative to the project root.
const (
	OutputIndex        = "index.ts"
	OutputOpenAPI      = "public/openapi.yaml"
	OutputManifest     = "public/.well-known/ai-plugin.json"
	OutputDependencies = ".plugingen/dependencies.md"
	OutputRunRecord    = ".plugingen/run.toml"
)

// Result holds the outcome of preparing a project directory.
type Result struct {
	Dir      string
	Files    []string
	Warnings []string
}

// ErrUnsafeDestination is returned by Prepare for a destination it will not
// replace.
var ErrUnsafeDestination = errors.New("refusing to replace destination")

// Prepare replaces dest with a fresh copy of src. An existing dest is removed
// first, but only when it is empty or holds a previous run's record, and never
// when it is the working directory, the home directory or one of their
// ancestors. If removal fails the copy goes ahead and the failure is reported
// as a warning, so stale files may survive.
func Prepare(src fs.FS, dest string) (*Result, error) {
	if err := checkDestination(dest); err != nil {
		return nil, err
	}

	result := &Result{Dir: dest}

	if err := os.RemoveAll(dest); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not remove %s: %v", dest, err))
	}

	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(dest, filepath.FromSlash(p))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}

		data, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}

		result.Files = append(result.Files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func checkDestination(dest string) error {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dest, err)
	}
	abs = resolve(abs)

	if cwd, err := os.Getwd(); err == nil && containsPath(abs, resolve(cwd)) {
		return fmt.Errorf("%w: %s contains the working directory", ErrUnsafeDestination, abs)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" && containsPath(abs, resolve(home)) {
		return fmt.Errorf("%w: %s contains the home directory", ErrUnsafeDestination, abs)
	}

	info, err := os.Lstat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnsafeDestination, abs)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("reading %s: %w", abs, err)
	}
	if len(entries) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(abs, filepath.FromSlash(OutputRunRecord))); err != nil {
		return fmt.Errorf("%w: %s is not empty and has no %s", ErrUnsafeDestination, abs, OutputRunRecord)
	}
	return nil
}

// containsPath reports whether target is dir itself or lies below it.
func containsPath(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// resolve follows symlinks where p exists.
func resolve(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return p
}

// Write stores content at the slash-separated path rel under dir, creating
// parent directories as needed.
func Write(dir, rel, content string) error {
	target := filepath.Join(dir, filepath.FromSlash(path.Clean(rel)))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}
