package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/papercomputeco/plugingen/pkg/scaffold"
)

// RunRecord summarizes one generation run. It is written to
// .plugingen/run.toml inside the project.
type RunRecord struct {
	ID         string    `toml:"id" json:"id"`
	StartedAt  time.Time `toml:"started_at" json:"started_at"`
	FinishedAt time.Time `toml:"finished_at" json:"finished_at"`
	Provider   string    `toml:"provider" json:"provider"`
	Model      string    `toml:"model" json:"model"`
	Topic      string    `toml:"topic" json:"topic"`

	// Transcript is the hash of the last stored transcript node.
	Transcript string `toml:"transcript,omitempty" json:"transcript,omitempty"`

	Packages []string     `toml:"packages" json:"packages"`
	Warnings []string     `toml:"warnings" json:"warnings"`
	Files    []FileRecord `toml:"files" json:"files"`
}

// FileRecord is a generated file and the digest of what was written.
type FileRecord struct {
	Path   string `toml:"path" json:"path"`
	SHA256 string `toml:"sha256" json:"sha256"`
	Bytes  int    `toml:"bytes" json:"bytes"`
}

func newRunRecord(provider, model, topic string) *RunRecord {
	return &RunRecord{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Provider:  provider,
		Model:     model,
		Topic:     topic,
	}
}

func (r *RunRecord) addFile(rel, content string) {
	sum := sha256.Sum256([]byte(content))
	r.Files = append(r.Files, FileRecord{
		Path:   rel,
		SHA256: hex.EncodeToString(sum[:]),
		Bytes:  len(content),
	})
}

func (r *RunRecord) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// WriteRunRecord encodes record as TOML into dir.
func WriteRunRecord(dir string, record *RunRecord) error {
	path := filepath.Join(dir, filepath.FromSlash(scaffold.OutputRunRecord))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := toml.NewEncoder(f).Encode(record); err != nil {
		f.Close()
		return fmt.Errorf("encode run record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadRunRecord decodes the run record of the project in dir.
func ReadRunRecord(dir string) (*RunRecord, error) {
	var record RunRecord
	path := filepath.Join(dir, filepath.FromSlash(scaffold.OutputRunRecord))
	if _, err := toml.DecodeFile(path, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &record, nil
}
