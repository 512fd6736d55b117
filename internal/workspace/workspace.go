// Package workspace owns the process directories: where templates live, where
// generated decks are written, and how stale decks are removed.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cassandra/internal/config"
	"cassandra/internal/deck"

	"github.com/google/uuid"
)

// TemplateFileName is the blank template kept in the data directory. The
// sweeper never removes it.
const TemplateFileName = "template_blank.pptx"

// Workspace is the per-process directory context.
type Workspace struct {
	DataDir   string
	OutputDir string
}

// New creates both directories when missing.
func New(dataDir, outputDir string) (*Workspace, error) {
	if strings.TrimSpace(dataDir) == "" || strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("workspace directories must not be empty")
	}
	for _, dir := range []string{dataDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Workspace{DataDir: dataDir, OutputDir: outputDir}, nil
}

// FromConfig builds the workspace described by the storage section.
func FromConfig(cfg config.StorageConfig) (*Workspace, error) {
	return New(cfg.DataDir, cfg.OutputDir)
}

// TemplatePath is where EnsureTemplate writes the blank template.
func (w *Workspace) TemplatePath() string {
	return filepath.Join(w.DataDir, TemplateFileName)
}

// EnsureTemplate writes the embedded blank template unless one already exists
// and returns its path.
func (w *Workspace) EnsureTemplate() (string, error) {
	path := w.TemplatePath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat template: %w", err)
	}
	if err := os.WriteFile(path, deck.BaseTemplate(), 0o644); err != nil {
		return "", fmt.Errorf("write template: %w", err)
	}
	return path, nil
}

// OutputPath returns a file for a deck on topic generated at now. The name
// carries a random suffix so concurrent requests never share a file; the
// download name stays OutputName.
func (w *Workspace) OutputPath(topic string, now time.Time) string {
	name := strings.TrimSuffix(OutputName(topic, now), ".pptx")
	return filepath.Join(w.OutputDir, name+"_"+uuid.NewString()+".pptx")
}

var invalidFileChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// OutputName is cassandra_{topic}_{YYYYmmdd_HHMMSS}.pptx with spaces and
// characters that are invalid in file names replaced by underscores.
func OutputName(topic string, now time.Time) string {
	safe := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	safe = invalidFileChars.Replace(safe)
	if safe == "" {
		safe = "presentation"
	}
	return fmt.Sprintf("cassandra_%s_%s.pptx", safe, now.Format("20060102_150405"))
}
