// Package runlog persists pipeline execution logs to disk, one directory per
// run: run.json holds the full result and steps/<name>.json one record per
// attempted stage.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zen-systems/ratewatch/pkg/pipeline"
)

// Writer writes one run's log bundle.
type Writer struct {
	baseDir string
	runDir  string
	runID   string
}

// NewWriter creates a writer rooted at baseDir/<runID>. The run ID is derived
// from the start time, so runs sort chronologically by directory name.
func NewWriter(baseDir string, startedAt time.Time) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	runID := startedAt.UTC().Format("20060102T150405Z")
	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "steps"), 0755); err != nil {
		return nil, err
	}

	return &Writer{baseDir: baseDir, runDir: runDir, runID: runID}, nil
}

// RunID returns the run identifier.
func (w *Writer) RunID() string {
	return w.runID
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// Write persists the result as run.json plus one steps/<name>.json per
// attempted stage.
func (w *Writer) Write(result *pipeline.Result) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}
	if err := writeJSON(filepath.Join(w.runDir, "run.json"), result); err != nil {
		return err
	}
	for _, step := range result.Steps {
		path := filepath.Join(w.runDir, "steps", fmt.Sprintf("%s.json", step.Name))
		if err := writeJSON(path, step); err != nil {
			return err
		}
	}
	return nil
}

// Latest loads the most recent run's result. Returns (nil, "", nil) when no
// runs exist yet.
func Latest(baseDir string) (*pipeline.Result, string, error) {
	entries, err := os.ReadDir(baseDir)
	if os.IsNotExist(err) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var newest string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() > newest {
			newest = entry.Name()
		}
	}
	if newest == "" {
		return nil, "", nil
	}

	runDir := filepath.Join(baseDir, newest)
	data, err := os.ReadFile(filepath.Join(runDir, "run.json"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read run log: %w", err)
	}

	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, "", fmt.Errorf("failed to parse run log: %w", err)
	}
	return &result, runDir, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
