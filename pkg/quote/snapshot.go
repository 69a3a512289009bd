package quote

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the persisted form of one fetch, with provenance metadata.
type Snapshot struct {
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"`
	Count     int       `json:"count"`
	Quotes    []Quote   `json:"quotes"`
}

// WriteSnapshot saves a timestamped JSON snapshot of the quote set under dir
// and returns the file path.
func WriteSnapshot(dir string, quotes []Quote, fetchedAt time.Time) (string, error) {
	if len(quotes) == 0 {
		return "", fmt.Errorf("no quotes to snapshot")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	snap := Snapshot{
		FetchedAt: fetchedAt.UTC(),
		Source:    "dolarapi",
		Count:     len(quotes),
		Quotes:    quotes,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("quotes_%s.json", fetchedAt.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	return path, nil
}

// ReadSnapshot loads a previously written snapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}
