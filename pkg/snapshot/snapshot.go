// Package snapshot persists the scraped assignment list between the two
// commands. The file is the only coupling point: fetch overwrites it whole,
// register reads it whole.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skobaya/manabasync/pkg/model"
)

// Save writes records to path, replacing any previous snapshot.
func Save(path string, records []model.Assignment) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file %s: %w", path, err)
	}
	defer f.Close()

	if records == nil {
		records = []model.Assignment{}
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	// Keep URLs and Japanese course names readable in the file
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot written by the fetch command. A missing file is an
// operator error, not an empty listing: register must not silently treat
// "never fetched" as "nothing to do".
func Load(path string) ([]model.Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot %s not found: run fetch first", path)
		}
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	var records []model.Assignment
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return records, nil
}
