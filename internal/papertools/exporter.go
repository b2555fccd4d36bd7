package papertools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ExportJSON writes a run summary as indented JSON.
func ExportJSON(summary any, path string) error {
	data, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
