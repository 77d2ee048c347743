package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteIndex overwrites the metadata index with the given entries, in
// order. The file is always written; an empty run leaves a literal [] so a
// page that became unready disappears from the index rather than lingering.
func WriteIndex(path string, metas []*PageMetadata) error {
	if metas == nil {
		metas = []*PageMetadata{}
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata index: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metadata dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata index: %w", err)
	}
	return nil
}
