package english

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadEquivalences reads a JSON object of Korean title to English title.
// An empty path yields an empty table.
func LoadEquivalences(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read equivalences: %w", err)
	}

	table := make(map[string]string)
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse equivalences %s: %w", path, err)
	}
	return table, nil
}
