// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// Export writes the link history to path. The format follows the file
// extension: .json writes indented JSON, anything else YAML. The same
// filters as List apply; the limit is ignored.
func (s *Store) Export(ctx context.Context, path string, opts ListOptions) (int, error) {
	opts.Limit = exportLimit
	records, err := s.List(ctx, opts)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(records, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		data, err = yaml.Marshal(records)
		if err != nil {
			return 0, fmt.Errorf("marshaling YAML: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing export %s: %w", path, err)
	}
	return len(records), nil
}
