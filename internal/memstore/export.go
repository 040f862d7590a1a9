// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memstore

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export writes every entry for userID to w as YAML, most recent first.
func (s *Store) Export(ctx context.Context, userID string, w io.Writer) error {
	result, err := s.GetAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(result.Entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
