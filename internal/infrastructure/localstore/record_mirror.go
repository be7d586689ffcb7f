// Package localstore keeps the filesystem side of the validation pipeline:
// the per-record JSON mirror and the watcher state file.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/palletwise/backend/internal/domain"
)

// RecordMirror writes one JSON file per validation record under the results
// directory. File names derive from (source, documentRef) so rewrites are
// idempotent.
type RecordMirror struct {
	dir string
}

// NewRecordMirror creates the results directory if needed.
func NewRecordMirror(dir string) (*RecordMirror, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results dir: %w", err)
	}
	return &RecordMirror{dir: dir}, nil
}

// Write persists one record as pretty-printed JSON.
func (m *RecordMirror) Write(rec *domain.ValidationRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	name := fmt.Sprintf("%s-%s.json", rec.Source, safeName(rec.DocumentRef, rec.SONumber))
	return writeAtomic(filepath.Join(m.dir, name), data)
}

// safeName flattens an opaque document id into a filesystem-safe name.
func safeName(documentRef, fallback string) string {
	s := documentRef
	if s == "" {
		s = fallback
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_", "..", "_")
	return replacer.Replace(s)
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partial file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
