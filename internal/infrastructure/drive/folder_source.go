// Package drive provides the filesystem-backed document source. The cloud
// drive adapter proper is an external collaborator; this implementation
// serves local folders of BOL PDFs (dropped by a sync client) and the tests.
package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/palletwise/backend/internal/domain"
)

// FolderSource lists PDF files in a directory. Document ids are paths
// relative to the root, matching the opaque-string contract.
type FolderSource struct {
	root string
}

// NewFolderSource creates a source rooted at dir.
func NewFolderSource(dir string) *FolderSource {
	return &FolderSource{root: dir}
}

// ListPDFs returns the folder's PDF files, newest first, matching the
// server-reported listing order of the real drive adapter.
func (f *FolderSource) ListPDFs(ctx context.Context, folderRef string) ([]domain.DocumentInfo, error) {
	dir := f.root
	if folderRef != "" {
		dir = filepath.Join(f.root, folderRef)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var docs []domain.DocumentInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		id := entry.Name()
		if folderRef != "" {
			id = filepath.Join(folderRef, entry.Name())
		}
		docs = append(docs, domain.DocumentInfo{
			ID:         id,
			Name:       entry.Name(),
			MimeType:   "application/pdf",
			CreatedAt:  info.ModTime(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// DownloadBytes reads one document by id.
func (f *FolderSource) DownloadBytes(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.root, id))
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}
	return data, nil
}
