package domain

import (
	"context"
)

// OrderSource reads sales-order lines from the ERP. The adapter filters to
// shippable item types and excludes assembly components; this system only
// consumes its output.
type OrderSource interface {
	FindSalesOrderByTranID(ctx context.Context, soNumber string) (string, error)
	ListLineItems(ctx context.Context, orderID string) ([]OrderLine, error)
}

// DocumentSource lists and fetches BOL documents from the watched folder.
// IDs are opaque strings.
type DocumentSource interface {
	ListPDFs(ctx context.Context, folderRef string) ([]DocumentInfo, error)
	DownloadBytes(ctx context.Context, id string) ([]byte, error)
}

// TextExtractor renders a PDF's bytes to layout-preserving plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// RecordStore persists validation records remotely. Upsert is idempotent on
// (Source, DocumentRef).
type RecordStore interface {
	Upsert(ctx context.Context, rec *ValidationRecord) error
}

// RecordMirror writes one local JSON file per validation record. The mirror
// is authoritative when the remote store is unavailable.
type RecordMirror interface {
	Write(rec *ValidationRecord) error
}

// StateStore loads and saves the watcher's persisted state.
type StateStore interface {
	Load() (*WatcherState, error)
	Save(state *WatcherState) error
}

// AlertSink receives large-variance events. Transport (chat webhook, email)
// is a collaborator's concern.
type AlertSink interface {
	LargeVariance(ctx context.Context, rec *ValidationRecord)
}
