package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/palletwise/backend/internal/domain"
	"github.com/palletwise/backend/internal/metrics"
)

// WatcherConfig holds configuration for the document watcher.
type WatcherConfig struct {
	FolderRef    string
	PollInterval time.Duration
	ProcessedCap int
}

// Watcher polls the document folder for new BOLs and drives one
// extract-plan-record cycle per document. Documents are processed strictly
// sequentially; the processed-id set bounds retries and is persisted between
// runs.
type Watcher struct {
	docs      domain.DocumentSource
	extractor domain.TextExtractor
	validator *Validator
	state     domain.StateStore
	log       *zap.SugaredLogger

	folderRef    string
	pollInterval time.Duration
	processedCap int

	// in-memory index of the processed set for O(1) membership
	processed map[string]struct{}
	current   *domain.WatcherState
}

// NewWatcher creates a watcher over the given folder.
func NewWatcher(
	docs domain.DocumentSource,
	extractor domain.TextExtractor,
	validator *Validator,
	state domain.StateStore,
	config WatcherConfig,
	log *zap.SugaredLogger,
) *Watcher {
	interval := config.PollInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	processedCap := config.ProcessedCap
	if processedCap <= 0 {
		processedCap = 500
	}
	return &Watcher{
		docs:         docs,
		extractor:    extractor,
		validator:    validator,
		state:        state,
		log:          log,
		folderRef:    config.FolderRef,
		pollInterval: interval,
		processedCap: processedCap,
	}
}

// Run polls until the context is cancelled. A tick may be cancelled between
// documents but never mid-document.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.loadState(); err != nil {
		return err
	}
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.log.Infow("watcher started", "folder", w.folderRef, "interval", w.pollInterval)
	for {
		if err := w.tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.log.Errorw("tick failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single tick, for one-shot CLI mode.
func (w *Watcher) RunOnce(ctx context.Context) error {
	if err := w.loadState(); err != nil {
		return err
	}
	return w.tick(ctx)
}

// ProcessFile handles one specific document id, bypassing folder listing and
// the processed set.
func (w *Watcher) ProcessFile(ctx context.Context, id string) error {
	if err := w.loadState(); err != nil {
		return err
	}
	return w.processDocument(ctx, domain.DocumentInfo{ID: id, Name: id})
}

func (w *Watcher) loadState() error {
	if w.current != nil {
		return nil
	}
	state, err := w.state.Load()
	if err != nil {
		return fmt.Errorf("loading watcher state: %w", err)
	}
	w.current = state
	w.processed = make(map[string]struct{}, len(state.ProcessedDocumentIDs))
	for _, id := range state.ProcessedDocumentIDs {
		w.processed[id] = struct{}{}
	}
	return nil
}

// tick lists the folder, filters to unprocessed PDFs, and processes each in
// listing order. Failed documents are still marked processed so a bad file
// cannot cause a retry storm; only a cancellation mid-document leaves its id
// unmarked for the next tick.
func (w *Watcher) tick(ctx context.Context) error {
	docs, err := w.docs.ListPDFs(ctx, w.folderRef)
	if err != nil {
		return fmt.Errorf("%w: listing %s: %v", domain.ErrDocumentFetchFailed, w.folderRef, err)
	}
	w.current.LastCheckAt = time.Now().UTC()

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !isPDF(doc) {
			continue
		}
		if _, done := w.processed[doc.ID]; done {
			continue
		}

		err := w.processDocument(ctx, doc)
		if err != nil && errors.Is(err, context.Canceled) {
			// Cancelled in flight: leave unmarked, retried next tick.
			return err
		}
		if err != nil {
			w.log.Warnw("document skipped", "id", doc.ID, "name", doc.Name, "reason", err)
			metrics.DocumentsProcessed.WithLabelValues(outcomeLabel(err)).Inc()
		} else {
			metrics.DocumentsProcessed.WithLabelValues("ok").Inc()
		}
		w.markProcessed(doc.ID)
	}
	return w.saveState()
}

func (w *Watcher) processDocument(ctx context.Context, doc domain.DocumentInfo) error {
	raw, err := w.docs.DownloadBytes(ctx, doc.ID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrDocumentFetchFailed, doc.ID, err)
	}
	text, err := w.extractor.ExtractText(ctx, raw)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("extracting text from %s: %v", doc.Name, err)
	}

	ext := ExtractBOL(text)
	if ext.SONumber == "" {
		return fmt.Errorf("%w: %s", domain.ErrBolUnparseable, doc.Name)
	}

	rec, err := w.validator.Record(ctx, ext, doc.ID)
	if err != nil {
		return err
	}
	w.log.Infow("document validated",
		"so", rec.SONumber,
		"predictedPallets", rec.Predicted.Pallets,
		"actualPallets", deref(rec.Actual.Pallets),
		"doc", doc.Name)
	return nil
}

func (w *Watcher) markProcessed(id string) {
	w.current.MarkProcessed(id, w.processedCap)
	w.processed[id] = struct{}{}
	if len(w.processed) > w.processedCap {
		// rebuild from the trimmed list
		w.processed = make(map[string]struct{}, len(w.current.ProcessedDocumentIDs))
		for _, kept := range w.current.ProcessedDocumentIDs {
			w.processed[kept] = struct{}{}
		}
	}
}

func (w *Watcher) saveState() error {
	if err := w.state.Save(w.current); err != nil {
		return fmt.Errorf("saving watcher state: %w", err)
	}
	return nil
}

func isPDF(doc domain.DocumentInfo) bool {
	if doc.MimeType != "" {
		return doc.MimeType == "application/pdf"
	}
	return strings.HasSuffix(strings.ToLower(doc.Name), ".pdf")
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrBolUnparseable):
		return "unparseable"
	case errors.Is(err, domain.ErrOrderSourceMiss):
		return "order_miss"
	case errors.Is(err, domain.ErrDocumentFetchFailed):
		return "fetch_failed"
	default:
		return "error"
	}
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
