package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/palletwise/backend/internal/domain"
	"github.com/palletwise/backend/internal/logging"
)

// fakeDocs serves canned documents keyed by id.
type fakeDocs struct {
	docs    []domain.DocumentInfo
	content map[string]string
	listErr error
}

func (f *fakeDocs) ListPDFs(ctx context.Context, folderRef string) ([]domain.DocumentInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func (f *fakeDocs) DownloadBytes(ctx context.Context, id string) ([]byte, error) {
	text, ok := f.content[id]
	if !ok {
		return nil, fmt.Errorf("no such document %s", id)
	}
	return []byte(text), nil
}

// rawTextExtractor treats the document bytes as already-extracted text.
type rawTextExtractor struct{}

func (rawTextExtractor) ExtractText(ctx context.Context, raw []byte) (string, error) {
	return string(raw), nil
}

// fakeState keeps watcher state in memory.
type fakeState struct {
	state *domain.WatcherState
	saves int
}

func (f *fakeState) Load() (*domain.WatcherState, error) {
	if f.state == nil {
		return &domain.WatcherState{}, nil
	}
	return f.state, nil
}

func (f *fakeState) Save(s *domain.WatcherState) error {
	f.state = s
	f.saves++
	return nil
}

func bolText(so string) string {
	return fmt.Sprintf("BILL OF LADING\n1234567890 %s 4\n2 BIKE RACKS BUNDLED ON 48X40 PALLET   640\n", so)
}

func newTestWatcher(t *testing.T, docs *fakeDocs, state *fakeState, store *fakeStore, processedCap int) *Watcher {
	t.Helper()
	v := newTestValidator(t, map[string][]domain.OrderLine{
		"33922": {{SKU: "DV215", Qty: 140}},
		"33923": {{SKU: "HR101", Qty: 6}},
	}, store, &fakeMirror{}, &fakeAlerts{})
	return NewWatcher(docs, rawTextExtractor{}, v, state, WatcherConfig{
		FolderRef:    "folder-1",
		ProcessedCap: processedCap,
	}, logging.NewNop())
}

func TestWatcherTick(t *testing.T) {
	ctx := context.Background()

	t.Run("processes each new document exactly once", func(t *testing.T) {
		docs := &fakeDocs{
			docs: []domain.DocumentInfo{
				{ID: "d1", Name: "bol-33922.pdf"},
				{ID: "d2", Name: "bol-33923.pdf"},
			},
			content: map[string]string{
				"d1": bolText("33922"),
				"d2": bolText("33923"),
			},
		}
		state := &fakeState{}
		store := newFakeStore()
		w := newTestWatcher(t, docs, state, store, 0)

		if err := w.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		if err := w.RunOnce(ctx); err != nil {
			t.Fatalf("second RunOnce() error = %v", err)
		}

		if store.upserts != 2 {
			t.Errorf("upserts = %d, want 2 (one per document, second tick skips)", store.upserts)
		}
		if got := len(state.state.ProcessedDocumentIDs); got != 2 {
			t.Errorf("processed ids = %d, want 2", got)
		}
		if state.saves != 2 {
			t.Errorf("state saves = %d, want one per tick", state.saves)
		}
	})

	t.Run("failed documents are still marked processed", func(t *testing.T) {
		docs := &fakeDocs{
			docs:    []domain.DocumentInfo{{ID: "bad", Name: "garbage.pdf"}},
			content: map[string]string{"bad": "no sales order in here"},
		}
		state := &fakeState{}
		store := newFakeStore()
		w := newTestWatcher(t, docs, state, store, 0)

		if err := w.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		if store.upserts != 0 {
			t.Errorf("upserts = %d, want 0", store.upserts)
		}
		if got := state.state.ProcessedDocumentIDs; len(got) != 1 || got[0] != "bad" {
			t.Errorf("processed ids = %v, want [bad]", got)
		}
	})

	t.Run("non-PDF files are ignored", func(t *testing.T) {
		docs := &fakeDocs{
			docs: []domain.DocumentInfo{
				{ID: "n1", Name: "notes.txt"},
				{ID: "d1", Name: "bol.pdf"},
			},
			content: map[string]string{"d1": bolText("33922")},
		}
		state := &fakeState{}
		store := newFakeStore()
		w := newTestWatcher(t, docs, state, store, 0)

		if err := w.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		if store.upserts != 1 {
			t.Errorf("upserts = %d, want 1", store.upserts)
		}
		if got := state.state.ProcessedDocumentIDs; len(got) != 1 || got[0] != "d1" {
			t.Errorf("processed ids = %v, want [d1]", got)
		}
	})

	t.Run("mime type wins over file name", func(t *testing.T) {
		docs := &fakeDocs{
			docs: []domain.DocumentInfo{
				{ID: "d1", Name: "scan", MimeType: "application/pdf"},
				{ID: "x1", Name: "fake.pdf", MimeType: "image/png"},
			},
			content: map[string]string{"d1": bolText("33922")},
		}
		state := &fakeState{}
		store := newFakeStore()
		w := newTestWatcher(t, docs, state, store, 0)

		if err := w.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		if store.upserts != 1 {
			t.Errorf("upserts = %d, want 1", store.upserts)
		}
	})

	t.Run("processed set is trimmed FIFO at the cap", func(t *testing.T) {
		var infos []domain.DocumentInfo
		content := make(map[string]string)
		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("d%d", i)
			infos = append(infos, domain.DocumentInfo{ID: id, Name: id + ".pdf"})
			content[id] = bolText("33922")
		}
		docs := &fakeDocs{docs: infos, content: content}
		state := &fakeState{}
		w := newTestWatcher(t, docs, state, newFakeStore(), 3)

		if err := w.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		got := state.state.ProcessedDocumentIDs
		want := []string{"d2", "d3", "d4"}
		if len(got) != len(want) {
			t.Fatalf("processed ids = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("processed ids = %v, want %v (oldest evicted first)", got, want)
				break
			}
		}
	})

	t.Run("listing failure surfaces a fetch error", func(t *testing.T) {
		docs := &fakeDocs{listErr: fmt.Errorf("folder gone")}
		w := newTestWatcher(t, docs, &fakeState{}, newFakeStore(), 0)
		if err := w.RunOnce(ctx); err == nil {
			t.Fatal("RunOnce() error = nil, want fetch error")
		}
	})

	t.Run("cancelled context stops between documents without marking", func(t *testing.T) {
		docs := &fakeDocs{
			docs:    []domain.DocumentInfo{{ID: "d1", Name: "a.pdf"}},
			content: map[string]string{"d1": bolText("33922")},
		}
		state := &fakeState{}
		w := newTestWatcher(t, docs, state, newFakeStore(), 0)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := w.RunOnce(cancelled); err != context.Canceled {
			t.Fatalf("RunOnce() error = %v, want context.Canceled", err)
		}
		if state.state != nil && len(state.state.ProcessedDocumentIDs) != 0 {
			t.Errorf("processed ids = %v, want none", state.state.ProcessedDocumentIDs)
		}
	})
}

func TestWatcherProcessFile(t *testing.T) {
	docs := &fakeDocs{
		docs:    []domain.DocumentInfo{{ID: "d1", Name: "bol.pdf"}},
		content: map[string]string{"d1": bolText("33922")},
	}
	state := &fakeState{}
	store := newFakeStore()
	w := newTestWatcher(t, docs, state, store, 0)

	// ProcessFile bypasses the processed set: running twice re-records.
	if err := w.ProcessFile(context.Background(), "d1"); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if err := w.ProcessFile(context.Background(), "d1"); err != nil {
		t.Fatalf("second ProcessFile() error = %v", err)
	}
	if store.upserts != 2 {
		t.Errorf("upserts = %d, want 2", store.upserts)
	}
	if len(store.rows) != 1 {
		t.Errorf("rows = %d, want 1 (same document ref upserts in place)", len(store.rows))
	}
}
