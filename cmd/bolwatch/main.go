package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palletwise/backend/config"
	"github.com/palletwise/backend/internal/catalog"
	"github.com/palletwise/backend/internal/domain"
	"github.com/palletwise/backend/internal/infrastructure/alert"
	"github.com/palletwise/backend/internal/infrastructure/drive"
	"github.com/palletwise/backend/internal/infrastructure/localstore"
	"github.com/palletwise/backend/internal/infrastructure/mongodb"
	"github.com/palletwise/backend/internal/infrastructure/ordersource"
	"github.com/palletwise/backend/internal/infrastructure/pdftext"
	"github.com/palletwise/backend/internal/logging"
	"github.com/palletwise/backend/internal/usecase"
)

var (
	folderID string
	fileID   string
	watch    bool
)

func main() {
	root := &cobra.Command{
		Use:   "bolwatch",
		Short: "Validate packing predictions against shipped Bills of Lading",
		RunE:  run,
		// Argument errors exit non-zero; per-document failures never do.
		SilenceUsage: true,
	}
	root.Flags().StringVar(&folderID, "folder-id", "", "folder to scan for BOL documents")
	root.Flags().StringVar(&fileID, "file-id", "", "process one specific document id")
	root.Flags().BoolVar(&watch, "watch", false, "keep polling the folder")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if fileID == "" && folderID == "" {
		return fmt.Errorf("either --folder-id or --file-id is required")
	}
	if fileID != "" && watch {
		return fmt.Errorf("--file-id and --watch are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := buildWatcher(ctx, cfg, logger)
	if err != nil {
		return err
	}

	switch {
	case fileID != "":
		return watcher.ProcessFile(ctx, fileID)
	case watch:
		err := watcher.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Infow("watcher stopped")
			return nil
		}
		return err
	default:
		return watcher.RunOnce(ctx)
	}
}

func buildWatcher(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*usecase.Watcher, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("catalog failed validation: %w", err)
	}

	orders, err := ordersource.LoadFile(cfg.Watcher.OrderExport)
	if err != nil {
		return nil, fmt.Errorf("loading order source: %w", err)
	}

	mirror, err := localstore.NewRecordMirror(cfg.Watcher.ResultsDir)
	if err != nil {
		return nil, err
	}
	stateStore, err := localstore.NewStateStore(filepath.Join(cfg.Watcher.ResultsDir, "watcher-state.json"))
	if err != nil {
		return nil, err
	}

	// The remote store is optional; without it the local mirror is the only
	// (and authoritative) sink.
	var store domain.RecordStore
	if cfg.RecordStore.MongoURI != "" {
		remote, err := mongodb.Connect(ctx, mongodb.Config{
			URI:        cfg.RecordStore.MongoURI,
			Database:   cfg.RecordStore.Database,
			Collection: cfg.RecordStore.Collection,
			Timeout:    cfg.RecordStore.Timeout,
		})
		if err != nil {
			logger.Warnw("record store unreachable at startup, continuing with mirror only", "err", err)
		} else {
			store = remote
		}
	}

	var extractor domain.TextExtractor
	if cfg.Watcher.PdfToText == "passthrough" {
		extractor = pdftext.PassthroughExtractor{}
	} else {
		extractor = pdftext.NewCommandExtractor(cfg.Watcher.PdfToText)
	}

	planner := usecase.NewPlanner(usecase.PlannerConfig{})
	validator := usecase.NewValidator(
		cat, planner, orders, store, mirror,
		alert.NewLogSink(logger),
		usecase.ValidatorConfig{Source: "bolwatch"},
		logger,
	)

	return usecase.NewWatcher(
		drive.NewFolderSource(cfg.Watcher.DocumentRoot),
		extractor,
		validator,
		stateStore,
		usecase.WatcherConfig{
			FolderRef:    folderID,
			PollInterval: cfg.Watcher.PollInterval,
			ProcessedCap: cfg.Watcher.ProcessedCap,
		},
		logger,
	), nil
}
