// Package alert holds alert sink implementations. Transport of alert events
// (chat webhook, email) belongs to a collaborator; the engine only emits.
package alert

import (
	"context"

	"go.uber.org/zap"

	"github.com/palletwise/backend/internal/domain"
)

// LogSink logs large-variance events. It is the default sink when no
// transport collaborator is wired in.
type LogSink struct {
	log *zap.SugaredLogger
}

// NewLogSink creates a logging alert sink.
func NewLogSink(log *zap.SugaredLogger) *LogSink {
	return &LogSink{log: log}
}

// LargeVariance logs one event with the fields a transport would forward.
func (s *LogSink) LargeVariance(ctx context.Context, rec *domain.ValidationRecord) {
	delta := 0
	if rec.Variance.PalletsDelta != nil {
		delta = *rec.Variance.PalletsDelta
	}
	s.log.Warnw("pallet variance alert",
		"so", rec.SONumber,
		"doc", rec.DocumentRef,
		"predictedPallets", rec.Predicted.Pallets,
		"palletsDelta", delta,
	)
}
