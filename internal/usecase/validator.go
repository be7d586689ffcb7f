package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/palletwise/backend/internal/catalog"
	"github.com/palletwise/backend/internal/domain"
	"github.com/palletwise/backend/internal/metrics"
)

// alertPalletThreshold is the absolute pallet delta that raises an alert.
const alertPalletThreshold = 2

// ValidatorConfig holds configuration for the validation recorder.
type ValidatorConfig struct {
	// Source tags every record with where the ground truth came from.
	Source string
	// ValidatedBy is recorded as the acting identity, e.g. "bolwatch".
	ValidatedBy string
}

// Validator pairs a predicted packing plan with an extracted BOL for the same
// sales order and records the variance. The local mirror is written first and
// is authoritative when the remote store is down.
type Validator struct {
	catalog     *catalog.Catalog
	planner     *Planner
	orders      domain.OrderSource
	store       domain.RecordStore
	mirror      domain.RecordMirror
	alerts      domain.AlertSink
	source      string
	validatedBy string
	now         func() time.Time
	log         *zap.SugaredLogger
}

// NewValidator creates a validation recorder with its collaborators.
func NewValidator(
	cat *catalog.Catalog,
	planner *Planner,
	orders domain.OrderSource,
	store domain.RecordStore,
	mirror domain.RecordMirror,
	alerts domain.AlertSink,
	config ValidatorConfig,
	log *zap.SugaredLogger,
) *Validator {
	source := config.Source
	if source == "" {
		source = "bol"
	}
	validatedBy := config.ValidatedBy
	if validatedBy == "" {
		validatedBy = "bolwatch"
	}
	return &Validator{
		catalog:     cat,
		planner:     planner,
		orders:      orders,
		store:       store,
		mirror:      mirror,
		alerts:      alerts,
		source:      source,
		validatedBy: validatedBy,
		now:         time.Now,
		log:         log,
	}
}

// Record validates one extracted BOL against a fresh prediction for its sales
// order and persists the result. documentRef identifies the source document
// for idempotent upserts.
func (v *Validator) Record(ctx context.Context, ext domain.BolExtraction, documentRef string) (*domain.ValidationRecord, error) {
	if ext.SONumber == "" {
		return nil, domain.ErrBolUnparseable
	}

	orderID, err := v.orders.FindSalesOrderByTranID(ctx, ext.SONumber)
	if err != nil {
		return nil, fmt.Errorf("%w: SO %s: %v", domain.ErrOrderSourceMiss, ext.SONumber, err)
	}
	lines, err := v.orders.ListLineItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: SO %s lines: %v", domain.ErrOrderSourceMiss, ext.SONumber, err)
	}

	plan, err := v.planner.Plan(v.catalog.ClassifyLines(lines))
	if err != nil {
		return nil, fmt.Errorf("planning SO %s: %w", ext.SONumber, err)
	}

	rec := v.buildRecord(ext, documentRef, plan)
	v.persist(ctx, rec)

	if rec.Variance.PalletsDelta != nil && abs(*rec.Variance.PalletsDelta) >= alertPalletThreshold {
		metrics.VarianceAlerts.Inc()
		v.alerts.LargeVariance(ctx, rec)
	}
	return rec, nil
}

func (v *Validator) buildRecord(ext domain.BolExtraction, documentRef string, plan *domain.PackingPlan) *domain.ValidationRecord {
	pickTicket := ext.HAWB
	if pickTicket == "" {
		pickTicket = uuid.NewString()
	}
	rec := &domain.ValidationRecord{
		PickTicketID: pickTicket,
		SONumber:     ext.SONumber,
		Predicted: domain.PredictedShipment{
			Pallets:   plan.TotalPallets,
			WeightLbs: plan.TotalWeightLbs,
			Breakdown: plan.Breakdown(),
		},
		Actual: domain.ActualShipment{
			Pallets:   ext.ActualPallets,
			WeightLbs: ext.ActualWeightLbs,
		},
		Source:      v.source,
		DocumentRef: documentRef,
		ValidatedBy: v.validatedBy,
		ValidatedAt: v.now().UTC(),
		Status:      "validated",
	}
	if ext.Consignee != "" {
		rec.Notes = "consignee: " + ext.Consignee
	}
	rec.Variance = computeVariance(rec.Predicted, rec.Actual)
	return rec
}

// persist writes the mirror first, then the remote store. Remote failures are
// logged and not retried within the tick; the mirror copy stands.
func (v *Validator) persist(ctx context.Context, rec *domain.ValidationRecord) {
	if err := v.mirror.Write(rec); err != nil {
		v.log.Errorw("local mirror write failed", "so", rec.SONumber, "err", err)
	} else {
		metrics.RecordsWritten.WithLabelValues("mirror").Inc()
	}
	if v.store == nil {
		return
	}
	if err := v.store.Upsert(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrRecordStoreUnavailable) {
			v.log.Warnw("record store unavailable, mirror copy is authoritative",
				"so", rec.SONumber, "doc", rec.DocumentRef)
		} else {
			v.log.Errorw("record store write failed", "so", rec.SONumber, "err", err)
		}
		return
	}
	metrics.RecordsWritten.WithLabelValues("remote").Inc()
}

// computeVariance leaves a delta nil when either side is undefined; the
// boolean flags default to false in that case.
func computeVariance(pred domain.PredictedShipment, actual domain.ActualShipment) domain.Variance {
	var out domain.Variance
	if actual.Pallets != nil {
		d := *actual.Pallets - pred.Pallets
		out.PalletsDelta = &d
		out.PalletExact = d == 0
		out.WithinOnePallet = abs(d) <= 1
	}
	if actual.WeightLbs != nil {
		d := *actual.WeightLbs - pred.WeightLbs
		out.WeightDelta = &d
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
