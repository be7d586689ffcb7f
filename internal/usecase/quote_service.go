package usecase

import (
	"time"

	"github.com/palletwise/backend/internal/catalog"
	"github.com/palletwise/backend/internal/domain"
	"github.com/palletwise/backend/internal/metrics"
)

// QuoteService answers live quote requests: classify the raw lines against
// the catalog snapshot, then plan. Synchronous and purely computational.
type QuoteService struct {
	catalog *catalog.Catalog
	planner *Planner
}

// NewQuoteService creates a quote service over one catalog snapshot.
func NewQuoteService(cat *catalog.Catalog, planner *Planner) *QuoteService {
	return &QuoteService{catalog: cat, planner: planner}
}

// Quote produces the packing plan for a list of raw order lines.
func (s *QuoteService) Quote(lines []domain.OrderLine) (*domain.PackingPlan, error) {
	start := time.Now()
	plan, err := s.planner.Plan(s.catalog.ClassifyLines(lines))
	metrics.PlanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuotesComputed.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.QuotesComputed.WithLabelValues("ok").Inc()
	return plan, nil
}
