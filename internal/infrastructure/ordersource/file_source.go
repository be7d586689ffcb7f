// Package ordersource reads sales-order lines for the validation path. The
// production ERP adapter is an external collaborator; this implementation
// serves an exported order file and the tests.
package ordersource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/palletwise/backend/internal/domain"
)

// FileSource resolves sales orders from a JSON export: a map of SO number to
// line items. Lines are assumed already filtered to shippable item types with
// absolute quantities, as the ERP adapter contract requires.
type FileSource struct {
	orders map[string][]domain.OrderLine
}

// LoadFile reads an order export from disk.
func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order export: %w", err)
	}
	var orders map[string][]domain.OrderLine
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decoding order export: %w", err)
	}
	return &FileSource{orders: orders}, nil
}

// NewMemorySource builds a source from an in-memory map, for tests.
func NewMemorySource(orders map[string][]domain.OrderLine) *FileSource {
	return &FileSource{orders: orders}
}

// FindSalesOrderByTranID resolves an SO number to an internal order id. For
// the file source the id is the SO number itself.
func (s *FileSource) FindSalesOrderByTranID(ctx context.Context, soNumber string) (string, error) {
	if _, ok := s.orders[soNumber]; !ok {
		return "", fmt.Errorf("sales order %s not in export", soNumber)
	}
	return soNumber, nil
}

// ListLineItems returns the order's lines.
func (s *FileSource) ListLineItems(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	lines, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("sales order %s not in export", orderID)
	}
	return lines, nil
}
