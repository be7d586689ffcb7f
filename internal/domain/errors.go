package domain

import "errors"

var (
	// ErrEmptyOrder is returned when a plan is requested for zero lines
	ErrEmptyOrder = errors.New("order has no lines")

	// ErrInvalidLine is returned when an order line has a non-positive quantity
	ErrInvalidLine = errors.New("order line quantity must be positive")

	// ErrCatalogInvariant is returned at load time when a catalog row is unusable
	ErrCatalogInvariant = errors.New("catalog invariant violated")

	// ErrBolUnparseable is returned when a BOL text yields no sales-order number
	ErrBolUnparseable = errors.New("no sales order number in document")

	// ErrOrderSourceMiss is returned when the sales order is unknown to the ERP
	ErrOrderSourceMiss = errors.New("sales order not found in order source")

	// ErrRecordStoreUnavailable is returned when the remote record store cannot be written
	ErrRecordStoreUnavailable = errors.New("record store unavailable")

	// ErrDocumentFetchFailed is returned when a document cannot be listed or downloaded
	ErrDocumentFetchFailed = errors.New("document fetch failed")
)
