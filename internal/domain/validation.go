package domain

import "time"

// BolExtraction holds whatever fields could be recovered from one Bill of
// Lading. Every field except SONumber is optional; nil/empty means the field
// was not present in the document text.
type BolExtraction struct {
	HAWB            string
	SONumber        string
	ActualPallets   *int
	ActualWeightLbs *float64
	ShipDate        string
	Consignee       string
}

// PredictedShipment is the planner's side of a validation row.
type PredictedShipment struct {
	Pallets   int             `json:"pallets" bson:"pallets"`
	WeightLbs float64         `json:"weightLbs" bson:"weight_lbs"`
	Breakdown []PalletSummary `json:"breakdown" bson:"breakdown"`
}

// ActualShipment is the BOL's side of a validation row.
type ActualShipment struct {
	Pallets   *int     `json:"pallets" bson:"pallets,omitempty"`
	WeightLbs *float64 `json:"weightLbs" bson:"weight_lbs,omitempty"`
}

// Variance compares predicted against actual. Deltas are nil when either side
// is undefined; the boolean flags default to false in that case.
type Variance struct {
	PalletsDelta    *int     `json:"palletsDelta" bson:"pallets_delta,omitempty"`
	WeightDelta     *float64 `json:"weightDelta" bson:"weight_delta,omitempty"`
	PalletExact     bool     `json:"palletExact" bson:"pallet_exact"`
	WithinOnePallet bool     `json:"withinOnePallet" bson:"within_one_pallet"`
}

// ValidationRecord pairs one predicted plan with one shipped BOL. Records are
// immutable once written; the store upserts on (Source, DocumentRef) so
// reprocessing a document never produces a second row.
type ValidationRecord struct {
	PickTicketID string            `json:"pickTicketId" bson:"pick_ticket_id"`
	SONumber     string            `json:"soNumber" bson:"sales_order_id"`
	Predicted    PredictedShipment `json:"predicted" bson:"predicted"`
	Actual       ActualShipment    `json:"actual" bson:"actual"`
	Variance     Variance          `json:"variance" bson:"variance"`
	Source       string            `json:"source" bson:"source"`
	DocumentRef  string            `json:"documentRef,omitempty" bson:"document_ref,omitempty"`
	Notes        string            `json:"actualNotes,omitempty" bson:"actual_notes,omitempty"`
	ValidatedBy  string            `json:"validatedBy" bson:"validated_by"`
	ValidatedAt  time.Time         `json:"validatedAt" bson:"validated_at"`
	Status       string            `json:"status" bson:"status"`
}

// WatcherState is the persisted memory of the validation watcher: which
// document ids have already been handled and when the folder was last listed.
// The id list is trimmed FIFO to a fixed cap.
type WatcherState struct {
	ProcessedDocumentIDs []string  `json:"processedDocumentIds"`
	LastCheckAt          time.Time `json:"lastCheckAt"`
}

// Contains reports whether the document id is already in the processed set.
func (s *WatcherState) Contains(id string) bool {
	for _, p := range s.ProcessedDocumentIDs {
		if p == id {
			return true
		}
	}
	return false
}

// MarkProcessed appends the id and trims the set FIFO to cap entries.
func (s *WatcherState) MarkProcessed(id string, cap int) {
	if s.Contains(id) {
		return
	}
	s.ProcessedDocumentIDs = append(s.ProcessedDocumentIDs, id)
	if cap > 0 && len(s.ProcessedDocumentIDs) > cap {
		s.ProcessedDocumentIDs = s.ProcessedDocumentIDs[len(s.ProcessedDocumentIDs)-cap:]
	}
}

// DocumentInfo describes one candidate file in the watched folder.
type DocumentInfo struct {
	ID         string
	Name       string
	MimeType   string
	CreatedAt  time.Time
	ModifiedAt time.Time
}
