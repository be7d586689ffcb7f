package domain

// Freight limits shared by the planner and its tests.
const (
	PalletTareLbs           = 50.0
	MaxPalletWeightLbs      = 2500.0
	PreferredHeightInches   = 84.0
	MaxHeightInches         = 96.0
	ParcelWeightLimitLbs    = 150.0
	ParcelLongestSideInches = 48.0
)

// ShippingMethod is the freight tier a plan quotes at.
type ShippingMethod string

const (
	MethodParcel    ShippingMethod = "Parcel"
	MethodLTL       ShippingMethod = "LTL"
	MethodPartialTL ShippingMethod = "PartialTL"
	MethodFullTL    ShippingMethod = "FullTL"
)

// PalletItem is one SKU's allocation on a single pallet.
type PalletItem struct {
	SKU       string  `json:"sku"`
	Qty       int     `json:"qty"`
	WeightLbs float64 `json:"weightLbs"`
}

// Pallet is one emitted pallet of a packing plan. Items are ordered heaviest
// first so the heavy cartons sit on the bottom of the stack.
type Pallet struct {
	Index          int          `json:"index"`
	Base           PalletBase   `json:"baseSize"`
	Items          []PalletItem `json:"items"`
	TotalWeightLbs float64      `json:"totalWeightLbs"`
	HeightInches   float64      `json:"heightInches"`
	Family         Family       `json:"family"`
}

// PackingPlan is the planner's answer for one order.
type PackingPlan struct {
	Pallets        []Pallet       `json:"pallets"`
	TotalPallets   int            `json:"totalPallets"`
	TotalWeightLbs float64        `json:"totalWeightLbs"`
	TotalCubicFeet float64        `json:"totalCubicFeet"`
	Method         ShippingMethod `json:"shippingMethod"`
	Warnings       []string       `json:"warnings"`
	UnknownSKUs    []string       `json:"unknownSkus"`
}

// Breakdown summarizes the plan for persistence alongside a validation
// record.
func (p PackingPlan) Breakdown() []PalletSummary {
	out := make([]PalletSummary, 0, len(p.Pallets))
	for _, pl := range p.Pallets {
		s := PalletSummary{
			Index:     pl.Index,
			Family:    pl.Family,
			WeightLbs: pl.TotalWeightLbs,
		}
		for _, it := range pl.Items {
			s.SKUs = append(s.SKUs, it.SKU)
			s.Units += it.Qty
		}
		out = append(out, s)
	}
	return out
}

// PalletSummary is the compact per-pallet view stored with validation
// records.
type PalletSummary struct {
	Index     int      `json:"index" bson:"index"`
	Family    Family   `json:"family" bson:"family"`
	SKUs      []string `json:"skus" bson:"skus"`
	Units     int      `json:"units" bson:"units"`
	WeightLbs float64  `json:"weightLbs" bson:"weight_lbs"`
}
