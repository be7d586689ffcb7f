package domain

// Family identifies a group of SKUs sharing footprint and stackability.
type Family string

const (
	FamilyBikeRack     Family = "bike-rack"
	FamilyHoopRunner   Family = "hoop-runner"
	FamilyLocker       Family = "locker"
	FamilyDoubleDocker Family = "double-docker"
	FamilyStretchRack  Family = "stretch-rack"
	FamilyDefault      Family = "default"
)

// PackingMode describes how a product is loaded onto a pallet.
type PackingMode string

const (
	PackStacked      PackingMode = "stacked"
	PackCrated       PackingMode = "crated"
	PackFlatSeparate PackingMode = "flat-separate"
)

// PalletBase is the footprint of the pallet a product ships on.
type PalletBase string

const (
	BaseStandard PalletBase = "48x40"
	BaseRack     PalletBase = "80x32"
	BaseOversize PalletBase = "86x40"
)

// Area returns the deck area of the base in square inches.
func (b PalletBase) Area() float64 {
	switch b {
	case BaseRack:
		return 80 * 32
	case BaseOversize:
		return 86 * 40
	default:
		return 48 * 40
	}
}

// BoxDims are the shipping-carton dimensions of one unit, in inches.
type BoxDims struct {
	Length float64 `json:"length" bson:"length"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// LongestSide returns the largest of the three dimensions.
func (d BoxDims) LongestSide() float64 {
	longest := d.Length
	if d.Width > longest {
		longest = d.Width
	}
	if d.Height > longest {
		longest = d.Height
	}
	return longest
}

// CubicFeet returns the carton volume in cubic feet.
func (d BoxDims) CubicFeet() float64 {
	return d.Length * d.Width * d.Height / 1728
}

// ProductSpec is one row of the packing catalog. Specs are data, not code:
// calibration adjusts WeightPerUnitLbs or UnitsPerPallet without touching the
// planner.
type ProductSpec struct {
	Key              string      `json:"key"`
	Family           Family      `json:"family"`
	UnitsPerPallet   int         `json:"unitsPerPallet"`
	WeightPerUnitLbs float64     `json:"weightPerUnitLbs"`
	Box              BoxDims     `json:"boxDims"`
	MixesWith        []Family    `json:"mixRules,omitempty"`
	Mode             PackingMode `json:"packingMode"`
	Base             PalletBase  `json:"baseSize"`
}

// CanMixWith reports whether this spec's mix rules allow sharing a pallet with
// the given family. Same-family sharing is implicit unless the spec ships
// flat-separate, which always pallets alone.
func (s ProductSpec) CanMixWith(f Family) bool {
	if s.Mode == PackFlatSeparate {
		return false
	}
	if s.Family == f {
		return true
	}
	for _, m := range s.MixesWith {
		if m == f {
			return true
		}
	}
	return false
}
