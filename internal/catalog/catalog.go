// Package catalog holds the packing-parameter table and the SKU classifier.
// Specs are seeded inline but treated as data rows: calibration from
// validation results is an Override call, never a code change.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/palletwise/backend/internal/domain"
)

// DefaultKey is the sentinel catalog key used when no known key matches.
const DefaultKey = "default"

// seedSpecs is the authoritative packing table. Units-per-pallet is the
// carrier-safe load for a full pallet of that SKU; weights are calibrated
// from shipped BOLs.
var seedSpecs = []domain.ProductSpec{
	{Key: "dv215", Family: domain.FamilyBikeRack, UnitsPerPallet: 70, WeightPerUnitLbs: 55,
		Box: domain.BoxDims{Length: 72, Width: 6, Height: 3},
		MixesWith: []domain.Family{domain.FamilyBikeRack}, Mode: domain.PackStacked, Base: domain.BaseRack},
	{Key: "varsity", Family: domain.FamilyBikeRack, UnitsPerPallet: 60, WeightPerUnitLbs: 48,
		Box: domain.BoxDims{Length: 70, Width: 8, Height: 3},
		MixesWith: []domain.Family{domain.FamilyBikeRack}, Mode: domain.PackStacked, Base: domain.BaseRack},
	{Key: "vr2", Family: domain.FamilyBikeRack, UnitsPerPallet: 60, WeightPerUnitLbs: 52,
		Box: domain.BoxDims{Length: 70, Width: 8, Height: 3},
		MixesWith: []domain.Family{domain.FamilyBikeRack}, Mode: domain.PackStacked, Base: domain.BaseRack},
	{Key: "wave", Family: domain.FamilyBikeRack, UnitsPerPallet: 40, WeightPerUnitLbs: 60,
		Box: domain.BoxDims{Length: 66, Width: 10, Height: 4},
		MixesWith: []domain.Family{domain.FamilyBikeRack}, Mode: domain.PackStacked, Base: domain.BaseRack},
	{Key: "hr101", Family: domain.FamilyHoopRunner, UnitsPerPallet: 50, WeightPerUnitLbs: 14,
		Box: domain.BoxDims{Length: 40, Width: 10, Height: 4},
		MixesWith: []domain.Family{domain.FamilyHoopRunner}, Mode: domain.PackStacked, Base: domain.BaseStandard},
	{Key: "hr201", Family: domain.FamilyHoopRunner, UnitsPerPallet: 30, WeightPerUnitLbs: 48,
		Box: domain.BoxDims{Length: 44, Width: 12, Height: 6},
		MixesWith: []domain.Family{domain.FamilyHoopRunner}, Mode: domain.PackStacked, Base: domain.BaseStandard},
	{Key: "mbv1", Family: domain.FamilyLocker, UnitsPerPallet: 4, WeightPerUnitLbs: 312,
		Box: domain.BoxDims{Length: 48, Width: 30, Height: 19},
		MixesWith: []domain.Family{domain.FamilyLocker}, Mode: domain.PackCrated, Base: domain.BaseStandard},
	{Key: "mb101", Family: domain.FamilyLocker, UnitsPerPallet: 6, WeightPerUnitLbs: 220,
		Box: domain.BoxDims{Length: 40, Width: 30, Height: 13},
		MixesWith: []domain.Family{domain.FamilyLocker}, Mode: domain.PackCrated, Base: domain.BaseStandard},
	{Key: "dd6", Family: domain.FamilyDoubleDocker, UnitsPerPallet: 8, WeightPerUnitLbs: 280,
		Box: domain.BoxDims{Length: 80, Width: 40, Height: 10},
		MixesWith: []domain.Family{domain.FamilyDoubleDocker}, Mode: domain.PackCrated, Base: domain.BaseOversize},
	{Key: "dd4", Family: domain.FamilyDoubleDocker, UnitsPerPallet: 12, WeightPerUnitLbs: 206,
		Box: domain.BoxDims{Length: 80, Width: 36, Height: 7},
		MixesWith: []domain.Family{domain.FamilyDoubleDocker}, Mode: domain.PackCrated, Base: domain.BaseOversize},
	{Key: "sr85", Family: domain.FamilyStretchRack, UnitsPerPallet: 10, WeightPerUnitLbs: 95,
		Box: domain.BoxDims{Length: 86, Width: 30, Height: 4},
		Mode: domain.PackFlatSeparate, Base: domain.BaseOversize},
	{Key: DefaultKey, Family: domain.FamilyDefault, UnitsPerPallet: 12, WeightPerUnitLbs: 50,
		Box: domain.BoxDims{Length: 36, Width: 24, Height: 12},
		Mode: domain.PackStacked, Base: domain.BaseStandard},
}

// Catalog is the read-only spec table used by the classifier and planner.
// Construct it once at startup; Override derives snapshots for calibration.
type Catalog struct {
	specs map[string]domain.ProductSpec
	// keys ordered longest first so the most specific key wins substring
	// matching (dd6 before a hypothetical dd)
	orderedKeys []string
}

// Load builds the catalog from the seed table, validating every row.
// A violation is a startup failure, never a request-time one.
func Load() (*Catalog, error) {
	return New(seedSpecs)
}

// New builds a catalog from explicit rows.
func New(specs []domain.ProductSpec) (*Catalog, error) {
	c := &Catalog{specs: make(map[string]domain.ProductSpec, len(specs))}
	for _, s := range specs {
		if err := validateSpec(s); err != nil {
			return nil, err
		}
		key := strings.ToLower(s.Key)
		if _, dup := c.specs[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", domain.ErrCatalogInvariant, s.Key)
		}
		c.specs[key] = s
		if key != DefaultKey {
			c.orderedKeys = append(c.orderedKeys, key)
		}
	}
	if _, ok := c.specs[DefaultKey]; !ok {
		return nil, fmt.Errorf("%w: missing %q fallback row", domain.ErrCatalogInvariant, DefaultKey)
	}
	// Longest key first; ties break alphabetically so iteration order is
	// deterministic regardless of declaration order.
	sort.SliceStable(c.orderedKeys, func(i, j int) bool {
		if len(c.orderedKeys[i]) != len(c.orderedKeys[j]) {
			return len(c.orderedKeys[i]) > len(c.orderedKeys[j])
		}
		return c.orderedKeys[i] < c.orderedKeys[j]
	})
	return c, nil
}

func validateSpec(s domain.ProductSpec) error {
	if s.Key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrCatalogInvariant)
	}
	if s.UnitsPerPallet <= 0 {
		return fmt.Errorf("%w: %s unitsPerPallet must be positive", domain.ErrCatalogInvariant, s.Key)
	}
	if s.WeightPerUnitLbs <= 0 {
		return fmt.Errorf("%w: %s weightPerUnitLbs must be positive", domain.ErrCatalogInvariant, s.Key)
	}
	if s.Box.Length <= 0 || s.Box.Width <= 0 || s.Box.Height <= 0 {
		return fmt.Errorf("%w: %s box dims must be positive", domain.ErrCatalogInvariant, s.Key)
	}
	if s.Mode == domain.PackFlatSeparate && len(s.MixesWith) > 0 {
		return fmt.Errorf("%w: %s ships flat-separate and cannot carry mix rules", domain.ErrCatalogInvariant, s.Key)
	}
	return nil
}

// Get returns the spec for an exact catalog key.
func (c *Catalog) Get(key string) (domain.ProductSpec, bool) {
	s, ok := c.specs[strings.ToLower(key)]
	return s, ok
}

// Default returns the fallback spec.
func (c *Catalog) Default() domain.ProductSpec {
	return c.specs[DefaultKey]
}

// Keys returns the known keys in classifier iteration order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.orderedKeys))
	copy(out, c.orderedKeys)
	return out
}

// Override returns a derived catalog with one row replaced or added. The
// receiver is unchanged; planners built from the old snapshot keep their
// view.
func (c *Catalog) Override(spec domain.ProductSpec) (*Catalog, error) {
	rows := make([]domain.ProductSpec, 0, len(c.specs))
	replaced := false
	key := strings.ToLower(spec.Key)
	// Rebuild in a stable order so derived catalogs classify identically.
	for _, k := range c.orderedKeys {
		if k == key {
			rows = append(rows, spec)
			replaced = true
			continue
		}
		rows = append(rows, c.specs[k])
	}
	if key == DefaultKey {
		rows = append(rows, spec)
		replaced = true
	} else {
		rows = append(rows, c.specs[DefaultKey])
	}
	if !replaced {
		rows = append(rows, spec)
	}
	return New(rows)
}
