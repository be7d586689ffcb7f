package domain

// OrderLine is one raw line of a sales order as the ERP reports it.
// Length/Width/Height/WeightLbs are optional per-line overrides from the quote
// request; zero means "use the catalog value".
type OrderLine struct {
	SKU         string  `json:"sku"`
	Qty         int     `json:"qty"`
	DisplayName string  `json:"displayName,omitempty"`
	Length      float64 `json:"length,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	WeightLbs   float64 `json:"weight,omitempty"`
}

// HasOverride reports whether the line carries any request-level dim or
// weight override.
func (l OrderLine) HasOverride() bool {
	return l.Length > 0 || l.Width > 0 || l.Height > 0 || l.WeightLbs > 0
}

// ClassifiedLine is an OrderLine joined with its resolved catalog spec.
// IsUnknown is set when the classifier fell back to the default spec.
type ClassifiedLine struct {
	Line      OrderLine
	Spec      ProductSpec
	IsUnknown bool
}

// UnitWeightLbs returns the effective per-unit weight, honoring any line
// override.
func (c ClassifiedLine) UnitWeightLbs() float64 {
	if c.Line.WeightLbs > 0 {
		return c.Line.WeightLbs
	}
	return c.Spec.WeightPerUnitLbs
}

// Dims returns the effective carton dimensions, honoring line overrides.
func (c ClassifiedLine) Dims() BoxDims {
	d := c.Spec.Box
	if c.Line.Length > 0 {
		d.Length = c.Line.Length
	}
	if c.Line.Width > 0 {
		d.Width = c.Line.Width
	}
	if c.Line.Height > 0 {
		d.Height = c.Line.Height
	}
	return d
}

// Estimated reports whether the line's packing parameters are estimates
// (default-spec fallback or request overrides) rather than calibrated catalog
// values. The planner only trusts the catalog UPP load limit for calibrated
// lines.
func (c ClassifiedLine) Estimated() bool {
	return c.IsUnknown || c.Line.HasOverride()
}
