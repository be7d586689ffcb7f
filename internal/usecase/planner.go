package usecase

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/palletwise/backend/internal/domain"
)

// hardwarePatterns match hardware and kit SKUs that ship inside other cartons
// and never consume pallet space of their own.
var hardwarePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^80101-0257-.+-KIT$`),
	regexp.MustCompile(`(?i)^80101-0258-.+-KIT$`),
	regexp.MustCompile(`(?i)^91000-`),
	regexp.MustCompile(`(?i)^WAK\d+$`),
	regexp.MustCompile(`(?i)^26268$`),
	regexp.MustCompile(`(?i)^3000[PQ]-`),
	regexp.MustCompile(`(?i)^31000-`),
	regexp.MustCompile(`(?i)^39000-`),
	regexp.MustCompile(`(?i)^50801-`),
	regexp.MustCompile(`(?i)^81000-`),
}

// PlannerConfig holds the freight limits the planner enforces. Zero values
// fall back to the standard limits.
type PlannerConfig struct {
	TareLbs            float64
	MaxPalletWeightLbs float64
	PreferredHeightIn  float64
	MaxHeightIn        float64
}

// Planner turns classified order lines into a packing plan. It is a pure
// function of its input and the catalog snapshot the lines were classified
// against: no I/O, no clock, no randomness.
type Planner struct {
	tare            float64
	maxPalletWeight float64
	preferredHeight float64
	maxHeight       float64
}

// NewPlanner creates a planner with the given limits.
func NewPlanner(config PlannerConfig) *Planner {
	tare := config.TareLbs
	if tare <= 0 {
		tare = domain.PalletTareLbs
	}
	maxWeight := config.MaxPalletWeightLbs
	if maxWeight <= 0 {
		maxWeight = domain.MaxPalletWeightLbs
	}
	preferred := config.PreferredHeightIn
	if preferred <= 0 {
		preferred = domain.PreferredHeightInches
	}
	maxHeight := config.MaxHeightIn
	if maxHeight <= 0 {
		maxHeight = domain.MaxHeightInches
	}
	return &Planner{
		tare:            tare,
		maxPalletWeight: maxWeight,
		preferredHeight: preferred,
		maxHeight:       maxHeight,
	}
}

// palletGroup is a set of lines allowed to share pallets.
type palletGroup struct {
	lines  []domain.ClassifiedLine
	family domain.Family
	flat   bool
}

func (g *palletGroup) totalQty() int {
	total := 0
	for _, l := range g.lines {
		total += l.Line.Qty
	}
	return total
}

func (g *palletGroup) totalWeight() float64 {
	total := 0.0
	for _, l := range g.lines {
		total += float64(l.Line.Qty) * l.UnitWeightLbs()
	}
	return total
}

// estimated reports whether any line in the group carries estimated packing
// parameters. Only fully calibrated groups are trusted to load to their UPP.
func (g *palletGroup) estimated() bool {
	for _, l := range g.lines {
		if l.Estimated() {
			return true
		}
	}
	return false
}

// Plan produces the packing plan for one order. Identical input yields a
// byte-identical plan: grouping, placement, and summation all follow stable
// input order.
func (p *Planner) Plan(lines []domain.ClassifiedLine) (*domain.PackingPlan, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Line.Qty <= 0 {
			return nil, fmt.Errorf("%w: %q qty %d", domain.ErrInvalidLine, l.Line.SKU, l.Line.Qty)
		}
	}

	retained, dropped := filterHardware(lines)
	plan := &domain.PackingPlan{
		Warnings:    []string{},
		UnknownSKUs: []string{},
	}

	if len(retained) == 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("order contains only hardware/kit items (%s); nothing to palletize", strings.Join(dropped, ", ")))
		plan.Method = domain.MethodParcel
		plan.Pallets = []domain.Pallet{}
		return plan, nil
	}

	for _, l := range retained {
		if l.IsUnknown {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("unknown SKU %q: estimated dims in use", l.Line.SKU))
			plan.UnknownSKUs = append(plan.UnknownSKUs, l.Line.SKU)
		}
	}

	groups := buildGroups(retained)
	// Heaviest families first so their pallets take the low indices.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].totalWeight() > groups[j].totalWeight()
	})

	for _, g := range groups {
		plan.Pallets = append(plan.Pallets, p.emitPallets(g)...)
	}
	for i := range plan.Pallets {
		plan.Pallets[i].Index = i + 1
	}

	plan.TotalPallets = len(plan.Pallets)
	itemWeight := 0.0
	for _, l := range retained {
		itemWeight += float64(l.Line.Qty) * l.UnitWeightLbs()
		plan.TotalCubicFeet += float64(l.Line.Qty) * l.Dims().CubicFeet()
	}
	plan.TotalWeightLbs = itemWeight + p.tare*float64(plan.TotalPallets)
	plan.Method = selectMethod(plan.TotalPallets, plan.TotalWeightLbs, parcelEligible(retained))

	if hasFamily(retained, domain.FamilyStretchRack) {
		plan.Warnings = append(plan.Warnings, "stretch-rack ships flat, separate")
	}
	return plan, nil
}

// filterHardware drops hardware/kit lines from planning.
func filterHardware(lines []domain.ClassifiedLine) (retained []domain.ClassifiedLine, dropped []string) {
	for _, l := range lines {
		if isHardwareSKU(l.Line.SKU) {
			dropped = append(dropped, l.Line.SKU)
			continue
		}
		retained = append(retained, l)
	}
	return retained, dropped
}

func isHardwareSKU(sku string) bool {
	for _, pat := range hardwarePatterns {
		if pat.MatchString(sku) {
			return true
		}
	}
	return false
}

// buildGroups partitions lines into co-palletable groups. Flat-separate lines
// always pallet alone; everything else groups by family in first-appearance
// order, then mutually mixable families merge.
func buildGroups(lines []domain.ClassifiedLine) []*palletGroup {
	var groups []*palletGroup
	byFamily := make(map[domain.Family]*palletGroup)

	for _, l := range lines {
		if l.Spec.Mode == domain.PackFlatSeparate {
			groups = append(groups, &palletGroup{
				lines:  []domain.ClassifiedLine{l},
				family: l.Spec.Family,
				flat:   true,
			})
			continue
		}
		g, ok := byFamily[l.Spec.Family]
		if !ok {
			g = &palletGroup{family: l.Spec.Family}
			byFamily[l.Spec.Family] = g
			groups = append(groups, g)
		}
		g.lines = append(g.lines, l)
	}

	return mergeMixable(groups)
}

// mergeMixable merges two family groups when every member of each declares
// the other's family in its mix rules. Forbidden pairs (lockers with bike
// racks, double-dockers with small racks) simply never declare each other.
func mergeMixable(groups []*palletGroup) []*palletGroup {
	merged := make([]*palletGroup, 0, len(groups))
	for _, g := range groups {
		if g.flat {
			merged = append(merged, g)
			continue
		}
		absorbed := false
		for _, into := range merged {
			if into.flat {
				continue
			}
			if groupsMayMix(into, g) {
				into.lines = append(into.lines, g.lines...)
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, g)
		}
	}
	return merged
}

func groupsMayMix(a, b *palletGroup) bool {
	for _, la := range a.lines {
		if !la.Spec.CanMixWith(b.family) {
			return false
		}
	}
	for _, lb := range b.lines {
		if !lb.Spec.CanMixWith(a.family) {
			return false
		}
	}
	return true
}

// emitPallets lays one group out across its pallets.
func (p *Planner) emitPallets(g *palletGroup) []domain.Pallet {
	totalQty := g.totalQty()
	repUPP := representativeUPP(g.lines, totalQty)
	count := int(math.Ceil(float64(totalQty) / float64(repUPP)))
	if count < 1 {
		count = 1
	}

	// Heaviest units go down first so they sit at the bottom of each stack.
	placed := make([]domain.ClassifiedLine, len(g.lines))
	copy(placed, g.lines)
	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].UnitWeightLbs() > placed[j].UnitWeightLbs()
	})

	base := placed[0].Spec.Base
	pallets := make([]domain.Pallet, count)
	for i := range pallets {
		pallets[i] = domain.Pallet{Base: base, Family: g.family}
	}

	cursor := 0
	capLeft := repUPP
	for _, line := range placed {
		remaining := line.Line.Qty
		for remaining > 0 {
			if capLeft == 0 && cursor < count-1 {
				cursor++
				capLeft = repUPP
			}
			take := remaining
			if take > capLeft && cursor < count-1 {
				take = capLeft
			}
			pallets[cursor].Items = append(pallets[cursor].Items, domain.PalletItem{
				SKU:       line.Line.SKU,
				Qty:       take,
				WeightLbs: float64(take) * line.UnitWeightLbs(),
			})
			remaining -= take
			capLeft -= take
			if capLeft < 0 {
				capLeft = 0
			}
		}
	}

	dims := dimsBySKU(placed)
	for i := range pallets {
		p.finishPallet(&pallets[i], dims)
	}

	// Estimated parameters do not get the benefit of the doubt: pallets over
	// the preferred bounds split until they fit. Calibrated groups loaded to
	// their catalog UPP are already carrier-safe.
	if g.estimated() {
		pallets = p.splitOversize(pallets, dims)
	}
	return pallets
}

// representativeUPP is the quantity-weighted average of member UPPs, floored,
// never below 1.
func representativeUPP(lines []domain.ClassifiedLine, totalQty int) int {
	if totalQty <= 0 {
		return 1
	}
	weighted := 0
	for _, l := range lines {
		weighted += l.Line.Qty * l.Spec.UnitsPerPallet
	}
	upp := weighted / totalQty
	if upp < 1 {
		upp = 1
	}
	return upp
}

type skuDims struct {
	box  domain.BoxDims
	unit float64
}

func dimsBySKU(lines []domain.ClassifiedLine) map[string]skuDims {
	m := make(map[string]skuDims, len(lines))
	for _, l := range lines {
		m[l.Line.SKU] = skuDims{box: l.Dims(), unit: l.UnitWeightLbs()}
	}
	return m
}

// finishPallet fills in derived pallet fields: total weight including tare
// and the estimated stack height.
func (p *Planner) finishPallet(pl *domain.Pallet, dims map[string]skuDims) {
	weight := 0.0
	height := 0.0
	area := pl.Base.Area()
	for _, it := range pl.Items {
		weight += it.WeightLbs
		d := dims[it.SKU].box
		perLayer := int(area / (d.Length * d.Width))
		if perLayer < 1 {
			perLayer = 1
		}
		layers := (it.Qty + perLayer - 1) / perLayer
		height += float64(layers) * d.Height
	}
	pl.TotalWeightLbs = weight + p.tare
	pl.HeightInches = height
}

// splitOversize splits pallets over the preferred weight or height bound into
// two of roughly equal weight, repeating until every pallet fits or cannot be
// divided further. The hard caps are never exceeded for divisible pallets.
func (p *Planner) splitOversize(pallets []domain.Pallet, dims map[string]skuDims) []domain.Pallet {
	var out []domain.Pallet
	queue := append([]domain.Pallet(nil), pallets...)
	for len(queue) > 0 {
		pl := queue[0]
		queue = queue[1:]
		units := 0
		for _, it := range pl.Items {
			units += it.Qty
		}
		over := pl.TotalWeightLbs-p.tare > p.maxPalletWeight || pl.HeightInches > p.preferredHeight
		if !over || units <= 1 {
			out = append(out, pl)
			continue
		}
		a, b := p.halvePallet(pl, dims)
		queue = append([]domain.Pallet{a, b}, queue...)
	}
	return out
}

func (p *Planner) halvePallet(pl domain.Pallet, dims map[string]skuDims) (domain.Pallet, domain.Pallet) {
	a := domain.Pallet{Base: pl.Base, Family: pl.Family}
	b := domain.Pallet{Base: pl.Base, Family: pl.Family}
	for _, it := range pl.Items {
		first := (it.Qty + 1) / 2
		second := it.Qty - first
		unit := dims[it.SKU].unit
		if first > 0 {
			a.Items = append(a.Items, domain.PalletItem{SKU: it.SKU, Qty: first, WeightLbs: float64(first) * unit})
		}
		if second > 0 {
			b.Items = append(b.Items, domain.PalletItem{SKU: it.SKU, Qty: second, WeightLbs: float64(second) * unit})
		}
	}
	p.finishPallet(&a, dims)
	p.finishPallet(&b, dims)
	return a, b
}

// selectMethod picks the freight tier. The checks run in a fixed order:
// parcel eligibility, full truckload, partial truckload, then LTL.
func selectMethod(pallets int, weightLbs float64, parcelOK bool) domain.ShippingMethod {
	switch {
	case weightLbs < domain.ParcelWeightLimitLbs && parcelOK:
		return domain.MethodParcel
	case pallets > 10 || weightLbs > 15000:
		return domain.MethodFullTL
	case pallets >= 6 && weightLbs > 10000:
		return domain.MethodPartialTL
	default:
		return domain.MethodLTL
	}
}

func parcelEligible(lines []domain.ClassifiedLine) bool {
	for _, l := range lines {
		if l.Dims().LongestSide() > domain.ParcelLongestSideInches {
			return false
		}
	}
	return true
}

func hasFamily(lines []domain.ClassifiedLine, f domain.Family) bool {
	for _, l := range lines {
		if l.Spec.Family == f {
			return true
		}
	}
	return false
}
