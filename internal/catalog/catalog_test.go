package catalog

import (
	"errors"
	"testing"

	"github.com/palletwise/backend/internal/domain"
)

func TestLoad(t *testing.T) {
	t.Run("seed catalog passes validation", func(t *testing.T) {
		cat, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if _, ok := cat.Get("dv215"); !ok {
			t.Error("Get(dv215) not found")
		}
		if cat.Default().Key != DefaultKey {
			t.Errorf("Default().Key = %s, want %s", cat.Default().Key, DefaultKey)
		}
	})

	t.Run("rejects non-positive units per pallet", func(t *testing.T) {
		_, err := New([]domain.ProductSpec{
			{Key: "bad", Family: domain.FamilyBikeRack, UnitsPerPallet: 0, WeightPerUnitLbs: 10,
				Box: domain.BoxDims{Length: 1, Width: 1, Height: 1}, Mode: domain.PackStacked, Base: domain.BaseStandard},
		})
		if !errors.Is(err, domain.ErrCatalogInvariant) {
			t.Errorf("error = %v, want ErrCatalogInvariant", err)
		}
	})

	t.Run("rejects flat-separate with mix rules", func(t *testing.T) {
		_, err := New([]domain.ProductSpec{
			{Key: "bad", Family: domain.FamilyStretchRack, UnitsPerPallet: 10, WeightPerUnitLbs: 10,
				Box:       domain.BoxDims{Length: 1, Width: 1, Height: 1},
				MixesWith: []domain.Family{domain.FamilyBikeRack},
				Mode:      domain.PackFlatSeparate, Base: domain.BaseOversize},
		})
		if !errors.Is(err, domain.ErrCatalogInvariant) {
			t.Errorf("error = %v, want ErrCatalogInvariant", err)
		}
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		row := domain.ProductSpec{Key: "dup", Family: domain.FamilyBikeRack, UnitsPerPallet: 10,
			WeightPerUnitLbs: 10, Box: domain.BoxDims{Length: 1, Width: 1, Height: 1},
			Mode: domain.PackStacked, Base: domain.BaseStandard}
		_, err := New([]domain.ProductSpec{row, row})
		if !errors.Is(err, domain.ErrCatalogInvariant) {
			t.Errorf("error = %v, want ErrCatalogInvariant", err)
		}
	})

	t.Run("rejects catalog without default row", func(t *testing.T) {
		_, err := New([]domain.ProductSpec{
			{Key: "only", Family: domain.FamilyBikeRack, UnitsPerPallet: 10, WeightPerUnitLbs: 10,
				Box: domain.BoxDims{Length: 1, Width: 1, Height: 1}, Mode: domain.PackStacked, Base: domain.BaseStandard},
		})
		if !errors.Is(err, domain.ErrCatalogInvariant) {
			t.Errorf("error = %v, want ErrCatalogInvariant", err)
		}
	})
}

func TestClassify(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("exact key matches", func(t *testing.T) {
		spec, known := cat.Classify("DV215")
		if !known {
			t.Fatal("Classify(DV215) known = false, want true")
		}
		if spec.Key != "dv215" {
			t.Errorf("Key = %s, want dv215", spec.Key)
		}
	})

	t.Run("key embedded in longer SKU matches", func(t *testing.T) {
		spec, known := cat.Classify("BR-DV215-GALV-2024")
		if !known || spec.Key != "dv215" {
			t.Errorf("Classify = (%s, %v), want (dv215, true)", spec.Key, known)
		}
	})

	t.Run("longest key wins over shorter keys", func(t *testing.T) {
		// varsity (7 chars) must be scanned before vr2 (3 chars); a SKU
		// containing both resolves to the longer key.
		spec, known := cat.Classify("VARSITY-VR2")
		if !known || spec.Key != "varsity" {
			t.Errorf("Classify = (%s, %v), want (varsity, true)", spec.Key, known)
		}
	})

	t.Run("dd6 and dd4 resolve independently", func(t *testing.T) {
		spec, _ := cat.Classify("DD6-72")
		if spec.Key != "dd6" {
			t.Errorf("Classify(DD6-72) = %s, want dd6", spec.Key)
		}
		spec, _ = cat.Classify("DD4-STD")
		if spec.Key != "dd4" {
			t.Errorf("Classify(DD4-STD) = %s, want dd4", spec.Key)
		}
	})

	t.Run("unknown SKU falls back to default", func(t *testing.T) {
		spec, known := cat.Classify("UNKNOWN-XYZ")
		if known {
			t.Error("Classify(UNKNOWN-XYZ) known = true, want false")
		}
		if spec.Key != DefaultKey {
			t.Errorf("Key = %s, want %s", spec.Key, DefaultKey)
		}
	})

	t.Run("classification is case-insensitive", func(t *testing.T) {
		spec, known := cat.Classify("hr101")
		if !known || spec.Key != "hr101" {
			t.Errorf("Classify(hr101) = (%s, %v), want (hr101, true)", spec.Key, known)
		}
	})
}

func TestClassifyLines(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lines := cat.ClassifyLines([]domain.OrderLine{
		{SKU: "DV215", Qty: 2},
		{SKU: "NOPE", Qty: 1},
	})
	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0].IsUnknown {
		t.Error("DV215 marked unknown")
	}
	if !lines[1].IsUnknown {
		t.Error("NOPE not marked unknown")
	}
}

func TestOverride(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("replaces a row without touching the original", func(t *testing.T) {
		spec, _ := cat.Get("dv215")
		spec.WeightPerUnitLbs = 57.5
		derived, err := cat.Override(spec)
		if err != nil {
			t.Fatalf("Override() error = %v", err)
		}
		got, _ := derived.Get("dv215")
		if got.WeightPerUnitLbs != 57.5 {
			t.Errorf("derived weight = %v, want 57.5", got.WeightPerUnitLbs)
		}
		orig, _ := cat.Get("dv215")
		if orig.WeightPerUnitLbs != 55 {
			t.Errorf("original weight = %v, want 55 (unchanged)", orig.WeightPerUnitLbs)
		}
	})

	t.Run("adds a new row", func(t *testing.T) {
		derived, err := cat.Override(domain.ProductSpec{
			Key: "nv300", Family: domain.FamilyBikeRack, UnitsPerPallet: 20, WeightPerUnitLbs: 80,
			Box:       domain.BoxDims{Length: 60, Width: 10, Height: 5},
			MixesWith: []domain.Family{domain.FamilyBikeRack},
			Mode:      domain.PackStacked, Base: domain.BaseRack,
		})
		if err != nil {
			t.Fatalf("Override() error = %v", err)
		}
		if _, ok := derived.Get("nv300"); !ok {
			t.Error("nv300 not found in derived catalog")
		}
		if _, ok := cat.Get("nv300"); ok {
			t.Error("nv300 leaked into original catalog")
		}
	})

	t.Run("invalid override is rejected", func(t *testing.T) {
		_, err := cat.Override(domain.ProductSpec{Key: "bad", UnitsPerPallet: -1})
		if !errors.Is(err, domain.ErrCatalogInvariant) {
			t.Errorf("error = %v, want ErrCatalogInvariant", err)
		}
	})
}
