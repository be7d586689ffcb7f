package usecase

import (
	"testing"
)

const sampleBOL = `NATIONWIDE FREIGHT SYSTEMS          STRAIGHT BILL OF LADING
AIR BILL NO. 88240117
DATE SHIPPED 3/15/2024
1234567890 33922 4
CONSIGNEE INFORMATION: CITY OF SPRINGFIELD PARKS & REC
  123 Main Street
1 BIKE RACKS BUNDLED ON 48X40 PALLET        1104
`

func TestExtractBOL(t *testing.T) {
	t.Run("extracts all fields from a complete document", func(t *testing.T) {
		got := ExtractBOL(sampleBOL)

		if got.SONumber != "33922" {
			t.Errorf("SONumber = %q, want 33922", got.SONumber)
		}
		if got.ActualPallets == nil || *got.ActualPallets != 1 {
			t.Errorf("ActualPallets = %v, want 1", got.ActualPallets)
		}
		if got.ActualWeightLbs == nil || *got.ActualWeightLbs != 1104 {
			t.Errorf("ActualWeightLbs = %v, want 1104", got.ActualWeightLbs)
		}
		if got.HAWB != "88240117" {
			t.Errorf("HAWB = %q, want 88240117", got.HAWB)
		}
		if got.ShipDate != "3/15/2024" {
			t.Errorf("ShipDate = %q, want 3/15/2024", got.ShipDate)
		}
		if got.Consignee != "CITY OF SPRINGFIELD PARKS & REC" {
			t.Errorf("Consignee = %q", got.Consignee)
		}
	})

	t.Run("trailing eight digit run is the HAWB", func(t *testing.T) {
		got := ExtractBOL("HOUSE AIR WAYBILL 55667788\nother text\n")
		if got.HAWB != "55667788" {
			t.Errorf("HAWB = %q, want 55667788", got.HAWB)
		}
	})

	t.Run("ten digit runs are not mistaken for a HAWB", func(t *testing.T) {
		got := ExtractBOL("REF 1234567890\n")
		if got.HAWB != "" {
			t.Errorf("HAWB = %q, want empty", got.HAWB)
		}
	})

	t.Run("shipper reference fallback recovers the SO number", func(t *testing.T) {
		got := ExtractBOL("SHIPPER REFERENCE NUMBER: 48211\n")
		if got.SONumber != "48211" {
			t.Errorf("SONumber = %q, want 48211", got.SONumber)
		}
	})

	t.Run("missing SO number yields an empty field, not a failure", func(t *testing.T) {
		got := ExtractBOL("nothing useful here\n2 BIKE RACKS   640\n")
		if got.SONumber != "" {
			t.Errorf("SONumber = %q, want empty", got.SONumber)
		}
		if got.ActualPallets == nil || *got.ActualPallets != 2 {
			t.Errorf("ActualPallets = %v, want 2", got.ActualPallets)
		}
		if got.ActualWeightLbs == nil || *got.ActualWeightLbs != 640 {
			t.Errorf("ActualWeightLbs = %v, want 640", got.ActualWeightLbs)
		}
	})

	t.Run("garbage text yields an empty extraction", func(t *testing.T) {
		got := ExtractBOL("%%PDF binary soup \x00\x01 nothing")
		if got.SONumber != "" || got.ActualPallets != nil || got.ActualWeightLbs != nil {
			t.Errorf("expected empty extraction, got %+v", got)
		}
	})

	t.Run("seven digit runs after the carrier pro are skipped", func(t *testing.T) {
		got := ExtractBOL("9876543210 1234567\n")
		if got.SONumber != "" {
			t.Errorf("SONumber = %q, want empty (7-digit run)", got.SONumber)
		}
	})
}
