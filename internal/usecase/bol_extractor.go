package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/palletwise/backend/internal/domain"
)

// Package-level compiled regex patterns, one per BOL field. The text comes
// from layout-preserving PDF extraction, so fields are anchored to the labels
// and digit shapes the carrier template prints.
var (
	trailingHAWBRegex   = regexp.MustCompile(`(?:^|\D)(\d{8})\s*$`)
	airBillRegex        = regexp.MustCompile(`AIR BILL NO\.?\s*:?\s*(\d+)`)
	soAfterCarrierRegex = regexp.MustCompile(`^\s*(\d{10})\D+(\d{4,6})(?:\D|$)`)
	shipperRefRegex     = regexp.MustCompile(`SHIPPER REFERENCE NUMBER\D*(\d{4,6})`)
	palletLineRegex     = regexp.MustCompile(`(\d+)\s+BIKE RACKS`)
	trailingWeightRegex = regexp.MustCompile(`(\d{3,})\s*$`)
	shipDateRegex       = regexp.MustCompile(`DATE SHIPPED\D*(\d{1,2}/\d{1,2}/\d{2,4})`)
	consigneeRegex      = regexp.MustCompile(`CONSIGNEE INFORMATION\s*:?\s*([A-Z][A-Z &]+[A-Z])`)
)

// ExtractBOL pulls shipment fields out of BOL text. Every field is attempted
// independently; malformed text never fails, it just yields fewer fields.
// Callers that need the sales-order number must check SONumber themselves.
func ExtractBOL(text string) domain.BolExtraction {
	var out domain.BolExtraction
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if out.HAWB == "" {
			if m := trailingHAWBRegex.FindStringSubmatch(strings.TrimRight(line, " \t\r")); m != nil {
				out.HAWB = m[1]
			}
		}
		if out.SONumber == "" {
			if m := soAfterCarrierRegex.FindStringSubmatch(line); m != nil {
				out.SONumber = m[2]
			}
		}
		if m := palletLineRegex.FindStringSubmatch(line); m != nil {
			if out.ActualPallets == nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					out.ActualPallets = &n
				}
			}
			if out.ActualWeightLbs == nil {
				if w := trailingWeightRegex.FindStringSubmatch(strings.TrimRight(line, " \t\r")); w != nil {
					if lbs, err := strconv.ParseFloat(w[1], 64); err == nil {
						out.ActualWeightLbs = &lbs
					}
				}
			}
		}
	}

	if out.HAWB == "" {
		if m := airBillRegex.FindStringSubmatch(text); m != nil {
			out.HAWB = m[1]
		}
	}
	if out.SONumber == "" {
		if m := shipperRefRegex.FindStringSubmatch(text); m != nil {
			out.SONumber = m[1]
		}
	}
	if m := shipDateRegex.FindStringSubmatch(text); m != nil {
		out.ShipDate = m[1]
	}
	if m := consigneeRegex.FindStringSubmatch(text); m != nil {
		out.Consignee = strings.TrimSpace(m[1])
	}
	return out
}
