// src/parsers/demonstrativo/extractor.go
package demonstrativo

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/repasses/src/models"
)

// CreditMarker identifies the benefit line holding the credited amount.
const CreditMarker = "CREDITO BENEF."

// creditAmountRegex matches a pt-BR formatted amount followed by the credit flag, e.g. "12.345,67C".
var creditAmountRegex = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*,\d{2})C`)

// Extraction is the result of looking for the credit line in one upstream response.
// Found is false when no marker line carries a parseable amount.
type Extraction struct {
	Found  bool
	Amount decimal.Decimal
	Label  string
}

// ExtractCreditAmount scans the occurrence records in order and returns the amount of the
// first record whose label contains CreditMarker and a parseable credit amount. A marker
// line without an amount does not end the scan at zero: it is skipped and the next marker
// line is tried. Once an amount is found later records are ignored.
func ExtractCreditAmount(resp models.UpstreamResponse) Extraction {
	if len(resp) == 0 {
		return Extraction{}
	}

	occurrences, ok := resp[models.OccurrencesKey].([]any)
	if !ok {
		return Extraction{}
	}

	for _, occurrence := range occurrences {
		record, ok := occurrence.(map[string]any)
		if !ok {
			continue
		}
		label, _ := record[models.BenefitLabelKey].(string)
		if !strings.Contains(label, CreditMarker) {
			continue
		}

		if amount, ok := parseCreditAmount(label); ok {
			return Extraction{Found: true, Amount: amount, Label: label}
		}
	}

	return Extraction{}
}

// CreditAmount is ExtractCreditAmount collapsed to a float, zero when nothing was found.
func CreditAmount(resp models.UpstreamResponse) float64 {
	extraction := ExtractCreditAmount(resp)
	if !extraction.Found {
		return 0.0
	}
	return extraction.Amount.InexactFloat64()
}

func parseCreditAmount(label string) (decimal.Decimal, bool) {
	match := creditAmountRegex.FindStringSubmatch(label)
	if match == nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(normalizeDecimalString(match[1]))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// normalizeDecimalString turns "12.345,67" into "12345.67".
func normalizeDecimalString(s string) string {
	cleaned := strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(cleaned, ",", ".")
}
