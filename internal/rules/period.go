package rules

import (
	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// PeriodIndex selects a financial entry within data.financials.
type PeriodIndex int

// NoPeriod means the document carries no usable financials array.
const NoPeriod PeriodIndex = -1

// SelectPeriod returns the index of the first STANDALONE entry, 0 when the
// array has none (even when it is empty), or NoPeriod when data.financials is
// absent or not an array.
func SelectPeriod(doc *models.Document) PeriodIndex {
	idx, _ := selectPeriod(doc)
	return idx
}

// selectPeriod also returns why no period could be chosen.
func selectPeriod(doc *models.Document) (PeriodIndex, error) {
	financials, err := doc.Array(models.FinancialsPath...)
	if err != nil {
		return NoPeriod, err
	}
	for i, raw := range financials {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if nature, _ := entry["nature"].(string); nature == models.NatureStandalone {
			return PeriodIndex(i), nil
		}
	}
	return 0, nil
}

// natureAt returns the nature label of the entry at idx, or "" when absent.
func natureAt(doc *models.Document, idx PeriodIndex) string {
	if idx < 0 {
		return ""
	}
	v, err := doc.Lookup("data", "financials", int(idx), "nature")
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
