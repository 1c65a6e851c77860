package rules

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

var one = decimal.NewFromInt(1)

// lineItem reads a numeric line item of the entry at idx. An invalid index,
// an absent key and a null value all resolve to missing.
func lineItem(doc *models.Document, idx PeriodIndex, section, field string) (decimal.Decimal, bool) {
	if idx < 0 {
		return decimal.Zero, false
	}
	v, err := doc.Number(models.EntryPath(int(idx), section, field)...)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// TotalRevenue returns pnl.lineItems.netRevenue of the selected entry.
func TotalRevenue(doc *models.Document, idx PeriodIndex) (decimal.Decimal, bool) {
	return lineItem(doc, idx, models.SectionPnL, models.FieldNetRevenue)
}

// TotalBorrowing returns long-term plus short-term borrowings. Both must be
// present; a partial sum is never returned.
func TotalBorrowing(doc *models.Document, idx PeriodIndex) (decimal.Decimal, bool) {
	long, ok := lineItem(doc, idx, models.SectionBS, models.FieldLongTermBorrowings)
	if !ok {
		return decimal.Zero, false
	}
	short, ok := lineItem(doc, idx, models.SectionBS, models.FieldShortTermBorrowings)
	if !ok {
		return decimal.Zero, false
	}
	return long.Add(short), true
}

// iscrTerms returns the terms of the interest service coverage ratio
//
//	(profitBeforeInterestAndTax + depreciation + 1) / (interestExpenses + 1)
//
// The +1 on both sides is part of the definition. A zero denominator is
// reported as missing.
func iscrTerms(doc *models.Document, idx PeriodIndex) (decimal.Decimal, decimal.Decimal, bool) {
	pbit, ok := lineItem(doc, idx, models.SectionPnL, models.FieldProfitBeforeInterestAndTax)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	dep, ok := lineItem(doc, idx, models.SectionPnL, models.FieldDepreciation)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	interest, ok := lineItem(doc, idx, models.SectionPnL, models.FieldInterestExpenses)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	denominator := interest.Add(one)
	if denominator.IsZero() {
		return decimal.Zero, decimal.Zero, false
	}
	return pbit.Add(dep).Add(one), denominator, true
}

// compareRatio returns the sign of numerator/denominator - bound without
// dividing. denominator must be non-zero.
func compareRatio(numerator, denominator, bound decimal.Decimal) int {
	c := numerator.Cmp(bound.Mul(denominator))
	if denominator.IsNegative() {
		return -c
	}
	return c
}
