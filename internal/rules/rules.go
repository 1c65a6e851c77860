package rules

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// Rule names as rendered in reports.
const (
	NameRevenueFloor = "TOTAL_REVENUE_5CR_FLAG"
	NameLeverage     = "BORROWING_TO_REVENUE_FLAG"
	NameCoverage     = "ISCR_FLAG"
)

var (
	// RevenueFloor is 5 crore in the statement's own unit.
	RevenueFloor = decimal.NewFromInt(50_000_000)
	// MaxBorrowingToRevenue is the highest leverage ratio still flagged GREEN.
	MaxBorrowingToRevenue = decimal.RequireFromString("0.25")
	// MinISCR is the lowest coverage ratio flagged GREEN.
	MinISCR = decimal.NewFromInt(2)
)

// Rule is a numbered underwriting check.
type Rule struct {
	Number   int
	Name     string
	Evaluate func(doc *models.Document, idx PeriodIndex) models.Flag
}

// DefaultRules returns the underwriting rules in report order.
func DefaultRules() []Rule {
	return []Rule{
		{Number: 1, Name: NameRevenueFloor, Evaluate: RevenueFloorFlag},
		{Number: 2, Name: NameLeverage, Evaluate: LeverageFlag},
		{Number: 3, Name: NameCoverage, Evaluate: CoverageFlag},
	}
}

// RevenueFloorFlag is GREEN when revenue reaches RevenueFloor. Missing
// revenue is RED.
func RevenueFloorFlag(doc *models.Document, idx PeriodIndex) models.Flag {
	revenue, ok := TotalRevenue(doc, idx)
	if !ok || revenue.LessThan(RevenueFloor) {
		return models.FlagRed
	}
	return models.FlagGreen
}

// LeverageFlag compares total borrowing to revenue. Missing operands and
// zero revenue are WHITE, not RED.
func LeverageFlag(doc *models.Document, idx PeriodIndex) models.Flag {
	revenue, ok := TotalRevenue(doc, idx)
	if !ok {
		return models.FlagWhite
	}
	borrowing, ok := TotalBorrowing(doc, idx)
	if !ok {
		return models.FlagWhite
	}
	if revenue.IsZero() {
		return models.FlagWhite
	}
	if compareRatio(borrowing, revenue, MaxBorrowingToRevenue) <= 0 {
		return models.FlagGreen
	}
	return models.FlagAmber
}

// CoverageFlag is GREEN when ISCR reaches MinISCR. A missing ratio is RED.
func CoverageFlag(doc *models.Document, idx PeriodIndex) models.Flag {
	numerator, denominator, ok := iscrTerms(doc, idx)
	if !ok || compareRatio(numerator, denominator, MinISCR) < 0 {
		return models.FlagRed
	}
	return models.FlagGreen
}
