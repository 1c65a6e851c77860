// Package rules evaluates underwriting rules against a financial statement.
package rules

import (
	"errors"
	"log/slog"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// ErrInvalidFinancials is returned when data.financials is absent or not an
// array. Its message is shown to users verbatim.
var ErrInvalidFinancials = errors.New("Invalid financial data. Could not find valid financial entries.")

// requiredFields lists the line items the rules read.
var requiredFields = []struct {
	section string
	field   string
}{
	{models.SectionPnL, models.FieldNetRevenue},
	{models.SectionPnL, models.FieldProfitBeforeInterestAndTax},
	{models.SectionPnL, models.FieldDepreciation},
	{models.SectionPnL, models.FieldInterestExpenses},
	{models.SectionBS, models.FieldLongTermBorrowings},
	{models.SectionBS, models.FieldShortTermBorrowings},
}

// Engine runs the underwriting rules. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	logger *slog.Logger
	rules  []Rule
}

// NewEngine returns an Engine with the default rule set.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger, rules: DefaultRules()}
}

// Analyze validates doc, selects the authoritative period and evaluates every
// rule against it. It returns an *models.UnparseableError for malformed
// input and ErrInvalidFinancials when no financials array exists; in both
// cases no rule is evaluated.
func (e *Engine) Analyze(doc *models.Document) (*models.Report, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	idx, reason := selectPeriod(doc)
	if idx == NoPeriod {
		e.logger.Warn("financials data is missing or invalid", slog.Any("reason", reason))
		return nil, ErrInvalidFinancials
	}

	report := &models.Report{
		Period:  models.Period{Index: int(idx), Nature: natureAt(doc, idx)},
		Results: make([]models.RuleResult, 0, len(e.rules)),
	}
	for _, rule := range e.rules {
		flag := rule.Evaluate(doc, idx)
		report.Results = append(report.Results, models.RuleResult{
			Number: rule.Number,
			Name:   rule.Name,
			Flag:   flag,
		})
		e.logger.Debug("rule evaluated",
			slog.String("rule", rule.Name),
			slog.String("flag", flag.String()),
			slog.Int("period", int(idx)),
		)
	}
	return report, nil
}

// Validate rejects documents whose shape the rules cannot read: a financial
// entry that is not an object, a section or lineItems that is not an object,
// or a required line item that is present but not numeric. A missing or
// non-array financials value is left to period selection.
func Validate(doc *models.Document) error {
	if doc == nil || doc.Root() == nil {
		return &models.UnparseableError{Reason: "document is empty"}
	}
	financials, err := doc.Array(models.FinancialsPath...)
	if err != nil {
		return nil
	}
	for i, raw := range financials {
		if _, ok := raw.(map[string]any); !ok {
			return &models.UnparseableError{
				Path:   models.FormatPath([]any{"data", "financials", i}),
				Reason: "financial entry must be an object",
			}
		}
		for _, req := range requiredFields {
			_, err := doc.Number(models.EntryPath(i, req.section, req.field)...)
			var typeErr *models.TypeError
			if errors.As(err, &typeErr) {
				return &models.UnparseableError{Path: typeErr.Path, Reason: "expected " + typeErr.Want + ", got " + typeErr.Got}
			}
		}
	}
	return nil
}
