package rules

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

const healthyStatement = `{
  "data": {
    "financials": [
      {
        "nature": "STANDALONE",
        "pnl": {"lineItems": {
          "netRevenue": 60000000,
          "profitBeforeInterestAndTax": 20000000,
          "depreciation": 1000000,
          "interestExpenses": 5000000
        }},
        "bs": {"lineItems": {
          "longTermBorrowings": 5000000,
          "shortTermBorrowings": 5000000
        }}
      }
    ]
  }
}`

func flagsOf(report *models.Report) []models.Flag {
	flags := make([]models.Flag, 0, len(report.Results))
	for _, r := range report.Results {
		flags = append(flags, r.Flag)
	}
	return flags
}

func TestAnalyzeHealthyStatement(t *testing.T) {
	engine := NewEngine(nil)

	report, err := engine.Analyze(mustDoc(t, healthyStatement))
	require.NoError(t, err)

	assert.Equal(t, models.Period{Index: 0, Nature: "STANDALONE"}, report.Period)
	assert.Equal(t, []models.Flag{models.FlagGreen, models.FlagGreen, models.FlagGreen}, flagsOf(report))
	assert.Equal(t, []string{
		"Rule 1: TOTAL_REVENUE_5CR_FLAG - 1",
		"Rule 2: BORROWING_TO_REVENUE_FLAG - 1",
		"Rule 3: ISCR_FLAG - 1",
	}, report.Lines())
}

func TestAnalyzeEmptyFinancials(t *testing.T) {
	report, err := NewEngine(nil).Analyze(mustDoc(t, `{"data": {"financials": []}}`))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Period.Index)
	assert.Empty(t, report.Period.Nature)
	assert.Equal(t, []models.Flag{models.FlagRed, models.FlagWhite, models.FlagRed}, flagsOf(report))
	assert.Equal(t, []string{
		"Rule 1: TOTAL_REVENUE_5CR_FLAG - 0",
		"Rule 2: BORROWING_TO_REVENUE_FLAG - 4",
		"Rule 3: ISCR_FLAG - 0",
	}, report.Lines())
}

func TestAnalyzeMissingDataKey(t *testing.T) {
	var logs bytes.Buffer
	engine := NewEngine(slog.New(slog.NewTextHandler(&logs, nil)))

	report, err := engine.Analyze(mustDoc(t, `{"financials": []}`))
	assert.Nil(t, report)
	require.ErrorIs(t, err, ErrInvalidFinancials)
	assert.Equal(t, "Invalid financial data. Could not find valid financial entries.", err.Error())
	assert.Contains(t, logs.String(), "financials data is missing or invalid")
}

func TestAnalyzeUsesSelectedPeriod(t *testing.T) {
	doc := mustDoc(t, `{"data": {"financials": [
	  {"nature": "CONSOLIDATED", "pnl": {"lineItems": {"netRevenue": 90000000}}},
	  {"nature": "STANDALONE", "pnl": {"lineItems": {"netRevenue": 10000000}}}
	]}}`)

	report, err := NewEngine(nil).Analyze(doc)
	require.NoError(t, err)

	assert.Equal(t, models.Period{Index: 1, Nature: "STANDALONE"}, report.Period)
	assert.Equal(t, models.FlagRed, report.Results[0].Flag)
	assert.Equal(t, models.FlagWhite, report.Results[1].Flag)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	engine := NewEngine(nil)
	doc := mustDoc(t, healthyStatement)

	first, err := engine.Analyze(doc)
	require.NoError(t, err)
	second, err := engine.Analyze(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"entry is not an object", `{"data": {"financials": [42]}}`, "data.financials[0]"},
		{"null entry", `{"data": {"financials": [null]}}`, "data.financials[0]"},
		{"pnl is a string", `{"data": {"financials": [{"pnl": "n/a"}]}}`, "data.financials[0].pnl"},
		{"lineItems is an array", `{"data": {"financials": [{"bs": {"lineItems": []}}]}}`, "data.financials[0].bs.lineItems"},
		{"revenue is a string", `{"data": {"financials": [{"pnl": {"lineItems": {"netRevenue": "60000000"}}}]}}`, "data.financials[0].pnl.lineItems.netRevenue"},
		{"borrowing is a bool", `{"data": {"financials": [{}, {"bs": {"lineItems": {"shortTermBorrowings": true}}}]}}`, "data.financials[1].bs.lineItems.shortTermBorrowings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewEngine(nil).Analyze(mustDoc(t, tt.doc))
			assert.Nil(t, report)
			require.ErrorIs(t, err, models.ErrUnparseable)
			assert.False(t, errors.Is(err, ErrInvalidFinancials))

			var unparseable *models.UnparseableError
			require.ErrorAs(t, err, &unparseable)
			assert.Equal(t, tt.path, unparseable.Path)
		})
	}
}

func TestValidateIgnoresUnrelatedFields(t *testing.T) {
	doc := mustDoc(t, `{"data": {"financials": [{"nature": "STANDALONE", "pnl": {"lineItems": {"otherIncome": "n/a", "netRevenue": null}}}]}}`)
	assert.NoError(t, Validate(doc))
}

func TestValidateLeavesStructuralErrorsToSelection(t *testing.T) {
	assert.NoError(t, Validate(mustDoc(t, `{"data": {"financials": "bad"}}`)))
	assert.NoError(t, Validate(mustDoc(t, `{}`)))
	assert.ErrorIs(t, Validate(nil), models.ErrUnparseable)
}
