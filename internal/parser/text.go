package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// NatureConsolidated labels entries read from a consolidated statement.
const NatureConsolidated = "CONSOLIDATED"

// lineItemCaptions maps statement captions to the line items the rules read.
// The first caption matched for a field wins.
var lineItemCaptions = []struct {
	section string
	field   string
	pattern *regexp.Regexp
}{
	{models.SectionPnL, models.FieldNetRevenue,
		regexp.MustCompile(`(?i)^(?:net\s+revenue|revenue\s+from\s+operations(?:\s*\(net\))?|total\s+revenue|net\s+sales)\b`)},
	{models.SectionPnL, models.FieldProfitBeforeInterestAndTax,
		regexp.MustCompile(`(?i)^(?:profit\s+before\s+interest\s+and\s+tax(?:es)?|pbit|ebit)\b`)},
	{models.SectionPnL, models.FieldDepreciation,
		regexp.MustCompile(`(?i)^depreciation(?:\s+and\s+amorti[sz]ation)?(?:\s+expenses?)?\b`)},
	{models.SectionPnL, models.FieldInterestExpenses,
		regexp.MustCompile(`(?i)^(?:finance\s+costs?|interest\s+expenses?)\b`)},
	{models.SectionBS, models.FieldLongTermBorrowings,
		regexp.MustCompile(`(?i)^long[\s-]+term\s+borrowings\b`)},
	{models.SectionBS, models.FieldShortTermBorrowings,
		regexp.MustCompile(`(?i)^short[\s-]+term\s+borrowings\b`)},
}

// lineItem is a caption matched on one statement line with the amount tokens
// that follow it. A leading token may still be a note reference.
type lineItem struct {
	section string
	field   string
	tokens  []string
	amounts []decimal.Decimal
}

// ParseStatementText builds a document from the text of a financial
// statement. Each amount column becomes one financial entry, leftmost
// (latest period) first. A leading one- or two-digit token is a note
// reference only when the line carries more amounts than the statement has
// period columns.
//
// Statement lines look like:
//
//	Revenue from operations   19   60,000,000   55,000,000
//	Finance costs                  (5,000,000)  -
func ParseStatementText(pages []string) (*models.Document, error) {
	allText := strings.Join(pages, "\n")

	var items []lineItem
	seen := make(map[string]bool)
	hasNoteColumn := false
	for _, raw := range strings.Split(allText, "\n") {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}
		if noteHeaderPattern.MatchString(line) {
			hasNoteColumn = true
		}
		item, ok := matchLineItem(line)
		if !ok || seen[item.field] {
			continue
		}
		seen[item.field] = true
		items = append(items, item)
	}

	width := amountColumns(items, hasNoteColumn)
	parsed := items[:0]
	for _, item := range items {
		tokens := item.tokens
		if len(tokens) > width && noteRefPattern.MatchString(tokens[0]) {
			tokens = tokens[1:]
		}
		amounts, err := parseAmounts(tokens)
		if err != nil {
			continue
		}
		item.amounts = amounts
		parsed = append(parsed, item)
	}
	items = parsed

	if len(items) == 0 {
		return nil, &models.UnparseableError{Reason: "no financial line items found in statement text"}
	}

	nature := models.NatureStandalone
	if containsAny(allText, []string{"consolidated"}) && !containsAny(allText, []string{"standalone"}) {
		nature = NatureConsolidated
	}

	columns := 0
	for _, item := range items {
		columns = max(columns, len(item.amounts))
	}

	financials := make([]any, 0, columns)
	for col := 0; col < columns; col++ {
		sections := map[string]map[string]any{
			models.SectionPnL: {},
			models.SectionBS:  {},
		}
		for _, item := range items {
			if col < len(item.amounts) {
				sections[item.section][item.field] = item.amounts[col]
			}
		}
		financials = append(financials, map[string]any{
			"nature":          nature,
			models.SectionPnL: map[string]any{"lineItems": sections[models.SectionPnL]},
			models.SectionBS:  map[string]any{"lineItems": sections[models.SectionBS]},
		})
	}

	return models.NewDocument(map[string]any{
		"data": map[string]any{"financials": financials},
	}), nil
}

// matchLineItem recognises a caption at the start of line and collects the
// amount tokens that follow it.
func matchLineItem(line string) (lineItem, bool) {
	for _, c := range lineItemCaptions {
		loc := c.pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		var tokens []string
		for _, tok := range strings.Fields(line[loc[1]:]) {
			if isAmountToken(tok) {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) == 0 {
			return lineItem{}, false
		}
		return lineItem{section: c.section, field: c.field, tokens: tokens}, true
	}
	return lineItem{}, false
}

// amountColumns returns the number of period columns in the statement. Lines
// whose first token cannot be a note reference show the width directly. When
// every line starts with a short integer, those integers are note references
// only if the statement has a Note column header.
func amountColumns(items []lineItem, hasNoteColumn bool) int {
	width, widest := 0, 0
	for _, item := range items {
		n := len(item.tokens)
		widest = max(widest, n)
		if !noteRefPattern.MatchString(item.tokens[0]) {
			width = max(width, n)
		}
	}
	if width > 0 {
		return width
	}
	if hasNoteColumn && widest > 1 {
		return widest - 1
	}
	return widest
}

func parseAmounts(tokens []string) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, 0, len(tokens))
	for _, tok := range tokens {
		d, err := parseAmount(tok)
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", tok, err)
		}
		amounts = append(amounts, d)
	}
	return amounts, nil
}
