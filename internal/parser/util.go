package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// 1,23,456.78 or (1,234) or -1234 with an optional currency prefix
	amountTokenPattern = regexp.MustCompile(`^\(?-?(?:₹|\$|£|€)?\d[\d,]*(?:\.\d+)?\)?$`)
	// Short bare integers in front of amounts may be note references ("19", "2").
	noteRefPattern = regexp.MustCompile(`^\d{1,2}$`)
	// Column header naming the note references, e.g. "Particulars Note No. 2024 2023".
	noteHeaderPattern = regexp.MustCompile(`(?i)^particulars\b.*\bnotes?\b|^notes?(?:\s+no\.?)?$`)
	// Enumerators such as "(a)", "iv.", "3." or "(ii)" in front of captions.
	enumeratorPattern = regexp.MustCompile(`(?i)^(?:\([a-z]\)|\([ivx]+\)|[ivx]+\.|[a-z]\.|\d+\.|\d+\))\s+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// parseAmount converts a string like "1,234.56", "₹1,234" or "(1,234)" to a
// decimal. Parentheses mark a negative amount; a lone dash is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	// Remove currency symbols and whitespace (including Unicode variants)
	for _, sym := range []string{"₹", "Rs.", "$", "£", "€", ",", " ", "\u00A0"} {
		s = strings.ReplaceAll(s, sym, "")
	}

	if s == "" || s == "-" || s == "–" || s == "—" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// isAmountToken reports whether a whitespace-separated token is a statement amount.
func isAmountToken(tok string) bool {
	switch tok {
	case "-", "–", "—":
		return true
	}
	return amountTokenPattern.MatchString(tok)
}

// normalizeLine cleans up common PDF extraction artifacts and strips a
// leading enumerator.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u00A0", " ")
	line = whitespacePattern.ReplaceAllString(strings.TrimSpace(line), " ")
	return enumeratorPattern.ReplaceAllString(line, "")
}

func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if needle != "" && strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
