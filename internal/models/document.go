package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Line item field names read by the underwriting rules.
const (
	FieldNetRevenue                 = "netRevenue"
	FieldLongTermBorrowings         = "longTermBorrowings"
	FieldShortTermBorrowings        = "shortTermBorrowings"
	FieldProfitBeforeInterestAndTax = "profitBeforeInterestAndTax"
	FieldDepreciation               = "depreciation"
	FieldInterestExpenses           = "interestExpenses"
)

// Statement sections holding line items.
const (
	SectionPnL = "pnl"
	SectionBS  = "bs"
)

// NatureStandalone marks the preferred financial entry.
const NatureStandalone = "STANDALONE"

// ErrFieldMissing is returned by Lookup when a path does not resolve.
// Out-of-range indexes, absent keys and JSON null all map to it.
var ErrFieldMissing = errors.New("field missing")

// TypeError reports a path segment whose value has the wrong shape.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Want, e.Got)
}

// Document is a decoded statement: a JSON object tree whose leaves are
// json.Number, decimal.Decimal, string, bool or nil.
type Document struct {
	root map[string]any
}

// NewDocument wraps a decoded JSON object.
func NewDocument(root map[string]any) *Document {
	if root == nil {
		root = map[string]any{}
	}
	return &Document{root: root}
}

// Root returns the underlying object.
func (d *Document) Root() map[string]any {
	if d == nil {
		return nil
	}
	return d.root
}

// FinancialsPath is the location of the financial entries array.
var FinancialsPath = []any{"data", "financials"}

// EntryPath returns the path to a section field of the financial entry at index.
func EntryPath(index int, section, field string) []any {
	return []any{"data", "financials", index, section, "lineItems", field}
}

// Lookup walks path through nested objects (string segments) and arrays
// (int segments). Absent keys, out-of-range indexes and null values yield
// ErrFieldMissing; a segment applied to the wrong container yields *TypeError.
func (d *Document) Lookup(path ...any) (any, error) {
	if d == nil {
		return nil, ErrFieldMissing
	}
	var cur any = d.root
	for i, seg := range path {
		switch key := seg.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, &TypeError{Path: FormatPath(path[:i]), Want: "object", Got: kindOf(cur)}
			}
			next, ok := obj[key]
			if !ok || next == nil {
				return nil, ErrFieldMissing
			}
			cur = next
		case int:
			arr, ok := cur.([]any)
			if !ok {
				return nil, &TypeError{Path: FormatPath(path[:i]), Want: "array", Got: kindOf(cur)}
			}
			if key < 0 || key >= len(arr) || arr[key] == nil {
				return nil, ErrFieldMissing
			}
			cur = arr[key]
		default:
			return nil, fmt.Errorf("unsupported path segment %T", seg)
		}
	}
	return cur, nil
}

// Number resolves path to a numeric leaf.
func (d *Document) Number(path ...any) (decimal.Decimal, error) {
	v, err := d.Lookup(path...)
	if err != nil {
		return decimal.Zero, err
	}
	n, ok := toDecimal(v)
	if !ok {
		return decimal.Zero, &TypeError{Path: FormatPath(path), Want: "number", Got: kindOf(v)}
	}
	return n, nil
}

// Array resolves path to a nested array.
func (d *Document) Array(path ...any) ([]any, error) {
	v, err := d.Lookup(path...)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &TypeError{Path: FormatPath(path), Want: "array", Got: kindOf(v)}
	}
	return arr, nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

// FormatPath renders a lookup path as "data.financials[0].pnl".
func FormatPath(path []any) string {
	if len(path) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, seg := range path {
		switch s := seg.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(s) + "]")
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, s)
		}
	}
	return b.String()
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, decimal.Decimal, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
