package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// JSONParser reads statements in the {"data":{"financials":[...]}} shape.
// Numbers are kept as json.Number so no precision is lost before the rules
// convert them to decimals.
type JSONParser struct{}

func (p *JSONParser) Format() Format {
	return FormatJSON
}

func (p *JSONParser) Parse(r io.Reader) (*models.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &models.UnparseableError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &models.UnparseableError{Reason: "unexpected data after JSON document"}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &models.UnparseableError{Reason: fmt.Sprintf("document root must be an object, got %s", jsonKind(root))}
	}
	return models.NewDocument(obj), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
