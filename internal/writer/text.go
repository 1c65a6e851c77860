package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// TextWriter prints one "Rule <n>: <NAME> - <code>" line per result.
type TextWriter struct{}

func (w *TextWriter) Write(out io.Writer, report *models.Report) error {
	for _, line := range report.Lines() {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func (w *TextWriter) WriteError(out io.Writer, report models.ErrorReport) error {
	_, err := fmt.Fprintln(out, report.Error)
	return err
}

// JSONWriter writes the report or error object as JSON.
type JSONWriter struct {
	Indent string
}

// JSONResult adds the integer code and rendered line to a rule result.
type JSONResult struct {
	models.RuleResult
	Code int    `json:"code"`
	Line string `json:"line"`
}

// JSONReport is the JSON shape of a report shared by the CLI and the API.
type JSONReport struct {
	ID      string        `json:"id,omitempty"`
	Source  string        `json:"source,omitempty"`
	Period  models.Period `json:"period"`
	Results []JSONResult  `json:"results"`
	Lines   []string      `json:"lines"`
}

func (w *JSONWriter) Write(out io.Writer, report *models.Report) error {
	return w.encode(out, NewJSONReport(report))
}

func (w *JSONWriter) WriteError(out io.Writer, report models.ErrorReport) error {
	return w.encode(out, report)
}

func (w *JSONWriter) encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", w.Indent)
	return enc.Encode(v)
}

// NewJSONReport converts a report to its JSON shape.
func NewJSONReport(report *models.Report) JSONReport {
	results := make([]JSONResult, 0, len(report.Results))
	for _, res := range report.Results {
		results = append(results, JSONResult{RuleResult: res, Code: res.Flag.Code(), Line: res.String()})
	}
	return JSONReport{
		Source:  report.Source,
		Period:  report.Period,
		Results: results,
		Lines:   report.Lines(),
	}
}
