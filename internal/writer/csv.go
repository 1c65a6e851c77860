package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// CSVWriter writes rule results to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// Write writes rule results in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)

	// Report metadata as comment-style rows
	if w.IncludeHeader {
		meta := [][]string{}
		if report.Source != "" {
			meta = append(meta, []string{"# Source", report.Source})
		}
		meta = append(meta, []string{"# Period Index", strconv.Itoa(report.Period.Index)})
		if report.Period.Nature != "" {
			meta = append(meta, []string{"# Nature", report.Period.Nature})
		}
		if err := writer.WriteAll(meta); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	if err := writer.Write([]string{"Rule", "Name", "Flag", "Code"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, res := range report.Results {
		row := []string{
			strconv.Itoa(res.Number),
			res.Name,
			res.Flag.String(),
			strconv.Itoa(res.Flag.Code()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteError writes the failure as a single error row.
func (w *CSVWriter) WriteError(out io.Writer, report models.ErrorReport) error {
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"error", report.Error}); err != nil {
		return fmt.Errorf("failed to write CSV error row: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
