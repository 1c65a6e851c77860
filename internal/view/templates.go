package view

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/insightdelivered/statement-underwriter/internal/models"
	"github.com/insightdelivered/statement-underwriter/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title   string
	Version string
	Error   string
	Data    any
}

// ResultsPage is the Data of the results template.
type ResultsPage struct {
	ID     string
	Report *models.Report
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"flagClass": flagClass,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w io.Writer, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}

// flagClass maps a flag to its CSS class, e.g. MEDIUM_RISK to flag-medium-risk.
func flagClass(f models.Flag) string {
	return "flag-" + strings.ReplaceAll(strings.ToLower(f.String()), "_", "-")
}
