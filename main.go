package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/insightdelivered/statement-underwriter/internal/app"
	"github.com/insightdelivered/statement-underwriter/internal/models"
	"github.com/insightdelivered/statement-underwriter/internal/parser"
	"github.com/insightdelivered/statement-underwriter/internal/rules"
	"github.com/insightdelivered/statement-underwriter/internal/writer"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("statement-underwriter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// CLI flags
	formatFlag := fs.String("format", "text", "Output format: text, json, csv")
	inputFormatFlag := fs.String("input-format", "", "Statement format: json, pdf (detected from the file extension if omitted)")
	outputFlag := fs.String("output", "", "Output file path (defaults to stdout; single input only)")
	headerFlag := fs.Bool("header", true, "Include report metadata rows in CSV output")
	serveFlag := fs.Bool("serve", false, "Start the HTTP server instead of analysing files")
	addrFlag := fs.String("addr", "", "Listen address for -serve (overrides APP_ADDR)")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	helpFlag := fs.Bool("help", false, "Show usage help")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Financial Statement Underwriter
by Insight Delivered (QEA AutoLens)

Evaluates underwriting rules (revenue floor, borrowing to revenue,
interest service coverage) against a company's financial statement
and reports a RED/GREEN/AMBER/MEDIUM_RISK/WHITE flag per rule.

Usage:
  statement-underwriter [flags] <statement.json|statement.pdf> [more ...]
  statement-underwriter -serve [-addr=:8080]

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Examples:
  # Print rule lines for a JSON statement
  statement-underwriter statement.json

  # JSON report written to a file
  statement-underwriter -format=json -output=report.json statement.json

  # Read line items from an annual report PDF
  statement-underwriter -format=csv annual-report.pdf

  # A PDF saved without its extension
  statement-underwriter -input-format=pdf download.bin

  # Run the web upload page and API
  statement-underwriter -serve -addr=:9000

Flag codes:
  0 RED  1 GREEN  2 AMBER  3 MEDIUM_RISK  4 WHITE
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "statement-underwriter v%s\n", version)
		return 0
	}

	if *helpFlag || (fs.NArg() == 0 && !*serveFlag) {
		fs.Usage()
		return 0
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	logger := app.NewLogger(cfg, stderr)

	if *serveFlag {
		if *addrFlag != "" {
			cfg.AppAddr = *addrFlag
		}
		if err := serve(cfg, logger); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return 1
		}
		return 0
	}

	inputFiles := fs.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		fmt.Fprintf(stderr, "-output accepts a single input file, got %d\n", len(inputFiles))
		return 1
	}

	var inputFormat parser.Format
	if *inputFormatFlag != "" {
		if inputFormat, err = parser.ParseFormat(*inputFormatFlag); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
	}

	format, err := writer.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	w, err := writer.New(format, writer.Options{IncludeHeader: *headerFlag})
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	engine := rules.NewEngine(logger)

	// Process each input file
	for _, inputPath := range inputFiles {
		if err := processFile(engine, w, logger, stdout, inputPath, inputFormat, *outputFlag); err != nil {
			fmt.Fprintf(stderr, "Error processing %s: %v\n", inputPath, err)
			return 1
		}
	}
	return 0
}

// processFile analyses one statement. An empty format is detected from the
// file extension.
func processFile(engine *rules.Engine, w writer.Writer, logger *slog.Logger, stdout io.Writer, inputPath string, format parser.Format, outputPath string) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if format == "" {
		detected, err := parser.Detect(inputPath)
		if err != nil {
			return err
		}
		format = detected
	}
	p, err := parser.New(format)
	if err != nil {
		return err
	}

	logger.Info("processing statement", slog.String("file", inputPath), slog.String("format", string(format)))

	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := p.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	report, err := engine.Analyze(doc)
	var errReport models.ErrorReport
	switch {
	case errors.Is(err, rules.ErrInvalidFinancials):
		errReport.Error = err.Error()
		report = nil
	case err != nil:
		return err
	default:
		report.Source = inputPath
	}

	if outputPath != "" {
		if err := writer.WriteToFile(w, outputPath, report, errReport); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
		logger.Info("report written", slog.String("output", outputPath))
		return nil
	}
	if report == nil {
		return w.WriteError(stdout, errReport)
	}
	return w.Write(stdout, report)
}

func serve(cfg *app.Config, logger *slog.Logger) error {
	server, err := app.NewServer(cfg, logger, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx, server, cfg.AppAddr, logger)
}
