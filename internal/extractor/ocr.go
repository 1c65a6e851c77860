package extractor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// OCRAvailable reports whether pdftoppm and tesseract are both on PATH.
func OCRAvailable() bool {
	for _, tool := range []string{"pdftoppm", "tesseract"} {
		if _, err := exec.LookPath(tool); err != nil {
			return false
		}
	}
	return true
}

// extractWithOCR rasterises each page and runs Tesseract over it. Scanned
// annual reports have no text layer, so this is the last resort.
func extractWithOCR(filePath string) ([]string, error) {
	if !OCRAvailable() {
		return nil, errors.New("OCR tools not available (install poppler-utils and tesseract-ocr)")
	}

	tmpDir, err := os.MkdirTemp("", "statement-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	if out, err := exec.Command("pdftoppm", "-r", "300", "-png", filePath, prefix).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errors.New("pdftoppm produced no page images")
	}
	sort.Strings(images)

	var (
		pages   []string
		pageErr []error
	)
	for _, img := range images {
		// psm 6 reads each page as one block, which keeps statement rows and
		// their amount columns on the same line.
		out, err := exec.Command("tesseract", img, "stdout", "-l", "eng", "--psm", "6").Output()
		if err != nil {
			pageErr = append(pageErr, fmt.Errorf("%s: %w", filepath.Base(img), err))
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("tesseract OCR produced no text from %d page image(s): %w", len(images), errors.Join(pageErr...))
	}
	return pages, nil
}

// pageCount returns the number of pages reported by pdfinfo, or 0 when it
// cannot be determined.
func pageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil {
			return n
		}
	}
	return 0
}
