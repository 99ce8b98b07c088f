package pdftext

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var reBlankRuns = regexp.MustCompile(`\n{3,}`)

// Extract pulls the plain text out of a PDF blob, with page separators
// for multi-page documents and excess blank lines collapsed.
func Extract(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	parts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if i > 1 {
			parts = append(parts, fmt.Sprintf("--- Page %d ---", i))
		}
		parts = append(parts, text)
	}

	full := strings.Join(parts, "\n")
	full = reBlankRuns.ReplaceAllString(full, "\n\n")
	return strings.TrimSpace(full), nil
}

func ExtractFile(path string) (string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Extract(blob)
}
