// Package manual turns recipe manuals (PDF or plain text) into ingredient
// lines ready for matching.
package manual

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadSize bounds manual uploads.
const MaxUploadSize = 5 << 20 // 5 MiB

var ErrUnsupportedType = errors.New("unsupported manual type")

// Line is one parsed ingredient line. Quantity is 0 when the line carries none.
type Line struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Raw      string  `json:"raw"`
}

var (
	trailingQuantity = regexp.MustCompile(`^(.*?\S)[\s:：=]+(\d+(?:[.,]\d+)?)\s*([\p{L}%]*)\.?$`)
	bulletPrefix     = regexp.MustCompile(`^(?:[-*•·▪◦]|\d+[.)])\s+`)
	cleanWhitespace  = regexp.MustCompile(`\s+`)
)

// ExtractText returns the plain text of a manual. PDFs are read page by page;
// text and JSON are passed through. Images are rejected since there is no OCR.
func ExtractText(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		return extractTextFromPDF(data)
	case strings.HasPrefix(lower, "image/"):
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	default:
		return string(data), nil
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// MimeTypeFromName guesses a content type from a file extension.
func MimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".csv":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// ParseLines splits text into ingredient lines. A trailing "<number><unit>"
// token separated from the name ("Canola oil 500ml", "설탕: 1.5 kg") becomes
// the quantity and unit. Bullets and list numbering are dropped, and blank
// lines and lines without a name are skipped.
func ParseLines(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(cleanWhitespace.ReplaceAllString(raw, " "))
		if trimmed == "" {
			continue
		}
		trimmed = bulletPrefix.ReplaceAllString(trimmed, "")

		line := Line{Name: trimmed, Raw: strings.TrimSpace(raw)}
		if match := trailingQuantity.FindStringSubmatch(trimmed); match != nil {
			quantity, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", "."), 64)
			if err == nil {
				line.Name = strings.TrimSpace(match[1])
				line.Quantity = quantity
				line.Unit = strings.ToLower(match[3])
			}
		}
		if line.Name == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Names returns the names of lines in order.
func Names(lines []Line) []string {
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = line.Name
	}
	return names
}
