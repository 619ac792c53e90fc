package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var (
	// ErrCorruptDocument means the bytes could not be parsed as a PDF.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrEmptyDocument means the PDF parsed but yielded no text (e.g. a scan).
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// PDFExtractor extracts plain text from PDF bytes using github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// ExtractText implements the pipeline's text extraction step.
func (PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return ExtractPDF(ctx, data)
}

// ExtractPDF returns the text of every page in page order, pages separated
// by a single newline. It never attempts OCR.
func ExtractPDF(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no bytes", ErrCorruptDocument)
	}

	// The reader panics on some malformed object graphs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrCorruptDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	total := reader.NumPage()
	if total == 0 {
		return "", ErrEmptyDocument
	}

	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrCorruptDocument, i, err)
		}
		pages = append(pages, content)
	}

	text = strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// NormalizeContentType lower-cases a declared MIME type and drops parameters.
func NormalizeContentType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}

// IsPDF reports whether the declared content type is application/pdf.
func IsPDF(contentType string) bool {
	return NormalizeContentType(contentType) == mimePDF
}
