package pdf

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/flashgen/pkg/logger"
)

// MinTextRunes is how many letters or digits a page needs before it
// counts as carrying text. Scanned pages often yield a few stray glyphs.
const MinTextRunes = 16

// Report summarises what the server will be able to extract from a PDF.
type Report struct {
	Path      string
	Pages     int
	TextPages int
}

func (r Report) HasText() bool {
	return r.TextPages > 0
}

type Inspector struct {
	logger *logger.Logger
}

func NewInspector(logger *logger.Logger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect validates the document with pdfcpu and counts the pages that
// carry extractable text.
func (i *Inspector) Inspect(ctx context.Context, pdfPath string) (Report, error) {
	report := Report{Path: pdfPath}

	pages, err := api.PageCountFile(pdfPath)
	if err != nil {
		return report, fmt.Errorf("invalid PDF %s: %w", pdfPath, err)
	}
	report.Pages = pages
	i.logger.Debug("%s has %d pages", pdfPath, pages)

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return report, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	//Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			i.logger.Debug("Warning: couldn't extract text from page %d: %v", pageNum, err)
			continue
		}
		if HasMeaningfulText(text) {
			report.TextPages++
		}
		i.logger.Trace("Page %d: %d characters of text", pageNum, len(text))
	}

	return report, nil
}

func HasMeaningfulText(text string) bool {
	count := 0
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
			if count >= MinTextRunes {
				return true
			}
		}
	}
	return false
}
