package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hyperifyio/gobacklog/internal/backlog"
)

// maxPDFPages bounds how much of a document is read for the summary text.
// The title and date live in the Info dictionary or on the first page.
const maxPDFPages = 3

// FromPDF extracts plain text and metadata from PDF bytes. Title fallback
// order: Info dictionary title, first plausible text line, humanized file
// name. The pdf reader panics on some malformed inputs, so the whole parse
// runs behind a recover and degrades to an extraction error.
func FromPDF(data []byte, name string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = fmt.Errorf("%w: pdf reader: %v", backlog.ErrExtraction, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: open pdf: %v", backlog.ErrExtraction, err)
	}

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total && i <= maxPDFPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(txt)
		sb.WriteString("\n")
	}
	text := sb.String()

	title, published := pdfInfo(r)
	if title == "" {
		title = firstPlausibleLine(text)
	}
	if title == "" {
		title = humanizeFilename(name)
	}
	if title == "" && strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: empty pdf", backlog.ErrExtraction)
	}

	return Result{
		Title:       title,
		Text:        CleanText(text),
		Summary:     Summarize(text),
		PublishedAt: published,
	}, nil
}

// pdfInfo reads the document Info dictionary for title and creation date.
func pdfInfo(r *pdf.Reader) (title, published string) {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return "", ""
	}
	title = CleanText(info.Key("Title").Text())
	published = pdfDate(info.Key("CreationDate").Text())
	return title, published
}

// pdfDate converts a PDF date string (D:YYYYMMDDHHmmSS...) to YYYY-MM-DD.
func pdfDate(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	if len(s) < 8 {
		return ""
	}
	for _, c := range s[:8] {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:8]
}

// firstPlausibleLine returns the first extracted line that looks like a
// title rather than a page artifact.
func firstPlausibleLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		s := CleanText(line)
		if len(s) > 5 && len(s) < 200 {
			return s
		}
	}
	return ""
}

// humanizeFilename turns report_v2-final.pdf into "report v2 final".
func humanizeFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return CleanText(base)
}
