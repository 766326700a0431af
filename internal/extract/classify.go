package extract

import (
	"bytes"
	"net/url"
	"strings"
)

// Kind classifies fetched content.
type Kind int

const (
	KindHTML Kind = iota
	KindPDF
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindPDF:
		return "pdf"
	}
	return "unsupported"
}

var pdfMagic = []byte("%PDF-")

// unsupportedPrefixes are content types that are clearly neither HTML nor
// PDF. Anything else defaults to HTML, since servers mislabel article
// pages constantly.
var unsupportedPrefixes = []string{
	"image/", "audio/", "video/",
	"application/zip", "application/gzip", "application/x-tar",
	"application/vnd.",
}

// Detect decides HTML vs PDF vs unsupported. Decision order: file
// extension, then Content-Type header, then byte signature, then default
// to HTML.
func Detect(rawURL, contentType string, data []byte) Kind {
	if u, err := url.Parse(rawURL); err == nil {
		if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
			return KindPDF
		}
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if strings.Contains(ct, "application/pdf") {
		return KindPDF
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return KindPDF
	}
	for _, p := range unsupportedPrefixes {
		if strings.HasPrefix(ct, p) {
			return KindUnsupported
		}
	}
	return KindHTML
}
