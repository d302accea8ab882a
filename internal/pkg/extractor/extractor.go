// Package extractor turns uploaded bytes into prompt-ready text or image data URIs.
package extractor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrMalformedPDF = errors.New("malformed pdf")
	ErrUndecodable  = errors.New("undecodable text")
)

// Kind is how an uploaded file is read.
type Kind int

const (
	KindText Kind = iota
	KindPDF
	KindImage
)

// KindOf classifies a lower-cased extension. Unknown and empty extensions are text.
func KindOf(ext string) Kind {
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return KindImage
	case ".pdf":
		return KindPDF
	default:
		return KindText
	}
}

// ImageMIME returns the media type used in the data URI for ext.
func ImageMIME(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

// EncodeImage builds a base64 data URI.
func EncodeImage(ext string, raw []byte) (mime, dataURI string) {
	mime = ImageMIME(ext)
	return mime, "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// DecodeText decodes raw as UTF-8, falling back to Latin-1.
func DecodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return string(decoded), nil
}

// ExtractPDF returns the plain text of every page joined by newlines.
// Pages without extractable text contribute an empty line.
func ExtractPDF(raw []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrMalformedPDF, r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}

	n := rdr.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pg := rdr.Page(i)
		if pg.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := pg.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, txt)
	}

	return strings.Join(pages, "\n"), nil
}

// Sanitize removes NUL characters, which Postgres text columns reject, and
// trims surrounding whitespace. Other control characters are kept.
func Sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}
