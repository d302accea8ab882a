package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
)

const defaultTitle = "Practice material analysis"

// Document is the content to render.
type Document struct {
	Title string
	Body  string
	// Compact renders at reference-sheet density: 6pt on letter pages.
	Compact bool
}

func (d Document) title() string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return defaultTitle
}

type Formatter interface {
	Format(doc Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}
