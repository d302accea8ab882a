package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n%s\n", doc.title(), strings.TrimSpace(doc.Body))
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
