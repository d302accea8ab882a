package formatter

import (
	"bytes"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(d Document) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(d.title())

	// one paragraph per line, runs do not break on "\n"
	for _, line := range strings.Split(strings.TrimSpace(d.Body), "\n") {
		par := doc.AddParagraph()
		run := par.AddRun()
		if d.Compact {
			run.Properties().SetSize(6 * measurement.Point)
			par.Properties().Spacing().SetAfter(0)
		}
		run.AddText(strings.TrimRight(line, "\r"))
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
