package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In the container image fonts are copied next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	// points to millimetres
	ptToMM = 25.4 / 72
)

type pdfLayout struct {
	pageSize  string
	margin    float64
	titleSize float64
	bodySize  float64
	leading   float64
}

var (
	regularLayout = pdfLayout{pageSize: "A4", margin: 15, titleSize: 20, bodySize: 12, leading: 1.5}
	// two letter pages at 6pt hold a full reference sheet
	compactLayout = pdfLayout{pageSize: "Letter", margin: 6, titleSize: 8, bodySize: 6, leading: 1.15}
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{fontPath: resolveFontPath()}
}

func resolveFontPath() string {
	if path := os.Getenv("PDF_FONT_PATH"); path != "" {
		return path
	}
	for _, path := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (mf *PDFFormatter) Format(doc Document) ([]byte, error) {
	layout := regularLayout
	if doc.Compact {
		layout = compactLayout
	}

	pdf := gofpdf.New("P", "mm", layout.pageSize, "")
	pdf.SetMargins(layout.margin, layout.margin, layout.margin)
	pdf.SetAutoPageBreak(true, layout.margin)
	pdf.AddPage()

	fontName := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if mf.fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", mf.fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", mf.fontPath)
		fontName = pdfFontName
		translate = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", layout.titleSize)
	pdf.MultiCell(0, layout.titleSize*ptToMM*layout.leading, translate(doc.title()), "", "", false)
	pdf.Ln(layout.bodySize * ptToMM)

	pdf.SetFont(fontName, "", layout.bodySize)
	pdf.MultiCell(0, layout.bodySize*ptToMM*layout.leading, translate(doc.Body), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
