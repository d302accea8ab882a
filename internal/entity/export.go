package entity

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ExportRequest struct {
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Format  ResultFormat `json:"format"`
	// Compact renders PDFs at reference-sheet density.
	Compact bool `json:"compact"`
}
