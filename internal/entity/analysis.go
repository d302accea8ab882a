package entity

import "time"

// UploadedFile is a raw file taken from a multipart form or a chat message.
type UploadedFile struct {
	Filename string
	Content  []byte
}

type AnalyzeRequest struct {
	Files []UploadedFile
}

// TextDocument is an uploaded file reduced to its text.
type TextDocument struct {
	Filename string
	Text     string
}

// ImageDocument is an uploaded image encoded for the chat-completion API.
type ImageDocument struct {
	Filename string
	MIME     string
	DataURI  string
}

// PreparedContent is the outcome of validation and extraction of one upload.
type PreparedContent struct {
	Texts  []TextDocument
	Images []ImageDocument
}

// Filenames returns text files first, then images, in upload order.
func (p *PreparedContent) Filenames() []string {
	names := make([]string, 0, len(p.Texts)+len(p.Images))
	for _, t := range p.Texts {
		names = append(names, t.Filename)
	}
	for _, img := range p.Images {
		names = append(names, img.Filename)
	}
	return names
}

func (p *PreparedContent) Empty() bool {
	return len(p.Texts) == 0 && len(p.Images) == 0
}

type Analysis struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Files     []string  `json:"files"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

type AnalyzeResponse struct {
	Response      string   `json:"response"`
	FilesAnalyzed []string `json:"files_analyzed"`
	TotalFiles    int      `json:"total_files"`
	ModelUsed     string   `json:"model_used"`
	AnalysisID    string   `json:"analysis_id"`
}

type ListAnalysesRequest struct {
	Skip  int
	Limit int
}

func (lr *ListAnalysesRequest) Normalize() {
	if lr.Skip < 0 {
		lr.Skip = 0
	}
	if lr.Limit <= 0 {
		lr.Limit = 10
	}

	lr.Limit = min(lr.Limit, 100)
}

type ListAnalysesResponse struct {
	Analyses []*AnalysisSummary `json:"analyses"`
}

type AnalysisSummary struct {
	ID         string   `json:"id"`
	Model      string   `json:"model"`
	Files      []string `json:"files"`
	TotalFiles int      `json:"total_files"`
	CreatedAt  string   `json:"created_at"`
}

type ReferenceSheetRequest struct {
	Analysis string `json:"analysis"`
}

// ReferenceSheet is a compressed study sheet generated from an analysis.
type ReferenceSheet struct {
	Text      string `json:"reference_sheet"`
	ModelUsed string `json:"model_used"`
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Model   string `json:"model,omitempty"`
	Details any    `json:"details,omitempty"`
	Raw     any    `json:"raw,omitempty"`
}
