// Package prompt holds the fixed prompts sent to language models.
package prompt

import (
	"fmt"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
)

const SystemAnalysis = "You produce precise, structured educational analysis."

const analysisTemplate = `
You are analyzing multiple student practice materials.

Goal:
Tell me exactly what is being covered across these files and images.

Output format:
1) Covered topics:
- A bullet list of concrete topics that appear in the material.
2) Skills practiced:
- A bullet list of skills/question types being practiced.
3) Frequency map:
- For each topic, estimate how often it appears (high/medium/low) with brief evidence from file names.
4) Missing or weak areas:
- Mention important adjacent topics that are absent or lightly covered.
5) 5-point summary:
- Give exactly five concise bullets a teacher can scan quickly.

Use clear headings and keep it concise but specific.

Image files:
%s

File contents:
%s
`

// Analysis renders the analysis instruction for the prepared uploads.
func Analysis(content *entity.PreparedContent) string {
	names := make([]string, 0, len(content.Images))
	for _, img := range content.Images {
		names = append(names, img.Filename)
	}
	imageNames := strings.Join(names, ", ")
	if imageNames == "" {
		imageNames = "None"
	}

	blocks := make([]string, 0, len(content.Texts))
	for _, doc := range content.Texts {
		blocks = append(blocks, fmt.Sprintf("FILE: %s\n---\n%s", doc.Filename, doc.Text))
	}
	fileBlocks := strings.Join(blocks, "\n\n")
	if fileBlocks == "" {
		fileBlocks = "None"
	}

	return strings.TrimSpace(fmt.Sprintf(analysisTemplate, imageNames, fileBlocks))
}

// AnalysisMessages builds the system and multimodal user messages. Each image
// is preceded by a text part naming it.
func AnalysisMessages(content *entity.PreparedContent) []entity.ChatMessage {
	parts := make([]entity.ContentPart, 0, 1+2*len(content.Images))
	parts = append(parts, entity.ContentPart{Type: entity.ContentTypeText, Text: Analysis(content)})
	for _, img := range content.Images {
		parts = append(parts,
			entity.ContentPart{Type: entity.ContentTypeText, Text: "Image file: " + img.Filename},
			entity.ContentPart{Type: entity.ContentTypeImageURL, ImageURL: &entity.ImageURL{URL: img.DataURI}},
		)
	}

	return []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: SystemAnalysis},
		{Role: entity.RoleUser, Content: parts},
	}
}
