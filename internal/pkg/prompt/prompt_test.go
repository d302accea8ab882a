package prompt

import (
	"strings"
	"testing"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisEmptySections(t *testing.T) {
	p := Analysis(&entity.PreparedContent{})

	assert.True(t, strings.HasPrefix(p, "You are analyzing multiple student practice materials."))
	assert.True(t, strings.HasSuffix(p, "Image files:\nNone\n\nFile contents:\nNone"))
}

func TestAnalysisListsFilesAndImages(t *testing.T) {
	content := &entity.PreparedContent{
		Texts: []entity.TextDocument{
			{Filename: "a.txt", Text: "Newton's laws"},
			{Filename: "b.md", Text: "Ohm's law"},
		},
		Images: []entity.ImageDocument{
			{Filename: "c.png", DataURI: "data:image/png;base64,AA=="},
			{Filename: "d.jpg", DataURI: "data:image/jpeg;base64,AA=="},
		},
	}

	p := Analysis(content)
	assert.Contains(t, p, "Image files:\nc.png, d.jpg\n")
	assert.True(t, strings.HasSuffix(p, "File contents:\nFILE: a.txt\n---\nNewton's laws\n\nFILE: b.md\n---\nOhm's law"))
}

func TestAnalysisMessages(t *testing.T) {
	content := &entity.PreparedContent{
		Texts:  []entity.TextDocument{{Filename: "a.txt", Text: "x"}},
		Images: []entity.ImageDocument{{Filename: "c.png", DataURI: "data:image/png;base64,AA=="}},
	}

	msgs := AnalysisMessages(content)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.RoleSystem, msgs[0].Role)
	assert.Equal(t, SystemAnalysis, msgs[0].Content)

	parts, ok := msgs[1].Content.([]entity.ContentPart)
	require.True(t, ok)
	require.Len(t, parts, 3)
	assert.Equal(t, entity.ContentTypeText, parts[0].Type)
	assert.Equal(t, Analysis(content), parts[0].Text)
	assert.Equal(t, entity.ContentPart{Type: entity.ContentTypeText, Text: "Image file: c.png"}, parts[1])
	assert.Equal(t, entity.ContentTypeImageURL, parts[2].Type)
	assert.Equal(t, "data:image/png;base64,AA==", parts[2].ImageURL.URL)
}

func TestReferenceSheetInstruction(t *testing.T) {
	text := Instruction(ReferenceSheet("1) Covered topics"), "SHEET")

	assert.True(t, strings.HasPrefix(text, "### Instruction\nCreate a highly compressed Science Olympiad reference sheet"))
	assert.True(t, strings.HasSuffix(text, "Analysis to transform:\n1) Covered topics\n\n### Response\nSHEET"))
	assert.Equal(t, "Analysis to transform:\nx", Evaluation("  x \n"))
}
