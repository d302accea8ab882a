package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	for format, ext := range map[entity.ResultFormat]string{
		entity.FormatMarkdown: ".md",
		entity.FormatDOCX:     ".docx",
		entity.FormatPDF:      ".pdf",
	} {
		fm, err := f.Create(format)
		require.NoError(t, err)
		assert.Equal(t, ext, fm.FileExtension())
	}

	_, err := f.Create("html")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(Document{Body: "  1) Covered topics\n- Optics  "})
	require.NoError(t, err)
	assert.Equal(t, "# Practice material analysis\n\n1) Covered topics\n- Optics\n", string(out))

	out, err = NewMarkdownFormatter().Format(Document{Title: "Chem Lab", Body: "x"})
	require.NoError(t, err)
	assert.Equal(t, "# Chem Lab\n\nx\n", string(out))
}

func TestPDFFormat(t *testing.T) {
	f := &PDFFormatter{}

	regular, err := f.Format(Document{Title: "Sheet", Body: "Topic map\nOhm's law: V = IR"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(regular, []byte("%PDF-")))

	compact, err := f.Format(Document{Title: "Sheet", Body: "Topic map", Compact: true})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(compact, []byte("%PDF-")))
	// Letter media box is 612x792 points
	assert.Contains(t, string(compact), "612.00 792.00")
}

func TestDOCXFormat(t *testing.T) {
	out, err := NewDOCXFormatter().Format(Document{Title: "Sheet", Body: "a\nb", Compact: true})
	if err != nil && strings.Contains(err.Error(), "license") {
		t.Skip("unioffice license not configured")
	}
	require.NoError(t, err)
	// docx is a zip archive
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}
