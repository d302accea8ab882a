package buffer

import (
	"testing"
	"time"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name string) entity.UploadedFile {
	return entity.UploadedFile{Filename: name, Content: []byte(name)}
}

func TestStoreFiles(t *testing.T) {
	s := NewStore(0)

	assert.Equal(t, 1, s.AddFile(1, file("a.txt")))
	assert.Equal(t, 2, s.AddFile(1, file("b.txt")))
	assert.Equal(t, 1, s.AddFile(2, file("c.txt")))

	files := s.Files(1)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Filename)
	assert.Equal(t, "b.txt", files[1].Filename)

	files[0].Filename = "changed"
	assert.Equal(t, "a.txt", s.Files(1)[0].Filename)

	assert.Equal(t, 2, s.ClearFiles(1))
	assert.Empty(t, s.Files(1))
	assert.Equal(t, 0, s.ClearFiles(1))
	assert.Len(t, s.Files(2), 1)
}

func TestStoreLastAnalysisSurvivesClear(t *testing.T) {
	s := NewStore(0)

	_, ok := s.LastAnalysis(7)
	assert.False(t, ok)

	s.AddFile(7, file("a.txt"))
	s.SetLastAnalysis(7, "analysis")
	s.ClearFiles(7)

	text, ok := s.LastAnalysis(7)
	assert.True(t, ok)
	assert.Equal(t, "analysis", text)
}

func TestStoreDropFilesKeepsLaterArrivals(t *testing.T) {
	s := NewStore(0)
	s.AddFile(1, file("a.txt"))
	s.AddFile(1, file("b.txt"))
	s.AddFile(1, file("c.txt"))

	assert.Equal(t, 1, s.DropFiles(1, 2))
	files := s.Files(1)
	require.Len(t, files, 1)
	assert.Equal(t, "c.txt", files[0].Filename)

	assert.Equal(t, 1, s.DropFiles(1, 0))
	assert.Equal(t, 0, s.DropFiles(1, 5))
	assert.Empty(t, s.Files(1))
	assert.Equal(t, 0, s.DropFiles(9, 1))
}

func TestStoreExpires(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	s.AddFile(1, file("a.txt"))

	assert.Eventually(t, func() bool {
		return len(s.Files(1)) == 0
	}, time.Second, 10*time.Millisecond)
}
