package analysis

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
)

// readUploads collects every "files" part in upload order. A request that is
// not multipart, or whose multipart body is malformed, has no files. Only an
// oversized body is an error.
func readUploads(r *http.Request, maxMemory int64) ([]entity.UploadedFile, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, nil
	}

	headers := r.MultipartForm.File["files"]
	files := make([]entity.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, entity.UploadedFile{Filename: fh.Filename, Content: content})
	}

	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fh.Filename, err)
	}
	return content, nil
}

func exportFilename(title, ext string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "analysis"
	}
	return name + ext
}
