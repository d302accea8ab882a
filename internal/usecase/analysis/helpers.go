package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/extractor"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// prepareContent validates and extracts every uploaded file in order.
func (uc *AnalysisUsecase) prepareContent(ctx context.Context, files []entity.UploadedFile) (*entity.PreparedContent, error) {
	content := &entity.PreparedContent{}
	budget := uc.validator.NewBudget()

	for _, f := range files {
		filename := strings.TrimSpace(f.Filename)
		if filename == "" {
			continue
		}

		ext, err := uc.validator.CheckExtension(filename)
		if err != nil {
			return nil, err
		}

		if len(f.Content) == 0 {
			ctxzap.Debug(ctx, "skipping empty file", zap.String("filename", filename))
			continue
		}

		kind := extractor.KindOf(ext)
		if kind == extractor.KindImage {
			if err := budget.AddImage(filename, int64(len(f.Content))); err != nil {
				return nil, err
			}
			mime, uri := extractor.EncodeImage(ext, f.Content)
			content.Images = append(content.Images, entity.ImageDocument{
				Filename: filename,
				MIME:     mime,
				DataURI:  uri,
			})
			continue
		}

		var text string
		if kind == extractor.KindPDF {
			text, err = extractor.ExtractPDF(f.Content)
			if err != nil {
				ctxzap.Warn(ctx, "pdf extraction failed", zap.String("filename", filename), zap.Error(err))
				return nil, entity.NewUploadError(entity.ErrUnreadableFile, "Could not read text from PDF '%s'.", filename)
			}
		} else {
			text, err = extractor.DecodeText(f.Content)
			if err != nil {
				return nil, entity.NewUploadError(entity.ErrUnreadableFile, "Could not decode '%s' as text.", filename)
			}
		}

		text = extractor.Sanitize(text)
		if text == "" {
			ctxzap.Debug(ctx, "skipping file without text", zap.String("filename", filename))
			continue
		}

		text, err = budget.AddText(text)
		if err != nil {
			return nil, err
		}

		content.Texts = append(content.Texts, entity.TextDocument{Filename: filename, Text: text})
	}

	if content.Empty() {
		return nil, entity.NewUploadError(entity.ErrNoReadableContent, "No readable text content found in uploaded files.")
	}

	ctxzap.Info(ctx, "upload prepared",
		zap.Int("text_files", len(content.Texts)),
		zap.Int("image_files", len(content.Images)),
		zap.Int("total_chars", budget.Chars()),
		zap.Int64("image_bytes", budget.ImageBytes()),
	)

	return content, nil
}

// cacheKey identifies an upload by model, names and bytes.
func cacheKey(model string, files []entity.UploadedFile) string {
	h := sha256.New()
	writeField := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}

	writeField([]byte(model))
	for _, f := range files {
		writeField([]byte(f.Filename))
		writeField(f.Content)
	}

	return hex.EncodeToString(h.Sum(nil))
}
