package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/formatter"
	"github.com/futig/practice-analyzer/internal/pkg/logger"
	"github.com/futig/practice-analyzer/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

type Handler struct {
	usecase    AnalysisUsecase
	cfg        config.FileUploadConfig
	formatters *formatter.Factory
}

func NewHandler(
	usecase AnalysisUsecase,
	cfg config.FileUploadConfig,
	formatters *formatter.Factory,
) *Handler {
	return &Handler{
		usecase:    usecase,
		cfg:        cfg,
		formatters: formatters,
	}
}

// AnalyzePractice handles POST /api/analyze-practice
func (h *Handler) AnalyzePractice(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AnalyzePractice")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxRequestSize)
	files, err := readUploads(r, h.cfg.MaxUploadMemory)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(ctx, w, http.StatusRequestEntityTooLarge, "Upload is too large.", err)
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "Could not read uploaded files.", err)
		return
	}

	ctxzap.Info(ctx, "analyzing practice material", zap.Int("file_count", len(files)))

	resp, err := h.usecase.Analyze(ctx, &entity.AnalyzeRequest{Files: files})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// ReferenceSheet handles POST /api/reference-sheet
func (h *Handler) ReferenceSheet(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ReferenceSheet")

	var req entity.ReferenceSheetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "Invalid JSON body.", err)
		return
	}

	sheet, err := h.usecase.GenerateReferenceSheet(ctx, req.Analysis)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, sheet)
}

// Export handles POST /api/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Export")

	var req entity.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "Invalid JSON body.", err)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "Content is required.", nil)
		return
	}
	if req.Format == "" {
		req.Format = entity.FormatMarkdown
	}

	f, err := h.formatters.Create(req.Format)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "Unsupported format. Use markdown, docx or pdf.", err)
		return
	}

	data, err := f.Format(formatter.Document{Title: req.Title, Body: req.Content, Compact: req.Compact})
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "Could not render document.", err)
		return
	}

	ctxzap.Info(ctx, "document exported", zap.String("format", string(req.Format)), zap.Int("bytes", len(data)))

	response.Attachment(w, exportFilename(req.Title, f.FileExtension()), f.ContentType(), data)
}

// ListAnalyses handles GET /api/analyses
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListAnalyses")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := h.usecase.ListAnalyses(ctx, &entity.ListAnalysesRequest{Skip: skip, Limit: limit})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "analyses listed", zap.Int("count", len(resp.Analyses)))

	response.Success(w, resp)
}

// GetAnalysis handles GET /api/analyses/{analysis_id}
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID := chi.URLParam(r, "analysis_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("analysis_id", analysisID),
		zap.String("action", "GetAnalysis"),
	)

	a, err := h.usecase.GetAnalysis(ctx, analysisID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, a)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	return dec.Decode(dst)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Warn(ctx, message, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Int("status", status))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var upErr *entity.UploadError
	var upstreamErr *entity.UpstreamError

	switch {
	case errors.As(err, &upErr):
		h.respondError(ctx, w, http.StatusBadRequest, upErr.Message, upErr.Err)
	case errors.As(err, &upstreamErr):
		ctxzap.Error(ctx, "upstream request failed", zap.Int("upstream_status", upstreamErr.StatusCode), zap.Error(err))
		response.JSON(w, http.StatusBadGateway, entity.ErrorResponse{
			Error:   upstreamErr.Error(),
			Model:   upstreamErr.Model,
			Details: upstreamErr.Details,
			Raw:     upstreamErr.Raw,
		})
	case errors.Is(err, entity.ErrAnalysisNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "Analysis not found.", err)
	case errors.Is(err, entity.ErrHistoryDisabled):
		h.respondError(ctx, w, http.StatusNotFound, "Analysis history is not enabled.", err)
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "Analysis text is required.", err)
	case errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "Invalid analysis id.", err)
	case errors.Is(err, entity.ErrEmptyGeneration):
		h.respondError(ctx, w, http.StatusBadGateway, "Local model returned empty output.", err)
	case errors.Is(err, entity.ErrLocalModel):
		h.respondError(ctx, w, http.StatusBadGateway, "Local model request failed.", err)
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(ctx, w, http.StatusGatewayTimeout, "Request timed out.", err)
	default:
		ctxzap.Error(ctx, "unexpected error", zap.Error(err))
		h.respondError(ctx, w, http.StatusInternalServerError, "Internal server error.", err)
	}
}
