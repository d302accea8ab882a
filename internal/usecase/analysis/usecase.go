package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/prompt"
	"github.com/futig/practice-analyzer/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// AnalysisUsecase runs uploads through validation, extraction and the
// hosted model, and turns analyses into reference sheets.
type AnalysisUsecase struct {
	validator *validator.Validator
	chat      ChatConnector
	generator Generator
	repo      AnalysisRepository
	cache     *cache.Cache
	logger    *zap.Logger
}

// NewUsecase creates the analysis use case. repo may be nil, in which case
// history is disabled. A zero cacheTTL disables memoisation.
func NewUsecase(
	validator *validator.Validator,
	chat ChatConnector,
	generator Generator,
	repo AnalysisRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalysisUsecase {
	uc := &AnalysisUsecase{
		validator: validator,
		chat:      chat,
		generator: generator,
		repo:      repo,
		logger:    logger,
	}
	if cacheTTL > 0 {
		uc.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return uc
}

// Analyze validates the upload and asks the hosted model what it covers.
func (uc *AnalysisUsecase) Analyze(ctx context.Context, req *entity.AnalyzeRequest) (*entity.AnalyzeResponse, error) {
	if err := uc.validator.RequireFiles(req.Files); err != nil {
		return nil, err
	}
	if err := uc.chat.CheckCredentials(); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateCount(req.Files); err != nil {
		return nil, err
	}

	content, err := uc.prepareContent(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	model := uc.chat.Model()
	key := ""
	if uc.cache != nil {
		key = cacheKey(model, req.Files)
		if cached, ok := uc.cache.Get(key); ok {
			ctxzap.Info(ctx, "analysis served from cache")
			resp := *cached.(*entity.AnalyzeResponse)
			return &resp, nil
		}
	}

	text, err := uc.chat.Complete(ctx, prompt.AnalysisMessages(content))
	if err != nil {
		return nil, err
	}

	files := content.Filenames()
	resp := &entity.AnalyzeResponse{
		Response:      text,
		FilesAnalyzed: files,
		TotalFiles:    len(files),
		ModelUsed:     model,
		AnalysisID:    uuid.New().String(),
	}

	uc.saveHistory(ctx, resp)

	if uc.cache != nil {
		uc.cache.SetDefault(key, resp)
	}

	ctxzap.Info(ctx, "analysis completed",
		zap.String("analysis_id", resp.AnalysisID),
		zap.Int("total_files", resp.TotalFiles),
		zap.Int("result_length", len(text)),
	)

	copied := *resp
	return &copied, nil
}

// saveHistory records the analysis. A failure is logged and does not fail the request.
func (uc *AnalysisUsecase) saveHistory(ctx context.Context, resp *entity.AnalyzeResponse) {
	if uc.repo == nil {
		return
	}

	_, err := uc.repo.Save(ctx, entity.Analysis{
		ID:       resp.AnalysisID,
		Model:    resp.ModelUsed,
		Files:    resp.FilesAnalyzed,
		Response: resp.Response,
	})
	if err != nil {
		ctxzap.Warn(ctx, "failed to save analysis history", zap.String("analysis_id", resp.AnalysisID), zap.Error(err))
	}
}

// GenerateReferenceSheet compresses an analysis into a reference sheet with the local model.
func (uc *AnalysisUsecase) GenerateReferenceSheet(ctx context.Context, analysis string) (*entity.ReferenceSheet, error) {
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return nil, fmt.Errorf("%w: analysis", entity.ErrMissingField)
	}

	gen, err := uc.generator.Generate(ctx, prompt.Instruction(prompt.ReferenceSheet(analysis), ""))
	if err != nil {
		return nil, fmt.Errorf("generate reference sheet: %w", err)
	}

	ctxzap.Info(ctx, "reference sheet generated", zap.String("model", gen.ModelUsed), zap.Int("result_length", len(gen.Text)))

	return &entity.ReferenceSheet{Text: gen.Text, ModelUsed: gen.ModelUsed}, nil
}

func (uc *AnalysisUsecase) HistoryEnabled() bool {
	return uc.repo != nil
}

func (uc *AnalysisUsecase) GetAnalysis(ctx context.Context, id string) (*entity.Analysis, error) {
	if uc.repo == nil {
		return nil, entity.ErrHistoryDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: analysis_id", entity.ErrInvalidParameter)
	}

	a, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrAnalysisNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

func (uc *AnalysisUsecase) ListAnalyses(ctx context.Context, req *entity.ListAnalysesRequest) (*entity.ListAnalysesResponse, error) {
	if uc.repo == nil {
		return nil, entity.ErrHistoryDisabled
	}
	req.Normalize()

	items, err := uc.repo.List(ctx, req.Skip, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	resp := &entity.ListAnalysesResponse{Analyses: make([]*entity.AnalysisSummary, 0, len(items))}
	for _, a := range items {
		resp.Analyses = append(resp.Analyses, &entity.AnalysisSummary{
			ID:         a.ID,
			Model:      a.Model,
			Files:      a.Files,
			TotalFiles: len(a.Files),
			CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
