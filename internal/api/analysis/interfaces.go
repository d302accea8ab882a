package analysis

import (
	"context"

	"github.com/futig/practice-analyzer/internal/entity"
)

type AnalysisUsecase interface {
	Analyze(ctx context.Context, req *entity.AnalyzeRequest) (*entity.AnalyzeResponse, error)
	GenerateReferenceSheet(ctx context.Context, analysis string) (*entity.ReferenceSheet, error)
	GetAnalysis(ctx context.Context, id string) (*entity.Analysis, error)
	ListAnalyses(ctx context.Context, req *entity.ListAnalysesRequest) (*entity.ListAnalysesResponse, error)
	HistoryEnabled() bool
}
