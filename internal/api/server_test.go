package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	analysisapi "github.com/futig/practice-analyzer/internal/api/analysis"
	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/futig/practice-analyzer/internal/pkg/formatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsecase struct{}

func (stubUsecase) Analyze(context.Context, *entity.AnalyzeRequest) (*entity.AnalyzeResponse, error) {
	return &entity.AnalyzeResponse{}, nil
}

func (stubUsecase) GenerateReferenceSheet(context.Context, string) (*entity.ReferenceSheet, error) {
	return &entity.ReferenceSheet{}, nil
}

func (stubUsecase) GetAnalysis(context.Context, string) (*entity.Analysis, error) {
	return nil, entity.ErrHistoryDisabled
}

func (stubUsecase) ListAnalyses(context.Context, *entity.ListAnalysesRequest) (*entity.ListAnalysesResponse, error) {
	return nil, entity.ErrHistoryDisabled
}

func (stubUsecase) HistoryEnabled() bool { return false }

func newTestRouter() http.Handler {
	h := analysisapi.NewHandler(stubUsecase{}, config.FileUploadConfig{}, formatter.NewFactory())
	return SetupRouter(h, time.Second, zap.NewNop())
}

func TestRouterServesPageAndHealth(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="analyze-form"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/script.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/analyze-practice")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/swagger.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/analyze-practice:")
}
