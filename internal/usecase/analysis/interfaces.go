package analysis

import (
	"context"

	"github.com/futig/practice-analyzer/internal/entity"
)

// ChatConnector is the hosted chat-completion API.
type ChatConnector interface {
	Model() string
	CheckCredentials() error
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}

// Generator is a locally hosted text-generation model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*entity.Generation, error)
}

// AnalysisRepository persists finished analyses.
type AnalysisRepository interface {
	Save(ctx context.Context, analysis entity.Analysis) (*entity.Analysis, error)
	Get(ctx context.Context, id string) (*entity.Analysis, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Analysis, error)
}
