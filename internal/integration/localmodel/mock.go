package localmodel

import (
	"context"
	"strings"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

// MockConnector echoes the first line of the analysis into a fixed sheet.
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) ModelUsed() string {
	return "local:mock"
}

func (m *MockConnector) Generate(ctx context.Context, prompt string) (*entity.Generation, error) {
	ctxzap.Info(ctx, "[MOCK] generating with local model")

	first := ""
	if i := strings.LastIndex(prompt, "Analysis to transform:\n"); i >= 0 {
		first, _, _ = strings.Cut(prompt[i+len("Analysis to transform:\n"):], "\n")
	}

	text := "TOPIC MAP: " + strings.TrimSpace(first) + "\nKEY FACTS: -\nTRAPS: -\nCHECKLIST: -"
	return &entity.Generation{Text: text, ModelUsed: m.ModelUsed()}, nil
}
