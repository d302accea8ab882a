package openrouter

import (
	"context"
	"fmt"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockModel = "mock/practice-analyzer"

// MockConnector answers every request with a canned analysis.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Model() string {
	return mockModel
}

func (m *MockConnector) CheckCredentials() error {
	return nil
}

func (m *MockConnector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting chat completion", zap.Int("messages", len(messages)))

	images := 0
	for _, msg := range messages {
		parts, ok := msg.Content.([]entity.ContentPart)
		if !ok {
			continue
		}
		for _, p := range parts {
			if p.Type == entity.ContentTypeImageURL {
				images++
			}
		}
	}

	text := fmt.Sprintf(`## 1) Covered topics
- Mock topic A
- Mock topic B

## 2) Skills practiced
- Recall of definitions
- Multi-step calculations

## 3) Frequency map
- Mock topic A: high
- Mock topic B: low

## 4) Missing or weak areas
- Data interpretation

## 5) 5-point summary
- Material reviewed with %d image(s)
- Topic A dominates
- Topic B appears briefly
- Calculations are practiced
- Data interpretation is absent`, images)

	ctxzap.Info(ctx, "[MOCK] chat completion received", zap.Int("result_length", len(text)))
	return text, nil
}
