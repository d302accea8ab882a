package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "AnalyzePractice")
	ctx = WithChat(ctx, 42)
	ctx = AddFields(ctx, zap.String("analysis_id", "abc"))
	ctxzap.Info(ctx, "done")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "AnalyzePractice", fields["action"])
	assert.Equal(t, int64(42), fields["chat_id"])
	assert.Equal(t, "abc", fields["analysis_id"])
}
