package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestWithContext_FromContext(t *testing.T) {
	t.Run("round trips logger through context", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns no-op logger when absent", func(t *testing.T) {
		log := FromContext(context.Background())
		assert.NotNil(t, log)
	})
}

func TestContextIdentity(t *testing.T) {
	log := zap.NewNop()
	ctx := context.Background()

	ctx, _ = WithRequestID(ctx, log, "req-1")
	ctx, _ = WithOrgID(ctx, log, "org-1")
	ctx, _ = WithCustomerID(ctx, log, "cust-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "org-1", GetOrgID(ctx))
	assert.Equal(t, "cust-1", GetCustomerID(ctx))
}

func TestContextIdentity_EmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetOrgID(ctx))
	assert.Empty(t, GetCustomerID(ctx))
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestL_InjectsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, log, "req-9")
	ctx, _ = WithOrgID(ctx, log, "org-9")
	ctx = WithContext(ctx, log)

	L(ctx).Info("order parsed")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "org-9", fields["org_id"])
}

func TestL_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		L(context.Background()).Info("no logger attached")
	})
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).With(zap.String("line_index", "2")).Warn("line ambiguous")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].ContextMap()["line_index"])
}
