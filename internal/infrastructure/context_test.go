package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", GetTraceID(ctx))
}

func TestGetTraceID_Empty(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	first := GetTraceID(ctx)
	require.NotEmpty(t, first)

	// Idempotent once set.
	ctx = EnsureTraceID(ctx)
	assert.Equal(t, first, GetTraceID(ctx))
}

func TestGenerateTraceID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}
