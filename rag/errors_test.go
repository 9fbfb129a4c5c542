package rag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	err := Errorf(KindValidation, "rag.Test", "bad value %d", 7)
	require.Error(t, err)
	assert.Equal(t, "rag.Test: bad value 7", err.Error())
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestENilError(t *testing.T) {
	assert.NoError(t, E(KindService, "rag.Test", nil))
}

func TestEWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := E(KindService, "rag.Query", cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "rag.Query")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEPreservesInnerKind(t *testing.T) {
	inner := Errorf(KindConfig, "rag.OpenStore", "dimension missing")
	outer := E(KindService, "rag.Connect", inner)

	// Classification closest to the failure wins over the outer default.
	assert.Equal(t, KindConfig, KindOf(outer))

	var e *Error
	require.True(t, errors.As(outer, &e))
	assert.Equal(t, "rag.Connect", e.Op)
}

func TestEPreservesKindThroughFmtWrap(t *testing.T) {
	inner := Errorf(KindValidation, "rag.Chunk", "empty input")
	wrapped := fmt.Errorf("ingesting file: %w", inner)
	outer := E(KindService, "rag.Ingest", wrapped)
	assert.Equal(t, KindValidation, KindOf(outer))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindService, KindOf(errors.New("boom")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "service", KindService.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "configuration", KindConfig.String())
}
