package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreMemory(t *testing.T) {
	store, err := OpenStore(StoreConfig{Type: "memory", Collection: "kb", Dimension: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, store.Dimension())
}

func TestOpenStoreValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  StoreConfig
	}{
		{"missing dimension", StoreConfig{Type: "memory", Collection: "kb"}},
		{"missing collection", StoreConfig{Type: "memory", Dimension: 4}},
		{"unknown type", StoreConfig{Type: "qdrant", Collection: "kb", Dimension: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenStore(tt.cfg)
			require.Error(t, err)
			assert.Equal(t, KindConfig, KindOf(err))
		})
	}
}

func TestClampTopK(t *testing.T) {
	assert.Equal(t, 3, clampTopK(5, 3))
	assert.Equal(t, 2, clampTopK(2, 3))
	assert.Zero(t, clampTopK(4, 0))
}
