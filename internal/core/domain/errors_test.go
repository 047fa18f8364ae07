package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrNoText", ErrNoText},
		{"ErrNotReady", ErrNotReady},
		{"ErrBuildInProgress", ErrBuildInProgress},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNoDocuments_Message(t *testing.T) {
	assert.Equal(t, "please upload at least one PDF document", ErrNoDocuments.Error())
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("embed chunk 3: %w", ErrEmbeddingUnavailable)

	assert.True(t, errors.Is(wrapped, ErrEmbeddingUnavailable))
	assert.False(t, errors.Is(wrapped, ErrLLMUnavailable))
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrUnsupportedType, ErrNoDocuments, ErrNoText,
		ErrNotReady, ErrBuildInProgress, ErrDimensionMismatch, ErrEmbeddingUnavailable, ErrLLMUnavailable,
	}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(all[i], all[j]), "%v should not match %v", all[i], all[j])
		}
	}
}
