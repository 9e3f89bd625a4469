package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGraph, "vertex %d out of range", 7)

	assert.Equal(t, ErrCodeInvalidGraph, err.Code)
	assert.Equal(t, "vertex 7 out of range", err.Message)
	assert.Equal(t, "INVALID_GRAPH: vertex 7 out of range", err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidGraph, cause, "read graph")

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "INVALID_GRAPH: read graph: unexpected EOF", err.Error())
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeUnsortedAdjacency, "x"), ErrCodeUnsortedAdjacency, true},
		{"different code", New(ErrCodeInvalidParams, "x"), ErrCodeUnsortedAdjacency, false},
		{"wrapped by fmt", fmt.Errorf("load: %w", New(ErrCodeInvalidMapping, "x")), ErrCodeInvalidMapping, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.code))
		})
	}
}

func TestGetCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrCodeInvalidParams, "agents must be positive"))

	assert.Equal(t, ErrCodeInvalidParams, GetCode(err))
	assert.Equal(t, Code(""), GetCode(errors.New("plain")))
}

func TestValidateGraphPath(t *testing.T) {
	tests := []struct {
		path string
		code Code
	}{
		{"graphs/a.json", ""},
		{"a.YAML", ""},
		{"a.yml", ""},
		{"", ErrCodeInvalidPath},
		{"a\x00.json", ErrCodeInvalidPath},
		{"a.txt", ErrCodeInvalidFormat},
		{"noext", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateGraphPath(tt.path)
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, Is(err, tt.code), "got %v", err)
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	require.NoError(t, ValidateOutputFormat("svg", "text", "svg"))

	err := ValidateOutputFormat("gif", "text", "svg")
	require.Error(t, err)
	assert.True(t, Is(err, ErrCodeInvalidFormat))
	assert.Contains(t, err.Error(), "text, svg")
}

func TestValidatePositive(t *testing.T) {
	require.NoError(t, ValidatePositive("agents", 1))
	assert.True(t, Is(ValidatePositive("agents", 0), ErrCodeInvalidParams))
	assert.True(t, Is(ValidatePositive("agents", -3), ErrCodeInvalidParams))
}
