package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcat_DefaultSeparator(t *testing.T) {
	s := NewConcat()

	got, err := s.Combine([]any{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb\n\nc", got)
}

func TestConcat_CustomSeparator(t *testing.T) {
	s := NewConcatWithSeparator(" | ")

	got, err := s.Combine([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a | b", got)
}

func TestConcat_EmptySeparator(t *testing.T) {
	s := NewConcatWithSeparator("")

	got, err := s.Combine([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestConcat_StringifiesNonStrings(t *testing.T) {
	s := NewConcatWithSeparator(", ")

	got, err := s.Combine([]any{1, true, map[string]any{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, "1, true, map[k:v]", got)
}

func TestConcat_EmptyInput_Fails(t *testing.T) {
	s := NewConcat()

	_, err := s.Combine(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoContexts)
}

func TestConcat_OrderSensitive(t *testing.T) {
	s := NewConcat()

	forward, err := s.Combine([]any{"a", "b"})
	require.NoError(t, err)
	reversed, err := s.Combine([]any{"b", "a"})
	require.NoError(t, err)

	assert.NotEqual(t, forward, reversed)
}

func TestConcat_IdempotentForSameInput(t *testing.T) {
	s := NewConcat()
	input := []any{"a", "b", "c"}

	first, err := s.Combine(input)
	require.NoError(t, err)
	second, err := s.Combine(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
