package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/ctxmux/internal/orchestrator"
)

// Compile-time capability checks: Memory is updatable, the others are
// fetch-only.
var (
	_ orchestrator.ContextFetcher = (*Memory)(nil)
	_ orchestrator.ContextUpdater = (*Memory)(nil)
	_ orchestrator.ContextFetcher = (*DocIndex)(nil)
	_ orchestrator.ContextFetcher = (*Static)(nil)
	_ orchestrator.ContextFetcher = (FetchFunc)(nil)
)

func TestMemory_FetchKnownKey(t *testing.T) {
	m := NewMemory(map[string]string{"greeting": "hello"})

	got, err := m.FetchContext(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestMemory_FetchUnknownKey_ReturnsPlaceholder(t *testing.T) {
	m := NewMemory(nil)

	got, err := m.FetchContext(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "no memory entry for query: missing", got)
}

func TestMemory_FetchNonStringQuery_Fails(t *testing.T) {
	m := NewMemory(nil)

	_, err := m.FetchContext(context.Background(), 42)
	require.Error(t, err)
}

func TestMemory_ApplyUpdate(t *testing.T) {
	m := NewMemory(map[string]string{"a": "1"})

	err := m.ApplyUpdate(context.Background(), map[string]string{"a": "2", "b": "3"})
	require.NoError(t, err)

	a, ok := m.Entry("a")
	require.True(t, ok)
	assert.Equal(t, "2", a)

	b, ok := m.Entry("b")
	require.True(t, ok)
	assert.Equal(t, "3", b)
}

func TestMemory_ApplyUpdate_WrongPayloadType_Fails(t *testing.T) {
	m := NewMemory(nil)

	err := m.ApplyUpdate(context.Background(), "not a map")
	require.Error(t, err)
}

func TestMemory_SeedIsCopied(t *testing.T) {
	seed := map[string]string{"a": "1"}
	m := NewMemory(seed)
	seed["a"] = "mutated"

	got, err := m.FetchContext(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestDocIndex_MatchesByKeyword(t *testing.T) {
	d := NewDocIndex([]Document{
		{ID: "doc-1", Content: "Notes about orchestration patterns."},
		{ID: "doc-2", Content: "Notes about merge strategies."},
		{ID: "doc-3", Content: "Unrelated grocery list."},
	})

	got, err := d.FetchContext(context.Background(), "merge ORCHESTRATION")
	require.NoError(t, err)

	matches, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Len(t, matches, 2)
	assert.Contains(t, matches, "doc-1")
	assert.Contains(t, matches, "doc-2")
}

func TestDocIndex_NoMatch_ReturnsPlaceholderEntry(t *testing.T) {
	d := NewDocIndex([]Document{{ID: "doc-1", Content: "something"}})

	got, err := d.FetchContext(context.Background(), "zzz")
	require.NoError(t, err)

	matches, ok := got.(map[string]any)
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Contains(t, matches, "no-match")
}

func TestDocIndex_NonStringQuery_Fails(t *testing.T) {
	d := NewDocIndex(nil)

	_, err := d.FetchContext(context.Background(), []byte("q"))
	require.Error(t, err)
}

func TestStatic_ReturnsValue(t *testing.T) {
	s := NewStatic("fixed")

	got, err := s.FetchContext(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "fixed", got)
}

func TestStatic_DelayHonorsCancellation(t *testing.T) {
	s := NewStaticWithDelay("late", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.FetchContext(ctx, "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFetchFunc_DelegatesToFunction(t *testing.T) {
	f := FetchFunc(func(_ context.Context, query any) (any, error) {
		return "echo: " + query.(string), nil
	})

	got, err := f.FetchContext(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "echo: ping", got)
}
