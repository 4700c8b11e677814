package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/ctxmux/internal/strategy"
)

// writeConfig writes content as ctxmux.yml in a temp dir and returns the dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctxmux.yml"), []byte(content), 0o644))
	return dir
}

func TestLoad_MissingFile_ReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_ParsesAllFields(t *testing.T) {
	dir := writeConfig(t, `
errorPolicy: fail_fast
strategy: dict
mergePolicy: combine_lists
timeout: 2s
concurrency: 4
retry:
  maxAttempts: 3
  initialInterval: 50ms
verbose: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "fail_fast", cfg.ErrorPolicy)
	assert.Equal(t, "dict", cfg.Strategy)
	assert.Equal(t, "combine_lists", cfg.MergePolicy)
	assert.Equal(t, "2s", cfg.Timeout)
	assert.Equal(t, 4, cfg.Concurrency)
	require.NotNil(t, cfg.Retry)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, "50ms", cfg.Retry.InitialInterval)
	assert.True(t, cfg.Verbose)
}

func TestLoad_YamlExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctxmux.yaml"),
		[]byte("strategy: concat\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "concat", cfg.Strategy)
}

func TestLoad_InvalidYaml_Fails(t *testing.T) {
	dir := writeConfig(t, "strategy: [unclosed")

	_, err := Load(dir)
	require.Error(t, err)
}

func TestBuildStrategy_DefaultIsConcat(t *testing.T) {
	cfg := &Config{}

	s, err := cfg.BuildStrategy()
	require.NoError(t, err)

	got, err := s.Combine([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", got)
}

func TestBuildStrategy_ConcatWithSeparator(t *testing.T) {
	sep := " :: "
	cfg := &Config{Strategy: StrategyConcat, Separator: &sep}

	s, err := cfg.BuildStrategy()
	require.NoError(t, err)

	got, err := s.Combine([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a :: b", got)
}

func TestBuildStrategy_DictWithPolicy(t *testing.T) {
	cfg := &Config{Strategy: StrategyDict, MergePolicy: "keep_first"}

	s, err := cfg.BuildStrategy()
	require.NoError(t, err)
	require.IsType(t, &strategy.DictMerge{}, s)

	got, err := s.Combine([]any{
		map[string]any{"x": 1},
		map[string]any{"x": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, got)
}

func TestBuildStrategy_UnknownKind_Fails(t *testing.T) {
	cfg := &Config{Strategy: "bogus"}

	_, err := cfg.BuildStrategy()
	require.Error(t, err)
}

func TestOptions_InvalidPolicy_Fails(t *testing.T) {
	cfg := &Config{ErrorPolicy: "bogus"}

	_, err := cfg.Options()
	require.Error(t, err)
}

func TestOptions_InvalidTimeout_Fails(t *testing.T) {
	cfg := &Config{Timeout: "soon"}

	_, err := cfg.Options()
	require.Error(t, err)
}

func TestOptions_Valid(t *testing.T) {
	cfg := &Config{
		ErrorPolicy: "ignore",
		Timeout:     "1s",
		Concurrency: 2,
		Retry:       &Retry{MaxAttempts: 2, InitialInterval: "10ms"},
	}

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}
