package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/animedeck/pkg/config"
)

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "Show_cache.json")

	c, err := LoadCache(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.Missing([]string{"a", "b"}))

	c.Merge(map[string]string{"a": "A", "b": FailedMarker})
	require.NoError(t, c.Save())

	assert.Equal(t, "A", c.Lookup("a"))
	assert.Equal(t, FailedMarker, c.Lookup("b"))
	assert.Equal(t, Unavailable, c.Lookup("zzz"))

	reloaded, err := LoadCache(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "A", reloaded.Lookup("a"))
	assert.Equal(t, Unavailable, reloaded.Lookup("b"), "failures are not persisted")
	assert.Equal(t, []string{"b"}, reloaded.Missing([]string{"a", "b"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), FailedMarker)
}

func TestLoadCache_LegacyFailureMarkersDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"猫だ": "It's a cat", "犬だ": "[Translation Failed]"}`), 0o644))

	c, err := LoadCache(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"犬だ"}, c.Missing([]string{"猫だ", "犬だ"}))
}

func TestNew(t *testing.T) {
	tr, err := New(config.TranslateConfig{Provider: "none"}, discard())
	require.NoError(t, err)
	assert.Nil(t, tr)

	tr, err = New(config.TranslateConfig{Provider: "google", Source: "ja", Target: "en"}, discard())
	require.NoError(t, err)
	assert.IsType(t, &Google{}, tr)

	tr, err = New(config.TranslateConfig{Provider: "anthropic", APIKey: "k"}, discard())
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, tr)

	tr, err = New(config.TranslateConfig{Provider: "openai", APIKey: "k"}, discard())
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, tr)

	_, err = New(config.TranslateConfig{Provider: "deepl"}, discard())
	assert.Error(t, err)
}
