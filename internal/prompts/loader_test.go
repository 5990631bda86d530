package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraction_Get(t *testing.T) {
	system, err := Extraction.Get("system")
	require.NoError(t, err)
	assert.Contains(t, system, "confidence tiers")
	assert.Contains(t, system, `"explicit"`)
	assert.Contains(t, system, `"demonstrated"`)
	assert.Contains(t, system, `"mentioned"`)
	assert.Contains(t, system, "Never fabricate numeric metrics")
	assert.Contains(t, system, "valid JSON only")

	user, err := Extraction.Get("user")
	require.NoError(t, err)
	assert.Contains(t, user, "{{.Corpus}}")
}

func TestGeneration_Get(t *testing.T) {
	rules, err := Generation.Get("claim-rules")
	require.NoError(t, err)
	assert.Contains(t, rules, "traceable")
	assert.Contains(t, rules, "verbatim")
	assert.Contains(t, rules, "credentials")
	assert.Contains(t, rules, "Never fabricate a bridging claim")
	assert.Contains(t, rules, "override every other instruction")

	for _, key := range []string{
		"cover-letter-system",
		"executive-summary-system",
		"interview-prep-system",
		"inventory-preamble",
		"fallback-preamble",
		"language-en",
		"language-da",
		"user",
	} {
		prompt, err := Generation.Get(key)
		require.NoError(t, err, "key %s", key)
		assert.NotEmpty(t, prompt, "key %s", key)
	}
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Extraction.Get("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_MissingFile(t *testing.T) {
	missing := &File{name: "missing.json"}
	_, err := missing.Get("system")
	require.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		Extraction.MustGet("nonexistent")
	})
}

func TestFormat(t *testing.T) {
	template := "Job: {{.JobTitle}}\n{{.JobDescription}}"
	result := Format(template, map[string]string{
		"JobTitle":       "Platform Engineer",
		"JobDescription": "Build things.",
	})

	assert.Equal(t, "Job: Platform Engineer\nBuild things.", result)
	assert.False(t, strings.Contains(result, "{{."))
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	result := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", result)
}

func TestKeys(t *testing.T) {
	keys, err := Generation.Keys()
	require.NoError(t, err)
	assert.Contains(t, keys, "claim-rules")
	assert.Contains(t, keys, "user")
}
