package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Chunker.WindowWords)
	assert.Equal(t, 200, cfg.Chunker.OverlapWords)
	assert.Equal(t, "distilbert-base-cased-distilled-squad", cfg.Inference.QAModel)
	assert.Equal(t, "inference", cfg.Summarizer.Type)
}

func TestLoad_PartialConfigGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("summarizer:\n  type: frequency\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "frequency", cfg.Summarizer.Type)
	assert.Equal(t, 5, cfg.Summarizer.MaxSentences)
	assert.Equal(t, 1000, cfg.Chunker.WindowWords)
	assert.Equal(t, "pdftotext", cfg.Extract.PdfToTextPath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Override.Triggers = []string{"transformer"}
	cfg.Override.Answer = "canned"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"transformer"}, got.Override.Triggers)
	assert.Equal(t, "canned", got.Override.Answer)
	assert.Equal(t, cfg.Chunker, got.Chunker)
}
