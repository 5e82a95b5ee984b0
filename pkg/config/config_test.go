package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.ID, cfg.ID)
	assert.Equal(t, def.Files, cfg.Files)
	assert.Equal(t, filepath.Join(root, "raw"), cfg.RawDir())
	assert.Equal(t, filepath.Join(root, "cldf"), cfg.CLDFDir())
	assert.Equal(t, filepath.Join(root, "etc", "glottolog.csv"), cfg.GlottologPath())
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
id: testset
title: "A test dataset"
license: CC-BY-4.0
url: "https://example.org/testset"
dirs:
  cldf: out
files:
  table: table.csv
glottolog:
  path: /opt/glottolog/geo.csv
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "testset", cfg.ID)
	assert.Equal(t, "A test dataset", cfg.Title)
	assert.Equal(t, "CC-BY-4.0", cfg.License)
	assert.Equal(t, "table.csv", cfg.Files.Table)
	assert.Equal(t, "examples.csv", cfg.Files.Examples, "unset fields keep defaults")
	assert.Equal(t, filepath.Join(root, "out"), cfg.CLDFDir())
	assert.Equal(t, "/opt/glottolog/geo.csv", cfg.GlottologPath())
	assert.Equal(t, DefaultGlottologURL, cfg.Glottolog.URL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "id: [unterminated")

	_, err := Load(root, "")
	assert.Error(t, err)
}

func TestLoad_InvalidURL(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `url: "not a url"`)

	_, err := Load(root, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL")
}

func TestLoad_ExplicitPath(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	path := writeConfig(t, other, `title: "Elsewhere"`)

	cfg, err := Load(root, path)
	require.NoError(t, err)
	assert.Equal(t, "Elsewhere", cfg.Title)
	assert.Equal(t, root, cfg.Root)
}
