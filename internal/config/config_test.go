package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))
	return root
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFullFile(t *testing.T) {
	root := writeConfig(t, "tag_pattern: v*\nissues_dir: tickets\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "v*", cfg.TagPattern)
	assert.Equal(t, "tickets", cfg.IssuesDir)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	root := writeConfig(t, "tag_pattern: v*\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "v*", cfg.TagPattern)
	assert.Equal(t, Default().IssuesDir, cfg.IssuesDir)
}

func TestLoadEmptyFile(t *testing.T) {
	root := writeConfig(t, "")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMalformedFile(t *testing.T) {
	root := writeConfig(t, "tag_pattern: [unterminated\n")

	_, err := Load(root)
	assert.Error(t, err)
}
