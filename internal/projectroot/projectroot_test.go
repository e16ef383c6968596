package projectroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "docs", "guides")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	for _, start := range []string{root, nested} {
		got, err := Find(start)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	}
}

func TestFindGitFile(t *testing.T) {
	// Worktrees and submodules use a .git file instead of a directory.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: elsewhere\n"), 0o644))

	got, err := Find(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindStopsAtNearestRoot(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outer, ".git"), 0o755))
	inner := filepath.Join(outer, "vendor", "project")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, ".git"), 0o755))

	got, err := Find(inner)
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestFindNoRepository(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir)
	assert.ErrorContains(t, err, "no git repository")
}
