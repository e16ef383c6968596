package issuestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, slugs map[State][]string) *Store {
	t.Helper()
	root := t.TempDir()
	for state, names := range slugs {
		dir := filepath.Join(root, "issues", string(state))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for _, name := range names {
			path := filepath.Join(dir, name+".md")
			require.NoError(t, os.WriteFile(path, []byte("# "+name+"\n"), 0o644))
		}
	}
	return New(root, "issues")
}

func TestExists(t *testing.T) {
	s := newStore(t, map[State][]string{
		StateOpen:   {"foo-bar"},
		StateClosed: {"done-thing"},
	})

	assert.True(t, s.Exists("foo-bar"))
	assert.True(t, s.Exists("done-thing"))
	assert.False(t, s.Exists("missing"))
	assert.False(t, s.Exists(""))
	assert.False(t, s.Exists("../../etc/passwd"))
	assert.False(t, s.Exists(".."))
}

func TestExistsIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "issues", "open", "trap.md"), 0o755))
	s := New(root, "issues")

	assert.False(t, s.Exists("trap"))
}

func TestIsKnownIssueFile(t *testing.T) {
	s := New("/unused", "issues")

	tests := []struct {
		path string
		slug string
		ok   bool
	}{
		{"issues/open/foo-bar.md", "foo-bar", true},
		{"issues/closed/foo-bar.md", "foo-bar", true},
		{"issues/open/nested/foo.md", "", false},
		{"issues/archived/foo.md", "", false},
		{"docs/open/foo.md", "", false},
		{"issues/open/foo.txt", "", false},
		{"issues/open/.md", "", false},
		{"foo-bar.md", "", false},
	}
	for _, tt := range tests {
		slug, ok := s.IsKnownIssueFile(tt.path)
		assert.Equal(t, tt.ok, ok, "path %q", tt.path)
		assert.Equal(t, tt.slug, slug, "path %q", tt.path)
	}
}

func TestIsKnownIssueFileCustomDir(t *testing.T) {
	s := New("/unused", "tickets")

	slug, ok := s.IsKnownIssueFile("tickets/open/foo-bar.md")
	assert.True(t, ok)
	assert.Equal(t, "foo-bar", slug)

	_, ok = s.IsKnownIssueFile("issues/open/foo-bar.md")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	s := newStore(t, map[State][]string{
		StateOpen:   {"zulu-task", "alpha-task"},
		StateClosed: {"beta-task"},
	})

	issues, err := s.List()
	require.NoError(t, err)
	require.Len(t, issues, 3)

	// Open first, each state sorted by slug.
	assert.Equal(t, Issue{Slug: "alpha-task", State: StateOpen, Path: "issues/open/alpha-task.md"}, issues[0])
	assert.Equal(t, Issue{Slug: "zulu-task", State: StateOpen, Path: "issues/open/zulu-task.md"}, issues[1])
	assert.Equal(t, Issue{Slug: "beta-task", State: StateClosed, Path: "issues/closed/beta-task.md"}, issues[2])
}

func TestListMissingDirectories(t *testing.T) {
	s := New(t.TempDir(), "issues")

	issues, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestListSkipsNonIssueEntries(t *testing.T) {
	s := newStore(t, map[State][]string{StateOpen: {"real-one"}})

	root := filepath.Join(s.root, s.dir, "open")
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "drafts.md"), 0o755))

	issues, err := s.List()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "real-one", issues[0].Slug)
}
