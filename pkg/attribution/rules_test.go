package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstDirective(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string // "" means no directive
	}{
		{"fixes hash", "Fixes #my-feature", "my-feature"},
		{"fixes bare", "fixes my-feature", "my-feature"},
		{"fixed", "fixed cleanup", "cleanup"},
		{"fix", "fix flaky-test", "flaky-test"},
		{"closes colon", "Closes: foo-bar", "foo-bar"},
		{"closed", "closed foo-bar", "foo-bar"},
		{"close", "close foo-bar", "foo-bar"},
		{"resolves", "resolves foo-bar", "foo-bar"},
		{"resolved uppercase verb", "RESOLVED foo-bar", "foo-bar"},
		{"implements", "implements foo-bar", "foo-bar"},
		{"implemented md file", "Implemented cool-thing.md", "cool-thing"},
		{"mid message", "refactor: also fixes foo-bar here", "foo-bar"},
		{"earliest directive wins", "fixes first-one and closes second-one", "first-one"},
		{"other extension rejected", "fixes config.yaml", ""},
		{"md plus extension rejected", "fixes notes.md.txt", ""},
		{"hyphenated other extension trims", "fixes foo-bar.txt", "foo"},
		{"hyphenated md plus extension trims", "fixes foo-thing.md.txt", "foo"},
		{"underscore continuation rejected", "fixes #data_sync", ""},
		{"camel continuation rejected", "fixes dataSync", ""},
		{"underscore after kabob trims", "fixes foo-bar_baz", "foo"},
		{"verb without object", "various fixes", ""},
		{"verb inside word", "prefixes foo-bar", ""},
		{"no directive", "update documentation", ""},
		{"uppercase slug not matched", "fixes FOO-BAR", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firstDirective(tt.message)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.slug)
		})
	}
}

func TestMentions(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"hash", "see #foo", []string{"foo"}},
		{"hash with md", "see #foo.md", []string{"foo"}},
		{"hash underscore", "see #foo_bar", []string{"foo_bar"}},
		{"md file", "documented in foo-bar.md today", []string{"foo-bar"}},
		{"kabob token", "tweak error-handling now", []string{"error-handling"}},
		{"multiple in order", "#beta before #alpha", []string{"beta", "alpha"}},
		{"hash absorbs kabob overlap", "touch #my-feature", []string{"my-feature"}},
		{"md absorbs kabob overlap", "see foo-bar.md", []string{"foo-bar"}},
		{"plain words", "update the build scripts", nil},
		{"single word no hyphen", "cleanup", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := mentions(tt.message)
			var slugs []string
			for _, m := range ms {
				slugs = append(slugs, m.slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}
}
