// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/relnotes/cmd/relnotes/internal/clierr"
	"github.com/bartekus/relnotes/internal/testutil/gitrepo"
	"github.com/bartekus/relnotes/internal/testutil/golden"
)

// fixture is an on-disk repository with two releases and one issue-linked
// commit:
//
//	Initial import
//	Add feature          <- rel-1
//	Fixes #foo-bar       (touches issues/open/foo-bar.md)
//	Tidy docs            <- rel-2
type fixture struct {
	dir     string
	commits []plumbing.Hash
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	b := gitrepo.NewAt(t, dir)

	c0 := b.Commit("Initial import")
	c1 := b.Commit("Add feature")
	b.Tag("rel-1", c1)
	c2 := b.Commit("Fixes #foo-bar", "issues/open/foo-bar.md")
	c3 := b.Commit("Tidy docs")
	b.Tag("rel-2", c3)

	return fixture{dir: dir, commits: []plumbing.Hash{c0, c1, c2, c3}}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLIVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "relnotes version")
}

func TestCLILineageText(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "lineage", f.commits[2].String(), "--repo", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Follows:  rel-1 (distance 1)")
	assert.Contains(t, out, "Precedes: rel-2 (distance 1)")
}

func TestCLILineageJSON(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "lineage", f.commits[2].String(), "--repo", f.dir, "--format", "json")
	require.NoError(t, err)

	var report struct {
		Commit  string `json:"commit"`
		Follows *struct {
			Name     string `json:"name"`
			Distance int    `json:"distance"`
		} `json:"follows"`
		Precedes *struct {
			Name     string `json:"name"`
			Distance int    `json:"distance"`
		} `json:"precedes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, f.commits[2].String(), report.Commit)
	require.NotNil(t, report.Follows)
	assert.Equal(t, "rel-1", report.Follows.Name)
	require.NotNil(t, report.Precedes)
	assert.Equal(t, "rel-2", report.Precedes.Name)
}

func TestCLILineageUntaggedEdges(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "lineage", f.commits[0].String(), "--repo", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Follows:  (none)")
	assert.Contains(t, out, "Precedes: rel-1 (distance 1)")
}

func TestCLIAttribution(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "attribution", f.commits[2].String(), "--repo", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Primary:    foo-bar (directive)")
	assert.Contains(t, out, "Referenced: foo-bar")
}

func TestCLIAttributionNone(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "attribution", f.commits[0].String(), "--repo", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Primary:    (none)")
	assert.Contains(t, out, "Referenced: (none)")
}

func TestCLITags(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "tags", "--repo", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "rel-1")
	assert.Contains(t, out, "rel-2")

	out, err = runCLI(t, "tags", "--repo", f.dir, "--pattern", "xyz-*")
	require.NoError(t, err)
	assert.Contains(t, out, "(no matching tags)")
}

func TestCLIIssues(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "issues", "--repo", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "open    foo-bar")
}

var shaRe = regexp.MustCompile(`(?m)^[0-9a-f]{8}`)

func TestCLIIndexGolden(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "index", "--repo", f.dir)
	require.NoError(t, err)

	// Commit hashes differ per checkout; widths do not.
	normalized := shaRe.ReplaceAllString(out, "<commit>")
	golden.Assert(t, golden.TestdataDir(t), "index", normalized)
}

func TestCLIIndexJSON(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "index", "--repo", f.dir, "--format", "json")
	require.NoError(t, err)

	var rows []struct {
		Commit     string   `json:"commit"`
		Subject    string   `json:"subject"`
		Primary    string   `json:"primary"`
		Referenced []string `json:"referenced"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)

	// Topological order: newest first.
	assert.Equal(t, "Tidy docs", rows[0].Subject)
	assert.Equal(t, "Fixes #foo-bar", rows[1].Subject)
	assert.Equal(t, "foo-bar", rows[1].Primary)
	assert.Equal(t, []string{"foo-bar"}, rows[1].Referenced)
	assert.Equal(t, "Initial import", rows[3].Subject)
}

func TestCLIUnknownRevision(t *testing.T) {
	f := newFixture(t)

	_, err := runCLI(t, "lineage", "no-such-revision", "--repo", f.dir)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestCLIInvalidPattern(t *testing.T) {
	f := newFixture(t)

	_, err := runCLI(t, "tags", "--repo", f.dir, "--pattern", "rel-[")
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestCLIOutsideRepository(t *testing.T) {
	_, err := runCLI(t, "tags", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestCLIUnknownFormat(t *testing.T) {
	f := newFixture(t)

	_, err := runCLI(t, "index", "--repo", f.dir, "--format", "xml")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown format")
}
