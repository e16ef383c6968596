// Package issuestore is the file-backed issue existence oracle. Issues live
// as Markdown files under <root>/<issues-dir>/{open,closed}/<slug>.md; the
// slug is the filename stem.
//
// The store never caches: issues may be created, closed, or deleted between
// calls, so every question is answered from the filesystem.
package issuestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// State is an issue's lifecycle directory.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Issue is one known issue file.
type Issue struct {
	Slug  string
	State State
	Path  string // repository-relative, slash-separated
}

// Store answers issue existence questions for one repository root.
type Store struct {
	root string // absolute repository root
	dir  string // issues directory name relative to root, e.g. "issues"
}

// New returns a Store rooted at root with the given issues directory name.
func New(root, issuesDir string) *Store {
	return &Store{root: root, dir: issuesDir}
}

// Exists reports whether slug names a known issue in either state.
func (s *Store) Exists(slug string) bool {
	if !validSlug(slug) {
		return false
	}
	for _, state := range []State{StateOpen, StateClosed} {
		p := filepath.Join(s.root, s.dir, string(state), slug+".md")
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// IsKnownIssueFile maps a repository-relative, slash-separated path to an
// issue slug when the path lies in the issue-file namespace. It is a pure
// path test; existence is Exists's concern.
func (s *Store) IsKnownIssueFile(path string) (string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != s.dir {
		return "", false
	}
	if parts[1] != string(StateOpen) && parts[1] != string(StateClosed) {
		return "", false
	}
	name := parts[2]
	slug, ok := strings.CutSuffix(name, ".md")
	if !ok || !validSlug(slug) {
		return "", false
	}
	return slug, true
}

// List returns every known issue, open before closed, sorted by slug within
// each state.
func (s *Store) List() ([]Issue, error) {
	var issues []Issue
	for _, state := range []State{StateOpen, StateClosed} {
		dir := filepath.Join(s.root, s.dir, string(state))
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing %s issues: %w", state, err)
		}

		var batch []Issue
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			slug, ok := strings.CutSuffix(e.Name(), ".md")
			if !ok || !validSlug(slug) {
				continue
			}
			batch = append(batch, Issue{
				Slug:  slug,
				State: state,
				Path:  s.dir + "/" + string(state) + "/" + e.Name(),
			})
		}
		sort.Slice(batch, func(i, j int) bool { return batch[i].Slug < batch[j].Slug })
		issues = append(issues, batch...)
	}
	return issues, nil
}

// validSlug rejects anything that could escape the issues directory when
// joined into a path, plus names that aren't slugs to begin with.
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
