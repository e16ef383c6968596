// Package gitrepo builds small deterministic Git repositories for tests,
// in memory by default so no git binary or disk state is involved.
package gitrepo

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Builder accumulates commits on a repository. Signatures use a fixed
// author and a clock that advances one minute per commit, so histories are
// reproducible from run to run.
type Builder struct {
	t    *testing.T
	repo *git.Repository
	wt   *git.Worktree

	clock time.Time
	n     int
}

// New creates an empty in-memory repository.
func New(t *testing.T) *Builder {
	t.Helper()
	r, err := git.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	return wrap(t, r)
}

// NewAt creates a repository with a working tree at dir, for tests that
// exercise on-disk discovery.
func NewAt(t *testing.T, dir string) *Builder {
	t.Helper()
	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository at %s: %v", dir, err)
	}
	return wrap(t, r)
}

func wrap(t *testing.T, r *git.Repository) *Builder {
	t.Helper()
	wt, err := r.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	return &Builder{
		t:     t,
		repo:  r,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Repository exposes the underlying go-git repository.
func (b *Builder) Repository() *git.Repository { return b.repo }

// Commit writes the given paths (or a generated one when none are given)
// and commits them with the message as content, returning the commit hash.
func (b *Builder) Commit(message string, paths ...string) plumbing.Hash {
	b.t.Helper()
	if len(paths) == 0 {
		paths = []string{fmt.Sprintf("file-%d.txt", b.n)}
	}
	for _, p := range paths {
		content := fmt.Sprintf("%s\nrevision %d\n", message, b.n)
		if err := util.WriteFile(b.wt.Filesystem, p, []byte(content), 0o644); err != nil {
			b.t.Fatalf("write %s: %v", p, err)
		}
		if _, err := b.wt.Add(p); err != nil {
			b.t.Fatalf("add %s: %v", p, err)
		}
	}
	return b.commit(message, nil)
}

// Merge creates a commit with explicit parents, representing a merge of the
// given histories. The worktree keeps whatever the current checkout holds
// plus a marker file, which is enough for graph-shape tests.
func (b *Builder) Merge(message string, parents ...plumbing.Hash) plumbing.Hash {
	b.t.Helper()
	marker := fmt.Sprintf("merge-%d.txt", b.n)
	if err := util.WriteFile(b.wt.Filesystem, marker, []byte(message+"\n"), 0o644); err != nil {
		b.t.Fatalf("write %s: %v", marker, err)
	}
	if _, err := b.wt.Add(marker); err != nil {
		b.t.Fatalf("add %s: %v", marker, err)
	}
	return b.commit(message, parents)
}

func (b *Builder) commit(message string, parents []plumbing.Hash) plumbing.Hash {
	b.t.Helper()
	sig := b.signature()
	h, err := b.wt.Commit(message, &git.CommitOptions{
		Author:    &sig,
		Committer: &sig,
		Parents:   parents,
	})
	if err != nil {
		b.t.Fatalf("commit %q: %v", message, err)
	}
	b.n++
	return h
}

// Tag creates a lightweight tag on the given commit.
func (b *Builder) Tag(name string, on plumbing.Hash) {
	b.t.Helper()
	if _, err := b.repo.CreateTag(name, on, nil); err != nil {
		b.t.Fatalf("tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag object pointing at the commit.
func (b *Builder) AnnotatedTag(name string, on plumbing.Hash) {
	b.t.Helper()
	sig := b.signature()
	_, err := b.repo.CreateTag(name, on, &git.CreateTagOptions{
		Tagger:  &sig,
		Message: "release " + name,
	})
	if err != nil {
		b.t.Fatalf("annotated tag %s: %v", name, err)
	}
}

// Branch creates a branch at the given commit and checks it out.
func (b *Builder) Branch(name string, at plumbing.Hash) {
	b.t.Helper()
	err := b.wt.Checkout(&git.CheckoutOptions{
		Hash:   at,
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		b.t.Fatalf("branch %s: %v", name, err)
	}
}

// Checkout switches to an existing branch.
func (b *Builder) Checkout(name string) {
	b.t.Helper()
	err := b.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	if err != nil {
		b.t.Fatalf("checkout %s: %v", name, err)
	}
}

// Linear commits count commits in sequence and returns their hashes, oldest
// first. Messages are "commit 0", "commit 1", ...
func (b *Builder) Linear(count int) []plumbing.Hash {
	b.t.Helper()
	hashes := make([]plumbing.Hash, 0, count)
	for i := 0; i < count; i++ {
		hashes = append(hashes, b.Commit(fmt.Sprintf("commit %d", i)))
	}
	return hashes
}

func (b *Builder) signature() object.Signature {
	b.clock = b.clock.Add(time.Minute)
	return object.Signature{
		Name:  "Release Notes Tests",
		Email: "tests@example.com",
		When:  b.clock,
	}
}
