// Package gitgraph provides read-only queries against a Git repository's
// object graph: tag enumeration, topological ordering, ancestry tests, and
// describe-style nearest-tag lookups.
//
// All queries are computed fresh from the repository on every call. Nothing
// is cached across calls, so tags and commits created or deleted externally
// are picked up by the next query.
package gitgraph

import (
	"time"
)

// CommitRef is the full hex identifier of a commit. It is opaque to callers;
// values are produced by an Accessor and compared only for equality.
type CommitRef string

// String returns the full hex form.
func (c CommitRef) String() string { return string(c) }

// Short returns an abbreviated form for display.
func (c CommitRef) Short() string {
	if len(c) <= 8 {
		return string(c)
	}
	return string(c[:8])
}

// TagRef is a tag name together with the commit it resolves to. Annotated
// tags are peeled, so Target always names a commit.
type TagRef struct {
	Name   string
	Target CommitRef
}

// Describe is the result of a nearest-ancestor-tag lookup. Distance is the
// number of parent edges between the commit and the tag target; it is zero
// exactly when the commit is the tag's direct target.
type Describe struct {
	Tag      TagRef
	Distance int
}

// CommitInfo carries the metadata of a single commit.
type CommitInfo struct {
	Ref     CommitRef
	Message string
	Author  string
	When    time.Time
	Parents []CommitRef
}

// Subject returns the first line of the commit message.
func (ci CommitInfo) Subject() string {
	for i := 0; i < len(ci.Message); i++ {
		if ci.Message[i] == '\n' {
			return ci.Message[:i]
		}
	}
	return ci.Message
}

// Accessor is the read-only contract the lineage resolver is written
// against. The go-git backed *Repo implements it; tests may substitute
// their own.
//
// All methods are safe for concurrent use. TopoOrder is the expensive one;
// callers resolving many commits should request it once per pass and reuse
// it rather than re-query per commit.
type Accessor interface {
	// ResolveTags enumerates tags whose name matches a shell-glob pattern.
	// An empty result is not an error. A malformed pattern yields
	// ErrInvalidPattern before any traversal.
	ResolveTags(pattern string) ([]TagRef, error)

	// TopoOrder returns every commit reachable from the repository's refs
	// in reverse-topological order: descendants before ancestors.
	TopoOrder() ([]CommitRef, error)

	// IsAncestor reports whether a is reachable from b by following parent
	// edges. IsAncestor(x, x) is true.
	IsAncestor(a, b CommitRef) (bool, error)

	// Describe finds the nearest tag matching pattern that is reachable
	// from c in the ancestor direction, including c itself. It returns nil
	// when no matching tag is reachable.
	Describe(c CommitRef, pattern string) (*Describe, error)

	// Parents returns the parent commits of c in recorded order.
	Parents(c CommitRef) ([]CommitRef, error)
}
