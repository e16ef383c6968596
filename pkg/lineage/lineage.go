// Package lineage resolves a commit's position between release tags: the
// nearest matching tag behind it ("Follows") and the nearest matching tag
// ahead of it ("Precedes").
//
// Resolution is a pure function of the commit, the tag pattern, and the
// repository state at the moment of the call. Nothing is cached across
// calls; tags created or deleted externally are seen by the next call.
package lineage

import (
	"github.com/bartekus/relnotes/pkg/gitgraph"
)

// Tag is one side of a lineage answer. Distance is the number of positions
// between the subject commit and the tag's target in the topological order.
type Tag struct {
	Name     string             `json:"name"`
	Target   gitgraph.CommitRef `json:"target"`
	Distance int                `json:"distance"`
}

// Result holds both directions for a single commit. A nil side means no
// matching tag exists in that direction; absence is not an error.
type Result struct {
	Follows  *Tag `json:"follows,omitempty"`
	Precedes *Tag `json:"precedes,omitempty"`
}

// Resolver computes lineage through a read-only graph accessor.
type Resolver struct {
	acc gitgraph.Accessor
}

// New returns a Resolver over the given accessor.
func New(acc gitgraph.Accessor) *Resolver {
	return &Resolver{acc: acc}
}

// Lineage resolves both directions for one commit. Callers resolving many
// commits against the same pattern should use Snapshot instead; this
// convenience recomputes the tag set and topological order every call.
func (r *Resolver) Lineage(c gitgraph.CommitRef, pattern string) (Result, error) {
	snap, err := r.Snapshot(pattern)
	if err != nil {
		return Result{}, err
	}
	return snap.Lineage(c)
}

// Snapshot captures the matching tag set and topological order once, so a
// caller rendering N commits performs one traversal instead of N. The
// snapshot reflects repository state at creation time and must not be
// reused after tags are known to have changed.
type Snapshot struct {
	acc   gitgraph.Accessor
	tags  map[gitgraph.CommitRef][]string
	order []gitgraph.CommitRef
	index map[gitgraph.CommitRef]int
}

// Snapshot validates the pattern and performs the traversal that Lineage
// calls share.
func (r *Resolver) Snapshot(pattern string) (*Snapshot, error) {
	tags, err := r.acc.ResolveTags(pattern)
	if err != nil {
		return nil, err
	}

	order, err := r.acc.TopoOrder()
	if err != nil {
		return nil, err
	}
	index := make(map[gitgraph.CommitRef]int, len(order))
	for i, c := range order {
		index[c] = i
	}

	byTarget := make(map[gitgraph.CommitRef][]string, len(tags))
	for _, t := range tags {
		// ResolveTags returns names sorted, so each target's first name is
		// the lexical tie-break winner for tags sharing a commit.
		byTarget[t.Target] = append(byTarget[t.Target], t.Name)
	}

	return &Snapshot{acc: r.acc, tags: byTarget, order: order, index: index}, nil
}

// Commits returns the topological order captured by the snapshot,
// descendants first.
func (s *Snapshot) Commits() []gitgraph.CommitRef {
	out := make([]gitgraph.CommitRef, len(s.order))
	copy(out, s.order)
	return out
}

// Lineage resolves both directions for one commit against the captured
// state. A commit outside the captured history gets an empty Result: with
// no position in the traversal there is no preceding or following tag to
// report.
func (s *Snapshot) Lineage(c gitgraph.CommitRef) (Result, error) {
	i, ok := s.index[c]
	if !ok {
		return Result{}, nil
	}

	follows, err := s.follows(c, i)
	if err != nil {
		return Result{}, err
	}
	precedes, err := s.precedes(c, i)
	if err != nil {
		return Result{}, err
	}
	return Result{Follows: follows, Precedes: precedes}, nil
}

// follows scans from the subject toward ancestors (positions after i in the
// descendants-first order) and returns the first matching tag whose target
// really is an ancestor. Topological position alone is not proof of
// ancestry: a tag on a sibling branch can sit between the subject and its
// true predecessor, so every candidate is checked. A tag pointing at the
// subject itself is never its own Follows; the scan starts strictly past it.
func (s *Snapshot) follows(c gitgraph.CommitRef, i int) (*Tag, error) {
	for j := i + 1; j < len(s.order); j++ {
		target := s.order[j]
		names := s.tags[target]
		if len(names) == 0 {
			continue
		}
		ok, err := s.acc.IsAncestor(target, c)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Tag{Name: names[0], Target: target, Distance: j - i}, nil
		}
	}
	return nil, nil
}

// precedes scans from the subject toward descendants (positions before i)
// and returns the first matching tag whose target the subject can actually
// reach. Ancestry is authoritative: a tag further down a diverged branch is
// skipped no matter where the ordering placed it. The subject's own tag is
// excluded by construction, a directly tagged commit has no forward
// distance to itself.
func (s *Snapshot) precedes(c gitgraph.CommitRef, i int) (*Tag, error) {
	for j := i - 1; j >= 0; j-- {
		target := s.order[j]
		names := s.tags[target]
		if len(names) == 0 {
			continue
		}
		ok, err := s.acc.IsAncestor(c, target)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Tag{Name: names[0], Target: target, Distance: i - j}, nil
		}
	}
	return nil, nil
}
