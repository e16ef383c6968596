package gitgraph

import (
	"errors"
	"io"
	"log/slog"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is the go-git backed Accessor. Object-store reads are serialized
// behind a mutex, which makes every query safe to invoke from concurrent
// resolution requests.
type Repo struct {
	repo   *git.Repository
	logger *slog.Logger
	slow   time.Duration

	mu    sync.Mutex
	stats opStats
}

// Option configures a Repo.
type Option func(*Repo)

// WithLogger sets the logger used for query debugging and slow-call
// warnings. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSlowThreshold sets the duration above which a query is logged at Warn
// level.
func WithSlowThreshold(d time.Duration) Option {
	return func(r *Repo) { r.slow = d }
}

// DefaultSlowThreshold is the slow-query warning threshold applied unless
// WithSlowThreshold overrides it.
const DefaultSlowThreshold = 150 * time.Millisecond

// Open opens the repository at or above dir.
func Open(dir string, opts ...Option) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, repoErr("open", err)
	}
	return New(r, opts...), nil
}

// New wraps an already-open go-git repository.
func New(r *git.Repository, opts ...Option) *Repo {
	g := &Repo{
		repo:   r,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		slow:   DefaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ Accessor = (*Repo)(nil)

// ResolveTags enumerates tags matching a shell-glob pattern, peeling
// annotated tags to their commit targets. Results are sorted by name.
func (g *Repo) ResolveTags(pattern string) ([]TagRef, error) {
	if err := checkPattern(pattern); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("resolve-tags")()

	tags, err := g.matchingTags(pattern)
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	g.logger.Debug("resolved tags", "pattern", pattern, "matches", len(tags))
	return tags, nil
}

// matchingTags assumes the pattern has been validated and g.mu is held.
func (g *Repo) matchingTags(pattern string) ([]TagRef, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, repoErr("resolve-tags", err)
	}
	defer iter.Close()

	var tags []TagRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		ok, err := path.Match(pattern, name)
		if err != nil {
			// checkPattern screens patterns before any traversal; this
			// backstop keeps a malformed pattern from ever reading as
			// "no matching tags".
			return invalidPattern(pattern)
		}
		if !ok {
			return nil
		}
		target, ok, err := g.peel(ref.Hash())
		if err != nil {
			return err
		}
		if !ok {
			// Tag points at a tree or blob; not part of the commit graph.
			g.logger.Debug("skipping non-commit tag", "tag", name)
			return nil
		}
		tags = append(tags, TagRef{Name: name, Target: CommitRef(target.String())})
		return nil
	})
	if errors.Is(err, ErrInvalidPattern) {
		return nil, err
	}
	if err != nil {
		return nil, repoErr("resolve-tags", err)
	}
	return tags, nil
}

// peel follows annotated tag objects down to a commit. Tag chains are
// acyclic (an object's hash covers its target), so the walk terminates at
// the first non-tag object. The second return is false when the chain ends
// at something other than a commit.
func (g *Repo) peel(h plumbing.Hash) (plumbing.Hash, bool, error) {
	for {
		tag, err := g.repo.TagObject(h)
		if err == plumbing.ErrObjectNotFound {
			break
		}
		if err != nil {
			return h, false, repoErr("peel-tag", err)
		}
		h = tag.Target
	}
	if _, err := g.repo.CommitObject(h); err == plumbing.ErrObjectNotFound {
		return h, false, nil
	} else if err != nil {
		return h, false, repoErr("peel-tag", err)
	}
	return h, true, nil
}

// TopoOrder returns all commits reachable from the repository's refs,
// descendants before ancestors. The order is deterministic: among commits
// whose descendants have all been emitted, the newest committer time goes
// first, ties broken by hash.
func (g *Repo) TopoOrder() ([]CommitRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("topo-order")()

	commits, err := g.reachableCommits()
	if err != nil {
		return nil, err
	}

	// Kahn's algorithm on the child -> parent direction: a commit becomes
	// ready once every one of its children has been emitted.
	pending := make(map[plumbing.Hash]int, len(commits)) // unemitted children
	for _, c := range commits {
		for _, p := range c.ParentHashes {
			if _, reachable := commits[p]; reachable {
				pending[p]++
			}
		}
	}

	ready := newCommitQueue()
	for h, c := range commits {
		if pending[h] == 0 {
			ready.push(c)
		}
	}

	order := make([]CommitRef, 0, len(commits))
	for ready.Len() > 0 {
		c := ready.pop()
		order = append(order, CommitRef(c.Hash.String()))
		for _, p := range c.ParentHashes {
			pc, reachable := commits[p]
			if !reachable {
				continue
			}
			pending[p]--
			if pending[p] == 0 {
				ready.push(pc)
			}
		}
	}

	g.logger.Debug("computed topo order", "commits", len(order))
	return order, nil
}

// reachableCommits walks parent edges from every ref and returns all commits
// found. g.mu must be held.
func (g *Repo) reachableCommits() (map[plumbing.Hash]*object.Commit, error) {
	starts, err := g.refHeads()
	if err != nil {
		return nil, err
	}

	commits := make(map[plumbing.Hash]*object.Commit)
	stack := starts
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := commits[h]; seen {
			continue
		}
		c, err := g.repo.CommitObject(h)
		if err != nil {
			return nil, repoErr("topo-order", err)
		}
		commits[h] = c
		stack = append(stack, c.ParentHashes...)
	}
	return commits, nil
}

// refHeads returns the commit targets of every hash reference, with tag
// references peeled. Symbolic references (HEAD on a branch) resolve through
// the branch they point at.
func (g *Repo) refHeads() ([]plumbing.Hash, error) {
	iter, err := g.repo.References()
	if err != nil {
		return nil, repoErr("refs", err)
	}
	defer iter.Close()

	var heads []plumbing.Hash
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		h := ref.Hash()
		if ref.Name().IsTag() {
			target, ok, err := g.peel(h)
			if err != nil || !ok {
				return err
			}
			h = target
		}
		heads = append(heads, h)
		return nil
	})
	if err != nil {
		return nil, repoErr("refs", err)
	}
	return heads, nil
}

// IsAncestor reports whether a is an ancestor of b. It is reflexive.
func (g *Repo) IsAncestor(a, b CommitRef) (bool, error) {
	if a == b {
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("is-ancestor")()

	ac, err := g.commit(a)
	if err != nil {
		return false, err
	}
	bc, err := g.commit(b)
	if err != nil {
		return false, err
	}
	ok, err := ac.IsAncestor(bc)
	if err != nil {
		return false, repoErr("is-ancestor", err)
	}
	return ok, nil
}

// Describe finds the nearest matching tag in the ancestor direction,
// including c itself. Distance counts parent edges on the shortest path.
// When several tagged commits sit at the same distance, the lexically
// smallest tag name wins.
func (g *Repo) Describe(c CommitRef, pattern string) (*Describe, error) {
	if err := checkPattern(pattern); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("describe")()

	tags, err := g.matchingTags(pattern)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	byTarget := tagsByTarget(tags)

	start, err := g.commit(c)
	if err != nil {
		return nil, err
	}

	// Breadth-first over parent edges so the first hit is at minimal depth.
	type node struct {
		c     *object.Commit
		depth int
	}
	queue := []node{{start, 0}}
	visited := map[plumbing.Hash]bool{start.Hash: true}
	best := (*Describe)(nil)

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if best != nil && n.depth > best.Distance {
			break
		}
		if names := byTarget[CommitRef(n.c.Hash.String())]; len(names) > 0 {
			d := &Describe{
				Tag:      TagRef{Name: names[0], Target: CommitRef(n.c.Hash.String())},
				Distance: n.depth,
			}
			if best == nil || d.Tag.Name < best.Tag.Name {
				best = d
			}
			continue
		}
		for _, p := range n.c.ParentHashes {
			if visited[p] {
				continue
			}
			visited[p] = true
			pc, err := g.repo.CommitObject(p)
			if err != nil {
				return nil, repoErr("describe", err)
			}
			queue = append(queue, node{pc, n.depth + 1})
		}
	}
	return best, nil
}

// Parents returns the parent commits of c in recorded order.
func (g *Repo) Parents(c CommitRef) ([]CommitRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("parents")()

	obj, err := g.commit(c)
	if err != nil {
		return nil, err
	}
	parents := make([]CommitRef, 0, len(obj.ParentHashes))
	for _, p := range obj.ParentHashes {
		parents = append(parents, CommitRef(p.String()))
	}
	return parents, nil
}

// ResolveRevision resolves a revision expression (full or abbreviated hash,
// ref name) to a commit.
func (g *Repo) ResolveRevision(rev string) (CommitRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("resolve-revision")()

	h, err := g.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", unknownCommit(rev)
	}
	target, ok, err := g.peel(*h)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", unknownCommit(rev)
	}
	return CommitRef(target.String()), nil
}

// CommitInfo returns the metadata of a single commit.
func (g *Repo) CommitInfo(c CommitRef) (*CommitInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("commit-info")()

	obj, err := g.commit(c)
	if err != nil {
		return nil, err
	}
	info := &CommitInfo{
		Ref:     c,
		Message: obj.Message,
		Author:  obj.Author.Name,
		When:    obj.Committer.When,
	}
	for _, p := range obj.ParentHashes {
		info.Parents = append(info.Parents, CommitRef(p.String()))
	}
	return info, nil
}

// TouchedPaths returns the paths changed by a commit relative to its first
// parent. A root commit touches every path in its tree.
func (g *Repo) TouchedPaths(c CommitRef) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.track("touched-paths")()

	obj, err := g.commit(c)
	if err != nil {
		return nil, err
	}
	tree, err := obj.Tree()
	if err != nil {
		return nil, repoErr("touched-paths", err)
	}

	if obj.NumParents() == 0 {
		var paths []string
		err := tree.Files().ForEach(func(f *object.File) error {
			paths = append(paths, f.Name)
			return nil
		})
		if err != nil {
			return nil, repoErr("touched-paths", err)
		}
		sort.Strings(paths)
		return paths, nil
	}

	parent, err := obj.Parent(0)
	if err != nil {
		return nil, repoErr("touched-paths", err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, repoErr("touched-paths", err)
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, repoErr("touched-paths", err)
	}

	seen := make(map[string]bool)
	var paths []string
	for _, ch := range changes {
		for _, name := range []string{ch.From.Name, ch.To.Name} {
			if name != "" && !seen[name] {
				seen[name] = true
				paths = append(paths, name)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// commit looks up a commit object, mapping a missing object to
// ErrUnknownCommit. g.mu must be held.
func (g *Repo) commit(c CommitRef) (*object.Commit, error) {
	h := plumbing.NewHash(string(c))
	obj, err := g.repo.CommitObject(h)
	if err == plumbing.ErrObjectNotFound {
		return nil, unknownCommit(string(c))
	}
	if err != nil {
		return nil, repoErr("commit", err)
	}
	return obj, nil
}

// checkPattern validates a glob pattern without touching the repository.
// path.Match only reports ErrBadPattern when scanning reaches the malformed
// portion, so the structural checks are done here up front, mirroring what
// path.Match rejects: a trailing backslash, an unclosed class, and class
// elements that start with '-' or ']' or end mid-range.
func checkPattern(pattern string) error {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			if i == len(pattern)-1 {
				return invalidPattern(pattern)
			}
			i++
		case '[':
			j := i + 1
			if j < len(pattern) && pattern[j] == '^' {
				j++
			}
			// ']' closes only a non-empty class; each element is a single
			// char or a lo-hi range.
			for n := 0; ; n++ {
				if j < len(pattern) && pattern[j] == ']' && n > 0 {
					break
				}
				var err error
				if j, err = classElem(pattern, j); err != nil {
					return err
				}
				if j < len(pattern) && pattern[j] == '-' {
					if j, err = classElem(pattern, j+1); err != nil {
						return err
					}
				}
			}
			i = j
		}
	}
	return nil
}

// classElem consumes one character-class element at position j and returns
// the position after it.
func classElem(pattern string, j int) (int, error) {
	if j >= len(pattern) || pattern[j] == '-' || pattern[j] == ']' {
		return 0, invalidPattern(pattern)
	}
	if pattern[j] == '\\' {
		j++
		if j >= len(pattern) {
			return 0, invalidPattern(pattern)
		}
	}
	return j + 1, nil
}

// tagsByTarget groups tag names by target commit, each group sorted so the
// lexically smallest name is the deterministic representative.
func tagsByTarget(tags []TagRef) map[CommitRef][]string {
	m := make(map[CommitRef][]string, len(tags))
	for _, t := range tags {
		m[t.Target] = append(m[t.Target], t.Name)
	}
	for _, names := range m {
		sort.Strings(names)
	}
	return m
}
