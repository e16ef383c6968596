package gitgraph

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern indicates a malformed tag glob pattern supplied by the
// caller. It is rejected before any repository traversal.
var ErrInvalidPattern = errors.New("invalid tag pattern")

// ErrUnknownCommit indicates a commit identifier that does not resolve to a
// commit in the repository. Like ErrInvalidPattern it is a caller error, not
// a repository failure.
var ErrUnknownCommit = errors.New("unknown commit")

// RepositoryError reports that a repository query could not complete:
// unreadable repository, corrupt object, backend failure. It is always
// surfaced to the caller and never silently treated as "no tag found".
type RepositoryError struct {
	// Op names the query that failed, e.g. "resolve-tags".
	Op string

	// Err is the underlying failure.
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *RepositoryError) Unwrap() error { return e.Err }

func repoErr(op string, err error) error {
	return &RepositoryError{Op: op, Err: err}
}

func invalidPattern(pattern string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
}

func unknownCommit(rev string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCommit, rev)
}
