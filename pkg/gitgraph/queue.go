package gitgraph

import (
	"container/heap"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// commitQueue is a priority queue over ready commits used by TopoOrder.
// Newest committer time first; equal times fall back to hash order so the
// result is stable run to run.
type commitQueue struct {
	items []*object.Commit
}

func newCommitQueue() *commitQueue {
	q := &commitQueue{}
	heap.Init(q)
	return q
}

func (q *commitQueue) push(c *object.Commit) { heap.Push(q, c) }

func (q *commitQueue) pop() *object.Commit {
	return heap.Pop(q).(*object.Commit)
}

func (q *commitQueue) Len() int { return len(q.items) }

func (q *commitQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if !a.Committer.When.Equal(b.Committer.When) {
		return a.Committer.When.After(b.Committer.When)
	}
	return a.Hash.String() < b.Hash.String()
}

func (q *commitQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *commitQueue) Push(x any) { q.items = append(q.items, x.(*object.Commit)) }

func (q *commitQueue) Pop() any {
	old := q.items
	n := len(old)
	c := old[n-1]
	q.items = old[:n-1]
	return c
}
