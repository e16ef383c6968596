package gitgraph

import (
	"sort"
	"time"
)

// OpStat aggregates the cost of one query kind over the lifetime of a Repo.
type OpStat struct {
	Op    string
	Count int
	Total time.Duration
	Max   time.Duration
}

type opStats struct {
	byOp map[string]*OpStat
}

func (s *opStats) record(op string, d time.Duration) {
	if s.byOp == nil {
		s.byOp = make(map[string]*OpStat)
	}
	st, ok := s.byOp[op]
	if !ok {
		st = &OpStat{Op: op}
		s.byOp[op] = st
	}
	st.Count++
	st.Total += d
	if d > st.Max {
		st.Max = d
	}
}

// Stats returns per-operation timing aggregates, most expensive first.
func (g *Repo) Stats() []OpStat {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]OpStat, 0, len(g.stats.byOp))
	for _, st := range g.stats.byOp {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Op < out[j].Op
	})
	return out
}

// track times an operation. g.mu must be held for the duration; the returned
// func is meant to be deferred.
func (g *Repo) track(op string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		g.stats.record(op, d)
		if d >= g.slow {
			g.logger.Warn("slow repository query", "op", op, "duration", d)
		}
	}
}
