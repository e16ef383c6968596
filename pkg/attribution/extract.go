package attribution

import (
	"sort"
)

// Extract scans one commit's message and touched paths into deduplicated
// candidates. It is pure: the oracle is consulted only to recognize issue
// file paths, never to filter (the existence filter belongs to Resolve).
func (e *Extractor) Extract(message string, touchedPaths []string) Extraction {
	var x Extraction
	seen := make(map[string]bool)

	// Rules run in priority order, so a slug named by a directive keeps
	// directive provenance even when a lower rule also matches it.
	if d := firstDirective(message); d != nil {
		seen[d.slug] = true
		x.Candidates = append(x.Candidates, Candidate{
			Slug:       d.slug,
			Provenance: ProvenanceDirective,
			Ordinal:    d.start,
		})
	}

	for _, m := range mentions(message) {
		if seen[m.slug] {
			continue
		}
		seen[m.slug] = true
		x.Candidates = append(x.Candidates, Candidate{
			Slug:       m.slug,
			Provenance: ProvenanceMessage,
			Ordinal:    m.start,
		})
	}

	touchedSeen := make(map[string]bool)
	for i, p := range touchedPaths {
		slug, ok := e.oracle.IsKnownIssueFile(p)
		if !ok || touchedSeen[slug] {
			continue
		}
		touchedSeen[slug] = true
		x.TouchedSlugs = append(x.TouchedSlugs, slug)
		if !seen[slug] {
			seen[slug] = true
			x.Candidates = append(x.Candidates, Candidate{
				Slug:       slug,
				Provenance: ProvenanceTouchedFile,
				Ordinal:    len(message) + i,
			})
		}
	}

	sort.SliceStable(x.Candidates, func(i, j int) bool {
		return x.Candidates[i].Ordinal < x.Candidates[j].Ordinal
	})
	return x
}
