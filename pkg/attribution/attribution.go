// Package attribution infers which tracked issues a commit relates to, from
// its message text and the set of issue files it touches, and selects at
// most one primary issue by a fixed precedence policy.
//
// Extraction is lenient by design: slug-like tokens that match no known
// issue are dropped, never reported as errors. The engine never fabricates
// links to absent issues.
package attribution

// Provenance records where a candidate slug was found.
type Provenance string

const (
	// ProvenanceDirective marks a slug named by a directive verb in the
	// message ("fixes #foo-bar").
	ProvenanceDirective Provenance = "directive"

	// ProvenanceMessage marks a slug mentioned anywhere in the message.
	ProvenanceMessage Provenance = "message-mention"

	// ProvenanceTouchedFile marks a slug derived from a touched issue file.
	ProvenanceTouchedFile Provenance = "touched-file"
)

// Candidate is one inferred issue reference. Ordinal is the candidate's
// position: byte offset within the message for message-derived candidates,
// past-the-message positions for touched-file candidates, so sorting by
// Ordinal preserves source order.
type Candidate struct {
	Slug       string
	Provenance Provenance
	Ordinal    int
}

// Extraction is the raw result of scanning one commit, before the
// existence filter is applied.
type Extraction struct {
	// Candidates, deduplicated by slug, in source order. A slug found by
	// more than one rule keeps the provenance of the highest-priority rule
	// that saw it (directive, then message mention, then touched file).
	Candidates []Candidate

	// TouchedSlugs are the distinct slugs of touched issue files, in path
	// order. Kept separately from Candidates because the primary policy
	// counts touched files even when the same slug was already claimed by
	// a message rule.
	TouchedSlugs []string
}

// Result is the attribution outcome for one commit. Primary is empty when
// no issue could be canonically attributed; Referenced may still name
// issues for navigation. When Primary is set it is always a member of
// Referenced.
type Result struct {
	Primary       string     `json:"primary,omitempty"`
	PrimarySource Provenance `json:"primarySource,omitempty"`
	Referenced    []string   `json:"referenced"`
}

// Oracle answers issue existence questions. It is backed by whatever issue
// store the caller uses; the engine only asks, it never writes.
type Oracle interface {
	// Exists reports whether slug names a currently known issue.
	Exists(slug string) bool

	// IsKnownIssueFile maps a repository path to an issue slug when the
	// path lies in the issue-file namespace.
	IsKnownIssueFile(path string) (slug string, ok bool)
}

// Extractor scans commits against one Oracle.
type Extractor struct {
	oracle Oracle
}

// NewExtractor returns an Extractor using the given oracle.
func NewExtractor(o Oracle) *Extractor {
	return &Extractor{oracle: o}
}

// Attribute runs extraction and the primary-selection policy for one
// commit. touchedPaths is the commit's full touched-file set; paths outside
// the issue namespace are ignored.
func (e *Extractor) Attribute(message string, touchedPaths []string) Result {
	return Resolve(e.Extract(message, touchedPaths), e.oracle)
}

// Resolve applies the precedence policy to an extraction:
//
//  1. A directive candidate naming a known issue is primary.
//  2. Otherwise, if the commit touches exactly one known issue file, that
//     slug is primary.
//  3. Otherwise no primary is selected.
//
// The order is fixed: directive intent outranks incidental file-touching,
// and ambiguity yields no primary rather than a guess.
func Resolve(x Extraction, oracle Oracle) Result {
	res := Result{Referenced: []string{}}

	for _, c := range x.Candidates {
		if oracle.Exists(c.Slug) {
			res.Referenced = append(res.Referenced, c.Slug)
		}
	}

	for _, c := range x.Candidates {
		if c.Provenance == ProvenanceDirective && oracle.Exists(c.Slug) {
			res.Primary = c.Slug
			res.PrimarySource = ProvenanceDirective
			return res
		}
	}

	var known []string
	for _, slug := range x.TouchedSlugs {
		if oracle.Exists(slug) {
			known = append(known, slug)
		}
	}
	if len(known) == 1 {
		res.Primary = known[0]
		res.PrimarySource = ProvenanceTouchedFile
	}
	return res
}
