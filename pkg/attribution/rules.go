package attribution

import (
	"regexp"
	"sort"
	"strings"
)

// The message grammar is deliberately a best-effort pattern match, not a
// formal parser. It is expressed as a short list of rules evaluated in a
// fixed priority order so each rule's precedence stays auditable and
// testable on its own.
//
// Rule 1 (directive): a directive verb, an optional colon, then a slug
// reference — "fixes #foo-bar", "Closes: foo-bar.md", "implemented foo-bar".
// Rule 2 (hash mention): "#slug" anywhere in the message.
// Rule 3 (bare filename): "slug.md" anywhere in the message.
// Rule 4 (kabob token): a bare lowercase kabob-case token (at least one
// hyphen) anywhere in the message.
//
// Overlapping matches are resolved by start position, then rule priority,
// so "#foo-bar" is one hash mention rather than a hash mention plus a kabob
// token.

var directiveRe = regexp.MustCompile(
	`\b(?i:fix(?:es|ed)?|close[sd]?|resolve[sd]?|implement(?:s|ed)?)\b:?\s+#?([a-z0-9]+(?:-[a-z0-9]+)*)(\.md)?`)

// mentionRules are rules 2-4. Each regexp's group 1 (or the whole match for
// the kabob rule) is the slug.
var mentionRules = []struct {
	name string
	re   *regexp.Regexp
	slug int // submatch index of the slug
}{
	{"hash", regexp.MustCompile(`#([a-z0-9][a-z0-9_-]*)(?:\.md)?`), 1},
	{"mdfile", regexp.MustCompile(`\b([a-z0-9][a-z0-9_-]*)\.md\b`), 1},
	{"kabob", regexp.MustCompile(`\b[a-z0-9]+(?:-[a-z0-9]+)+\b`), 0},
}

type directiveMatch struct {
	slug  string
	start int
}

// firstDirective returns the earliest directive reference in the message,
// or nil. The reference must end at a word boundary and must not run into a
// file extension other than ".md": "fixes config.yaml" names a file and
// "fixes #data_sync" is not a kabob slug, so neither yields a directive —
// truncating either to a shorter slug would fabricate a reference. When the
// offending suffix sits after a trailing kabob segment the match shrinks to
// the segments before it, mirroring how a backtracking matcher recovers.
func firstDirective(message string) *directiveMatch {
	for _, m := range directiveRe.FindAllStringSubmatchIndex(message, -1) {
		slugStart, slugEnd := m[2], m[3]

		if m[4] >= 0 && !breaksReference(message, m[1]) { // consumed ".md"
			return &directiveMatch{slug: message[slugStart:slugEnd], start: m[0]}
		}

		slug := message[slugStart:slugEnd]
		for breaksReference(message, slugStart+len(slug)) {
			cut := strings.LastIndexByte(slug, '-')
			if cut < 0 {
				slug = ""
				break
			}
			slug = slug[:cut]
		}
		if slug != "" {
			return &directiveMatch{slug: slug, start: m[0]}
		}
	}
	return nil
}

// breaksReference reports whether the text at position i invalidates a
// directive slug ending there: a word character means the slug ran into a
// longer token ("data_sync", "dataSync"), and ".<word>" means it ran into a
// file extension. Go's regexp has no lookahead, so the constraint is
// applied here.
func breaksReference(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	if isWordByte(s[i]) {
		return true
	}
	return s[i] == '.' && i+1 < len(s) && isWordByte(s[i+1])
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

type mentionMatch struct {
	slug       string
	start, end int
	rule       int
}

// mentions collects all slug references in the message, in order of first
// appearance, with overlaps resolved in favor of the earlier match and then
// the higher-priority rule.
func mentions(message string) []mentionMatch {
	var all []mentionMatch
	for ri, rule := range mentionRules {
		for _, m := range rule.re.FindAllStringSubmatchIndex(message, -1) {
			all = append(all, mentionMatch{
				slug:  message[m[2*rule.slug] : m[2*rule.slug+1]],
				start: m[0],
				end:   m[1],
				rule:  ri,
			})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].rule < all[j].rule
	})

	var kept []mentionMatch
	lastEnd := -1
	for _, m := range all {
		if m.start < lastEnd {
			continue
		}
		kept = append(kept, m)
		lastEnd = m.end
	}
	return kept
}
