// Package highlight marks the phrases a note quotes inside the text the
// note annotates, recording the ones it cannot find.
package highlight

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/report"
	"golang.org/x/text/unicode/norm"
)

// DefaultClass is the CSS class placed on highlight spans
const DefaultClass = "highlight"

// Matcher highlights phrases and feeds misses to a BadHighlights accumulator
type Matcher struct {
	bad   *report.BadHighlights
	class string
}

// NewMatcher creates a matcher reporting into bad
func NewMatcher(bad *report.BadHighlights) *Matcher {
	return &Matcher{bad: bad, class: DefaultClass}
}

// WithClass changes the span class
func (m *Matcher) WithClass(class string) *Matcher {
	m.class = class
	return m
}

type span struct{ start, end int }

// Mark returns text as HTML with every phrase found verbatim wrapped in a
// highlight span. A phrase found only after case or quote-style changes is
// reported with the matching substring as its fix; one not found at all is
// reported without a fix. Neither kind of miss is highlighted.
func (m *Matcher) Mark(rcKey, text string, phrases []string) string {
	text = norm.NFC.String(text)

	var spans []span
	for _, phrase := range phrases {
		for _, part := range splitPhrase(phrase) {
			if s, ok := findFree(text, part, spans); ok {
				spans = append(spans, s)
				continue
			}
			fix := ""
			if s, ok := findAlternate(text, part); ok {
				fix = text[s.start:s.end]
			}
			if m.bad != nil {
				m.bad.Add(rcKey, text, part, fix)
			}
		}
	}

	return m.render(text, spans)
}

func (m *Matcher) render(text string, spans []span) string {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(html.EscapeString(text[last:s.start]))
		b.WriteString(`<span class="` + m.class + `">`)
		b.WriteString(html.EscapeString(text[s.start:s.end]))
		b.WriteString(`</span>`)
		last = s.end
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// splitPhrase breaks a quote on ellipses; notes use them to join
// discontinuous words.
func splitPhrase(phrase string) []string {
	phrase = norm.NFC.String(strings.ReplaceAll(phrase, "...", "…"))
	var out []string
	for _, p := range strings.Split(phrase, "…") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// findFree finds the first occurrence of part that overlaps no existing span
func findFree(text, part string, taken []span) (span, bool) {
	from := 0
	for from <= len(text) {
		i := strings.Index(text[from:], part)
		if i < 0 {
			return span{}, false
		}
		s := span{start: from + i, end: from + i + len(part)}
		if !overlaps(s, taken) {
			return s, true
		}
		from = s.start + 1
	}
	return span{}, false
}

func overlaps(s span, taken []span) bool {
	for _, t := range taken {
		if s.start < t.end && t.start < s.end {
			return true
		}
	}
	return false
}

// findAlternate tries the phrase case-insensitively, then every quote-style
// variant verbatim and case-insensitively.
func findAlternate(text, part string) (span, bool) {
	if s, ok := findFold(text, part); ok {
		return s, true
	}
	for _, v := range quoteVariants(part) {
		if i := strings.Index(text, v); i >= 0 {
			return span{start: i, end: i + len(v)}, true
		}
		if s, ok := findFold(text, v); ok {
			return s, true
		}
	}
	return span{}, false
}

func findFold(text, part string) (span, bool) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(part))
	if err != nil {
		return span{}, false
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return span{}, false
	}
	return span{start: loc[0], end: loc[1]}, true
}

var (
	toRightSingle = strings.NewReplacer("'", "’")
	toLeftSingle  = strings.NewReplacer("'", "‘")
	toStraight    = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`)
	toStraightDbl = strings.NewReplacer("“", `"`, "”", `"`)
)

// quoteVariants returns the phrase rewritten in the other quote styles
// that upstream content mixes, excluding the phrase itself.
func quoteVariants(s string) []string {
	candidates := []string{
		toRightSingle.Replace(s),
		toLeftSingle.Replace(s),
		toStraight.Replace(s),
		toStraightDbl.Replace(s),
		curlyDoubles(s),
		curlyDoubles(toRightSingle.Replace(s)),
	}

	seen := map[string]bool{s: true}
	var out []string
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// curlyDoubles turns straight double quotes into alternating “ and ”
func curlyDoubles(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}
	var b strings.Builder
	open := true
	for _, r := range s {
		if r != '"' {
			b.WriteRune(r)
			continue
		}
		if open {
			b.WriteRune('“')
		} else {
			b.WriteRune('”')
		}
		open = !open
	}
	return b.String()
}
