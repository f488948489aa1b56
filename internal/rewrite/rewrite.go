// Package rewrite replaces rc:// references in finished HTML with
// in-document anchors or plain titles.
package rewrite

import (
	"html"
	"regexp"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
	"github.com/unfoldingWord-dev/tools-sub000/internal/resolve"
)

// Form is the syntax an occurrence was written in
type Form int

const (
	FormBracket Form = iota // [[rc://...]]
	FormAnchor              // <a href="rc://...">text</a>
	FormBare                // rc://... in running text
)

// occurrencePattern matches all three forms in one pass. Alternation order
// makes bracketed and anchored links win over the bare link inside them.
var occurrencePattern = regexp.MustCompile(
	`\[\[\s*(rc://[^\]\s]+?)\s*\]\]` +
		`|<(?i:a)\s[^>]*?(?i:href)\s*=\s*["'](rc://[^"']+)["'][^>]*>((?s:.*?))</(?i:a)\s*>` +
		`|` + rc.BarePattern,
)

// Occurrence is one reference found in a document
type Occurrence struct {
	Start, End int    // byte span in the document
	RC         string // rc link as written
	Text       string // anchor display text, FormAnchor only
	Form       Form
}

// Stats counts how occurrences were rewritten
type Stats struct {
	Anchors     int // replaced by an in-document link
	Inlined     int // replaced by plain title text
	Passthrough int // left as display text or raw rc
}

// Rewriter rewrites references against a sealed registry
type Rewriter struct {
	reg   *resolve.Registry
	stats Stats
}

// New creates a rewriter over reg
func New(reg *resolve.Registry) *Rewriter {
	return &Rewriter{reg: reg}
}

// Stats returns the counts accumulated by Rewrite
func (r *Rewriter) Stats() Stats { return r.stats }

// Rewrite replaces every occurrence in doc. The registry must have been
// finalized; otherwise resolve.ErrNotSealed is returned.
func (r *Rewriter) Rewrite(doc string) (string, error) {
	if r.reg == nil || !r.reg.Sealed() {
		return "", resolve.ErrNotSealed
	}
	occs := Find(doc)
	repl := make([]string, len(occs))
	for i, o := range occs {
		repl[i] = r.Resolve(o)
	}
	return Apply(doc, occs, repl), nil
}

// Find returns every occurrence in doc in order of appearance
func Find(doc string) []Occurrence {
	var out []Occurrence
	for _, m := range occurrencePattern.FindAllStringSubmatchIndex(doc, -1) {
		o := Occurrence{Start: m[0], End: m[1]}
		switch {
		case m[2] >= 0:
			o.Form = FormBracket
			o.RC = doc[m[2]:m[3]]
		case m[4] >= 0:
			o.Form = FormAnchor
			o.RC = doc[m[4]:m[5]]
			o.Text = strings.TrimSpace(doc[m[6]:m[7]])
		default:
			o.Form = FormBare
			o.RC = rc.TrimPunct(doc[m[0]:m[1]])
			o.End = o.Start + len(o.RC)
			if o.RC == rc.Scheme {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

// Resolve returns the replacement text for one occurrence
func (r *Rewriter) Resolve(o Occurrence) string {
	text := o.Text
	if strings.Contains(text, rc.Scheme) {
		text = ""
	}

	link, ok := r.reg.Lookup(o.RC)
	if !ok || !(link.Resolved() || r.reg.IsPrimary(link.String())) {
		r.stats.Passthrough++
		if text != "" {
			return text
		}
		return o.RC
	}

	level := link.LinkingLevel
	if link.AliasOf != "" {
		if target, ok := r.reg.Lookup(link.AliasOf); ok && target.LinkingLevel < level {
			level = target.LinkingLevel
		}
	}

	label := html.EscapeString(link.Label())
	if level > r.reg.InlineLevel() {
		r.stats.Inlined++
		return label
	}

	r.stats.Anchors++
	if text == "" {
		text = label
	}
	return `<a href="#` + html.EscapeString(link.ID()) + `">` + text + `</a>`
}

// Apply splices repl[i] over occs[i] in one pass. occs must be ordered and
// non-overlapping, as returned by Find.
func Apply(doc string, occs []Occurrence, repl []string) string {
	var b strings.Builder
	b.Grow(len(doc))
	pos := 0
	for i, o := range occs {
		b.WriteString(doc[pos:o.Start])
		b.WriteString(repl[i])
		pos = o.End
	}
	b.WriteString(doc[pos:])
	return b.String()
}
