package rc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/markdown"
)

// Scheme is the prefix every resource container link starts with
const Scheme = "rc://"

// Wildcard is the language segment meaning "the language of the current run"
const Wildcard = "*"

// ErrNotRC is returned when a string does not start with rc://
var ErrNotRC = errors.New("not an rc link")

// BarePattern matches an rc link in running text. Trailing sentence
// punctuation is trimmed by FindAll.
const BarePattern = `rc://[^\s"'<>\[\]()]+`

var barePattern = regexp.MustCompile(BarePattern)

// Link is a parsed rc:// identifier together with the article it resolves to
type Link struct {
	Lang     string   // language code, e.g. "en"
	Resource string   // resource identifier, e.g. "ta", "tw", "tn"
	Type     string   // container type, e.g. "man", "dict", "help"
	Project  string   // project within the resource, e.g. "translate", "bible"
	Extra    []string // remaining path segments (chapter/verse or article path)

	Article      string // resolved HTML body; may be empty for a title-only file
	Loaded       bool   // a backing file was found and converted
	AltTitle     string // sub-title sidecar (ta "question")
	LinkingLevel int    // hops from primary content; only ever lowered
	AliasOf      string // canonical rc of the link this one was corrected to

	References []string // rc links that point here, insertion ordered

	title     string
	articleID string
	refSeen   map[string]struct{}
}

// Option configures a Link at parse time
type Option func(*Link)

// WithArticle sets the resolved article body
func WithArticle(article string) Option {
	return func(l *Link) { l.Article = article }
}

// WithTitle sets an explicit title
func WithTitle(title string) Option {
	return func(l *Link) { l.title = title }
}

// WithLevel sets the initial linking level
func WithLevel(level int) Option {
	return func(l *Link) { l.LinkingLevel = level }
}

// WithArticleID overrides the derived anchor id
func WithArticleID(id string) Option {
	return func(l *Link) { l.articleID = id }
}

// WithLang substitutes lang for a wildcard or missing language segment
func WithLang(lang string) Option {
	return func(l *Link) {
		if lang != "" && (l.Lang == Wildcard || l.Lang == "") {
			l.Lang = lang
		}
	}
}

// Parse parses rc://lang/resource[/type[/project[/extra...]]].
// Only a missing rc:// prefix is an error; absent segments stay empty.
func Parse(s string, opts ...Option) (*Link, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, Scheme) {
		return nil, fmt.Errorf("%w: %q", ErrNotRC, s)
	}

	var parts []string
	for _, p := range strings.Split(strings.TrimPrefix(s, Scheme), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	l := &Link{}
	fields := []*string{&l.Lang, &l.Resource, &l.Type, &l.Project}
	for i, p := range parts {
		if i < len(fields) {
			*fields[i] = p
			continue
		}
		l.Extra = append(l.Extra, p)
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// MustParse is Parse for literals known to be valid
func MustParse(s string, opts ...Option) *Link {
	l, err := Parse(s, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// Canonical returns the canonical form of s, resolving a wildcard language
func Canonical(s, lang string) (string, error) {
	l, err := Parse(s, WithLang(lang))
	if err != nil {
		return "", err
	}
	return l.String(), nil
}

// parts returns the non-empty segments after the scheme
func (l *Link) parts() []string {
	out := make([]string, 0, 4+len(l.Extra))
	for _, p := range []string{l.Lang, l.Resource, l.Type, l.Project} {
		if p != "" {
			out = append(out, p)
		}
	}
	for _, p := range l.Extra {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns the canonical rc string
func (l *Link) String() string {
	return Scheme + strings.Join(l.parts(), "/")
}

// Path returns project and extra segments joined with "/"
func (l *Link) Path() string {
	segs := make([]string, 0, 1+len(l.Extra))
	if l.Project != "" {
		segs = append(segs, l.Project)
	}
	segs = append(segs, l.Extra...)
	return strings.Join(segs, "/")
}

// Kind returns the resource kind of the link
func (l *Link) Kind() Kind {
	return KindOf(l.Resource)
}

// ID returns the anchor id: the override if set, otherwise every segment
// after the language joined with "-".
func (l *Link) ID() string {
	if l.articleID != "" {
		return l.articleID
	}
	parts := l.parts()
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, "-")
}

// SetArticleID overrides the anchor id
func (l *Link) SetArticleID(id string) {
	l.articleID = id
}

// Title returns the explicit title or the first heading of the article.
// Empty while the link is unresolved.
func (l *Link) Title() string {
	if l.title != "" {
		return l.title
	}
	if l.Article == "" {
		return ""
	}
	if h, ok := markdown.FirstHeading(l.Article); ok {
		return h.Text
	}
	return ""
}

// SetTitle sets an explicit title
func (l *Link) SetTitle(title string) {
	l.title = strings.TrimSpace(title)
}

// Label is the text used when the link is shown: the title, falling back
// to the last path segment.
func (l *Link) Label() string {
	if t := l.Title(); t != "" {
		return t
	}
	if n := len(l.Extra); n > 0 {
		return l.Extra[n-1]
	}
	if l.Project != "" {
		return l.Project
	}
	return l.String()
}

// Resolved reports whether the link was loaded or points at corrected content
func (l *Link) Resolved() bool {
	return l.Loaded || l.AliasOf != ""
}

// AddReference records other as pointing to this link. Repeated calls are no-ops.
func (l *Link) AddReference(other *Link) {
	if other == nil {
		return
	}
	l.AddReferenceKey(other.String())
}

// AddReferenceKey is AddReference for a canonical rc string
func (l *Link) AddReferenceKey(key string) {
	if key == "" {
		return
	}
	if l.refSeen == nil {
		l.refSeen = make(map[string]struct{}, len(l.References)+1)
		for _, r := range l.References {
			l.refSeen[r] = struct{}{}
		}
	}
	if _, ok := l.refSeen[key]; ok {
		return
	}
	l.refSeen[key] = struct{}{}
	l.References = append(l.References, key)
}

// LowerLevel sets the linking level to min(current, level) and reports
// whether it changed.
func (l *Link) LowerLevel(level int) bool {
	if level < l.LinkingLevel {
		l.LinkingLevel = level
		return true
	}
	return false
}

// FindAll returns every rc link in text, in order of appearance, with
// trailing sentence punctuation removed.
func FindAll(text string) []string {
	matches := barePattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m = TrimPunct(m); m != Scheme {
			out = append(out, m)
		}
	}
	return out
}

// TrimPunct strips trailing punctuation picked up from surrounding prose
func TrimPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?")
}
