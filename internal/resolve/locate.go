package resolve

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
)

// LookupState says how far the search for a backing file got
type LookupState int

const (
	StateMissingDir  LookupState = iota // neither file nor directory exists
	StateMissingBody                    // directory exists, no body file
	StateEmptyBody                      // body file exists but is blank
	StateFound
	StateConvertFailed // body found but the converter rejected it
)

func (s LookupState) String() string {
	switch s {
	case StateMissingBody:
		return "missing-body"
	case StateEmptyBody:
		return "empty-body"
	case StateFound:
		return "found"
	case StateConvertFailed:
		return "convert-failed"
	default:
		return "missing-dir"
	}
}

// bodyFile is the fixed article body inside a one-article-per-directory layout
const bodyFile = "01.md"

// location is a located backing file
type location struct {
	state LookupState
	file  string // absolute path of the body
	rel   string // body path relative to the resource root, slash separated
	body  []byte
}

// articleDir returns the directory of a link's article and the path of that
// directory relative to the resource root.
func (c *Context) articleDir(l *rc.Link) (dir, rel string, ok bool) {
	root, ok := c.cfg.Roots[l.Kind()]
	if !ok || root == "" || l.Project == "" || !safePath(l) {
		return "", "", false
	}
	rel = path.Join(append([]string{l.Project}, l.Extra...)...)
	return filepath.Join(c.projectRoot(root, l.Project), filepath.FromSlash(path.Join(l.Extra...))), rel, true
}

// safePath reports whether every path segment of l stays inside its root
func safePath(l *rc.Link) bool {
	for _, seg := range append([]string{l.Project}, l.Extra...) {
		if seg == "." || seg == ".." || strings.ContainsRune(seg, '\\') {
			return false
		}
	}
	return true
}

// locate finds the body of l: {path}.md first, then {path}/01.md
func (c *Context) locate(l *rc.Link) location {
	dir, rel, ok := c.articleDir(l)
	if !ok {
		return location{state: StateMissingDir}
	}

	candidates := []struct{ file, rel string }{
		{dir + ".md", rel + ".md"},
		{filepath.Join(dir, bodyFile), path.Join(rel, bodyFile)},
	}

	state := StateMissingDir
	if info, err := c.fs.Stat(dir); err == nil && info.IsDir() {
		state = StateMissingBody
	}

	for _, cand := range candidates {
		info, err := c.fs.Stat(cand.file)
		if err != nil || info.IsDir() {
			continue
		}
		body, err := c.fs.ReadFile(cand.file)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(body)) == "" {
			state = StateEmptyBody
			continue
		}
		return location{state: StateFound, file: cand.file, rel: cand.rel, body: body}
	}
	return location{state: state}
}

// strategy proposes corrected rc strings for a link whose body is missing
type strategy func(c *Context, l *rc.Link) []string

var strategies = map[rc.Kind]strategy{
	rc.KindTW: twCandidates,
	rc.KindTA: taCandidates,
}

// twCategories are tried in order when a term is filed under another category
var twCategories = []string{"kt", "other", "names"}

// taManuals are tried in order when an article lives in a sibling manual
var taManuals = []string{"translate", "checking", "process", "intro"}

// twCandidates tries the term and its historical rename in every category
func twCandidates(c *Context, l *rc.Link) []string {
	if len(l.Extra) == 0 {
		return nil
	}
	term := l.Extra[len(l.Extra)-1]
	names := []string{term}
	if renamed, ok := c.cfg.Corrections.TWTerms[term]; ok && renamed != term {
		names = append(names, renamed)
	}

	var out []string
	for _, name := range names {
		for _, cat := range twCategories {
			out = append(out, rc.Scheme+path.Join(l.Lang, l.Resource, l.Type, l.Project, cat, name))
		}
	}
	return out
}

// taCandidates applies the article correction table, then sibling manuals
func taCandidates(c *Context, l *rc.Link) []string {
	if len(l.Extra) == 0 {
		return nil
	}
	slug := l.Extra[len(l.Extra)-1]

	var out []string
	if fixed, ok := c.cfg.Corrections.TAArticles[slug]; ok {
		out = append(out, rc.Scheme+path.Join(l.Lang, l.Resource, l.Type, fixed))
	}
	for _, manual := range taManuals {
		out = append(out, rc.Scheme+path.Join(l.Lang, l.Resource, l.Type, manual, slug))
	}
	return out
}
