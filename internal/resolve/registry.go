package resolve

import (
	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
)

// Registry holds every link seen during a run, split into primary content
// and crawled appendix articles. A key lives in at most one partition.
type Registry struct {
	lang        string
	inlineLevel int

	primary       map[string]*rc.Link
	appendix      map[string]*rc.Link
	primaryOrder  []string
	appendixOrder []string

	sealed bool
}

func newRegistry(lang string, inlineLevel int) *Registry {
	return &Registry{
		lang:        lang,
		inlineLevel: inlineLevel,
		primary:     make(map[string]*rc.Link),
		appendix:    make(map[string]*rc.Link),
	}
}

// Lookup finds a link by rc string in either partition. A wildcard
// language is resolved to the run language first.
func (r *Registry) Lookup(s string) (*rc.Link, bool) {
	key, err := rc.Canonical(s, r.lang)
	if err != nil {
		return nil, false
	}
	return r.get(key)
}

func (r *Registry) get(key string) (*rc.Link, bool) {
	if l, ok := r.primary[key]; ok {
		return l, true
	}
	l, ok := r.appendix[key]
	return l, ok
}

// IsPrimary reports whether key names primary content
func (r *Registry) IsPrimary(key string) bool {
	_, ok := r.primary[key]
	return ok
}

// Primary returns primary links in registration order
func (r *Registry) Primary() []*rc.Link {
	return r.ordered(r.primary, r.primaryOrder)
}

// Appendix returns appendix links in registration order
func (r *Registry) Appendix() []*rc.Link {
	return r.ordered(r.appendix, r.appendixOrder)
}

// All returns primary then appendix links
func (r *Registry) All() []*rc.Link {
	return append(r.Primary(), r.Appendix()...)
}

// Len returns the number of registered links
func (r *Registry) Len() int {
	return len(r.primary) + len(r.appendix)
}

// Sealed reports whether crawling has finished
func (r *Registry) Sealed() bool { return r.sealed }

// InlineLevel is the deepest level rendered as an in-document anchor
func (r *Registry) InlineLevel() int { return r.inlineLevel }

// Lang is the run language
func (r *Registry) Lang() string { return r.lang }

func (r *Registry) ordered(m map[string]*rc.Link, order []string) []*rc.Link {
	out := make([]*rc.Link, 0, len(order))
	for _, k := range order {
		if l, ok := m[k]; ok {
			out = append(out, l)
		}
	}
	return out
}

// addPrimary registers l as primary content. An appendix entry with the same
// key is removed and returned so the caller can retire it.
func (r *Registry) addPrimary(l *rc.Link) (displaced *rc.Link) {
	key := l.String()
	if old, ok := r.appendix[key]; ok {
		displaced = old
		delete(r.appendix, key)
		for i, k := range r.appendixOrder {
			if k == key {
				r.appendixOrder = append(r.appendixOrder[:i:i], r.appendixOrder[i+1:]...)
				break
			}
		}
	}
	if _, ok := r.primary[key]; !ok {
		r.primaryOrder = append(r.primaryOrder, key)
	}
	r.primary[key] = l
	return displaced
}

func (r *Registry) addAppendix(l *rc.Link) {
	key := l.String()
	r.appendix[key] = l
	r.appendixOrder = append(r.appendixOrder, key)
}
