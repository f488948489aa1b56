package resolve

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/manifest"
	"github.com/unfoldingWord-dev/tools-sub000/internal/markdown"
	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
	"github.com/unfoldingWord-dev/tools-sub000/internal/report"
)

// Sidecar files next to a 01.md body
const (
	titleFile    = "title.md"
	subTitleFile = "sub-title.md"
)

// ContainerLoader opens the resource container at a repo root
type ContainerLoader func(dir string) (*manifest.Container, error)

// Context is the resolution state of one generation run. It is not safe
// for concurrent use; batch runs each build their own.
type Context struct {
	cfg       Config
	fs        FileSystem
	converter markdown.Converter
	loadRC    ContainerLoader
	logger    *slog.Logger

	reg        *Registry
	bad        *report.BadLinks
	queue      []*rc.Link
	deferred   []deferredRef
	containers map[string]*manifest.Container
}

// deferredRef is a primary-to-primary reference seen before its target
type deferredRef struct {
	target string
	source *rc.Link
}

// Option configures a Context
type Option func(*Context)

// WithConverter sets the Markdown converter for article bodies
func WithConverter(conv markdown.Converter) Option {
	return func(c *Context) { c.converter = conv }
}

// WithFS sets the file system backing files are read from
func WithFS(fsys FileSystem) Option {
	return func(c *Context) { c.fs = fsys }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithContainerLoader sets how repo roots are opened to find project paths
func WithContainerLoader(load ContainerLoader) Option {
	return func(c *Context) { c.loadRC = load }
}

// New creates the resolution context for one run
func New(cfg Config, opts ...Option) *Context {
	cfg = cfg.withDefaults()
	c := &Context{
		cfg:        cfg,
		fs:         OSFS{},
		logger:     slog.Default(),
		reg:        newRegistry(cfg.Lang, cfg.InlineLevel),
		bad:        report.NewBadLinks(),
		containers: make(map[string]*manifest.Container),
	}
	c.loadRC = func(dir string) (*manifest.Container, error) {
		return manifest.Load(dir, manifest.WithLogger(c.logger))
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.converter == nil {
		c.converter = markdown.New(markdown.WithLogger(c.logger))
	}
	return c
}

// Registry returns the registry. Callers that need every link must wait
// for Finalize.
func (c *Context) Registry() *Registry { return c.reg }

// BadLinks returns the bad-link accumulator of the run
func (c *Context) BadLinks() *report.BadLinks { return c.bad }

// ScanPrimary registers link as primary content at level 0 and scans its
// article for references.
func (c *Context) ScanPrimary(link *rc.Link) error {
	if c.reg.sealed {
		return ErrSealed
	}
	rc.WithLang(c.cfg.Lang)(link)
	link.LinkingLevel = 0
	if old := c.reg.addPrimary(link); old != nil {
		for _, ref := range old.References {
			link.AddReferenceKey(ref)
		}
		c.dequeue(old)
	}

	for _, s := range rc.FindAll(link.Article) {
		target, err := rc.Parse(s, rc.WithLang(c.cfg.Lang))
		if err != nil {
			continue
		}
		key := target.String()
		if key == link.String() {
			continue
		}
		if primary, ok := c.reg.primary[key]; ok {
			primary.AddReference(link)
			continue
		}
		if target.Kind().Crawlable() {
			if _, err := c.ResolveAndRegister(key, link); err != nil {
				return err
			}
			continue
		}
		c.deferred = append(c.deferred, deferredRef{target: key, source: link})
	}
	return nil
}

// ResolveAndRegister resolves s on behalf of source and registers it in the
// appendix. A link seen before only has its level lowered and the reference
// recorded. Unresolvable links are registered empty and reported as bad
// links; the only errors are a malformed rc string and a sealed registry.
func (c *Context) ResolveAndRegister(s string, source *rc.Link) (*rc.Link, error) {
	if c.reg.sealed {
		return nil, ErrSealed
	}
	link, err := rc.Parse(s, rc.WithLang(c.cfg.Lang))
	if err != nil {
		return nil, err
	}

	level := 1
	if source != nil {
		level = source.LinkingLevel + 1
	}

	if existing, ok := c.reg.get(link.String()); ok {
		c.revisit(existing, source, level)
		return existing, nil
	}

	link.LinkingLevel = level
	link.AddReference(source)
	// registered before loading so a cycle back to it is a revisit
	c.reg.addAppendix(link)

	loc := c.locate(link)
	if loc.state == StateFound {
		if !c.load(link, loc) {
			c.bad.Add(sourceKey(source), link.String(), "", StateConvertFailed.String())
		}
		return link, nil
	}

	if fixed := c.fallback(link, source); fixed != nil {
		link.AliasOf = fixed.String()
		link.SetArticleID(fixed.ID())
		link.SetTitle(fixed.Title())
		c.bad.Add(sourceKey(source), link.String(), fixed.String(), loc.state.String())
		c.logger.Debug("link corrected", "source", sourceKey(source), "link", link.String(), "fix", fixed.String())
		return link, nil
	}

	c.bad.Add(sourceKey(source), link.String(), "", loc.state.String())
	c.logger.Warn("unresolved link", "source", sourceKey(source), "link", link.String(), "state", loc.state.String())
	return link, nil
}

// revisit lowers the level of a known link and requeues it when lowered
func (c *Context) revisit(link, source *rc.Link, level int) {
	link.AddReference(source)
	if c.reg.IsPrimary(link.String()) {
		return
	}
	if link.LowerLevel(level) && link.Loaded {
		c.queue = append(c.queue, link)
	}
	if link.AliasOf != "" {
		if target, ok := c.reg.get(link.AliasOf); ok && target != link {
			c.revisit(target, source, level)
		}
	}
}

// fallback tries the kind's corrected candidates and registers the first
// one that loads.
func (c *Context) fallback(link, source *rc.Link) *rc.Link {
	strat, ok := strategies[link.Kind()]
	if !ok || !safePath(link) {
		return nil
	}
	for _, cand := range strat(c, link) {
		if cand == link.String() {
			continue
		}
		if existing, ok := c.reg.get(cand); ok {
			if !existing.Loaded {
				continue
			}
			c.revisit(existing, source, link.LinkingLevel)
			return existing
		}

		fixed := rc.MustParse(cand)
		loc := c.locate(fixed)
		if loc.state != StateFound {
			continue
		}
		fixed.LinkingLevel = link.LinkingLevel
		fixed.AddReference(source)
		c.reg.addAppendix(fixed)
		if !c.load(fixed, loc) {
			c.bad.Add(link.String(), fixed.String(), "", StateConvertFailed.String())
			continue
		}
		return fixed
	}
	return nil
}

// load converts a located body into the link's article and queues it for
// crawling. It reports false when the body could not be converted.
func (c *Context) load(link *rc.Link, loc location) bool {
	src := relativize(string(loc.body), link, loc.rel)
	html, err := c.converter.ToHTML([]byte(src))
	if err != nil {
		c.logger.Warn("article conversion failed", "link", link.String(), "file", loc.file, "error", err)
		return false
	}

	var title string
	if filepath.Base(loc.file) == bodyFile {
		dir := filepath.Dir(loc.file)
		title = c.readSidecar(filepath.Join(dir, titleFile))
		link.AltTitle = c.readSidecar(filepath.Join(dir, subTitleFile))
	}
	// a leading heading becomes the title unless a sidecar supplied one
	if title == "" {
		if h, ok := markdown.FirstHeading(html); ok {
			title = h.Text
			if strings.TrimSpace(html[:h.Start]) == "" {
				html = markdown.StripHeading(html, h)
			}
		}
	}
	if title != "" {
		link.SetTitle(title)
	}

	link.Article = strings.TrimSpace(html)
	link.Loaded = true
	c.queue = append(c.queue, link)
	return true
}

// readSidecar returns the single-line text of a sidecar file, "" if absent
func (c *Context) readSidecar(file string) string {
	data, err := c.fs.ReadFile(file)
	if err != nil {
		return ""
	}
	s := strings.TrimSpace(string(data))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimLeft(s, "# "))
}

// dequeue drops a link that was replaced in the registry from the worklist
func (c *Context) dequeue(stale *rc.Link) {
	kept := c.queue[:0]
	for _, l := range c.queue {
		if l != stale {
			kept = append(kept, l)
		}
	}
	c.queue = kept
}

// Crawl drains the worklist. Articles deeper than MaxLinkingLevel+1 are
// kept but not scanned.
func (c *Context) Crawl() error {
	if c.reg.sealed {
		return ErrSealed
	}
	for len(c.queue) > 0 {
		link := c.queue[0]
		c.queue = c.queue[1:]

		if !link.Loaded || link.LinkingLevel > c.cfg.MaxLinkingLevel+1 {
			continue
		}
		for _, s := range rc.FindAll(link.Article) {
			target, err := rc.Parse(s, rc.WithLang(c.cfg.Lang))
			if err != nil || !target.Kind().Crawlable() {
				continue
			}
			if target.String() == link.String() {
				continue
			}
			if _, err := c.ResolveAndRegister(target.String(), link); err != nil {
				return fmt.Errorf("crawl %s: %w", link, err)
			}
		}
	}
	return nil
}

// Finalize finishes crawling, binds references between primary articles
// and seals the registry. Calling it again returns the same registry.
func (c *Context) Finalize() (*Registry, error) {
	if c.reg.sealed {
		return c.reg, nil
	}
	if err := c.Crawl(); err != nil {
		return nil, err
	}
	for _, d := range c.deferred {
		if target, ok := c.reg.primary[d.target]; ok {
			target.AddReference(d.source)
		}
	}
	c.deferred = nil
	c.reg.sealed = true

	c.logger.Debug("registry sealed",
		"primary", len(c.reg.primary),
		"appendix", len(c.reg.appendix),
		"bad_links", c.bad.Len())
	return c.reg, nil
}

// projectRoot returns the directory of a project inside a repo root, using
// the container manifest when one can be read.
func (c *Context) projectRoot(root, project string) string {
	rcont, ok := c.containers[root]
	if !ok {
		loaded, err := c.loadRC(root)
		if err != nil {
			c.logger.Debug("container not readable", "root", root, "error", err)
		}
		rcont = loaded
		c.containers[root] = rcont
	}
	if rcont != nil {
		if p, err := rcont.Project(project); err == nil && p != nil {
			return filepath.Join(rcont.Dir(), filepath.FromSlash(p.Path))
		}
	}
	return filepath.Join(root, project)
}

func sourceKey(source *rc.Link) string {
	if source == nil {
		return ""
	}
	return source.String()
}
