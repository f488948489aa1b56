package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/unfoldingWord-dev/tools-sub000/internal/cache"
	"github.com/unfoldingWord-dev/tools-sub000/internal/highlight"
	"github.com/unfoldingWord-dev/tools-sub000/internal/manifest"
	"github.com/unfoldingWord-dev/tools-sub000/internal/markdown"
	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
	"github.com/unfoldingWord-dev/tools-sub000/internal/report"
	"github.com/unfoldingWord-dev/tools-sub000/internal/resolve"
	"github.com/unfoldingWord-dev/tools-sub000/internal/rewrite"
)

// defaultType is the container type of notes when the manifest has none
const defaultType = "help"

// Job describes one document: one project of a primary resource container
type Job struct {
	PrimaryDir    string // resource container with {book}/{chapter}/{chunk}.md
	Book          string // project identifier; empty selects the only project
	SourceTextDir string // optional {book}/{chapter}/{chunk}.txt for highlights
	RepoName      string // overrides the directory name for manifest reconstruction
	Tag           string
	Commit        string
}

// Result is a generated document together with its diagnostics
type Result struct {
	Report   *model.Report
	Document string
	Registry *resolve.Registry
}

// Pipeline orchestrates generation runs. A Pipeline may serve concurrent
// runs; each run gets its own resolution context.
type Pipeline struct {
	config    *model.Config
	converter markdown.Converter
	renderer  *Renderer
	cache     *cache.LayeredCache // nil when caching is disabled
	logger    *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithConverter replaces the Markdown converter
func WithConverter(conv markdown.Converter) Option {
	return func(p *Pipeline) { p.converter = conv }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		config:   cfg,
		renderer: NewRenderer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.converter == nil {
		var c cache.Cache = cache.Nop{}
		if cfg.Cache.Enabled {
			p.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
			c = p.cache
		}
		p.converter = markdown.New(
			markdown.WithCache(c, cfg.Cache.DiskTTL),
			markdown.WithLogger(p.logger),
		)
	}
	return p
}

// Generate runs one job: load the container, convert and scan every chunk,
// crawl the appendix, assemble the document and rewrite its references.
func (p *Pipeline) Generate(ctx context.Context, job Job) (*Result, error) {
	logger := p.logger.With("dir", job.PrimaryDir, "book", job.Book)

	opts := []manifest.Option{manifest.WithLogger(logger)}
	if job.RepoName != "" {
		opts = append(opts, manifest.WithRepoName(job.RepoName))
	}
	container, err := manifest.Load(job.PrimaryDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("load container: %w", err)
	}

	project, err := container.Project(job.Book)
	if err != nil {
		return nil, fmt.Errorf("select project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %q in %s", manifest.ErrProjectNotFound, job.Book, container.Dir())
	}

	res := container.Resource()
	rcfg := p.config.Resolve
	if rcfg.Lang == "" {
		rcfg.Lang = res.Language.Identifier
	}
	if rcfg.Lang == "" {
		rcfg.Lang = "en"
	}

	rctx := resolve.New(resolve.ConfigFromModel(rcfg),
		resolve.WithConverter(p.converter),
		resolve.WithLogger(logger),
	)
	badHighlights := report.NewBadHighlights()
	matcher := highlight.NewMatcher(badHighlights)

	scan := scanner{
		lang:     rcfg.Lang,
		resource: res,
		project:  project,
		job:      job,
		conv:     p.converter,
		matcher:  matcher,
		rctx:     rctx,
	}
	if err := scan.run(ctx, container); err != nil {
		return nil, err
	}

	reg, err := rctx.Finalize()
	if err != nil {
		return nil, fmt.Errorf("finalize registry: %w", err)
	}

	doc, inlined := Assemble(reg)
	rw := rewrite.New(reg)
	doc, err = rw.Rewrite(doc)
	if err != nil {
		return nil, fmt.Errorf("rewrite links: %w", err)
	}

	rep := &model.Report{
		RunID:         RunID(rcfg.Lang, res.Identifier, job.Tag, job.Commit, project.Identifier),
		Lang:          rcfg.Lang,
		Resource:      res.Identifier,
		Book:          project.Identifier,
		Tag:           job.Tag,
		Commit:        job.Commit,
		GeneratedAt:   time.Now().UTC(),
		BadLinks:      rctx.BadLinks().Finalize(),
		BadHighlights: badHighlights.Finalize(),
		Warnings:      container.Warnings(),
	}
	rep.Stats = model.Stats{
		PrimaryLinks:  len(reg.Primary()),
		AppendixLinks: len(reg.Appendix()),
		Inlined:       inlined,
		BadLinks:      len(rep.BadLinks),
		BadHighlights: len(rep.BadHighlights),
	}

	logger.Info("document generated",
		"run_id", rep.RunID,
		"primary", rep.Stats.PrimaryLinks,
		"appendix", rep.Stats.AppendixLinks,
		"bad_links", rep.Stats.BadLinks,
		"passthrough", rw.Stats().Passthrough)
	if p.cache != nil {
		cs := p.cache.Stats()
		logger.Debug("article cache",
			"memory_hits", cs.MemoryHits,
			"disk_hits", cs.DiskHits,
			"misses", cs.Misses)
	}

	return &Result{Report: rep, Document: doc, Registry: reg}, nil
}

// scanner feeds the chunks of one project into the resolver
type scanner struct {
	lang     string
	resource manifest.Resource
	project  *manifest.Project
	job      Job
	conv     markdown.Converter
	matcher  *highlight.Matcher
	rctx     *resolve.Context
}

func (s scanner) run(ctx context.Context, container *manifest.Container) error {
	chapters, err := container.Chapters(s.project.Identifier)
	if err != nil {
		return fmt.Errorf("list chapters: %w", err)
	}
	root, err := container.ProjectPath(s.project.Identifier)
	if err != nil {
		return err
	}

	for _, chapter := range chapters {
		chunks, err := container.Chunks(s.project.Identifier, chapter)
		if err != nil {
			return fmt.Errorf("list chunks of %s: %w", chapter, err)
		}
		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.chunk(filepath.Join(root, chapter, chunk), chapter, chunk); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s scanner) chunk(file, chapter, name string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read chunk: %w", err)
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	typ := s.resource.Type
	if typ == "" {
		typ = defaultType
	}
	link := &rc.Link{
		Lang:     s.lang,
		Resource: s.resource.Identifier,
		Type:     typ,
		Project:  s.project.Identifier,
		Extra:    []string{chapter, stem},
	}

	body, err := s.conv.ToHTML(src)
	if err != nil {
		return fmt.Errorf("convert %s: %w", file, err)
	}

	if text, ok := s.sourceText(chapter, stem); ok {
		phrases := markdown.ATXHeadings(string(src))
		marked := s.matcher.Mark(link.String(), text, phrases)
		body = `<div class="source-text">` + marked + "</div>\n" + body
	}

	link.Article = body
	link.SetTitle(chunkTitle(s.project, chapter, stem))
	return s.rctx.ScanPrimary(link)
}

func (s scanner) sourceText(chapter, stem string) (string, bool) {
	if s.job.SourceTextDir == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(s.job.SourceTextDir, s.project.Identifier, chapter, stem+".txt"))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// chunkTitle labels a chunk "Genesis 1:3"; non-numeric parts are kept as is
func chunkTitle(p *manifest.Project, chapter, chunk string) string {
	book := p.Title
	if book == "" {
		book = manifest.BookTitle(p.Identifier)
	}
	if book == "" {
		book = p.Identifier
	}
	return fmt.Sprintf("%s %s:%s", book, trimNumber(chapter), trimNumber(chunk))
}

func trimNumber(s string) string {
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}

// WriteOutputs writes the document and the configured reports into dir
// and returns the paths written.
func (p *Pipeline) WriteOutputs(result *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Join(dir, result.Report.RunID)

	var written []string
	docPath := base + ".html"
	if err := writeFile(docPath, func(w io.Writer) error {
		_, err := io.WriteString(w, result.Document)
		return err
	}); err != nil {
		return written, fmt.Errorf("write document: %w", err)
	}
	written = append(written, docPath)

	for _, format := range p.config.Output.ReportFormats {
		path, err := p.renderer.Render(result.Report, format, base)
		if err != nil {
			if errors.Is(err, ErrUnknownFormat) {
				p.logger.Warn("skipping report format", "format", format)
				continue
			}
			return written, fmt.Errorf("render %s: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}
