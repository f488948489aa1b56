// Package markdown converts translation-helps Markdown into HTML and pulls
// titles out of converted articles.
package markdown

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/unfoldingWord-dev/tools-sub000/internal/cache"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Converter turns Markdown source into HTML
type Converter interface {
	ToHTML(src []byte) (string, error)
}

// converterName is part of every cache key; change it when the goldmark
// configuration below changes.
const converterName = "goldmark/table+strikethrough/unsafe"

// Goldmark is the default Converter
type Goldmark struct {
	md     goldmark.Markdown
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Goldmark converter
type Option func(*Goldmark)

// WithCache stores converted HTML in c
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(g *Goldmark) {
		if c != nil {
			g.cache = c
			g.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for cache write failures
func WithLogger(l *slog.Logger) Option {
	return func(g *Goldmark) { g.logger = l }
}

// New creates a goldmark converter. Linkify and typographer are left off:
// bare rc:// links must survive as text and quotes must stay verbatim for
// highlight matching.
func New(opts ...Option) *Goldmark {
	g := &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(), // articles embed raw HTML
			),
		),
		cache:  cache.Nop{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ToHTML converts src, consulting the cache first
func (g *Goldmark) ToHTML(src []byte) (string, error) {
	key := cache.Key(converterName, src)
	if out, ok := g.cache.Get(key); ok {
		return out, nil
	}

	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	out := buf.String()
	if err := g.cache.Set(key, out, g.ttl); err != nil {
		g.logger.Warn("cache write failed", "error", err)
	}
	return out, nil
}
