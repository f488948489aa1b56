// Package resolve discovers rc:// references in converted content, locates
// the articles they point to and crawls those articles for further
// references. One Context serves one generation run.
package resolve

import (
	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
)

// Config holds the per-run resolution settings
type Config struct {
	Lang            string
	Roots           map[rc.Kind]string // repo root per crawlable kind
	MaxLinkingLevel int                // articles deeper than MaxLinkingLevel+1 are not crawled; 0 is valid
	InlineLevel     int                // links at or below this level become anchors; 0 anchors primary content only
	Corrections     model.Corrections
}

// ConfigFromModel builds a Config from the application configuration
func ConfigFromModel(cfg model.ResolveConfig) Config {
	c := Config{
		Lang:            cfg.Lang,
		Roots:           map[rc.Kind]string{},
		MaxLinkingLevel: cfg.MaxLinkingLevel,
		InlineLevel:     cfg.InlineLevel,
		Corrections:     cfg.Corrections,
	}
	if cfg.TARoot != "" {
		c.Roots[rc.KindTA] = cfg.TARoot
	}
	if cfg.TWRoot != "" {
		c.Roots[rc.KindTW] = cfg.TWRoot
	}
	return c.withDefaults()
}

// withDefaults fills in missing roots and corrections. Negative levels are
// clamped to 0; level defaults come from model.DefaultConfig.
func (c Config) withDefaults() Config {
	if c.MaxLinkingLevel < 0 {
		c.MaxLinkingLevel = 0
	}
	if c.InlineLevel < 0 {
		c.InlineLevel = 0
	}
	if c.Roots == nil {
		c.Roots = map[rc.Kind]string{}
	}
	if c.Corrections.TWTerms == nil && c.Corrections.TAArticles == nil {
		c.Corrections = model.DefaultCorrections()
	}
	return c
}
