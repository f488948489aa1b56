package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
)

// ErrUnknownFormat is returned by Render for an unsupported report format
var ErrUnknownFormat = errors.New("unknown report format")

// Renderer writes run reports
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes report in format next to base and returns the file path
func (r *Renderer) Render(report *model.Report, format, base string) (string, error) {
	var (
		path   string
		render func(*model.Report, string) error
	)
	switch strings.ToLower(format) {
	case "json":
		path, render = base+"_report.json", r.RenderJSON
	case "md", "markdown":
		path, render = base+"_report.md", r.RenderMarkdown
	case "html":
		path, render = base+"_bad_links.html", r.RenderHTML
	case "txt", "text":
		path, render = base+"_bad_links.txt", r.RenderText
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return path, render(report, path)
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}

// RenderMarkdown writes a human-readable Markdown report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		fmt.Fprintf(w, "# Link report: %s\n\n", report.RunID)
		fmt.Fprintf(w, "Generated %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

		fmt.Fprintf(w, "## Summary\n\n%s\n\n", statsTable(report.Stats).RenderMarkdown())

		fmt.Fprintf(w, "## Bad links (%d)\n\n", len(report.BadLinks))
		if len(report.BadLinks) > 0 {
			fmt.Fprintf(w, "%s\n\n", BadLinkTable(report.BadLinks).RenderMarkdown())
		} else {
			fmt.Fprint(w, "None.\n\n")
		}

		fmt.Fprintf(w, "## Bad highlights (%d)\n\n", len(report.BadHighlights))
		for _, h := range report.BadHighlights {
			fmt.Fprintf(w, "### %s\n\n> %s\n\n", h.RC, h.SourceText)
			for _, p := range h.Phrases {
				if p.Fix != nil {
					fmt.Fprintf(w, "- `%s` → `%s`\n", p.Phrase, *p.Fix)
				} else {
					fmt.Fprintf(w, "- `%s` (not found)\n", p.Phrase)
				}
			}
			fmt.Fprintln(w)
		}

		if len(report.Warnings) > 0 {
			fmt.Fprint(w, "## Warnings\n\n")
			for _, warn := range report.Warnings {
				fmt.Fprintf(w, "- %s\n", warn)
			}
		}
		return nil
	})
}

// RenderHTML writes the bad links and bad highlights as an HTML page
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		title := html.EscapeString(report.RunID)
		fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Bad links: %s</title></head><body>\n", title)
		fmt.Fprintf(w, "<h1>Bad links: %s</h1>\n", title)
		fmt.Fprintln(w, BadLinkTable(report.BadLinks).RenderHTML())

		fmt.Fprintln(w, "<h2>Bad highlights</h2>")
		for _, h := range report.BadHighlights {
			fmt.Fprintf(w, "<h3>%s</h3>\n<blockquote>%s</blockquote>\n<ul>\n", html.EscapeString(h.RC), html.EscapeString(h.SourceText))
			for _, p := range h.Phrases {
				fix := "<em>not found</em>"
				if p.Fix != nil {
					fix = html.EscapeString(*p.Fix)
				}
				fmt.Fprintf(w, "<li>%s &rarr; %s</li>\n", html.EscapeString(p.Phrase), fix)
			}
			fmt.Fprintln(w, "</ul>")
		}
		fmt.Fprintln(w, "</body></html>")
		return nil
	})
}

// RenderText writes the bad links as a plain text table
func (r *Renderer) RenderText(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		fmt.Fprintf(w, "%s\n\n%s\n", report.RunID, BadLinkTable(report.BadLinks).Render())
		for _, h := range report.BadHighlights {
			for _, p := range h.Phrases {
				fix := "-"
				if p.Fix != nil {
					fix = *p.Fix
				}
				fmt.Fprintf(w, "%s\t%q\t%s\n", h.RC, p.Phrase, fix)
			}
		}
		return nil
	})
}

// RenderSummary prints a short run summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\n%s\n", report.RunID)
	fmt.Fprintln(w, statsTable(report.Stats).Render())
	if n := len(report.Warnings); n > 0 {
		fmt.Fprintf(w, "%d manifest warning(s)\n", n)
	}
}

// BadLinkTable lays out bad links one per row
func BadLinkTable(links []model.BadLink) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Source", "Target", "Fix", "State"})
	for _, l := range links {
		fix := "-"
		if l.Fix != nil {
			fix = *l.Fix
		}
		tw.AppendRow(table.Row{l.Source, l.Target, fix, l.State})
	}
	return tw
}

func statsTable(s model.Stats) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Primary", "Appendix", "Inlined", "Bad links", "Bad highlights"})
	tw.AppendRow(table.Row{s.PrimaryLinks, s.AppendixLinks, s.Inlined, s.BadLinks, s.BadHighlights})
	return tw
}

// writeFile writes through a temp file and renames it into place
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rclink-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
