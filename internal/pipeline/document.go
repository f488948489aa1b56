package pipeline

import (
	"html"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/resolve"
)

// Assemble lays out the primary articles followed by the appendix articles
// shallow enough to be inlined. References are left as [[rc://...]] for the
// rewriter. It returns the document and the number of inlined articles.
func Assemble(reg *resolve.Registry) (string, int) {
	var b strings.Builder

	b.WriteString("<section class=\"primary\">\n")
	for _, l := range reg.Primary() {
		b.WriteString(`<article id="` + html.EscapeString(l.ID()) + "\">\n")
		b.WriteString("<h2>" + html.EscapeString(l.Label()) + "</h2>\n")
		b.WriteString(l.Article)
		b.WriteString("\n</article>\n")
	}
	b.WriteString("</section>\n")

	inlined := 0
	b.WriteString("<section class=\"appendix\">\n")
	for _, l := range reg.Appendix() {
		if !l.Loaded || l.LinkingLevel > reg.InlineLevel() {
			continue
		}
		inlined++

		b.WriteString(`<article id="` + html.EscapeString(l.ID()) + "\">\n")
		b.WriteString("<h2>" + html.EscapeString(l.Label()) + "</h2>\n")
		if l.AltTitle != "" {
			b.WriteString(`<p class="alt-title">` + html.EscapeString(l.AltTitle) + "</p>\n")
		}
		b.WriteString(l.Article)
		b.WriteString("\n")

		if len(l.References) > 0 {
			b.WriteString("<div class=\"references\">Referenced in:\n<ul>\n")
			for _, ref := range l.References {
				b.WriteString("<li>[[" + ref + "]]</li>\n")
			}
			b.WriteString("</ul>\n</div>\n")
		}
		b.WriteString("</article>\n")
	}
	b.WriteString("</section>\n")

	return b.String(), inlined
}
