package resolve

import (
	"path"
	"regexp"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
)

// mdLinkTarget matches the target of a Markdown link to another .md file
var mdLinkTarget = regexp.MustCompile(`\]\(\s*([^)\s]+?\.md)\s*\)`)

// relativize rewrites relative Markdown links in an article into rc strings
// scoped to the same resource. bodyRel is the article's body path relative
// to the resource root.
func relativize(src string, l *rc.Link, bodyRel string) string {
	base := path.Dir(bodyRel)
	return mdLinkTarget.ReplaceAllStringFunc(src, func(m string) string {
		sub := mdLinkTarget.FindStringSubmatch(m)
		target := sub[1]
		if strings.Contains(target, "://") || strings.HasPrefix(target, "/") {
			return m
		}

		joined := path.Join(base, target)
		if joined == ".." || strings.HasPrefix(joined, "../") {
			return m
		}
		joined = strings.TrimSuffix(joined, "/"+bodyFile)
		joined = strings.TrimSuffix(joined, ".md")

		link := rc.Scheme + path.Join(l.Lang, l.Resource, l.Type, joined)
		return strings.Replace(m, target, link, 1)
	})
}
