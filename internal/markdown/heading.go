package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Heading is the first heading found in an article together with its byte span
type Heading struct {
	Level int
	Text  string
	Start int
	End   int
}

var atxHeading = regexp.MustCompile(`(?m)^ {0,3}(#{1,6})[ \t]+(.*?)[ \t#]*$`)

// FirstHeading returns the first <h1>..<h6> element of s, falling back to
// the first Markdown ATX heading when s holds no HTML heading.
func FirstHeading(s string) (Heading, bool) {
	if h, ok := htmlHeading(s); ok {
		return h, true
	}
	return markdownHeading(s)
}

// StripHeading removes h from s along with the newlines that followed it
func StripHeading(s string, h Heading) string {
	if h.Start < 0 || h.End > len(s) || h.Start >= h.End {
		return s
	}
	return s[:h.Start] + strings.TrimLeft(s[h.End:], "\r\n")
}

// ATXHeadings returns the text of every ATX heading in Markdown source
func ATXHeadings(src string) []string {
	var out []string
	for _, m := range atxHeading.FindAllStringSubmatch(src, -1) {
		if t := strings.TrimSpace(m[2]); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func htmlHeading(s string) (Heading, bool) {
	z := html.NewTokenizer(strings.NewReader(s))

	var (
		h      Heading
		open   string
		text   strings.Builder
		offset int
	)

	for {
		tt := z.Next()
		// Raw must be measured before TagName/Text reuse the buffer
		n := len(z.Raw())

		switch tt {
		case html.ErrorToken:
			return Heading{}, false

		case html.StartTagToken:
			name, _ := z.TagName()
			if open == "" && isHeadingTag(name) {
				open = string(name)
				h = Heading{Level: int(name[1] - '0'), Start: offset}
				text.Reset()
			}

		case html.TextToken:
			if open != "" {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if open != "" && string(name) == open {
				open = ""
				h.End = offset + n
				h.Text = strings.Join(strings.Fields(text.String()), " ")
				if h.Text != "" {
					return h, true
				}
			}
		}

		offset += n
	}
}

func isHeadingTag(name []byte) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

func markdownHeading(s string) (Heading, bool) {
	loc := atxHeading.FindStringSubmatchIndex(s)
	if loc == nil {
		return Heading{}, false
	}
	text := strings.TrimSpace(s[loc[4]:loc[5]])
	if text == "" {
		return Heading{}, false
	}
	return Heading{
		Level: loc[3] - loc[2],
		Text:  text,
		Start: loc[0],
		End:   loc[1],
	}, true
}
