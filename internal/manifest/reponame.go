package manifest

import (
	"regexp"
	"strings"
)

type repoSuffix struct {
	identifier string
	subject    string
	level      string
}

var (
	repoToken       = regexp.MustCompile(`[A-Za-z0-9]+`)
	repoSuffixRegex = regexp.MustCompile(`_(ta|tn|tq|tw)(?:_l(\d))?$`)
)

var suffixSubjects = map[string]string{
	"ta": "Translation Academy",
	"tn": "Translation Notes",
	"tq": "Translation Questions",
	"tw": "Translation Words",
}

func parseRepoSuffix(name string) (repoSuffix, bool) {
	m := repoSuffixRegex.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return repoSuffix{}, false
	}
	return repoSuffix{identifier: m[1], subject: suffixSubjects[m[1]], level: m[2]}, true
}

// manifestFromRepoName reconstructs a minimal manifest from a repository name such
// as "en_ulb_gen" or "fr_tw_l3". Anything not recognized stays absent.
func manifestFromRepoName(name string) doc {
	dublin := map[string]any{}
	var projects []any

	for _, token := range repoToken.FindAllString(strings.ToLower(name), -1) {
		if _, set := dublin["language"]; !set {
			if token == "en" {
				dublin["language"] = map[string]any{"identifier": "en", "title": "English", "direction": "ltr"}
				continue
			}
			if l, ok := lookupLanguage(token); ok {
				dublin["language"] = map[string]any{"identifier": l.code, "title": l.name, "direction": l.direction}
				continue
			}
		}
		if b, ok := lookupBook(token); ok {
			projects = append(projects, map[string]any{
				"identifier": b.code,
				"title":      b.name,
				"sort":       b.sort,
			})
		}
	}

	d := doc{}
	if s, ok := parseRepoSuffix(name); ok {
		dublin["identifier"] = s.identifier
		dublin["subject"] = s.subject
		dublin["format"] = "text/markdown"
		if s.level != "" {
			d["checking"] = map[string]any{"checking_level": s.level}
		}
	}

	if len(dublin) > 0 {
		d["dublin_core"] = dublin
	}
	if len(projects) > 0 {
		d["projects"] = projects
	}
	return d
}
