package pipeline

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeRunChars = regexp.MustCompile(`[^A-Za-z0-9.\-]+`)

// RunID names the outputs of a run: {lang}_{resource}_{tag}_{commit}_{book}.
// Empty parts are skipped; a missing commit is replaced by a short random id
// so unversioned runs never overwrite each other.
func RunID(lang, resource, tag, commit, book string) string {
	if commit == "" {
		commit = strings.SplitN(uuid.NewString(), "-", 2)[0]
	} else if len(commit) > 10 {
		commit = commit[:10]
	}

	var parts []string
	for _, p := range []string{lang, resource, tag, commit, book} {
		if p = unsafeRunChars.ReplaceAllString(p, "-"); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}
