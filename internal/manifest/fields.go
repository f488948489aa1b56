package manifest

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// view is what a fallback lookup sees: the parsed document plus the
// location it was loaded from.
type view struct {
	doc      doc
	dir      string
	repoName string
}

// lookup is one step of a fallback chain; "" means "try the next step"
type lookup func(v view) string

// chain is an ordered fallback list. Order is part of the contract.
type chain []lookup

func (c chain) resolve(v view) string {
	for _, f := range c {
		if s := f(v); s != "" {
			return s
		}
	}
	return ""
}

func at(path ...string) lookup {
	return func(v view) string { return v.doc.str(path...) }
}

func dc(path ...string) lookup {
	return at(append([]string{"dublin_core"}, path...)...)
}

func constant(s string) lookup {
	return func(view) string { return s }
}

// whenFiles yields value if any file under the container matches pattern
func whenFiles(pattern, value string) lookup {
	return func(v view) string {
		if v.dir == "" {
			return ""
		}
		matches, err := doublestar.Glob(os.DirFS(v.dir), pattern)
		if err != nil || len(matches) == 0 {
			return ""
		}
		return value
	}
}

// fromRepoName yields the resource identifier implied by a repo-name suffix
func fromRepoName(v view) string {
	if s, ok := parseRepoSuffix(v.repoName); ok {
		return s.identifier
	}
	return ""
}

var (
	formatChain = chain{
		dc("format"),
		at("content_mime_type"),
		at("format"),
		at("resource", "format"),
		whenFiles("**/*.usfm", "text/usfm"),
		whenFiles("**/*.md", "text/markdown"),
	}

	typeChain = chain{
		dc("type"),
		at("resource", "type"),
		at("type", "id"),
		at("type"),
	}

	identifierChain = chain{
		dc("identifier"),
		at("identifier"),
		at("id"),
		at("slug"),
		at("resource", "id"),
		at("resource", "slug"),
		fromRepoName,
	}

	titleChain = chain{
		dc("title"),
		at("title"),
		at("name"),
		at("resource", "name"),
		at("resource", "title"),
	}

	subjectChain   = chain{dc("subject"), at("subject")}
	versionChain   = chain{dc("version"), at("version"), at("resource", "status", "version")}
	publisherChain = chain{dc("publisher"), at("publisher")}
	issuedChain    = chain{dc("issued"), at("issued"), at("resource", "status", "pub_date")}
	modifiedChain  = chain{dc("modified"), at("modified"), at("modified_at")}
	conformsChain  = chain{dc("conformsto"), at("conformsto"), constant("pre-rc")}
	rightsChain    = chain{dc("rights"), at("rights"), at("license")}

	languageIDChain = chain{
		dc("language", "identifier"),
		at("language", "identifier"),
		at("language", "id"),
		at("language", "slug"),
		at("target_language", "id"),
		at("lang"),
		at("language"),
	}

	languageTitleChain = chain{
		dc("language", "title"),
		at("language", "title"),
		at("language", "name"),
		at("target_language", "name"),
	}

	languageDirectionChain = chain{
		dc("language", "direction"),
		at("language", "direction"),
		at("language", "dir"),
		at("target_language", "direction"),
		constant("ltr"),
	}

	checkingLevelChain = chain{
		at("checking", "checking_level"),
		at("resource", "status", "checking_level"),
		at("checking_level"),
	}

	projectIDChain    = chain{at("identifier"), at("id"), at("slug"), at("project_id")}
	projectTitleChain = chain{at("title"), at("name")}
)

// formatAliases maps legacy bare format names to MIME types
var formatAliases = map[string]string{
	"usfm":     "text/usfm",
	"markdown": "text/markdown",
	"md":       "text/markdown",
	"txt":      "text/plain",
	"text":     "text/plain",
}

// fileExts maps a MIME type to the extension of its content files
var fileExts = map[string]string{
	"text/usfm":     "usfm",
	"text/usfm3":    "usfm",
	"text/markdown": "md",
	"text/plain":    "txt",
	"text/x-usfm":   "usfm",
	"text/html":     "html",
}

func normalizeFormat(f string) string {
	if alias, ok := formatAliases[strings.ToLower(f)]; ok {
		return alias
	}
	return f
}

// Language describes the language of a resource
type Language struct {
	Identifier string `yaml:"identifier" json:"identifier"`
	Title      string `yaml:"title,omitempty" json:"title,omitempty"`
	Direction  string `yaml:"direction,omitempty" json:"direction,omitempty"`
}

// Resource is the container-level metadata after every fallback applied
type Resource struct {
	Identifier string   `yaml:"identifier" json:"identifier"`
	Title      string   `yaml:"title" json:"title"`
	Type       string   `yaml:"type,omitempty" json:"type,omitempty"`
	Format     string   `yaml:"format,omitempty" json:"format,omitempty"`
	FileExt    string   `yaml:"file_ext,omitempty" json:"file_ext,omitempty"`
	Subject    string   `yaml:"subject,omitempty" json:"subject,omitempty"`
	Version    string   `yaml:"version,omitempty" json:"version,omitempty"`
	Publisher  string   `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Issued     string   `yaml:"issued,omitempty" json:"issued,omitempty"`
	Modified   string   `yaml:"modified,omitempty" json:"modified,omitempty"`
	ConformsTo string   `yaml:"conformsto" json:"conformsto"`
	Rights     string   `yaml:"rights,omitempty" json:"rights,omitempty"`
	Language   Language `yaml:"language" json:"language"`
}

func resourceOf(v view) Resource {
	format := normalizeFormat(formatChain.resolve(v))
	return Resource{
		Identifier: strings.ToLower(identifierChain.resolve(v)),
		Title:      titleChain.resolve(v),
		Type:       typeChain.resolve(v),
		Format:     format,
		FileExt:    fileExts[format],
		Subject:    subjectChain.resolve(v),
		Version:    versionChain.resolve(v),
		Publisher:  publisherChain.resolve(v),
		Issued:     issuedChain.resolve(v),
		Modified:   modifiedChain.resolve(v),
		ConformsTo: conformsChain.resolve(v),
		Rights:     rightsChain.resolve(v),
		Language: Language{
			Identifier: languageIDChain.resolve(v),
			Title:      languageTitleChain.resolve(v),
			Direction:  languageDirectionChain.resolve(v),
		},
	}
}

// projectOf normalizes one projects[] entry. Identifier and path are
// always filled in.
func projectOf(v view, item doc, res Resource) Project {
	pv := view{doc: item, dir: v.dir, repoName: v.repoName}

	p := Project{
		Identifier:    strings.ToLower(projectIDChain.resolve(pv)),
		Path:          item.str("path"),
		Title:         projectTitleChain.resolve(pv),
		Categories:    item.stringList("categories"),
		Versification: item.str("versification"),
	}
	if n, err := strconv.Atoi(item.str("sort")); err == nil {
		p.Sort = n
	}
	if p.Identifier == "" {
		p.Identifier = res.Identifier
	}
	if p.Title == "" {
		p.Title = res.Title
	}
	if p.Path == "" {
		p.Path = defaultProjectPath(v.dir, p.Identifier)
	}
	return p
}

// defaultProjectPath uses ./<id> when that directory exists, otherwise the
// container root (single-project legacy repos keep chapters at the top).
func defaultProjectPath(dir, id string) string {
	if dir != "" && id != "" {
		if info, err := os.Stat(filepath.Join(dir, id)); err == nil && info.IsDir() {
			return "./" + id
		}
	}
	return "./"
}
