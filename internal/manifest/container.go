package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// candidates lists the manifest files tried, in order
var candidates = []struct {
	name  string
	parse func([]byte) (doc, error)
}{
	{"manifest.yaml", parseYAML},
	{"manifest.json", parseJSON},
	{"package.json", parseJSON},
	{"project.json", parseJSON},
	{"meta.json", parseJSON},
}

// chunkExts are the extensions of chunk files inside a chapter directory
var chunkExts = map[string]bool{
	"":      true,
	".txt":  true,
	".text": true,
	".md":   true,
	".usfm": true,
}

// Project is one normalized projects[] entry
type Project struct {
	Identifier    string   `yaml:"identifier" json:"identifier"`
	Path          string   `yaml:"path" json:"path"`
	Title         string   `yaml:"title,omitempty" json:"title,omitempty"`
	Sort          int      `yaml:"sort,omitempty" json:"sort,omitempty"`
	Categories    []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Versification string   `yaml:"versification,omitempty" json:"versification,omitempty"`
}

// Checking is the normalized checking block
type Checking struct {
	Level  string   `yaml:"checking_level,omitempty" json:"checking_level,omitempty"`
	Entity []string `yaml:"checking_entity,omitempty" json:"checking_entity,omitempty"`
}

// DublinCore is the normalized dublin_core block
type DublinCore struct {
	Resource    `yaml:",inline"`
	Contributor []string `yaml:"contributor,omitempty" json:"contributor,omitempty"`
}

// Manifest is the uniform RC 0.2 view of whatever manifest was found
type Manifest struct {
	DublinCore DublinCore `yaml:"dublin_core" json:"dublin_core"`
	Checking   Checking   `yaml:"checking" json:"checking"`
	Projects   []Project  `yaml:"projects" json:"projects"`
}

// Container is a resource container directory with its normalized manifest
type Container struct {
	dir      string
	source   string
	warnings []string
	manifest Manifest
	logger   *slog.Logger
}

// Option configures Load
type Option func(*loadOptions)

type loadOptions struct {
	repoName string
	logger   *slog.Logger
}

// WithRepoName sets the name used for heuristic reconstruction instead of
// the directory's base name.
func WithRepoName(name string) Option {
	return func(o *loadOptions) { o.repoName = name }
}

// WithLogger sets the logger for parse warnings
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) { o.logger = logger }
}

// Load reads the resource container at dir. Malformed or missing manifests
// are not errors: they are recorded as warnings and the manifest is
// reconstructed from the repository name. Only a missing directory fails.
func Load(dir string, opts ...Option) (*Container, error) {
	o := loadOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve container path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open container: %w", &os.PathError{Op: "open", Path: abs, Err: fmt.Errorf("not a directory")})
	}
	if o.repoName == "" {
		o.repoName = filepath.Base(abs)
	}

	c := &Container{dir: abs, logger: o.logger}

	var parsed doc
	for _, cand := range candidates {
		data, err := os.ReadFile(filepath.Join(abs, cand.name))
		if err != nil {
			continue
		}
		d, err := cand.parse(data)
		if err != nil {
			c.warn(cand.name, err)
			continue
		}
		if len(d) == 0 {
			c.warn(cand.name, fmt.Errorf("empty manifest"))
			continue
		}
		parsed, c.source = d, cand.name
		break
	}
	if parsed == nil {
		parsed = manifestFromRepoName(o.repoName)
		c.source = ""
	}

	c.manifest = normalize(view{doc: parsed, dir: abs, repoName: o.repoName})
	return c, nil
}

func (c *Container) warn(file string, err error) {
	msg := fmt.Sprintf("%s: %v", file, err)
	c.warnings = append(c.warnings, msg)
	c.logger.Warn("manifest parse failed", "dir", c.dir, "file", file, "error", err)
}

func parseYAML(data []byte) (doc, error) {
	var d map[string]any
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return doc(d), nil
}

func parseJSON(data []byte) (doc, error) {
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return doc(d), nil
}

func normalize(v view) Manifest {
	res := resourceOf(v)

	m := Manifest{
		DublinCore: DublinCore{
			Resource:    res,
			Contributor: contributors(v.doc),
		},
		Checking: Checking{
			Level:  checkingLevelChain.resolve(v),
			Entity: v.doc.stringList("checking", "checking_entity"),
		},
	}
	if len(m.Checking.Entity) == 0 {
		m.Checking.Entity = v.doc.stringList("checkers")
	}

	for _, item := range projectItems(v.doc) {
		m.Projects = append(m.Projects, projectOf(v, item, res))
	}
	return m
}

func contributors(d doc) []string {
	if out := d.stringList("dublin_core", "contributor"); len(out) > 0 {
		return out
	}
	return d.stringList("translators")
}

// projectItems returns the projects list, or the single tS "project" object
func projectItems(d doc) []doc {
	var out []doc
	for _, item := range d.list("projects") {
		if m, ok := asMap(item); ok {
			out = append(out, doc(m))
		}
	}
	if len(out) == 0 {
		if p := d.sub("project"); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Dir returns the absolute container directory
func (c *Container) Dir() string { return c.dir }

// Source returns the manifest file that was used, or "" when reconstructed
func (c *Container) Source() string { return c.source }

// Warnings returns the parse problems met while loading
func (c *Container) Warnings() []string { return c.warnings }

// Manifest returns the normalized manifest
func (c *Container) Manifest() Manifest { return c.manifest }

// Resource returns the normalized container-level metadata
func (c *Container) Resource() Resource { return c.manifest.DublinCore.Resource }

// Projects returns the projects. A container with none reports a single
// placeholder project named after the resource.
func (c *Container) Projects() []Project {
	if len(c.manifest.Projects) > 0 {
		return c.manifest.Projects
	}
	res := c.Resource()
	return []Project{{
		Identifier: res.Identifier,
		Title:      res.Title,
		Path:       defaultProjectPath(c.dir, res.Identifier),
	}}
}

// Project returns the project with the given identifier. With an empty id
// the single project is returned; more than one is an AmbiguousProjectError.
// An unknown id yields nil, nil.
func (c *Container) Project(id string) (*Project, error) {
	projects := c.Projects()
	if id == "" {
		if len(projects) == 1 {
			return &projects[0], nil
		}
		ids := make([]string, len(projects))
		for i, p := range projects {
			ids[i] = p.Identifier
		}
		return nil, &AmbiguousProjectError{Dir: c.dir, IDs: ids}
	}
	id = strings.ToLower(id)
	for i := range projects {
		if projects[i].Identifier == id {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// ProjectPath returns the absolute directory of a project. Unknown ids
// fall back to dir/id.
func (c *Container) ProjectPath(id string) (string, error) {
	p, err := c.Project(id)
	if err != nil {
		return "", err
	}
	if p == nil {
		return filepath.Join(c.dir, strings.ToLower(id)), nil
	}
	return filepath.Join(c.dir, filepath.FromSlash(p.Path)), nil
}

// Chapters returns the chapter directories of a project that hold at least
// one non-empty chunk, in numeric order.
func (c *Container) Chapters(projectID string) ([]string, error) {
	root, err := c.ProjectPath(projectID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", projectID, err)
	}

	var chapters []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		chunks, err := c.chunksIn(dir)
		if err != nil || !anyNonEmpty(dir, chunks) {
			continue
		}
		chapters = append(chapters, e.Name())
	}
	sort.Slice(chapters, func(i, j int) bool {
		pi, pj := padded(chapters[i]), padded(chapters[j])
		if pi != pj {
			return pi < pj
		}
		return chapters[i] < chapters[j]
	})
	return chapters, nil
}

// Chunks returns the chunk file names of a chapter, sorted by name
func (c *Container) Chunks(projectID, chapterID string) ([]string, error) {
	root, err := c.ProjectPath(projectID)
	if err != nil {
		return nil, err
	}
	return c.chunksIn(filepath.Join(root, chapterID))
}

func (c *Container) chunksIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read chapter: %w", err)
	}
	var chunks []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !chunkExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		chunks = append(chunks, name)
	}
	sort.Strings(chunks)
	return chunks, nil
}

// anyNonEmpty reports whether at least one of the named files has content
func anyNonEmpty(dir string, names []string) bool {
	for _, name := range names {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.Size() > 0 {
			return true
		}
	}
	return false
}

// padded left-pads numeric names to width 3 so "10" sorts after "9".
// Non-numeric names ("front") sort before every chapter.
func padded(name string) string {
	if _, err := strconv.Atoi(name); err != nil {
		return "0" + name
	}
	if len(name) < 3 {
		name = strings.Repeat("0", 3-len(name)) + name
	}
	return "1" + name
}
