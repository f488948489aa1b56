package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/unfoldingWord-dev/tools-sub000/internal/manifest"
	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

const tnManifest = `dublin_core:
  identifier: tn
  type: help
  format: text/markdown
  title: Translation Notes
  language:
    identifier: en
    title: English
projects:
  - identifier: gen
    path: ./gen
    title: Genesis
  - identifier: exo
    path: ./exo
    title: Exodus
`

type testEnv struct {
	cfg     *model.Config
	primary string
	source  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	base := t.TempDir()
	env := testEnv{
		primary: filepath.Join(base, "en_tn"),
		source:  filepath.Join(base, "ult"),
	}
	ta, tw := filepath.Join(base, "en_ta"), filepath.Join(base, "en_tw")

	writeTree(t, env.primary, map[string]string{
		"manifest.yaml": tnManifest,
		"gen/01/01.md":  "# In the beginning\n\nSee [[rc://en/ta/man/translate/figs-metaphor]] and [[rc://en/tw/dict/bible/other/missingterm]].\n",
		"gen/01/02.md":  "# God created\n\nrc://*/tw/dict/bible/kt/god\n",
		"exo/01/01.md":  "# Now these\n",
	})
	writeTree(t, ta, map[string]string{
		"translate/figs-metaphor/01.md": "# Metaphors\n\nSee also [similes](../figs-simile/01.md).\n",
		"translate/figs-simile/01.md":   "# Simile\n",
	})
	writeTree(t, tw, map[string]string{
		"bible/kt/god.md": "# God\n\nThe creator.\n",
	})
	writeTree(t, env.source, map[string]string{
		"gen/01/01.txt": "In the beginning, God created the heavens and the earth.",
		"gen/01/02.txt": "The earth was without form.",
	})

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Resolve.TARoot = ta
	cfg.Resolve.TWRoot = tw
	cfg.Output.ReportFormats = []string{"json", "md", "html", "txt", "pdf"}
	env.cfg = cfg
	return env
}

func newTestPipeline(cfg *model.Config) *Pipeline {
	return NewPipeline(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)
	p := newTestPipeline(env.cfg)

	result, err := p.Generate(context.Background(), Job{
		PrimaryDir:    env.primary,
		Book:          "gen",
		SourceTextDir: env.source,
		Tag:           "v1",
		Commit:        "abc123",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	doc := result.Document
	for _, want := range []string{
		`<a href="#ta-man-translate-figs-metaphor">Metaphors</a>`,
		`<article id="ta-man-translate-figs-metaphor">`,
		`<article id="tw-dict-bible-kt-god">`,
		`<a href="#tw-dict-bible-kt-god">God</a>`,
		`<article id="tn-help-gen-01-01">`,
		`<h2>Genesis 1:1</h2>`,
		`<li><a href="#tn-help-gen-01-01">Genesis 1:1</a></li>`,
		`rc://en/tw/dict/bible/other/missingterm`,
		`<span class="highlight">In the beginning</span>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "[[") {
		t.Error("document still holds [[...]] references")
	}
	if strings.Contains(doc, `<article id="ta-man-translate-figs-simile">`) {
		t.Error("level 2 article inlined")
	}

	rep := result.Report
	if rep.RunID != "en_tn_v1_abc123_gen" {
		t.Errorf("RunID = %q", rep.RunID)
	}
	if rep.Stats.PrimaryLinks != 2 {
		t.Errorf("PrimaryLinks = %d, want 2", rep.Stats.PrimaryLinks)
	}
	if rep.Stats.AppendixLinks != 4 {
		t.Errorf("AppendixLinks = %d, want 4", rep.Stats.AppendixLinks)
	}
	if rep.Stats.Inlined != 2 {
		t.Errorf("Inlined = %d, want 2", rep.Stats.Inlined)
	}
	if len(rep.BadLinks) != 1 || rep.BadLinks[0].Target != "rc://en/tw/dict/bible/other/missingterm" || rep.BadLinks[0].Fix != nil {
		t.Errorf("BadLinks = %+v", rep.BadLinks)
	}
	if len(rep.BadHighlights) != 1 || rep.BadHighlights[0].RC != "rc://en/tn/help/gen/01/02" {
		t.Errorf("BadHighlights = %+v", rep.BadHighlights)
	}
}

func TestGenerateZeroLevels(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Resolve.MaxLinkingLevel = 0
	env.cfg.Resolve.InlineLevel = 0

	result, err := newTestPipeline(env.cfg).Generate(context.Background(), Job{PrimaryDir: env.primary, Book: "gen"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	doc := result.Document
	if strings.Contains(doc, `<section class="appendix">`+"\n<article") {
		t.Error("appendix article inlined at inline level 0")
	}
	if strings.Contains(doc, `href="#ta-man-translate-figs-metaphor"`) {
		t.Error("level 1 link rendered as an anchor at inline level 0")
	}
	if !strings.Contains(doc, "Metaphors") {
		t.Error("level 1 link lost its title")
	}
	// level 1 articles are still crawled, so the simile is found
	if rep := result.Report; rep.Stats.AppendixLinks != 4 || rep.Stats.Inlined != 0 {
		t.Errorf("Stats = %+v", rep.Stats)
	}
}

func TestGenerateAmbiguousProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := newTestPipeline(env.cfg).Generate(context.Background(), Job{PrimaryDir: env.primary})
	if !errors.Is(err, manifest.ErrAmbiguousProject) {
		t.Errorf("error = %v, want ErrAmbiguousProject", err)
	}
}

func TestGenerateUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := newTestPipeline(env.cfg).Generate(context.Background(), Job{PrimaryDir: env.primary, Book: "rev"})
	if !errors.Is(err, manifest.ErrProjectNotFound) {
		t.Errorf("error = %v, want ErrProjectNotFound", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(env.cfg).Generate(ctx, Job{PrimaryDir: env.primary, Book: "gen"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWriteOutputs(t *testing.T) {
	env := newTestEnv(t)
	p := newTestPipeline(env.cfg)

	result, err := p.Generate(context.Background(), Job{PrimaryDir: env.primary, Book: "gen", Commit: "deadbeef"})
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	written, err := p.WriteOutputs(result, out)
	if err != nil {
		t.Fatalf("WriteOutputs() error = %v", err)
	}
	if len(written) != 5 {
		t.Fatalf("wrote %v, want document plus 4 reports", written)
	}

	data, err := os.ReadFile(filepath.Join(out, result.Report.RunID+"_report.json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if decoded.RunID != result.Report.RunID || len(decoded.BadLinks) != 1 {
		t.Errorf("decoded report = %+v", decoded)
	}

	md, err := os.ReadFile(filepath.Join(out, result.Report.RunID+"_report.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "missingterm") {
		t.Error("markdown report does not list the bad link")
	}
}

func TestRunID(t *testing.T) {
	if got := RunID("en", "tn", "v12", "0123456789abcdef", "gen"); got != "en_tn_v12_0123456789_gen" {
		t.Errorf("RunID() = %q", got)
	}
	if got := RunID("en", "tn", "", "abc", ""); got != "en_tn_abc" {
		t.Errorf("RunID() = %q", got)
	}
	got := RunID("pt-br", "tw", "release/1", "", "")
	if !regexp.MustCompile(`^pt-br_tw_release-1_[0-9a-f]{8}$`).MatchString(got) {
		t.Errorf("RunID() = %q", got)
	}
}
