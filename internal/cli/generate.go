package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
	"github.com/unfoldingWord-dev/tools-sub000/internal/pipeline"
)

var (
	lang          string
	book          string
	taRoot        string
	twRoot        string
	sourceText    string
	outDir        string
	tag           string
	commit        string
	repoName      string
	maxLevel      int
	inlineLevel   int
	noCache       bool
	reportFormats []string
	timeout       time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <primary-dir>",
	Short: "Generate the study document of one book",
	Long: `Generate converts every chunk of one project in a primary resource
container, resolves the rc:// links it contains, crawls the referenced
translationAcademy and translationWords articles and writes:
- {run-id}.html with the notes followed by the appendix
- the bad-link and highlight reports in the configured formats

Example:
  rclink generate ./en_tn --book gen --ta ./en_ta --tw ./en_tw
  rclink generate ./en_tn --book gen --source-text ./en_ult --tag v12
  rclink generate ./en_tn --report-format json,md,html --max-level 2`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addResolveFlags(generateCmd)
	addOutputFlags(generateCmd)
	generateCmd.Flags().StringVar(&book, "book", "", "project to generate (default: the only project)")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall generation timeout")
}

// addResolveFlags registers the flags that shape link resolution
func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lang, "lang", "", "language of the run (default: from the manifest)")
	cmd.Flags().StringVar(&taRoot, "ta", "", "translationAcademy repository root")
	cmd.Flags().StringVar(&twRoot, "tw", "", "translationWords repository root")
	cmd.Flags().IntVar(&maxLevel, "max-level", 1, "deepest linking level whose articles are crawled")
	cmd.Flags().IntVar(&inlineLevel, "inline-level", 1, "deepest linking level rendered as an anchor")
}

// addOutputFlags registers the flags that shape what a run writes
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceText, "source-text", "", "source-text container for highlighting")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: from config)")
	cmd.Flags().StringVar(&tag, "tag", "", "release tag used in the run id")
	cmd.Flags().StringVar(&commit, "commit", "", "commit used in the run id")
	cmd.Flags().StringVar(&repoName, "repo-name", "", "repository name used when the container has no manifest")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the converted-article cache")
	cmd.Flags().StringSliceVar(&reportFormats, "report-format", nil, "report formats (json, md, html, txt)")
}

// applyFlags overrides cfg with every flag the user set
func applyFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Resolve.Lang = lang
	}
	if flags.Changed("ta") {
		cfg.Resolve.TARoot = taRoot
	}
	if flags.Changed("tw") {
		cfg.Resolve.TWRoot = twRoot
	}
	if flags.Changed("max-level") {
		cfg.Resolve.MaxLinkingLevel = maxLevel
	}
	if flags.Changed("inline-level") {
		cfg.Resolve.InlineLevel = inlineLevel
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("report-format") {
		cfg.Output.ReportFormats = reportFormats
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}

// baseJob builds the job fields shared by generate and batch
func baseJob(primaryDir string) pipeline.Job {
	return pipeline.Job{
		PrimaryDir:    primaryDir,
		SourceTextDir: sourceText,
		RepoName:      repoName,
		Tag:           tag,
		Commit:        commit,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	job := baseJob(args[0])
	job.Book = book

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Primary:     %s\n", job.PrimaryDir)
		fmt.Fprintf(os.Stderr, "Book:        %s\n", job.Book)
		fmt.Fprintf(os.Stderr, "tA root:     %s\n", cfg.Resolve.TARoot)
		fmt.Fprintf(os.Stderr, "tW root:     %s\n", cfg.Resolve.TWRoot)
		fmt.Fprintf(os.Stderr, "Max level:   %d\n", cfg.Resolve.MaxLinkingLevel)
		fmt.Fprintf(os.Stderr, "Cache:       %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "⚙️  Resolving links...\n")
	}

	p := pipeline.NewPipeline(cfg)
	result, err := p.Generate(ctx, job)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	written, err := p.WriteOutputs(result, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}

	pipeline.NewRenderer().RenderSummary(os.Stderr, result.Report)
	if cfg.Output.Verbose && len(result.Report.BadLinks) > 0 {
		fmt.Fprintln(os.Stderr, pipeline.BadLinkTable(result.Report.BadLinks).Render())
	}
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
