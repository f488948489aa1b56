package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/unfoldingWord-dev/tools-sub000/internal/pipeline"
	"github.com/unfoldingWord-dev/tools-sub000/internal/rc"
	"github.com/unfoldingWord-dev/tools-sub000/internal/resolve"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <rc-link>",
	Short: "Resolve one rc:// link and show what it pulls in",
	Long: `Resolve looks up a single rc:// link against the translationAcademy and
translationWords roots, crawls the article it points to and prints every
registered link with its title, anchor id and linking level, followed by
any bad links.

Example:
  rclink resolve rc://en/ta/man/translate/figs-metaphor --ta ./en_ta
  rclink resolve rc://*/tw/dict/bible/kt/god --tw ./en_tw --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	addResolveFlags(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	rctx := resolve.New(resolve.ConfigFromModel(cfg.Resolve))
	if _, err := rctx.ResolveAndRegister(args[0], nil); err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	reg, err := rctx.Finalize()
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	fmt.Println(linkTable(reg.All()).Render())

	if bad := rctx.BadLinks().Finalize(); len(bad) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d bad link(s)\n", len(bad))
		fmt.Fprintln(os.Stderr, pipeline.BadLinkTable(bad).Render())
	}
	return nil
}

// linkTable lays out registered links one per row
func linkTable(links []*rc.Link) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Link", "Title", "ID", "Level", "Status"})
	for _, l := range links {
		title := l.Title()
		if l.AltTitle != "" {
			title += " (" + l.AltTitle + ")"
		}
		tw.AppendRow(table.Row{l.String(), title, l.ID(), l.LinkingLevel, linkStatus(l)})
	}
	return tw
}

func linkStatus(l *rc.Link) string {
	switch {
	case l.AliasOf != "":
		return "→ " + l.AliasOf
	case l.Loaded:
		return "found"
	default:
		return "missing"
	}
}
