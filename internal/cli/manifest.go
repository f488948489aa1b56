package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/unfoldingWord-dev/tools-sub000/internal/manifest"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest <dir>",
	Short: "Print the normalized manifest of a resource container",
	Long: `Manifest loads a resource container the way generate does and prints the
normalized manifest as YAML. Containers without a readable manifest are
described from their repository name and layout.

Example:
  rclink manifest ./en_tn
  rclink manifest ./checkout --repo-name en_gen_tn_l3`,
	Args: cobra.ExactArgs(1),
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().StringVar(&repoName, "repo-name", "", "repository name used when the container has no manifest")
}

func runManifest(cmd *cobra.Command, args []string) error {
	var opts []manifest.Option
	if repoName != "" {
		opts = append(opts, manifest.WithRepoName(repoName))
	}
	container, err := manifest.Load(args[0], opts...)
	if err != nil {
		return fmt.Errorf("load container: %w", err)
	}

	source := container.Source()
	if source == "" {
		source = "(derived from repository name)"
	}
	fmt.Fprintf(os.Stderr, "Manifest source: %s\n", source)
	for _, w := range container.Warnings() {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", w)
	}
	fmt.Fprintln(os.Stderr)

	data, err := yaml.Marshal(container.Manifest())
	if err != nil {
		return fmt.Errorf("error marshaling manifest: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
