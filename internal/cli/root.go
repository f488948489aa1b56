package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unfoldingWord-dev/tools-sub000/internal/logging"
	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rclink",
	Short: "rclink - resolve rc:// links and build study documents",
	Long: `rclink turns a resource container of notes into a single HTML document.

Every rc:// reference in the notes is resolved against translationAcademy
and translationWords repositories. Referenced articles are crawled for
further references and collected into an appendix, and every reference is
rewritten into an in-document anchor or plain text.

Links that cannot be resolved are reported, together with the correction
that was applied when a historical rename was found.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of rclink.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rclink v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.rclink/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.rclink")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// RCLINK_RESOLVE_TA_ROOT overrides resolve.ta_root
	viper.SetEnvPrefix("RCLINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so environment variables can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("resolve.lang", cfg.Resolve.Lang)
	viper.SetDefault("resolve.ta_root", cfg.Resolve.TARoot)
	viper.SetDefault("resolve.tw_root", cfg.Resolve.TWRoot)
	viper.SetDefault("resolve.max_linking_level", cfg.Resolve.MaxLinkingLevel)
	viper.SetDefault("resolve.inline_level", cfg.Resolve.InlineLevel)
	viper.SetDefault("resolve.corrections.tw_terms", cfg.Resolve.Corrections.TWTerms)
	viper.SetDefault("resolve.corrections.ta_articles", cfg.Resolve.Corrections.TAArticles)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("output.dir", cfg.Output.Dir)
	viper.SetDefault("output.report_formats", cfg.Output.ReportFormats)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.format", cfg.Logging.Format)
}

// loadConfig merges defaults, config file, environment and global flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}
