package model

import "time"

// Config is the complete rclink configuration. Field tags serve both the
// YAML written by `rclink config init` and viper's unmarshalling.
type Config struct {
	Resolve     ResolveConfig     `yaml:"resolve" mapstructure:"resolve"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ResolveConfig controls link resolution for a generation run
type ResolveConfig struct {
	Lang            string      `yaml:"lang" mapstructure:"lang"`
	TARoot          string      `yaml:"ta_root" mapstructure:"ta_root"`
	TWRoot          string      `yaml:"tw_root" mapstructure:"tw_root"`
	MaxLinkingLevel int         `yaml:"max_linking_level" mapstructure:"max_linking_level"`
	InlineLevel     int         `yaml:"inline_level" mapstructure:"inline_level"`
	Corrections     Corrections `yaml:"corrections" mapstructure:"corrections"`
}

// Corrections holds historical renames applied when a link has no backing file
type Corrections struct {
	// TWTerms maps a translationWords term to the term it was renamed to
	TWTerms map[string]string `yaml:"tw_terms" mapstructure:"tw_terms"`
	// TAArticles maps a bad translationAcademy slug to "manual/slug"
	TAArticles map[string]string `yaml:"ta_articles" mapstructure:"ta_articles"`
}

// CacheConfig controls the converted-article cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls what a run writes
type OutputConfig struct {
	Dir           string   `yaml:"dir" mapstructure:"dir"`
	ReportFormats []string `yaml:"report_formats" mapstructure:"report_formats"` // json, md, html, txt
	Verbose       bool     `yaml:"verbose" mapstructure:"verbose"`
}

// ConcurrencyConfig controls batch generation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// DefaultCorrections returns the known historical renames
func DefaultCorrections() Corrections {
	return Corrections{
		TWTerms: map[string]string{
			"idol":    "falsegod",
			"witness": "testimony",
		},
		TAArticles: map[string]string{
			"figs-abstractnoun": "translate/figs-abstractnouns",
		},
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Resolve: ResolveConfig{
			MaxLinkingLevel: 1,
			InlineLevel:     1,
			Corrections:     DefaultCorrections(),
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".rclink-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   0,
		},
		Output: OutputConfig{
			Dir:           "./rclink-output",
			ReportFormats: []string{"json", "md"},
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
