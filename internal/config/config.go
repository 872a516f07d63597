package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options holds all configuration for a keycrack run.
type Options struct {
	// Targets
	Targets       []string
	TargetsFile   string
	PresetTargets string // built-in data set name

	// Keyspace
	Mask string // preset name or mask such as "A-Z,A-Z,00-99"

	// Performance
	Workers int

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "yaml", "csv"
	Verbose      bool   // one line per candidate
	Quiet        bool
	NoColor      bool
	Debug        bool
	SortBy       string // "", "target", "ordinal", "explored"
	Summary      bool

	// Resume
	ResumeFile string

	// Hooks
	OnMatchCmd string

	// ConfigFile overrides the keycrack.yaml search.
	ConfigFile string
	// LoadedFrom is the config file Load read, empty when none was found.
	LoadedFrom string
}

// Load merges an optional YAML config file and KEYCRACK_* environment
// variables into opts. Flags set on the command line take precedence over
// both; the file and environment take precedence over flag defaults.
func Load(flags *pflag.FlagSet, opts *Options) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("keycrack")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		opts.LoadedFrom = v.ConfigFileUsed()
	}

	v.SetEnvPrefix("keycrack")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.RegisterAlias("targets", "target")

	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	set := func(key string, fn func(key string)) {
		if flags.Lookup(key) != nil || v.IsSet(key) {
			fn(key)
		}
	}
	set("target", func(k string) { opts.Targets = v.GetStringSlice(k) })
	set("targets-file", func(k string) { opts.TargetsFile = v.GetString(k) })
	set("preset-targets", func(k string) { opts.PresetTargets = v.GetString(k) })
	set("mask", func(k string) { opts.Mask = v.GetString(k) })
	set("workers", func(k string) { opts.Workers = v.GetInt(k) })
	set("output", func(k string) { opts.OutputFile = v.GetString(k) })
	set("format", func(k string) { opts.OutputFormat = v.GetString(k) })
	set("verbose", func(k string) { opts.Verbose = v.GetBool(k) })
	set("quiet", func(k string) { opts.Quiet = v.GetBool(k) })
	set("no-color", func(k string) { opts.NoColor = v.GetBool(k) })
	set("debug", func(k string) { opts.Debug = v.GetBool(k) })
	set("sort", func(k string) { opts.SortBy = v.GetString(k) })
	set("summary", func(k string) { opts.Summary = v.GetBool(k) })
	set("resume-file", func(k string) { opts.ResumeFile = v.GetString(k) })
	set("on-match", func(k string) { opts.OnMatchCmd = v.GetString(k) })
	return nil
}

// Validate checks option combinations that flags alone cannot express.
func (o *Options) Validate() error {
	if len(o.Targets) == 0 && o.TargetsFile == "" && o.PresetTargets == "" {
		return fmt.Errorf("target required: use -T, -l, or --preset-targets")
	}
	switch o.OutputFormat {
	case "", "text", "json", "yaml", "csv":
	default:
		return fmt.Errorf("--format must be one of: text, json, yaml, csv")
	}
	switch o.SortBy {
	case "", "target", "ordinal", "explored":
	default:
		return fmt.Errorf("--sort must be one of: target, ordinal, explored")
	}
	if o.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1")
	}
	if o.Verbose && o.Workers > 1 {
		return fmt.Errorf("--verbose prints candidates in order and needs --workers 1")
	}
	return nil
}
