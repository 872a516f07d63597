package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/maxvaer/keycrack/internal/config"
	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/runner"
	"github.com/maxvaer/keycrack/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"target", "targets-file", "preset-targets"}},
	{"KEYSPACE", []string{"mask"}},
	{"PERFORMANCE", []string{"workers"}},
	{"OUTPUT", []string{"output", "format", "verbose", "quiet", "no-color", "debug", "sort", "summary", "on-match"}},
	{"CONFIGURATION", []string{"config", "resume-file"}},
}

var rootCmd = &cobra.Command{
	Use:     "keycrack -T <target> [flags]",
	Short:   "Exhaustive keyspace search against salted crypt(3) digests",
	Version: version.Version,
	Long: `keycrack enumerates every candidate of a small declarative keyspace
(for example two letters followed by two digits) in a fixed odometer order,
hashes each with the target's salt and reports where the match occurred.
The whole keyspace is always explored, so the match ordinal doubles as a
measure of how much work recovery took.`,
	Example: `  keycrack -T '$6$KB$3MiAO5...'
  keycrack --preset-targets two-initial
  keycrack --preset-targets three-initial -w 8 --summary
  keycrack -l hashes.txt -m A-Z,A-Z,A-Z,00-99 -o results.json --format json
  keycrack -T '$6$KB$...' -m K,A-Z,00-99 --verbose
  keycrack -l hashes.txt --resume-file scan.state
  keycrack --preset-targets two-initial --on-match "notify-send {plaintext}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(cmd.Flags(), &opts); err != nil {
			return err
		}
		logging.Setup(os.Stderr, opts.Quiet, opts.Debug)
		if opts.LoadedFrom != "" {
			logging.Debugf("Using config file %s", opts.LoadedFrom)
		}
		if len(opts.Targets) == 0 && opts.TargetsFile == "" && opts.PresetTargets == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
		}
		return opts.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringSliceVarP(&opts.Targets, "target", "T", nil, "Target digest, e.g. '$6$KB$...' (repeatable)")
	f.StringVarP(&opts.TargetsFile, "targets-file", "l", "", "File with one target per line; glob patterns such as hashes/**/*.txt read every match")
	f.Var(newEnumValue(&opts.PresetTargets, "", "two-initial", "three-initial"), "preset-targets", "Built-in target set: two-initial, three-initial")

	// Keyspace
	f.StringVarP(&opts.Mask, "mask", "m", "", "Keyspace preset or mask such as A-Z,A-Z,00-99 (default: matches --preset-targets, else two-initial)")

	// Performance
	f.IntVarP(&opts.Workers, "workers", "w", 1, "Number of workers splitting each keyspace")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.Var(newEnumValue(&opts.OutputFormat, "text", "text", "json", "yaml", "csv"), "format", "Output format: text, json, yaml, csv")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Print every candidate with its digest, marking the match with '#'")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	f.Var(newEnumValue(&opts.SortBy, "", "target", "ordinal", "explored"), "sort", "Sort results: target, ordinal, explored (buffers until scan completes)")
	f.BoolVar(&opts.Summary, "summary", false, "Print a per-target summary table after the scan")

	// Hooks
	f.StringVar(&opts.OnMatchCmd, "on-match", "", "Shell command to run for each recovered plaintext (receives JSON on stdin)")

	// Configuration
	f.StringVar(&opts.ConfigFile, "config", "", "Config file (default: ./keycrack.yaml)")
	f.StringVar(&opts.ResumeFile, "resume-file", "", "File to save/load scan progress for resume")

	rootCmd.AddCommand(newKeyspaceCmd(), newHashCmd(), newVersionCmd())

	// Custom help: categorized flags for the scan command only.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nCommands:\n")
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s%s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// enumValue implements pflag.Value for a string restricted to a fixed set.
type enumValue struct {
	target  *string
	allowed []string
}

func newEnumValue(target *string, def string, allowed ...string) *enumValue {
	*target = def
	return &enumValue{target: target, allowed: allowed}
}

func (v *enumValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range v.allowed {
		if s == a {
			*v.target = s
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(v.allowed, ", "))
}

func (v *enumValue) Type() string { return "string" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
   _                            _
  | | _____ _   _  ___ _ __ __ _| | __
  | |/ / _ \ | | |/ __| '__/ _`+"`"+` | |/ /
  |   <  __/ |_| | (__| | | (_| |   <
  |_|\_\___|\__, |\___|_|  \__,_|_|\_\  %s
            |___/

`, ver)
}
