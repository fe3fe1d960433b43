// Command sprout expands shell-style placeholders in text from a file,
// an argument, or stdin.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/sproutlang/sprout"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("sprout.cli")

type cliOptions struct {
	configFile string
	vars       []string
	disable    []string
	maxDepth   int
	useEnv     bool
	exec       bool
	verbose    int
}

func main() {
	opts := &cliOptions{maxDepth: -1}

	rootCmd := &cobra.Command{
		Use:   "sprout",
		Short: "Expand shell-style placeholders in text",
		Long: "sprout expands $NAME, ${NAME:-default} and friends in text,\n" +
			"with optional $(cmd) command substitution.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbose, nil)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringArrayVar(&opts.vars, "var", nil, "Variable binding NAME=value (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&opts.disable, "disable", nil,
		"Disable a feature: variables, defaults, alternates, conditionals, escapes, commands, backtick_commands (repeatable)")
	rootCmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", -1, "Maximum recursive expansion depth")
	rootCmd.PersistentFlags().BoolVar(&opts.useEnv, "env", false, "Resolve unbound variables from the environment")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity")

	expandCmd := &cobra.Command{
		Use:   "expand [template]",
		Short: "Expand a template from the argument, a file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd.Context(), opts, args)
		},
	}
	expandCmd.Flags().BoolVar(&opts.exec, "exec", false, "Execute $(cmd) and `cmd` substitutions")

	refsCmd := &cobra.Command{
		Use:   "refs [template]",
		Short: "List the variable names a template references",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			for _, name := range sprout.FindVariableReferences(input) {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(expandCmd, refsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExpand(ctx context.Context, opts *cliOptions, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	engine, err := buildEngine(opts)
	if err != nil {
		return err
	}

	log.Debugf("expanding %d bytes, references: %v", len(input), sprout.FindVariableReferences(input))

	var result string
	if opts.exec {
		if ctx == nil {
			ctx = context.Background()
		}
		result, err = engine.InterpolateCommands(ctx, input)
	} else {
		result, err = engine.Interpolate(input)
	}
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

func buildEngine(opts *cliOptions) (*sprout.Engine, error) {
	cfg := sprout.DefaultConfig()

	if opts.configFile != "" {
		data, err := os.ReadFile(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.configFile, err)
		}
		cfg, err = sprout.ConfigFromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", opts.configFile, err)
		}
		log.Infof("loaded configuration from %s", opts.configFile)
	}

	if opts.maxDepth >= 0 {
		cfg.MaxDepth = opts.maxDepth
	}

	for _, name := range opts.disable {
		switch name {
		case "variables":
			cfg.Features.Variables = false
		case "defaults":
			cfg.Features.Defaults = false
		case "alternates":
			cfg.Features.Alternates = false
		case "conditionals":
			cfg.Features.Conditionals = false
		case "escapes":
			cfg.Features.Escapes = false
		case "commands":
			cfg.Features.Commands = false
		case "backtick_commands":
			cfg.Features.BacktickCommands = false
		default:
			return nil, fmt.Errorf("unknown feature %q", name)
		}
	}

	engineOpts := []sprout.Option{sprout.WithConfig(cfg)}
	if opts.useEnv {
		engineOpts = append(engineOpts, sprout.WithProvider(sprout.EnvProvider{}))
	}

	engine := sprout.New(engineOpts...)
	for _, binding := range opts.vars {
		name, value, ok := strings.Cut(binding, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q, want NAME=value", binding)
		}
		engine.Set(name, value)
	}
	return engine, nil
}

// readInput handles the 3 modes of input:
// 1. Template given as an argument
// 2. Explicit stdin with "-"
// 3. Piped input when no argument is given
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	if len(args) == 0 && !hasPipedInput() {
		return "", fmt.Errorf("no template given and nothing piped to stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// hasPipedInput detects whether data is piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
