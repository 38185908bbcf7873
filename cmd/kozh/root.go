package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/kozh/internal/cleanup"
	"github.com/oukeidos/kozh/internal/config"
	"github.com/oukeidos/kozh/internal/logger"
	"github.com/oukeidos/kozh/internal/version"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	logger.Debug("Releasing resources", "count", cleanup.Pending())
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		logger.Error("Releasing resources failed", "error", cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags. cfg is filled in before any
// subcommand runs.
type globalOptions struct {
	configPath string
	store      string
	backend    string
	model      string
	speech     string
	tone       string
	direction  string
	debug      bool
	logFile    string
	allowEnv   bool
	yes        bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "kozh",
		Short: "Korean correction and Korean-Chinese translation assistant",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && !isSubcommand(cmd, args[0]) {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)
	addGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(
		newCorrectCmd(opts),
		newTranslateCmd(opts),
		newSpeakCmd(opts),
		newHistoryCmd(opts),
		newInstructionCmd(opts),
		newEnvCmd(opts),
		newVersionCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}
	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet, opts *globalOptions) {
	fs.StringVar(&opts.configPath, "config", "", "Path to config.yml (default ~/.kozh/config.yml)")
	fs.StringVar(&opts.store, "store", "", "Storage backend: file, sqlite, valkey, memory or fyne")
	fs.StringVar(&opts.backend, "backend", "", "Model backend: gemini or openai")
	fs.StringVarP(&opts.model, "model", "m", "", "Model ID (default depends on backend)")
	fs.StringVar(&opts.speech, "speech", "", "Speech engine: local, remote or none")
	fs.StringVarP(&opts.tone, "tone", "t", "polite", "Correction tone: polite or casual")
	fs.StringVarP(&opts.direction, "direction", "d", "kr2cn", "Quick translation direction: kr2cn or cn2kr")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&opts.logFile, "log-file", "", "Append JSONL logs to this file (rotated)")
	fs.BoolVar(&opts.allowEnv, "allow-env", false, "Allow GEMINI_API_KEY / OPENAI_API_KEY from the environment")
	fs.BoolVarP(&opts.yes, "yes", "y", false, "Answer yes to confirmation questions")
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
