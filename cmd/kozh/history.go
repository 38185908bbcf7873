package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/oukeidos/kozh/internal/files"
	"github.com/oukeidos/kozh/internal/logger"
	"github.com/oukeidos/kozh/internal/session"
)

// listWidth is how many characters of each text history list shows.
const listWidth = 24

func newHistoryCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show, clear or export saved corrections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, global)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved corrections, newest first (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryList(cmd, global)
			},
		},
		newHistoryShowCmd(global),
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every saved correction",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryClear(cmd, global)
			},
		},
		&cobra.Command{
			Use:   "export <file.json>",
			Short: "Write saved corrections to a JSON file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHistoryExport(cmd, args[0], global)
			},
		},
	)
	for _, sub := range cmd.Commands() {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	return cmd
}

func runHistoryList(cmd *cobra.Command, global *globalOptions) error {
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	history := s.History()
	if len(history) == 0 {
		fmt.Fprintln(out, "No saved corrections.")
		return nil
	}
	for i, rec := range history {
		when := ""
		if rec.CreatedAt != nil {
			when = rec.CreatedAt.Local().Format("2006-01-02 15:04") + "  "
		}
		fmt.Fprintf(out, "%2d. %s%s → %s\n", i+1, when, clip(rec.Original), clip(rec.Corrected))
	}
	return nil
}

// clip shortens s to listWidth user-perceived characters on one line.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if uniseg.GraphemeClusterCount(s) <= listWidth {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < listWidth && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String() + "…"
}

type historyShowOptions struct {
	translate bool
	speak     bool
}

func newHistoryShowCmd(global *globalOptions) *cobra.Command {
	opts := historyShowOptions{}
	cmd := &cobra.Command{
		Use:   "show <n>",
		Short: "Show one saved correction (1 is the newest)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, args[0], global, &opts)
		},
	}
	cmd.Flags().BoolVar(&opts.translate, "translate", false, "Translate it into Simplified Chinese")
	cmd.Flags().BoolVar(&opts.speak, "speak", false, "Read it aloud")
	return cmd
}

func runHistoryShow(cmd *cobra.Command, arg string, global *globalOptions, opts *historyShowOptions) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid history number %q", arg)
	}
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	history := s.History()
	if n < 1 || n > len(history) {
		return fmt.Errorf("history number must be between 1 and %d", len(history))
	}
	rec := history[n-1]
	s.LoadHistoryItem(rec)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Original: %s\n", rec.Original)
	fmt.Fprintf(out, "Corrected: %s\n", rec.Corrected)
	fmt.Fprintf(out, "Explanation: %s\n", rec.Explanation)

	if opts.translate {
		pair, err := s.TranslateResult(ctx)
		if err != nil {
			return userError(err)
		}
		if pair == nil {
			logger.Warn("Skipping translation: no API key configured")
		} else {
			printPair(out, pair)
		}
	}
	if opts.speak {
		return userError(s.SynthesizeSpeech(ctx, s.ResultText()))
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, global *globalOptions) error {
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	count := len(s.History())
	ok, err := newConfirmer().ConfirmClearHistory(count, global.yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
		return nil
	}
	if err := s.ClearHistory(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d saved correction(s).\n", count)
	return nil
}

func runHistoryExport(cmd *cobra.Command, path string, global *globalOptions) error {
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	history := s.History()
	if history == nil {
		history = []session.CorrectionRecord{}
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	target, exists, err := files.SafePath(path)
	if err != nil {
		return err
	}
	if exists {
		ok, err := newConfirmer().ConfirmOverwrite(path, global.yes)
		if err != nil {
			return err
		}
		if ok {
			target = path
		}
	}
	if err := files.AtomicWrite(target, data, 0600); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d correction(s) to %s\n", len(history), target)
	return nil
}
