package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSpeakCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speak [text...]",
		Short: "Read text aloud (default: the latest correction)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpeak(cmd, args, global)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runSpeak(cmd *cobra.Command, args []string, global *globalOptions) error {
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}

	var text string
	if len(args) > 0 {
		text, err = readText(cmd, args)
		if err != nil {
			return err
		}
	} else {
		history := s.History()
		if len(history) == 0 {
			return fmt.Errorf("nothing to read: pass text or run kozh correct first")
		}
		s.LoadHistoryItem(history[0])
		text = s.ResultText()
	}
	return userError(s.SynthesizeSpeech(ctx, text))
}
