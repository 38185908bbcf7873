package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/kozh/internal/logger"
	"github.com/oukeidos/kozh/internal/preset"
)

type correctOptions struct {
	instruction    string
	hasInstruction bool
	translate      bool
	speak          bool
}

func newCorrectCmd(global *globalOptions) *cobra.Command {
	opts := correctOptions{}
	cmd := &cobra.Command{
		Use:   "correct [text...]",
		Short: "Correct Korean text (reads stdin without arguments)",
		Example: `  kozh correct "저 한국에서 사는 중국인 프리랜서다"
  kozh correct --tone casual --translate < draft.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasInstruction = cmd.Flags().Changed("instruction")
			return runCorrect(cmd, args, global, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVarP(&opts.instruction, "instruction", "i", "", "Use this instruction instead of the saved one")
	cmd.Flags().BoolVar(&opts.translate, "translate", false, "Also translate the result into Simplified Chinese")
	cmd.Flags().BoolVar(&opts.speak, "speak", false, "Read the result aloud")
	return cmd
}

func runCorrect(cmd *cobra.Command, args []string, global *globalOptions, opts *correctOptions) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}
	tone, err := global.parsedTone()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}

	instruction := s.Instruction(preset.KindCorrection)
	if opts.hasInstruction {
		instruction = opts.instruction
	}
	rec, err := s.Correct(ctx, text, instruction, tone)
	if err != nil {
		return userError(err)
	}
	if rec == nil {
		return fmt.Errorf("nothing to correct")
	}

	out := cmd.OutOrStdout()
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
		if err := s.SynthesizeSpeech(ctx, s.ResultText()); err != nil {
			return userError(err)
		}
	}
	return nil
}
