package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/kozh/internal/preset"
)

type translateOptions struct {
	instruction    string
	hasInstruction bool
	swap           bool
}

func newTranslateCmd(global *globalOptions) *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate between Korean and Simplified Chinese",
		Example: `  kozh translate "오늘 날씨 좋다"
  kozh translate -d cn2kr "你好"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasInstruction = cmd.Flags().Changed("instruction")
			return runTranslate(cmd, args, global, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVarP(&opts.instruction, "instruction", "i", "", "Use this instruction instead of the saved one")
	cmd.Flags().BoolVar(&opts.swap, "swap", false, "Reverse the --direction")
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, global *globalOptions, opts *translateOptions) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}
	direction, err := global.parsedDirection()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	if err := s.SetDirection(direction); err != nil {
		return err
	}
	if opts.swap {
		direction = s.SwapDirection()
	}

	instruction := s.Instruction(preset.KindTranslation)
	if opts.hasInstruction {
		instruction = opts.instruction
	}
	pair, err := s.QuickTranslate(ctx, text, direction, instruction)
	if err != nil {
		return userError(err)
	}
	if pair == nil {
		return fmt.Errorf("nothing to translate")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s → %s\n", direction.Source().Name, direction.Target().Name)
	printPair(out, pair)
	return nil
}
