package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/kozh/internal/preset"
)

type instructionOptions struct {
	kind string
}

func newInstructionCmd(global *globalOptions) *cobra.Command {
	opts := instructionOptions{}
	cmd := &cobra.Command{
		Use:   "instruction",
		Short: "Manage the saved correction and translation instructions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstructionShow(cmd, global, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.PersistentFlags().StringVarP(&opts.kind, "kind", "k", string(preset.KindCorrection), "Which instruction: correction or translation")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the saved instruction (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInstructionShow(cmd, global, &opts)
			},
		},
		&cobra.Command{
			Use:   "set <text>",
			Short: "Save a new instruction (an empty string clears it)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInstructionSet(cmd, args[0], global, &opts)
			},
		},
		&cobra.Command{
			Use:   "preset <id>",
			Short: "Replace the instruction with a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInstructionPreset(cmd, args[0], global, &opts)
			},
		},
		&cobra.Command{
			Use:   "presets",
			Short: "List the presets",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInstructionPresets(cmd, &opts)
			},
		},
	)
	for _, sub := range cmd.Commands() {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	return cmd
}

func runInstructionShow(cmd *cobra.Command, global *globalOptions, opts *instructionOptions) error {
	kind, err := preset.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	text := s.Instruction(kind)
	if text == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s instruction saved.\n", kind)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runInstructionSet(cmd *cobra.Command, text string, global *globalOptions, opts *instructionOptions) error {
	kind, err := preset.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	if err := s.SetInstruction(ctx, kind, text); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s instruction.\n", kind)
	return nil
}

func runInstructionPreset(cmd *cobra.Command, id string, global *globalOptions, opts *instructionOptions) error {
	kind, err := preset.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	s, _, err := openSession(ctx, global.cfg)
	if err != nil {
		return err
	}
	if err := s.ApplyPreset(ctx, kind, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %s preset %q.\n", kind, id)
	return nil
}

func runInstructionPresets(cmd *cobra.Command, opts *instructionOptions) error {
	kind, err := preset.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	catalog, err := preset.Builtin()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range catalog.List(kind) {
		fmt.Fprintf(out, "%-12s %s\n", p.ID, p.Label)
		fmt.Fprintf(out, "             %s\n", p.Text)
	}
	return nil
}
