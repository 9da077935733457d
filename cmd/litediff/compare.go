package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"litediff/internal/compare"
)

type compareOptions struct {
	outputOptions
	ignoreContents   bool
	ignoreEndOfLine  bool
	ignoreWhitespace bool
}

func newCompareCmd(root *rootOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare two directory trees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, root, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.ignoreContents, "ignore-contents", false, "Compare files by size only")
	f.BoolVar(&opts.ignoreEndOfLine, "ignore-eol", false, "Treat CRLF and LF line endings as equal")
	f.BoolVar(&opts.ignoreWhitespace, "ignore-whitespace", false, "Ignore leading and trailing whitespace on each line")
	opts.register(f)

	return cmd
}

func runCompare(cmd *cobra.Command, root *rootOptions, opts *compareOptions, left, right string) error {
	flags := cmd.Flags()
	cfg, err := root.loadConfig(flags)
	if err != nil {
		return err
	}
	if flags.Changed("ignore-contents") {
		cfg.IgnoreContents = opts.ignoreContents
	}
	if flags.Changed("ignore-eol") {
		cfg.IgnoreEndOfLine = opts.ignoreEndOfLine
	}
	if flags.Changed("ignore-whitespace") {
		cfg.IgnoreTrimWhitespace = opts.ignoreWhitespace
	}

	absLeft, err := absPath(left)
	if err != nil {
		return err
	}
	absRight, err := absPath(right)
	if err != nil {
		return err
	}

	ctx, cancel := root.context(cmd.Context())
	defer cancel()

	logger := root.logger(cmd.ErrOrStderr())
	copts := []compare.Option{compare.WithLogger(logger)}
	if w := root.progressWriter(cmd); w != nil {
		copts = append(copts, compare.WithProgress(w))
	}

	logger.Debug("comparing", "left", absLeft, "right", absRight, "workers", cfg.WorkerCount())
	entries, err := compare.New(copts...).Compare(ctx, absLeft, absRight, cfg)
	if err != nil {
		return fmt.Errorf("failed to compare: %w", err)
	}

	return opts.print(root, cmd.OutOrStdout(), entries)
}
