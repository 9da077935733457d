package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"litediff/internal/manifest"
	"litediff/internal/walker"
)

func newVerifyCmd(root *rootOptions) *cobra.Command {
	opts := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "verify <manifest.json> <root>",
		Short: "Compare a tree against a saved manifest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, root, opts, args[0], args[1])
		},
	}
	opts.register(cmd.Flags())

	return cmd
}

func runVerify(cmd *cobra.Command, root *rootOptions, opts *outputOptions, manifestPath, dir string) error {
	cfg, err := root.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	saved, err := manifest.Load(walker.NativeFS(), manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	absDir, err := absPath(dir)
	if err != nil {
		return err
	}

	ctx, cancel := root.context(cmd.Context())
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Loaded manifest of %s (digest: %s)\n", saved.Root, saved.Digest)

	b := manifest.NewBuilder(
		manifest.WithLogger(root.logger(stderr)),
		manifest.WithProgress(root.progressWriter(cmd)),
	)
	entries, err := b.Verify(ctx, saved, absDir, cfg)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", absDir, err)
	}

	return opts.print(root, cmd.OutOrStdout(), entries)
}
