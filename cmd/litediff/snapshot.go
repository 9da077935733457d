package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"litediff/internal/manifest"
	"litediff/internal/walker"
)

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot <root>",
		Short: "Record a tree's digests in a JSON manifest",
		Long: `Walk a tree, hash every file and write a JSON manifest with a merkle root
digest. Without --output the manifest is written to output/<digest>.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, root, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Manifest file to write")

	return cmd
}

func runSnapshot(cmd *cobra.Command, root *rootOptions, dir, output string) error {
	cfg, err := root.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	absDir, err := absPath(dir)
	if err != nil {
		return err
	}

	ctx, cancel := root.context(cmd.Context())
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Scanning directory: %s\n", absDir)

	b := manifest.NewBuilder(
		manifest.WithLogger(root.logger(stderr)),
		manifest.WithProgress(root.progressWriter(cmd)),
	)
	m, err := b.Build(ctx, absDir, cfg)
	if err != nil {
		return fmt.Errorf("failed to build manifest: %w", err)
	}

	if output == "" {
		output = filepath.Join("output", m.Digest+".json")
	}
	if err := manifest.Save(walker.NativeFS(), m, output); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Manifest written\n")
	fmt.Fprintf(out, "  Root digest: %s\n", m.Digest)
	fmt.Fprintf(out, "  Files: %d (%s)\n", m.Files(), m.Size)
	fmt.Fprintf(out, "  Output: %s\n", output)
	return nil
}
