package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"litediff/internal/compare"
	"litediff/internal/config"
	"litediff/internal/report"
)

const (
	exitUnchanged = 0
	exitDifferent = 1
	exitFailure   = 2
)

// exitError ends the process with code without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	verbose     bool
	workers     int
	exclude     []string
	maxFileSize uint64
	timeout     time.Duration
	progress    bool
	color       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "litediff",
		Short: "Compare directory trees.",
		Long: `Compare two directory trees and classify every path as unchanged,
modified, added, deleted or conflict.

Exit status is 0 when nothing differs, 1 when differences were found and 2 on
failure.

Example: litediff compare ./build-old ./build-new -x "**/*.log"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file path (default: litediff/config.yaml in the XDG config dirs)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug details to stderr")
	pf.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU()*2, "Number of worker goroutines")
	pf.StringArrayVarP(&opts.exclude, "exclude", "x", nil, "Glob of relative paths to skip, added to the config file's list (repeatable)")
	pf.Uint64Var(&opts.maxFileSize, "max-file-size", config.DefaultMaxFileSize, "Equal-sized files larger than this many bytes are not read")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Give up after this long (0 waits forever)")
	pf.BoolVar(&opts.progress, "progress", false, "Show a progress bar on stderr")
	pf.StringVar(&opts.color, "color", "auto", "Colorize text output: auto, always or never")

	cmd.AddCommand(
		newCompareCmd(opts),
		newSnapshotCmd(opts),
		newVerifyCmd(opts),
	)
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

// loadConfig reads the config file and lays explicitly set flags over it.
func (o *rootOptions) loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.Locate()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, o.exclude...)
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSize = o.maxFileSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) context(parent context.Context) (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(parent, o.timeout)
	}
	return context.WithCancel(parent)
}

// progressWriter is where progress bars go, or nil when they are off.
func (o *rootOptions) progressWriter(cmd *cobra.Command) io.Writer {
	if !o.progress {
		return nil
	}
	return cmd.ErrOrStderr()
}

func (o *rootOptions) renderer(w io.Writer) (*lipgloss.Renderer, error) {
	r := lipgloss.NewRenderer(w)
	switch o.color {
	case "auto":
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("invalid --color value %q: want auto, always or never", o.color)
	}
	return r, nil
}

// outputOptions control how a result list is printed.
type outputOptions struct {
	json          bool
	hideUnchanged bool
}

func (o *outputOptions) register(flags *pflag.FlagSet) {
	flags.BoolVar(&o.json, "json", false, "Print results as JSON")
	flags.BoolVar(&o.hideUnchanged, "hide-unchanged", false, "Leave unchanged paths out of the text report")
}

// print writes entries and turns differences into exit status 1.
func (o *outputOptions) print(root *rootOptions, w io.Writer, entries []compare.DiffEntry) error {
	if o.json {
		if err := report.WriteJSON(w, entries); err != nil {
			return err
		}
	} else {
		r, err := root.renderer(w)
		if err != nil {
			return err
		}
		var opts []report.Option
		if o.hideUnchanged {
			opts = append(opts, report.HideUnchanged())
		}
		fmt.Fprint(w, report.New(r, opts...).Format(entries))
	}

	if compare.HasChanges(entries) {
		return &exitError{code: exitDifferent}
	}
	return nil
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}
