package compare

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"litediff/internal/config"
	"litediff/internal/progress"
	"litediff/internal/walker"
)

// Comparer reconciles two walked trees into a sorted result list. It holds no
// state between calls and may be shared.
type Comparer struct {
	fsys     billy.Filesystem
	logger   *slog.Logger
	progress io.Writer
	walker   *walker.Walker
}

type Option func(*Comparer)

// WithFilesystem compares trees on fsys instead of the native filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(c *Comparer) {
		c.fsys = fsys
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparer) {
		c.logger = logger
	}
}

// WithProgress renders a progress bar for content comparisons to w.
func WithProgress(w io.Writer) Option {
	return func(c *Comparer) {
		c.progress = w
	}
}

func New(opts ...Option) *Comparer {
	c := &Comparer{
		fsys:   walker.NativeFS(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.walker = walker.New(walker.WithFilesystem(c.fsys), walker.WithLogger(c.logger))
	return c
}

// Compare compares two roots on the native filesystem.
func Compare(ctx context.Context, rootA, rootB string, cfg *config.Config) ([]DiffEntry, error) {
	return New().Compare(ctx, rootA, rootB, cfg)
}

// pendingRead is a file pair whose status needs a content read.
type pendingRead struct {
	index        int
	relPath      string
	pathA, pathB string
}

// Compare walks rootA and rootB and classifies every path found under either.
// Any failure, including cancellation, returns no entries.
func (c *Comparer) Compare(ctx context.Context, rootA, rootB string, cfg *config.Config) ([]DiffEntry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var snapA, snapB *walker.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := c.walker.Walk(gctx, rootA, cfg)
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", rootA, err)
		}
		snapA = snap
		return nil
	})
	g.Go(func() error {
		snap, err := c.walker.Walk(gctx, rootB, cfg)
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", rootB, err)
		}
		snapB = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, snap := range []*walker.Snapshot{snapA, snapB} {
		if !snap.Exists {
			c.logger.Warn("root does not exist, treating it as empty", "root", snap.Root)
		}
	}

	results, pending := reconcile(snapA, snapB, cfg)
	c.logger.Debug("reconciled snapshots",
		"left", snapA.Len(), "right", snapB.Len(), "results", len(results), "content_reads", len(pending))

	if err := c.resolve(ctx, results, pending, cfg); err != nil {
		return nil, err
	}

	SortEntries(results)
	return results, nil
}

// reconcile classifies every path of both snapshots. Regular file pairs that
// cannot be settled from sizes are returned as pending reads with a
// placeholder status.
func reconcile(snapA, snapB *walker.Snapshot, cfg *config.Config) ([]DiffEntry, []pendingRead) {
	onlyA, onlyB, both := Partition(snapA.Entries, snapB.Entries)

	results := make([]DiffEntry, 0, len(onlyA)+len(onlyB)+len(both))
	var pending []pendingRead

	for _, rel := range onlyA {
		results = append(results, DiffEntry{
			RelativePath: rel,
			PathA:        snapA.Abs(rel),
			Status:       Deleted,
			IsDirectory:  snapA.Entries[rel].IsDir(),
		})
	}

	for _, rel := range both {
		a, b := snapA.Entries[rel], snapB.Entries[rel]
		entry := DiffEntry{
			RelativePath: rel,
			PathA:        snapA.Abs(rel),
			PathB:        snapB.Abs(rel),
		}

		switch {
		case a.IsDir() && b.IsDir():
			entry.Status = Unchanged
			entry.IsDirectory = true
		case a.IsRegular() && b.IsRegular():
			modified, decided := sizeVerdict(a, b, cfg)
			entry.Status = statusOf(modified)
			if !decided {
				pending = append(pending, pendingRead{
					index:   len(results),
					relPath: rel,
					pathA:   entry.PathA,
					pathB:   entry.PathB,
				})
			}
		default:
			entry.Status = Conflict
			entry.IsDirectory = a.IsDir() || b.IsDir()
		}

		results = append(results, entry)
	}

	for _, rel := range onlyB {
		results = append(results, DiffEntry{
			RelativePath: rel,
			PathB:        snapB.Abs(rel),
			Status:       Added,
			IsDirectory:  snapB.Entries[rel].IsDir(),
		})
	}

	return results, pending
}

// resolve reads pending file pairs with at most cfg.Workers reads in flight.
// Each read writes only its own result slot.
func (c *Comparer) resolve(ctx context.Context, results []DiffEntry, pending []pendingRead, cfg *config.Config) error {
	if len(pending) == 0 {
		return nil
	}

	var bar *progress.Bar
	if c.progress != nil {
		bar = progress.New(c.progress, "comparing", int64(len(pending)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount())

	for _, p := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			modified, err := contentModified(c.fsys, p.pathA, p.pathB, cfg)
			if err != nil {
				return err
			}
			results[p.index].Status = statusOf(modified)
			bar.Increment(p.relPath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	bar.Finish()
	return nil
}

func statusOf(modified bool) Status {
	if modified {
		return Modified
	}
	return Unchanged
}
