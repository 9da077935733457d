package walker

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"litediff/internal/config"
	"litediff/internal/fault"
)

// Walker enumerates filesystem roots into snapshots.
type Walker struct {
	fsys   billy.Filesystem
	logger *slog.Logger
}

type Option func(*Walker)

// WithFilesystem walks fsys instead of the native filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(w *Walker) {
		w.fsys = fsys
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

func New(opts ...Option) *Walker {
	w := &Walker{
		fsys:   NativeFS(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Filesystem returns the filesystem the walker reads from.
func (w *Walker) Filesystem() billy.Filesystem {
	return w.fsys
}

// Walk enumerates the native filesystem under root.
func Walk(ctx context.Context, root string, cfg *config.Config) (*Snapshot, error) {
	return New().Walk(ctx, root, cfg)
}

// Walk builds the snapshot of root. A missing root yields an empty snapshot;
// any other stat or listing failure aborts the walk with no snapshot.
func (w *Walker) Walk(ctx context.Context, root string, cfg *config.Config) (*Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := newSnapshot(root)

	info, err := w.fsys.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.logger.Debug("root not found", "root", root)
			return snap, nil
		}
		return nil, fault.Read("stat", root, err)
	}
	snap.Exists = true

	switch KindOf(info.Mode()) {
	case RegularFile:
		name := filepath.Base(root)
		snap.FileRoot = true
		snap.Entries[name] = Entry{RelativePath: name, Kind: RegularFile, Size: uint64(info.Size())}
		return snap, nil
	case Other:
		w.logger.Warn("root is neither a file nor a directory", "root", root, "mode", info.Mode().String())
		return snap, nil
	}

	snap.Entries[""] = Entry{Kind: Directory}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount())

	t := &traversal{
		fsys:   w.fsys,
		cfg:    cfg,
		logger: w.logger,
		snap:   snap,
		g:      g,
	}
	g.Go(func() error {
		return t.visit(gctx, root, "")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w.logger.Debug("walked root", "root", root, "entries", snap.Len())
	return snap, nil
}

// traversal is the state of one directory walk. Sibling subtrees are visited
// concurrently while the group has capacity and inline otherwise, so a full
// pool never blocks a parent waiting on its children.
type traversal struct {
	fsys   billy.Filesystem
	cfg    *config.Config
	logger *slog.Logger
	g      *errgroup.Group

	mu   sync.Mutex
	snap *Snapshot
}

func (t *traversal) add(e Entry) {
	t.mu.Lock()
	t.snap.Entries[e.RelativePath] = e
	t.mu.Unlock()
}

func (t *traversal) visit(ctx context.Context, dir, relDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	infos, err := t.fsys.ReadDir(dir)
	if err != nil {
		return fault.Read("readdir", dir, err)
	}

	for _, info := range infos {
		rel := joinRel(relDir, info.Name())

		// Excluded directories are not descended into.
		if t.cfg.Excluded(rel) {
			t.logger.Debug("excluded", "path", rel)
			continue
		}

		switch KindOf(info.Mode()) {
		case Directory:
			t.add(Entry{RelativePath: rel, Kind: Directory})

			child := t.fsys.Join(dir, info.Name())
			if !t.g.TryGo(func() error { return t.visit(ctx, child, rel) }) {
				if err := t.visit(ctx, child, rel); err != nil {
					return err
				}
			}
		case RegularFile:
			t.add(Entry{RelativePath: rel, Kind: RegularFile, Size: uint64(info.Size())})
		default:
			t.logger.Debug("skipping special file", "path", rel, "mode", info.Mode().String())
		}
	}

	return nil
}
