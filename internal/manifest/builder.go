package manifest

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/txaty/go-merkletree"

	"litediff/internal/compare"
	"litediff/internal/config"
	"litediff/internal/fault"
	"litediff/internal/hash"
	"litediff/internal/progress"
	"litediff/internal/walker"
)

// Builder walks and hashes trees into manifests.
type Builder struct {
	fsys     billy.Filesystem
	logger   *slog.Logger
	progress io.Writer
	walker   *walker.Walker
	now      func() time.Time
}

type Option func(*Builder)

// WithFilesystem reads trees from fsys instead of the native filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(b *Builder) {
		b.fsys = fsys
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithProgress renders a hashing progress bar to w.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) {
		b.progress = w
	}
}

// WithClock sets the source of the Created timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		fsys:   walker.NativeFS(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.walker = walker.New(walker.WithFilesystem(b.fsys), walker.WithLogger(b.logger))
	return b
}

// Build walks root and hashes every regular file under it. Any hashing
// failure aborts the build.
func (b *Builder) Build(ctx context.Context, root string, cfg *config.Config) (*Manifest, error) {
	snap, err := b.walker.Walk(ctx, root, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if !snap.Exists {
		b.logger.Warn("root does not exist, recording an empty manifest", "root", root)
	}

	digests, err := b.hashFiles(ctx, snap, cfg.WorkerCount())
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Generator: Generator,
		Created:   b.now().UTC(),
		Root:      root,
		FileRoot:  snap.FileRoot,
		Entries:   make([]Entry, 0, snap.Len()),
	}
	for rel, e := range snap.Entries {
		entry := Entry{Path: rel, Kind: e.Kind.String()}
		if e.IsRegular() {
			entry.Size = e.Size
			entry.Digest = digests[rel]
			m.totalSize += e.Size
		}
		m.Entries = append(m.Entries, entry)
	}
	sortEntries(m.Entries)

	m.Size = formatSize(m.totalSize)
	if m.Digest, err = rootDigest(m.Entries); err != nil {
		return nil, err
	}

	b.logger.Debug("built manifest", "root", root, "entries", len(m.Entries), "digest", m.Digest)
	return m, nil
}

type hashJob struct {
	relPath string
	path    string
}

type hashJobResult struct {
	relPath string
	digest  string
	err     error
}

// hashFiles digests every regular file of snap with a fixed pool of workers.
func (b *Builder) hashFiles(ctx context.Context, snap *walker.Snapshot, numWorkers int) (map[string]string, error) {
	digests := make(map[string]string, snap.Files())
	if snap.Files() == 0 {
		return digests, nil
	}

	var bar *progress.Bar
	if b.progress != nil {
		bar = progress.New(b.progress, "hashing", int64(snap.Files()))
	}

	jobs := make(chan hashJob, snap.Files())
	results := make(chan hashJobResult, snap.Files())

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := ctx.Err(); err != nil {
					results <- hashJobResult{relPath: job.relPath, err: err}
					continue
				}
				digest, err := hash.HashFile(b.fsys, job.path)
				if err != nil {
					err = fault.Read("hash", job.path, err)
				}
				results <- hashJobResult{relPath: job.relPath, digest: digest, err: err}
			}
		}()
	}

	for rel, e := range snap.Entries {
		if e.IsRegular() {
			jobs <- hashJob{relPath: rel, path: snap.Abs(rel)}
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		digests[res.relPath] = res.digest
		bar.Increment(res.relPath)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	bar.Finish()
	return digests, nil
}

// leaf is one manifest entry as a merkle tree data block.
type leaf Entry

func (l leaf) Serialize() ([]byte, error) {
	return []byte(l.Path + "\x00" + l.Kind + "\x00" + l.Digest), nil
}

// rootDigest is the merkle root over the sorted entries. The tree needs at
// least two leaves, so smaller manifests hash their single leaf, or a fixed
// marker when empty.
func rootDigest(entries []Entry) (string, error) {
	switch len(entries) {
	case 0:
		sum, err := hash.XXHashFunc([]byte("empty-tree"))
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(sum), nil
	case 1:
		data, err := leaf(entries[0]).Serialize()
		if err != nil {
			return "", err
		}
		sum, err := hash.XXHashFunc(data)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(sum), nil
	}

	blocks := make([]merkletree.DataBlock, len(entries))
	for i, e := range entries {
		blocks[i] = leaf(e)
	}

	tree, err := merkletree.New(&merkletree.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     merkletree.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}
	return hex.EncodeToString(tree.Root), nil
}

func sortEntries(entries []Entry) {
	order := compare.NewPathOrder()
	slices.SortFunc(entries, func(a, b Entry) int {
		return order.Compare(a.Path, b.Path)
	})
}
