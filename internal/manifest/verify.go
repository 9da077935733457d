package manifest

import (
	"context"

	"litediff/internal/compare"
	"litediff/internal/config"
)

// Verify rebuilds the manifest of root and classifies it against saved.
// PathA refers to where saved was recorded, PathB to the live tree.
func (b *Builder) Verify(ctx context.Context, saved *Manifest, root string, cfg *config.Config) ([]compare.DiffEntry, error) {
	current, err := b.Build(ctx, root, cfg)
	if err != nil {
		return nil, err
	}
	if current.Digest == saved.Digest {
		b.logger.Debug("digests match", "digest", current.Digest)
	}
	return Diff(saved, current), nil
}

// Diff classifies every path of two manifests. Files are compared by digest.
func Diff(saved, current *Manifest) []compare.DiffEntry {
	old, cur := saved.Lookup(), current.Lookup()
	onlyOld, onlyCur, both := compare.Partition(old, cur)

	results := make([]compare.DiffEntry, 0, len(onlyOld)+len(onlyCur)+len(both))
	for _, rel := range onlyOld {
		results = append(results, compare.DiffEntry{
			RelativePath: rel,
			PathA:        saved.Abs(rel),
			Status:       compare.Deleted,
			IsDirectory:  old[rel].IsDir(),
		})
	}
	for _, rel := range onlyCur {
		results = append(results, compare.DiffEntry{
			RelativePath: rel,
			PathB:        current.Abs(rel),
			Status:       compare.Added,
			IsDirectory:  cur[rel].IsDir(),
		})
	}
	for _, rel := range both {
		a, b := old[rel], cur[rel]
		entry := compare.DiffEntry{
			RelativePath: rel,
			PathA:        saved.Abs(rel),
			PathB:        current.Abs(rel),
		}
		switch {
		case a.Kind != b.Kind:
			entry.Status = compare.Conflict
			entry.IsDirectory = a.IsDir() || b.IsDir()
		case a.IsDir():
			entry.Status = compare.Unchanged
			entry.IsDirectory = true
		case a.Size != b.Size || a.Digest != b.Digest:
			entry.Status = compare.Modified
		default:
			entry.Status = compare.Unchanged
		}
		results = append(results, entry)
	}

	compare.SortEntries(results)
	return results
}
