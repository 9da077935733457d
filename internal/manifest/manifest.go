// Package manifest records a walked tree with per-file digests and a merkle
// root, and checks live trees against saved records.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"litediff/internal/fault"
	"litediff/internal/walker"
)

const Generator = "litediff"

// Entry is one recorded path. Digest is set for regular files only.
type Entry struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Size   uint64 `json:"size"`
	Digest string `json:"digest,omitempty"`
}

func (e Entry) IsDir() bool {
	return e.Kind == walker.Directory.String()
}

// Manifest is a serializable record of one tree.
type Manifest struct {
	Generator string    `json:"generator"`
	Created   time.Time `json:"created"`
	Root      string    `json:"root"`
	FileRoot  bool      `json:"fileRoot,omitempty"`
	Size      string    `json:"size"`
	Digest    string    `json:"digest"`
	Entries   []Entry   `json:"entries"`

	totalSize uint64
}

// TotalSize is the sum of all recorded file sizes.
func (m *Manifest) TotalSize() uint64 {
	return m.totalSize
}

// Lookup indexes the entries by path.
func (m *Manifest) Lookup() map[string]Entry {
	out := make(map[string]Entry, len(m.Entries))
	for _, e := range m.Entries {
		out[e.Path] = e
	}
	return out
}

// Abs returns the location rel was recorded at.
func (m *Manifest) Abs(rel string) string {
	if m.FileRoot || rel == "" {
		return m.Root
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

func formatSize(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Save writes m as indented JSON, creating the parent directory if needed.
func Save(fsys billy.Filesystem, m *Manifest, name string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if dir := filepath.Dir(name); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fault.Write("mkdir", dir, err)
		}
	}
	if err := util.WriteFile(fsys, name, data, 0o644); err != nil {
		return fault.Write("write", name, err)
	}
	return nil
}

// Load reads a manifest written by Save. A missing file is reported as
// NOT_FOUND.
func Load(fsys billy.Filesystem, name string) (*Manifest, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fault.New(fault.CodeNotFound, "load manifest", name, err)
		}
		return nil, fault.Read("load manifest", name, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest %s: %w", name, err)
	}

	for _, e := range m.Entries {
		if e.Kind == walker.RegularFile.String() {
			m.totalSize += e.Size
		}
	}
	return &m, nil
}

// Files counts the recorded regular files.
func (m *Manifest) Files() int {
	n := 0
	for _, e := range m.Entries {
		if e.Kind == walker.RegularFile.String() {
			n++
		}
	}
	return n
}
