package walker

import (
	"io/fs"
	"path"
	"path/filepath"
)

// Kind is the type of a filesystem entry, decided once when it is walked.
type Kind uint8

const (
	Other Kind = iota
	Directory
	RegularFile
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "dir"
	case RegularFile:
		return "file"
	default:
		return "other"
	}
}

// KindOf classifies a file mode.
func KindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return RegularFile
	default:
		return Other
	}
}

type Entry struct {
	RelativePath string
	Kind         Kind
	Size         uint64
}

func (e Entry) IsDir() bool     { return e.Kind == Directory }
func (e Entry) IsRegular() bool { return e.Kind == RegularFile }

// Snapshot maps /-separated relative paths to entries for one root.
// The empty key is the root directory itself.
type Snapshot struct {
	Root string
	// Exists is false when the root was not found; Entries is then empty.
	Exists bool
	// FileRoot is set when Root is a regular file. Its single entry is keyed
	// by the file's base name.
	FileRoot bool
	Entries  map[string]Entry
}

func newSnapshot(root string) *Snapshot {
	return &Snapshot{
		Root:    root,
		Entries: make(map[string]Entry),
	}
}

// Abs returns the path of the entry at relPath on the walked filesystem.
func (s *Snapshot) Abs(relPath string) string {
	if s.FileRoot {
		return s.Root
	}
	if relPath == "" {
		return s.Root
	}
	return filepath.Join(s.Root, filepath.FromSlash(relPath))
}

func (s *Snapshot) Len() int {
	return len(s.Entries)
}

// Files counts regular-file entries.
func (s *Snapshot) Files() int {
	n := 0
	for _, e := range s.Entries {
		if e.IsRegular() {
			n++
		}
	}
	return n
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
