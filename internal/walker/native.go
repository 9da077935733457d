package walker

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// nativeFS is a billy.Filesystem that acts like the native filesystem:
// paths are used as given, absolute or relative to the working directory.
type nativeFS struct {
	osfs.ChrootOS
}

// Chroot returns a new filesystem rooted at the provided path.
func (n *nativeFS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem.
func (n *nativeFS) Root() string {
	return "/"
}

// NativeFS returns the native filesystem. It is the default for walkers,
// comparers and manifest builders.
func NativeFS() billy.Filesystem {
	return &nativeFS{}
}
