package fsext

import (
	"path/filepath"
)

// Abs returns an absolute representation of path. A relative path is joined
// with root, which is assumed to be a directory. Paths starting with a slash
// count as absolute on every OS, so `\users\noname` works on windows too.
func Abs(root, path string) string {
	if path == "" {
		return filepath.Clean(FilePathSeparator + root)
	}
	if path[0] != '/' && path[0] != '\\' && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	if path[0:1] != FilePathSeparator {
		path = FilePathSeparator + path
	}

	return path
}
