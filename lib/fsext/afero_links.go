// Package fsext wraps afero so the rest of the code base never touches the
// OS filesystem directly and tests can run on memory filesystems.
package fsext

import (
	"io/fs"

	"github.com/spf13/afero"
)

// Fs represents a file system
type Fs = afero.Fs

// FilePathSeparator is the path separator used within a file system
const FilePathSeparator = afero.FilePathSeparator

// NewMemMapFs returns a Fs that is in memory
func NewMemMapFs() Fs {
	return afero.NewMemMapFs()
}

// NewOsFs returns the OS filesystem
func NewOsFs() Fs {
	return afero.NewOsFs()
}

// NewReadOnlyFs wraps fs and fails every write operation.
func NewReadOnlyFs(fs Fs) Fs {
	return afero.NewReadOnlyFs(fs)
}

// WriteFile writes data to filename in fs
func WriteFile(fs Fs, filename string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(fs, filename, data, perm)
}

// ReadFile reads the whole file from fs
func ReadFile(fs Fs, filename string) ([]byte, error) {
	return afero.ReadFile(fs, filename)
}

// Exists checks if path exists in fs
func Exists(fs Fs, path string) (bool, error) {
	return afero.Exists(fs, path)
}

// IsDir checks if path is a directory in fs
func IsDir(fs Fs, path string) (bool, error) {
	return afero.IsDir(fs, path)
}
