package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6dict/lib/fsext"
)

// MakeMemMapFs returns an in-memory filesystem holding withFiles, keyed by
// path. Files are created with mode 0o644.
func MakeMemMapFs(t testing.TB, withFiles map[string][]byte) fsext.Fs {
	t.Helper()
	fs := fsext.NewMemMapFs()
	for path, data := range withFiles {
		require.NoError(t, fsext.WriteFile(fs, path, data, 0o644))
	}
	return fs
}
