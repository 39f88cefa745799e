package loader

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/internal/lib/testutils"
	"github.com/liuxd6825/k6dict/lib/fsext"
)

type errorReader string

func (e errorReader) Read(_ []byte) (int, error) {
	return 0, errors.New((string)(e))
}

var _ io.Reader = errorReader("")

func TestReadSourceSTDIN(t *testing.T) {
	t.Parallel()

	data := []byte(`name: from-stdin`)
	src, err := ReadSource(fsext.NewMemMapFs(), "-", "/path/to/pwd", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, &SourceData{Path: "-", Data: data}, src)

	_, err = ReadSource(fsext.NewMemMapFs(), "-", "", errorReader("1234"))
	require.EqualError(t, err, "1234")
	var ecerr errext.HasExitCode
	require.ErrorAs(t, err, &ecerr)
	assert.Equal(t, exitcodes.InvalidInput, ecerr.ExitCode())
}

func TestReadSourceRelative(t *testing.T) {
	t.Parallel()

	data := []byte(`{"name": "relative"}`)
	fs := testutils.MakeMemMapFs(t, map[string][]byte{"/path/to/somewhere/fix.json": data})
	src, err := ReadSource(fs, "../somewhere/fix.json", "/path/to/pwd", nil)
	require.NoError(t, err)
	assert.Equal(t, &SourceData{Path: "/path/to/somewhere/fix.json", Data: data}, src)
}

func TestReadSourceAbsolute(t *testing.T) {
	t.Parallel()

	data := []byte(`{"name": "absolute"}`)
	fs := testutils.MakeMemMapFs(t, map[string][]byte{
		"/a/b.json":   data,
		"/c/a/b.json": []byte("wrong"),
	})
	src, err := ReadSource(fs, "/a/b.json", "/c", nil)
	require.NoError(t, err)
	assert.Equal(t, &SourceData{Path: "/a/b.json", Data: data}, src)
}

func TestReadSourceMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadSource(fsext.NewMemMapFs(), "some file with spaces.json", "/c", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `the dictionary "some file with spaces.json" couldn't be read`)

	var herr errext.HasHint
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "make sure the path is right and the file is readable", herr.Hint())
}
