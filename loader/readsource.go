package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/lib/fsext"
)

// SourceData is the content of a dictionary together with where it came
// from. Path is "-" for data read from stdin.
type SourceData struct {
	Path string
	Data []byte
}

// ReadSource reads src from fs, relative to pwd unless it's absolute. The
// name "-" stands for stdin.
func ReadSource(fs fsext.Fs, src, pwd string, stdin io.Reader) (*SourceData, error) {
	if src == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errext.WithExitCodeIfNone(err, exitcodes.InvalidInput)
		}
		return &SourceData{Path: src, Data: data}, nil
	}

	if src == "" {
		return nil, errext.WithExitCodeIfNone(errors.New("a dictionary path is required"), exitcodes.InvalidInput)
	}

	path := fsext.Abs(pwd, src)
	data, err := fsext.ReadFile(fs, path)
	if err != nil {
		err = fmt.Errorf("the dictionary %q couldn't be read: %w", src, err)
		return nil, errext.WithExitCodeIfNone(
			errext.WithHint(err, "make sure the path is right and the file is readable"), exitcodes.InvalidInput)
	}
	return &SourceData{Path: path, Data: data}, nil
}
