package log

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6dict/lib/fsext"
)

type nopCloser struct {
	io.Writer
	closed chan struct{}
}

func (nc *nopCloser) Close() error {
	nc.closed <- struct{}{}
	return nil
}

func TestFileHookFromConfigLine(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		line       string
		err        bool
		errMessage string
		path       string
		levels     []logrus.Level
	}{
		{
			line: "file",
			err:  true,
		},
		{
			line:   "file=/k6dict.log,level=info",
			path:   "/k6dict.log",
			levels: logrus.AllLevels[:5],
		},
		{
			line:   "file=logs/k6dict.log",
			path:   "/work/logs/k6dict.log",
			levels: logrus.AllLevels,
		},
		{
			line: "file=/a/c/",
			err:  true,
		},
		{
			line:       "file=/missing/k6dict.log",
			err:        true,
			errMessage: "provided directory '/missing' does not exist",
		},
		{
			line:       "file=,level=info",
			err:        true,
			errMessage: "filepath must not be empty",
		},
		{
			line:       "file=/k6dict.log,level=tea",
			err:        true,
			errMessage: "unknown log level tea",
		},
		{
			line: "file=/k6dict.log,unknown",
			err:  true,
		},
		{
			line: "file=/k6dict.log,level=",
			err:  true,
		},
		{
			line: "file=/k6dict.log,level=,",
			err:  true,
		},
		{
			line:       "file=/k6dict.log,unknown=something",
			err:        true,
			errMessage: "unknown logfile config key unknown",
		},
		{
			line:       "unknown=something",
			err:        true,
			errMessage: "logfile configuration should be in the form `file=path-to-local-file` but is `unknown=something`",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.line, func(t *testing.T) {
			t.Parallel()

			fs := fsext.NewMemMapFs()
			require.NoError(t, fs.MkdirAll("/work/logs", 0o755))
			getCwd := func() (string, error) {
				return "/work", nil
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			res, err := FileHookFromConfigLine(ctx, fs, getCwd, logrus.New(), test.line, make(chan struct{}))

			if test.err {
				require.Error(t, err)

				if test.errMessage != "" {
					require.Equal(t, test.errMessage, err.Error())
				}

				return
			}

			require.NoError(t, err)
			hook, ok := res.(*fileHook)
			require.True(t, ok)
			assert.NotNil(t, hook.w)
			assert.Equal(t, test.path, hook.path)
			assert.Equal(t, test.levels, hook.Levels())
		})
	}
}

func TestFileHookCwdError(t *testing.T) {
	t.Parallel()

	getCwd := func() (string, error) {
		return "", errors.New("gone")
	}
	_, err := FileHookFromConfigLine(
		context.Background(), fsext.NewMemMapFs(), getCwd, logrus.New(), "file=relative.log", make(chan struct{}),
	)
	require.EqualError(t, err, "failed to get the current working directory: gone")
}

func TestFileHookFire(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	nc := &nopCloser{
		Writer: &buffer,
		closed: make(chan struct{}),
	}

	hook := &fileHook{
		w:      nc,
		bw:     bufio.NewWriter(nc),
		levels: logrus.AllLevels,
		done:   make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())

	hook.loglines = hook.loop(ctx)

	logger := logrus.New()
	logger.AddHook(hook)
	logger.SetOutput(io.Discard)

	logger.Info("example log line")

	time.Sleep(10 * time.Millisecond)

	cancel()
	<-nc.closed
	<-hook.done

	assert.Contains(t, buffer.String(), "example log line")

	// the file is closed, entries are dropped instead of blocking
	logger.Info("dropped")
	assert.NotContains(t, buffer.String(), "dropped")
}

func TestFileHookWritesToFs(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	hook, err := FileHookFromConfigLine(ctx, fs, nil, logrus.New(), "file=/k6dict.log,level=warning", done)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.AddHook(hook)
	logger.Info("not written")
	logger.Warn("written")

	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done

	data, err := fsext.ReadFile(fs, "/k6dict.log")
	require.NoError(t, err)
	assert.Equal(t, "level=warning msg=written\n", string(data))
}
