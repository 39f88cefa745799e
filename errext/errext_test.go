package errext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6dict/errext/exitcodes"
)

func TestWithHint(t *testing.T) {
	t.Parallel()

	require.NoError(t, WithHint(nil, "ignored"))

	base := errors.New("boom")
	err := WithHint(base, "inner")
	err = fmt.Errorf("wrapped: %w", err)
	err = WithHint(err, "outer")

	var herr HasHint
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "outer (inner)", herr.Hint())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "wrapped: boom", err.Error())
}

func TestWithExitCodeIfNone(t *testing.T) {
	t.Parallel()

	require.NoError(t, WithExitCodeIfNone(nil, exitcodes.InvalidConfig))

	err := WithExitCodeIfNone(errors.New("bad flag"), exitcodes.InvalidConfig)
	err = WithExitCodeIfNone(fmt.Errorf("loading: %w", err), exitcodes.InvalidInput)

	var ecerr HasExitCode
	require.ErrorAs(t, err, &ecerr)
	assert.Equal(t, exitcodes.InvalidConfig, ecerr.ExitCode())
}

func TestFormat(t *testing.T) {
	t.Parallel()

	msg, fields := Format(nil)
	assert.Empty(t, msg)
	assert.Nil(t, fields)

	err := WithExitCodeIfNone(WithHint(errors.New("no such file"), "check the path"), exitcodes.InvalidInput)
	msg, fields = Format(err)
	assert.Equal(t, "no such file", msg)
	assert.Equal(t, map[string]interface{}{
		"hint":      "check the path",
		"exit_code": exitcodes.InvalidInput,
	}, fields)

	msg, fields = Format(WithExitCodeIfNone(errors.New("x"), exitcodes.GenericError))
	assert.Equal(t, "x", msg)
	assert.Empty(t, fields)
}
