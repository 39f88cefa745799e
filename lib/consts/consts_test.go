package consts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullVersion(t *testing.T) {
	t.Parallel()

	v := FullVersion()
	assert.True(t, strings.HasPrefix(v, Version+" ("), v)
	assert.Contains(t, v, runtime.GOOS+"/"+runtime.GOARCH)
}
