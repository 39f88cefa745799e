package console

import (
	"bytes"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleNotATerminal(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	c := New(&stdout, &stderr, true, "xterm")

	assert.False(t, c.IsTTY)
	assert.Equal(t, "ok", c.Success("ok"))
	assert.Equal(t, "fail", c.Failure("fail"))
	assert.Equal(t, "type", c.Faint("type"))
	assert.NotContains(t, c.Banner(), "\x1b[")

	width, err := c.TermWidth()
	require.NoError(t, err)
	assert.Equal(t, defaultTermWidth, width)

	c.Printf("%s=%d\n", "a", 1)
	c.Print("plain\n")
	assert.Equal(t, "a=1\nplain\n", stdout.String())

	c.GetLogger().Info("to stderr")
	assert.Contains(t, stderr.String(), "to stderr")
}

func TestConsoleStripsColors(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	c := New(&stdout, &bytes.Buffer{}, false, "")

	red := color.New(color.FgRed)
	red.EnableColor()
	c.Print(red.Sprint("error") + "\n")
	assert.Equal(t, "error\n", stdout.String())
}

func TestConsoleThemed(t *testing.T) {
	t.Parallel()

	c := New(&bytes.Buffer{}, &bytes.Buffer{}, true, "")
	c.theme = newTheme()

	assert.Equal(t, "\x1b[32mok\x1b[0m", c.Success("ok"))
	assert.Equal(t, "\x1b[36mk6dict\x1b[0m", c.ApplyTheme("k6dict"))

	c.DisableColor()
	assert.Equal(t, "ok", c.Success("ok"))
}

func TestConsolePrintYAML(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	c := New(&stdout, &bytes.Buffer{}, false, "")
	require.NoError(t, c.PrintYAML(map[string]any{"name": "FIX_4_4", "messages": 2}))
	assert.Equal(t, "messages: 2\nname: FIX_4_4\n", stdout.String())
}

func TestConsoleConcurrentWrites(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	c := New(&stdout, &stdout, false, "")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Print("line\n")
			_, _ = c.Stderr.Write([]byte("line\n"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, bytes.Count(stdout.Bytes(), []byte("line\n")))
}
