package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer(t *testing.T) {
	t.Parallel()

	tokens, err := tokenize("file=something,s.e=2231,s=12,12=3,a=[1,2,3],b=[1],s=c")
	require.NoError(t, err)
	assert.Equal(t, []token{
		{key: "file", value: "something"},
		{key: "s.e", value: "2231"},
		{key: "s", value: "12"},
		{key: "12", value: "3"},
		{key: "a", value: "1,2,3", inside: '['},
		{key: "b", value: "1", inside: '['},
		{key: "s", value: "c"},
	}, tokens)

	tokens, err = tokenize("file=,level=info,")
	require.NoError(t, err)
	assert.Equal(t, []token{{key: "file"}, {key: "level", value: "info"}}, tokens)

	for line, msg := range map[string]string{
		"empty=":       "key `empty=` with no value",
		"file":         "key `file` with no value",
		"file=a,level": "key `level` with no value",
		"a=[1,2":       "value of key `a` is missing a closing ]",
		"a=[1]x,b=2":   "unexpected `x,b=2` after the value of key `a`",
		"file=a,,b=2":  "key `` with no value",
	} {
		_, err := tokenize(line)
		assert.EqualError(t, err, msg, line)
	}
}

func TestParseLevels(t *testing.T) {
	t.Parallel()

	levels, err := parseLevels("error")
	require.NoError(t, err)
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}, levels)

	_, err = parseLevels("loud")
	require.EqualError(t, err, "unknown log level loud")
}
