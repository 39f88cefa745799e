package log

import (
	"fmt"
	"strings"
)

// token is one key=value pair of a hook configuration line. A value may be
// enclosed in brackets to hold commas; inside is then '['.
type token struct {
	key    string
	value  string
	inside rune
}

// tokenize splits a line like `file=./a.log,level=debug,tags=[a,b]`. An empty
// value is accepted only when another pair follows.
func tokenize(line string) ([]token, error) {
	var tokens []token
	for line != "" {
		end := strings.IndexAny(line, "=,")
		if end < 0 || line[end] == ',' {
			key := line
			if end >= 0 {
				key = line[:end]
			}
			return nil, fmt.Errorf("key `%s` with no value", key)
		}

		t := token{key: line[:end]}
		line = line[end+1:]
		if line == "" {
			return nil, fmt.Errorf("key `%s=` with no value", t.key)
		}

		if line[0] == '[' {
			closing := strings.IndexByte(line, ']')
			if closing < 0 {
				return nil, fmt.Errorf("value of key `%s` is missing a closing ]", t.key)
			}
			t.value, t.inside = line[1:closing], '['
			line = line[closing+1:]
			if line != "" && line[0] != ',' {
				return nil, fmt.Errorf("unexpected `%s` after the value of key `%s`", line, t.key)
			}
		} else {
			comma := strings.IndexByte(line, ',')
			if comma < 0 {
				comma = len(line)
			}
			t.value, line = line[:comma], line[comma:]
		}

		line = strings.TrimPrefix(line, ",")
		tokens = append(tokens, t)
	}
	return tokens, nil
}
