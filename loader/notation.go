package loader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Notation is a textual format dictionaries are written in.
type Notation string

// Supported notations. The zero value means the notation is picked from the
// file extension, or from the content when there is no file.
const (
	Auto Notation = ""
	JSON Notation = "json"
	YAML Notation = "yaml"
)

// ParseNotation parses a notation name as given on the command line or in a
// config file.
func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return Auto, fmt.Errorf("unknown notation '%s', expected one of json, yaml", s)
	}
}

// NotationFromPath picks the notation from the file extension.
func NotationFromPath(path string) (Notation, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	default:
		return Auto, false
	}
}

// detectNotation sniffs data: a JSON document has to start with an object.
func detectNotation(data []byte) Notation {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return JSON
	}
	return YAML
}

func (n Notation) String() string {
	if n == Auto {
		return "auto"
	}
	return string(n)
}
