// Package loader reads and writes dictionaries in their textual notations
// and feeds them to the resolver.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/k6dict/dictionary"
	"github.com/liuxd6825/k6dict/dictionary/raw"
	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
	"github.com/liuxd6825/k6dict/lib/fsext"
)

var errInvalidJSON = errors.New("invalid JSON")

// Loader loads dictionaries written in one notation. A Loader keeps no state
// between calls and can be used concurrently.
type Loader struct {
	logger   logrus.FieldLogger
	notation Notation
}

// New returns a loader for the given notation. With Auto the notation is
// picked per source, see LoadSource.
func New(logger logrus.FieldLogger, notation Notation) *Loader {
	return &Loader{
		logger:   logger.WithField("component", "loader"),
		notation: notation,
	}
}

// Load reads and resolves a dictionary.
func (l *Loader) Load(r io.Reader) (*dictionary.Dictionary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(fmt.Errorf("reading dictionary: %w", err), exitcodes.InvalidInput)
	}
	return l.load(l.notation, data)
}

// LoadFile reads and resolves the dictionary stored at path in fs.
func (l *Loader) LoadFile(fs fsext.Fs, path string) (*dictionary.Dictionary, error) {
	data, err := fsext.ReadFile(fs, path)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(fmt.Errorf("reading dictionary: %w", err), exitcodes.InvalidInput)
	}
	return l.LoadSource(&SourceData{Path: path, Data: data})
}

// LoadSource resolves an already read source. Unless the loader has a fixed
// notation, it's picked from the file extension and then from the content.
func (l *Loader) LoadSource(src *SourceData) (*dictionary.Dictionary, error) {
	return l.load(l.sourceNotation(src), src.Data)
}

// Decode parses data into declarations without resolving them.
func (l *Loader) Decode(data []byte) (*raw.Document, error) {
	return l.decode(l.notation, data)
}

func (l *Loader) sourceNotation(src *SourceData) Notation {
	if l.notation != Auto {
		return l.notation
	}
	if n, ok := NotationFromPath(src.Path); ok {
		return n
	}
	return Auto
}

func (l *Loader) decode(n Notation, data []byte) (*raw.Document, error) {
	if n == Auto {
		n = detectNotation(data)
	}

	var (
		doc *raw.Document
		err error
	)
	switch n {
	case JSON:
		doc, err = decodeJSON(data)
	case YAML:
		doc, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported notation %s", n)
	}
	if err != nil {
		return nil, dictionary.NewInputError(err)
	}
	return doc, nil
}

func (l *Loader) load(n Notation, data []byte) (*dictionary.Dictionary, error) {
	doc, err := l.decode(n, data)
	if err != nil {
		return nil, err
	}
	logger := l.logger.WithFields(logrus.Fields{
		"namespace": doc.Name,
		"fields":    len(doc.Fields),
		"messages":  len(doc.Messages),
	})
	logger.Debug("Dictionary decoded")
	return dictionary.Resolve(doc, dictionary.WithLogger(logger))
}

// ExtractNamespace reads the top level name of a dictionary without decoding
// the rest of it.
func (l *Loader) ExtractNamespace(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errext.WithExitCodeIfNone(fmt.Errorf("reading dictionary: %w", err), exitcodes.InvalidInput)
	}
	return l.extractNamespace(l.notation, data)
}

// ExtractSourceNamespace is ExtractNamespace for an already read source.
func (l *Loader) ExtractSourceNamespace(src *SourceData) (string, error) {
	return l.extractNamespace(l.sourceNotation(src), src.Data)
}

func (l *Loader) extractNamespace(n Notation, data []byte) (string, error) {
	if n == Auto {
		n = detectNotation(data)
	}

	var name string
	switch n {
	case JSON:
		if !gjson.ValidBytes(data) {
			return "", dictionary.NewInputError(errInvalidJSON)
		}
		name = gjson.GetBytes(data, "name").String()
	case YAML:
		var head struct {
			Name string `yaml:"name"`
		}
		// Properties other than the name are never decoded.
		if err := yaml.Unmarshal(data, &head); err != nil {
			return "", dictionary.NewInputError(err)
		}
		name = head.Name
	default:
		return "", fmt.Errorf("unsupported notation %s", n)
	}

	if strings.TrimSpace(name) == "" {
		return "", dictionary.NewInputError(raw.ErrMissingName)
	}
	return name, nil
}

// Store writes d in the loader's notation, JSON when it's Auto.
func (l *Loader) Store(w io.Writer, d *dictionary.Dictionary) error {
	data, err := l.Encode(d.Raw())
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.CannotWriteOutput)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return errext.WithExitCodeIfNone(fmt.Errorf("writing dictionary: %w", err), exitcodes.CannotWriteOutput)
	}
	return nil
}

// Encode writes declarations in the loader's notation, JSON when it's Auto.
func (l *Loader) Encode(doc *raw.Document) ([]byte, error) {
	if l.notation == YAML {
		return encodeYAML(doc)
	}
	return encodeJSON(doc)
}
