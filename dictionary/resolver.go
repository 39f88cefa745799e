package dictionary

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6dict/dictionary/raw"
)

// Option configures a Resolve call.
type Option func(*resolver)

// WithLogger makes Resolve log its progress at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *resolver) {
		r.logger = logger
	}
}

type state uint8

const (
	unvisited state = iota
	resolving
	resolved
)

// resolver holds the memo of one Resolve call. It is never shared, so two
// resolutions of the same document yield independent models.
type resolver struct {
	logger    logrus.FieldLogger
	namespace string

	fieldDecls   map[string]*raw.Field
	messageDecls map[string]*raw.Message

	fields     map[string]*Field
	fieldState map[string]state
	fieldStack []string

	messages     map[string]*Message
	messageState map[string]state
	messageStack []string
}

// Resolve validates doc and resolves it into a Dictionary. On failure no
// part of the model is returned and the error is a *Error.
func Resolve(doc *raw.Document, opts ...Option) (*Dictionary, error) {
	if err := doc.Validate(); err != nil {
		return nil, fromRawError(err)
	}

	r := newResolver(doc)
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithField("namespace", doc.Name)

	d, err := r.resolve(doc)
	if err != nil {
		r.logger.WithError(err).Debug("Dictionary resolution failed")
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{
		"fields":   d.fields.Len(),
		"messages": d.messages.Len(),
	}).Debug("Dictionary resolved")
	return d, nil
}

func newResolver(doc *raw.Document) *resolver {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := &resolver{
		logger:       logger,
		namespace:    doc.Name,
		fieldDecls:   make(map[string]*raw.Field, len(doc.Fields)),
		messageDecls: make(map[string]*raw.Message, len(doc.Messages)),
		fields:       make(map[string]*Field, len(doc.Fields)),
		fieldState:   make(map[string]state, len(doc.Fields)),
		messages:     make(map[string]*Message, len(doc.Messages)),
		messageState: make(map[string]state, len(doc.Messages)),
	}
	for i := range doc.Fields {
		r.fieldDecls[doc.Fields[i].Name] = &doc.Fields[i]
	}
	for i := range doc.Messages {
		r.messageDecls[doc.Messages[i].Name] = &doc.Messages[i]
	}
	return r
}

func (r *resolver) resolve(doc *raw.Document) (*Dictionary, error) {
	attributes, err := layerAttributes(nil, doc.Attributes, Unset)
	if err != nil {
		return nil, err
	}

	// The memo may resolve declarations out of order, the indexes keep the
	// declaration order regardless.
	fields := newIndex[*Field](len(doc.Fields))
	for _, decl := range doc.Fields {
		f, err := r.resolveLibraryField(decl.Name)
		if err != nil {
			return nil, err
		}
		fields.put(decl.Name, f)
	}

	messages := newIndex[*Message](len(doc.Messages))
	for _, decl := range doc.Messages {
		m, err := r.resolveMessage(decl.Name)
		if err != nil {
			return nil, err
		}
		messages.put(decl.Name, m)
	}

	return &Dictionary{
		namespace:   doc.Name,
		description: doc.Description,
		attributes:  attributes,
		fields:      fields,
		messages:    messages,
	}, nil
}
