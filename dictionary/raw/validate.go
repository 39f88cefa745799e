package raw

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingName is returned for documents without a top-level name.
	ErrMissingName = errors.New("dictionary name is required")
	// ErrUnnamedEntry is returned for collection entries without a name.
	ErrUnnamedEntry = errors.New("entry without a name")
)

// DuplicateKeyError reports two entries with the same name in one collection.
type DuplicateKeyError struct {
	Collection string
	Key        string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key '%s' in %s", e.Key, e.Collection)
}

// DuplicateValueError reports two enumerated values with the same name in
// one field.
type DuplicateValueError struct {
	Message string // empty for the dictionary field library
	Field   string
	Value   string
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("Duplicated values at %s, attribute name is %s", e.Field, e.Value)
}

// Validate checks that every name is unique within its scope. It runs before
// any resolution and stops at the first collision, in document order.
func (d *Document) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if err := checkAttributes(d.Attributes, "dictionary attributes"); err != nil {
		return err
	}

	names := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if err := checkName(names, f.Name, "fields"); err != nil {
			return err
		}
		if err := f.validate("", "field ["+f.Name+"]"); err != nil {
			return err
		}
	}

	names = make(map[string]struct{}, len(d.Messages))
	for i := range d.Messages {
		m := &d.Messages[i]
		if err := checkName(names, m.Name, "messages"); err != nil {
			return err
		}
		if err := m.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Message) validate() error {
	if err := checkAttributes(m.Attributes, "attributes of message ["+m.Name+"]"); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(m.Fields))
	for i := range m.Fields {
		f := &m.Fields[i]
		if err := checkName(names, f.Name, "fields of message ["+m.Name+"]"); err != nil {
			return err
		}
		scope := "field [" + f.Name + "] in message [" + m.Name + "]"
		if err := f.validate(m.Name, scope); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) validate(message, scope string) error {
	if err := checkAttributes(f.Attributes, "attributes of "+scope); err != nil {
		return err
	}
	values := make(map[string]struct{}, len(f.Values))
	for _, v := range f.Values {
		if v.Name == "" {
			return fmt.Errorf("%w in values of %s", ErrUnnamedEntry, scope)
		}
		if _, ok := values[v.Name]; ok {
			return &DuplicateValueError{Message: message, Field: f.Name, Value: v.Name}
		}
		values[v.Name] = struct{}{}
	}
	return nil
}

func checkAttributes(attrs []Attribute, collection string) error {
	names := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		if err := checkName(names, a.Name, collection); err != nil {
			return err
		}
	}
	return nil
}

func checkName(seen map[string]struct{}, name, collection string) error {
	if name == "" {
		return fmt.Errorf("%w in %s", ErrUnnamedEntry, collection)
	}
	if _, ok := seen[name]; ok {
		return &DuplicateKeyError{Collection: collection, Key: name}
	}
	seen[name] = struct{}{}
	return nil
}
