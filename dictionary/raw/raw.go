// Package raw contains dictionary declarations exactly as a notation adapter
// produced them: unresolved, linked by name and kept in declaration order.
//
// Nothing in this package knows about types, inheritance or references. The
// only semantic check performed here is name uniqueness (see
// [Document.Validate]), which has to happen before any resolution starts and
// must not depend on the notation the document was written in.
package raw

// Attribute is a single name -> {type, value} entry. It is used for free
// attributes of dictionaries, messages and fields, as well as for the
// enumerated values of a field.
type Attribute struct {
	Name  string
	Type  string // empty when the declaration didn't specify one
	Value string
}

// Field is an unresolved field declaration. Pointer members distinguish
// "declared as false/empty" from "not declared at all", which matters when a
// field copies its base through a reference.
type Field struct {
	Name          string
	Description   string
	Type          string
	Reference     string
	IsCollection  *bool
	IsServiceName *bool
	Required      *bool
	DefaultValue  *string
	Values        []Attribute
	Attributes    []Attribute
}

// Message is an unresolved message declaration. A message is shaped like a
// field declaration (only Name, Description, Reference and Attributes are
// meaningful for it) plus its own list of fields. Reference names the parent
// message.
type Message struct {
	Field
	Fields []Field
}

// Document is the whole unresolved dictionary.
type Document struct {
	Name        string
	Description string
	Attributes  []Attribute
	Fields      []Field
	Messages    []Message
}

// Bool returns a pointer to b, handy for building declarations in code.
func Bool(b bool) *bool {
	return &b
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}
