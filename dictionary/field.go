package dictionary

// Kind tells simple fields from complex ones.
type Kind uint8

const (
	// Simple fields carry a scalar and take part in reference chain resolution.
	Simple Kind = iota
	// Complex fields nest a message and take part in message resolution.
	Complex
)

func (k Kind) String() string {
	if k == Complex {
		return "COMPLEX"
	}
	return "SIMPLE"
}

// Field is a resolved field definition, either from the dictionary field
// library or from the field list of a message.
type Field struct {
	name        string
	owner       string // message name, empty for library fields
	description string
	kind        Kind
	typ         ScalarType

	collection  bool
	serviceName bool
	required    bool

	defaultValue *Value

	referenceName string
	reference     *Field   // library field this one copies, Simple only
	message       *Message // nested message, Complex only

	attributes *Index[*Attribute]
	values     *Index[*Attribute]
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Owner returns the name of the message declaring the field. It is empty for
// library fields.
func (f *Field) Owner() string { return f.owner }

// Description returns the field description.
func (f *Field) Description() string { return f.description }

// Kind returns Simple or Complex.
func (f *Field) Kind() Kind { return f.kind }

// IsComplex is a shorthand for Kind() == Complex.
func (f *Field) IsComplex() bool { return f.kind == Complex }

// Type returns the effective scalar type. It is Unset for complex fields.
func (f *Field) Type() ScalarType { return f.typ }

// IsCollection reports whether the field holds a list of values.
func (f *Field) IsCollection() bool { return f.collection }

// IsServiceName reports whether the field is a protocol service field.
func (f *Field) IsServiceName() bool { return f.serviceName }

// IsRequired reports whether the field is mandatory.
func (f *Field) IsRequired() bool { return f.required }

// DefaultValue returns the typed default value, if one was declared.
func (f *Field) DefaultValue() (Value, bool) {
	if f.defaultValue == nil {
		return Value{}, false
	}
	return *f.defaultValue, true
}

// ReferenceName returns the declared reference: a library field for simple
// fields, a message for complex ones.
func (f *Field) ReferenceName() string { return f.referenceName }

// Reference returns the library field this field was copied from.
func (f *Field) Reference() *Field { return f.reference }

// Message returns the nested message of a complex field. The returned
// message may be the very message the field belongs to, or one of its
// ancestors, so walking it recursively must guard against cycles.
func (f *Field) Message() *Message { return f.message }

// Attributes returns the free attributes of the field.
func (f *Field) Attributes() *Index[*Attribute] { return f.attributes }

// Values returns the enumerated values of the field.
func (f *Field) Values() *Index[*Attribute] { return f.values }

// IsEnum reports whether the field has enumerated values.
func (f *Field) IsEnum() bool { return f.values.Len() > 0 }

// Equal compares two fields structurally. Nested messages are compared by
// name only, which keeps the comparison finite on recursive schemas.
func (f *Field) Equal(o *Field) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.name != o.name || f.description != o.description || f.kind != o.kind || f.typ != o.typ ||
		f.collection != o.collection || f.serviceName != o.serviceName || f.required != o.required ||
		f.referenceName != o.referenceName {
		return false
	}
	if (f.defaultValue == nil) != (o.defaultValue == nil) ||
		(f.defaultValue != nil && !f.defaultValue.Equal(*o.defaultValue)) {
		return false
	}
	if (f.message == nil) != (o.message == nil) || (f.message != nil && f.message.name != o.message.name) {
		return false
	}
	return attributesEqual(f.attributes, o.attributes) && attributesEqual(f.values, o.values)
}
