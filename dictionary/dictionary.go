// Package dictionary resolves raw message dictionary declarations into a
// linked, validated and immutable model.
//
// Resolution follows three sets of rules:
//
//   - simple fields form reference chains through the dictionary field
//     library; the chains must be acyclic and a referencing field takes the
//     type, collection flag and enumerated values of its base;
//   - messages form an inheritance graph that must be acyclic; parent fields
//     come first and redeclared fields replace inherited ones in place;
//   - complex fields nest messages and may form cycles (a message containing
//     itself, directly or through other messages); those are bound by
//     identity instead of being expanded.
//
// A [Dictionary] returned by [Resolve] has no mutators and can be read from
// any number of goroutines.
package dictionary

// Dictionary is the root of a resolved model.
type Dictionary struct {
	namespace   string
	description string
	attributes  *Index[*Attribute]
	fields      *Index[*Field]
	messages    *Index[*Message]
}

// Namespace returns the dictionary name.
func (d *Dictionary) Namespace() string { return d.namespace }

// Description returns the dictionary description.
func (d *Dictionary) Description() string { return d.description }

// Attributes returns the root attribute set.
func (d *Dictionary) Attributes() *Index[*Attribute] { return d.attributes }

// Fields returns the field library.
func (d *Dictionary) Fields() *Index[*Field] { return d.fields }

// Messages returns the message library.
func (d *Dictionary) Messages() *Index[*Message] { return d.messages }

// MessageStructure returns the message with the given name.
func (d *Dictionary) MessageStructure(name string) (*Message, bool) {
	return d.messages.Get(name)
}

// FieldStructure returns the library field with the given name.
func (d *Dictionary) FieldStructure(name string) (*Field, bool) {
	return d.fields.Get(name)
}

// Equal compares two dictionaries by namespace, description, attributes,
// fields and messages. Two loads of the same text are Equal but never share
// any node.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.namespace != o.namespace || d.description != o.description ||
		!attributesEqual(d.attributes, o.attributes) ||
		!namesEqual(d.fields.Names(), o.fields.Names()) ||
		!namesEqual(d.messages.Names(), o.messages.Names()) {
		return false
	}
	equal := true
	d.fields.Each(func(name string, f *Field) bool {
		g, _ := o.fields.Get(name)
		equal = f.Equal(g)
		return equal
	})
	if !equal {
		return false
	}
	d.messages.Each(func(name string, m *Message) bool {
		n, _ := o.messages.Get(name)
		equal = m.Equal(n)
		return equal
	})
	return equal
}
