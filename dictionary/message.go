package dictionary

// Message is a resolved message definition: an ordered set of fields plus
// attributes, with everything inherited from its parent already merged in.
type Message struct {
	name        string
	namespace   string
	description string
	parentName  string
	parent      *Message
	fields      *Index[*Field]
	attributes  *Index[*Attribute]
}

// Name returns the message name.
func (m *Message) Name() string { return m.name }

// Namespace returns the namespace of the owning dictionary.
func (m *Message) Namespace() string { return m.namespace }

// Description returns the message description.
func (m *Message) Description() string { return m.description }

// ParentName returns the name of the message this one extends, if any.
func (m *Message) ParentName() string { return m.parentName }

// Parent returns the message this one extends, if any.
func (m *Message) Parent() *Message { return m.parent }

// Fields returns the merged field list, inherited fields first.
func (m *Message) Fields() *Index[*Field] { return m.fields }

// Field returns the field with the given name.
func (m *Message) Field(name string) (*Field, bool) { return m.fields.Get(name) }

// Attributes returns the merged attribute set.
func (m *Message) Attributes() *Index[*Attribute] { return m.attributes }

// Equal compares two messages structurally, see Field.Equal for how nested
// messages are handled.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.name != o.name || m.namespace != o.namespace || m.description != o.description ||
		m.parentName != o.parentName {
		return false
	}
	if !attributesEqual(m.attributes, o.attributes) || !namesEqual(m.fields.Names(), o.fields.Names()) {
		return false
	}
	equal := true
	m.fields.Each(func(name string, f *Field) bool {
		g, _ := o.fields.Get(name)
		equal = f.Equal(g)
		return equal
	})
	return equal
}
