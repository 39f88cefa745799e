package dictionary

import "github.com/sirupsen/logrus"

// resolveMessage resolves a message and, depth first, its parent chain and
// the messages nested by its complex fields, see bindMessage.
//
// A parent still on the stack is an inheritance cycle: its fields are not
// known yet and can't be copied.
func (r *resolver) resolveMessage(name string) (*Message, error) {
	switch r.messageState[name] {
	case resolved:
		return r.messages[name], nil
	case resolving:
		return nil, errRecursiveMessage(name)
	}

	decl := r.messageDecls[name]
	m := r.shell(name)
	m.description, m.parentName = decl.Description, decl.Reference
	r.messageState[name] = resolving
	r.messageStack = append(r.messageStack, name)
	logger := r.logger.WithField("message", name)
	logger.Debug("Resolving message")

	var baseFields *Index[*Field]
	var baseAttributes *Index[*Attribute]
	if decl.Reference != "" {
		if _, ok := r.messageDecls[decl.Reference]; !ok {
			if _, isField := r.fieldDecls[decl.Reference]; isField {
				return nil, errParentIsField(name, decl.Reference)
			}
			return nil, errUnknownParent(name, decl.Reference)
		}
		parent, err := r.resolveMessage(decl.Reference)
		if err != nil {
			return nil, err
		}
		m.parent = parent
		baseFields, baseAttributes = parent.fields, parent.attributes
	}

	attributes, err := layerAttributes(baseAttributes, decl.Attributes, Unset)
	if err != nil {
		return nil, err
	}

	fields := baseFields.clone()
	for i := range decl.Fields {
		f, err := r.buildField(&decl.Fields[i], m)
		if err != nil {
			return nil, err
		}
		fields.put(f.name, f)
	}
	m.fields, m.attributes = fields, attributes

	r.messageStack = r.messageStack[:len(r.messageStack)-1]
	r.messageState[name] = resolved
	logger.WithField("fields", fields.Len()).Debug("Message resolved")
	return m, nil
}

// bindMessage returns the message a complex field nests. A message on the
// stack, the one being built included, is returned as is and completes once
// the stack unwinds. Any other message is resolved first, unless it inherits
// from a message on the stack: its fields can't be copied yet, so it's
// returned unresolved and completes when Resolve reaches its declaration.
func (r *resolver) bindMessage(name string) (*Message, error) {
	if r.messageState[name] == resolving {
		r.logger.WithFields(logrus.Fields{
			"message": name,
			"stack":   append([]string(nil), r.messageStack...),
		}).Debug("Binding recursive message")
		return r.messages[name], nil
	}
	if ancestor, ok := r.resolvingAncestor(name); ok {
		r.logger.WithFields(logrus.Fields{
			"message":  name,
			"ancestor": ancestor,
		}).Debug("Deferring message nested by its ancestor")
		return r.shell(name), nil
	}
	return r.resolveMessage(name)
}

// resolvingAncestor walks the declared parent chain of an unresolved message
// and returns the first ancestor that is on the stack.
func (r *resolver) resolvingAncestor(name string) (string, bool) {
	if r.messageState[name] != unvisited {
		return "", false
	}
	seen := map[string]bool{name: true}
	for decl := r.messageDecls[name]; decl != nil && decl.Reference != ""; {
		parent := decl.Reference
		if seen[parent] {
			return "", false
		}
		seen[parent] = true
		if r.messageState[parent] == resolving {
			return parent, true
		}
		decl = r.messageDecls[parent]
	}
	return "", false
}

// shell returns the registered message for name, registering an empty one
// on first use.
func (r *resolver) shell(name string) *Message {
	if m, ok := r.messages[name]; ok {
		return m
	}
	m := &Message{name: name, namespace: r.namespace}
	r.messages[name] = m
	return m
}
