package dictionary

import (
	"github.com/liuxd6825/k6dict/dictionary/raw"
)

// resolveLibraryField resolves a field of the dictionary field library,
// following its reference chain depth first. Only library fields go on the
// field stack: their names are unique dictionary wide.
func (r *resolver) resolveLibraryField(name string) (*Field, error) {
	switch r.fieldState[name] {
	case resolved:
		return r.fields[name], nil
	case resolving:
		return nil, errRecursiveFields(r.fieldStack)
	}

	decl := r.fieldDecls[name]
	r.fieldState[name] = resolving
	r.fieldStack = append(r.fieldStack, name)
	r.logger.WithField("field", name).Debug("Resolving field")

	var base *Field
	if decl.Reference != "" {
		if _, ok := r.fieldDecls[decl.Reference]; !ok {
			if _, isMessage := r.messageDecls[decl.Reference]; isMessage {
				return nil, errLibraryMessageReference(name, decl.Reference)
			}
			return nil, errUnknownReference(name, "", decl.Reference)
		}
		var err error
		if base, err = r.resolveLibraryField(decl.Reference); err != nil {
			return nil, err
		}
	}

	f, err := newSimpleField(decl, "", base)
	if err != nil {
		return nil, err
	}

	r.fieldStack = r.fieldStack[:len(r.fieldStack)-1]
	r.fieldState[name] = resolved
	r.fields[name] = f
	return f, nil
}

// buildField resolves a field declared inside message owner. A reference
// is looked up in the field library first and in the message library
// second; the latter makes the field complex.
func (r *resolver) buildField(decl *raw.Field, owner *Message) (*Field, error) {
	if decl.Reference == "" {
		return newSimpleField(decl, owner.name, nil)
	}
	if _, ok := r.fieldDecls[decl.Reference]; ok {
		base, err := r.resolveLibraryField(decl.Reference)
		if err != nil {
			return nil, err
		}
		return newSimpleField(decl, owner.name, base)
	}
	if _, ok := r.messageDecls[decl.Reference]; ok {
		target, err := r.bindMessage(decl.Reference)
		if err != nil {
			return nil, err
		}
		return newComplexField(decl, owner.name, target)
	}
	return nil, errUnknownReference(decl.Name, owner.name, decl.Reference)
}

// newSimpleField builds a scalar field on top of base, which is nil when the
// declaration has no reference. The type of base always wins over the
// declared one.
func newSimpleField(decl *raw.Field, owner string, base *Field) (*Field, error) {
	f := &Field{
		name:          decl.Name,
		owner:         owner,
		kind:          Simple,
		description:   decl.Description,
		referenceName: decl.Reference,
		reference:     base,
	}

	var baseValues, baseAttributes *Index[*Attribute]
	switch {
	case base != nil:
		f.typ = base.typ
		f.collection = base.collection
		f.serviceName = base.serviceName
		f.required = base.required
		f.defaultValue = base.defaultValue
		if f.description == "" {
			f.description = base.description
		}
		baseValues, baseAttributes = base.values, base.attributes
	case decl.Type == "":
		return nil, errNoTypeNorReference(decl.Name, owner)
	default:
		t, ok := ParseScalarType(decl.Type)
		if !ok {
			return nil, errUnknownFieldType(decl.Name, owner, decl.Type)
		}
		f.typ = t
	}

	applyFlags(f, decl)
	if decl.DefaultValue != nil {
		v, err := newValue(f.typ, *decl.DefaultValue)
		if err != nil {
			return nil, errDefaultValue(decl.Name, *decl.DefaultValue, f.typ)
		}
		f.defaultValue = v
	}

	var err error
	if f.values, err = layerAttributes(baseValues, decl.Values, f.typ); err != nil {
		return nil, err
	}
	if f.attributes, err = layerAttributes(baseAttributes, decl.Attributes, Unset); err != nil {
		return nil, err
	}
	return f, nil
}

// newComplexField builds a field nesting target. Values and default values
// have no meaning for a nested message and are not carried over.
func newComplexField(decl *raw.Field, owner string, target *Message) (*Field, error) {
	f := &Field{
		name:          decl.Name,
		owner:         owner,
		kind:          Complex,
		description:   decl.Description,
		referenceName: decl.Reference,
		message:       target,
	}
	applyFlags(f, decl)

	var err error
	if f.attributes, err = layerAttributes(nil, decl.Attributes, Unset); err != nil {
		return nil, err
	}
	f.values = newIndex[*Attribute](0)
	return f, nil
}

func applyFlags(f *Field, decl *raw.Field) {
	if decl.IsCollection != nil {
		f.collection = *decl.IsCollection
	}
	if decl.IsServiceName != nil {
		f.serviceName = *decl.IsServiceName
	}
	if decl.Required != nil {
		f.required = *decl.Required
	}
}
