package dictionary

import "github.com/liuxd6825/k6dict/dictionary/raw"

// Attribute is a named, typed annotation on a dictionary, a message or a
// field, or one of the permitted values of an enum field.
type Attribute struct {
	name  string
	value Value
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// Value returns the typed value of the attribute.
func (a *Attribute) Value() Value { return a.value }

// Type returns the scalar type of the attribute.
func (a *Attribute) Type() ScalarType { return a.value.typ }

// Literal returns the declared text of the attribute.
func (a *Attribute) Literal() string { return a.value.literal }

func (a *Attribute) String() string {
	return a.name + "=" + a.value.String()
}

// Equal compares name, type and literal.
func (a *Attribute) Equal(o *Attribute) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.name == o.name && a.value.Equal(o.value)
}

// resolveAttribute turns a raw attribute into a typed one. The declared type
// wins over the inherited one; with neither the attribute is a String.
func resolveAttribute(decl raw.Attribute, inherited ScalarType) (*Attribute, error) {
	t := inherited
	if decl.Type != "" {
		parsed, ok := ParseScalarType(decl.Type)
		if !ok {
			return nil, errAttributeType(decl.Name, decl.Type)
		}
		t = parsed
	}
	if t == Unset {
		t = String
	}
	v, err := newValue(t, decl.Value)
	if err != nil {
		return nil, errAttributeValue(decl.Name, decl.Value, t)
	}
	return &Attribute{name: decl.Name, value: *v}, nil
}

// layerAttributes resolves decls on top of base. A declaration replaces the
// inherited attribute of the same name, type included, in its position; a
// declaration without a type keeps the type of the attribute it replaces.
func layerAttributes(
	base *Index[*Attribute], decls []raw.Attribute, inherited ScalarType,
) (*Index[*Attribute], error) {
	ix := base.clone()
	for _, decl := range decls {
		t := inherited
		if prev, ok := ix.Get(decl.Name); ok {
			t = prev.Type()
		}
		a, err := resolveAttribute(decl, t)
		if err != nil {
			return nil, err
		}
		ix.put(a.name, a)
	}
	return ix, nil
}

func attributesEqual(a, b *Index[*Attribute]) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Each(func(name string, x *Attribute) bool {
		y, ok := b.Get(name)
		equal = ok && x.Equal(y)
		return equal
	})
	return equal && namesEqual(a.Names(), b.Names())
}

func namesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
