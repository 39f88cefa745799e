package dictionary

import "github.com/liuxd6825/k6dict/dictionary/raw"

// Raw turns the model back into declarations. Every merged collection is
// written out in full with explicit types and flags, so resolving the result
// yields a Dictionary Equal to d.
func (d *Dictionary) Raw() *raw.Document {
	doc := &raw.Document{
		Name:        d.namespace,
		Description: d.description,
		Attributes:  rawAttributes(d.attributes),
		Fields:      make([]raw.Field, 0, d.fields.Len()),
		Messages:    make([]raw.Message, 0, d.messages.Len()),
	}
	for _, f := range d.fields.Values() {
		doc.Fields = append(doc.Fields, f.raw())
	}
	for _, m := range d.messages.Values() {
		rm := raw.Message{
			Field: raw.Field{
				Name:        m.name,
				Description: m.description,
				Reference:   m.parentName,
				Attributes:  rawAttributes(m.attributes),
			},
			Fields: make([]raw.Field, 0, m.fields.Len()),
		}
		for _, f := range m.fields.Values() {
			rm.Fields = append(rm.Fields, f.raw())
		}
		doc.Messages = append(doc.Messages, rm)
	}
	return doc
}

func (f *Field) raw() raw.Field {
	rf := raw.Field{
		Name:          f.name,
		Description:   f.description,
		Reference:     f.referenceName,
		IsCollection:  raw.Bool(f.collection),
		IsServiceName: raw.Bool(f.serviceName),
		Required:      raw.Bool(f.required),
		Attributes:    rawAttributes(f.attributes),
	}
	if f.kind == Complex {
		return rf
	}
	rf.Type = f.typ.String()
	rf.Values = rawAttributes(f.values)
	if f.defaultValue != nil {
		rf.DefaultValue = raw.String(f.defaultValue.literal)
	}
	return rf
}

func rawAttributes(ix *Index[*Attribute]) []raw.Attribute {
	if ix.Len() == 0 {
		return nil
	}
	attrs := make([]raw.Attribute, 0, ix.Len())
	for _, a := range ix.Values() {
		attrs = append(attrs, raw.Attribute{Name: a.name, Type: a.value.typ.String(), Value: a.value.literal})
	}
	return attrs
}
