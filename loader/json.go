package loader

import (
	"fmt"
	"strings"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
	"github.com/serenize/snaker"
	"github.com/tidwall/pretty"

	"github.com/liuxd6825/k6dict/dictionary/raw"
)

// decodeJSON reads a document token by token. Declaration order and
// duplicate collection entries are kept as written; the latter are reported
// by raw.Document.Validate.
func decodeJSON(data []byte) (*raw.Document, error) {
	in := &jlexer.Lexer{Data: data}
	doc := &raw.Document{}

	decodeObject(in, "document", func(key string) {
		switch key {
		case "name":
			doc.Name = in.String()
		case "description":
			doc.Description = in.String()
		case "attributes":
			doc.Attributes = decodeAttributes(in)
		case "fields":
			doc.Fields = decodeFields(in)
		case "messages":
			doc.Messages = decodeMessages(in)
		default:
			in.SkipRecursive()
		}
	})
	in.Consumed()

	if err := in.Error(); err != nil {
		return nil, err
	}
	return doc, nil
}

// propertyKey accepts both camelCase and snake_case property names.
func propertyKey(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	camel := snaker.SnakeToCamel(key)
	if camel == "" {
		return key
	}
	return strings.ToLower(camel[:1]) + camel[1:]
}

// decodeObject calls prop for every non-null property of the object at the
// current position. A property appearing twice is an error.
func decodeObject(in *jlexer.Lexer, what string, prop func(key string)) {
	seen := make(map[string]struct{})
	in.Delim('{')
	for !in.IsDelim('}') {
		key := propertyKey(strings.Clone(in.UnsafeFieldName(false)))
		in.WantColon()
		if _, ok := seen[key]; ok {
			in.AddError(fmt.Errorf("duplicate property '%s' in %s", key, what))
			break
		}
		seen[key] = struct{}{}
		if in.IsNull() {
			in.Skip()
		} else {
			prop(key)
		}
		in.WantComma()
	}
	in.Delim('}')
}

// decodeCollection walks a named collection written either as an object
// keyed by entry name or as a list of entries. entry is called with the key
// in the first case and with an empty string in the second. Null entries are
// skipped.
func decodeCollection(in *jlexer.Lexer, entry func(key string)) {
	if in.IsDelim('[') {
		in.Delim('[')
		for !in.IsDelim(']') {
			if in.IsNull() {
				in.Skip()
			} else {
				entry("")
			}
			in.WantComma()
		}
		in.Delim(']')
		return
	}

	in.Delim('{')
	for !in.IsDelim('}') {
		key := strings.Clone(in.UnsafeFieldName(false))
		in.WantColon()
		if in.IsNull() {
			in.Skip()
		} else {
			entry(key)
		}
		in.WantComma()
	}
	in.Delim('}')
}

// scalarLiteral returns the text of a string, number or boolean value.
func scalarLiteral(in *jlexer.Lexer) string {
	data := in.Raw()
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '"':
		str := &jlexer.Lexer{Data: data}
		s := str.String()
		if err := str.Error(); err != nil {
			in.AddError(err)
		}
		return s
	case '{', '[':
		in.AddError(fmt.Errorf("expected a scalar value, got %s", data))
		return ""
	default:
		return string(data)
	}
}

func decodeAttributes(in *jlexer.Lexer) []raw.Attribute {
	var attrs []raw.Attribute
	decodeCollection(in, func(key string) {
		a := raw.Attribute{Name: key}
		if key != "" && !in.IsDelim('{') {
			// "name": value shorthand
			a.Value = scalarLiteral(in)
			attrs = append(attrs, a)
			return
		}
		decodeObject(in, "attribute", func(prop string) {
			switch prop {
			case "name":
				if name := in.String(); key == "" {
					a.Name = name
				}
			case "type":
				a.Type = in.String()
			case "value":
				a.Value = scalarLiteral(in)
			default:
				in.SkipRecursive()
			}
		})
		attrs = append(attrs, a)
	})
	return attrs
}

func decodeFields(in *jlexer.Lexer) []raw.Field {
	var fields []raw.Field
	decodeCollection(in, func(key string) {
		f := raw.Field{Name: key}
		decodeObject(in, "field", func(prop string) {
			decodeFieldProperty(in, prop, key, &f)
		})
		fields = append(fields, f)
	})
	return fields
}

func decodeMessages(in *jlexer.Lexer) []raw.Message {
	var messages []raw.Message
	decodeCollection(in, func(key string) {
		m := raw.Message{Field: raw.Field{Name: key}}
		decodeObject(in, "message", func(prop string) {
			if prop == "fields" {
				m.Fields = decodeFields(in)
				return
			}
			decodeFieldProperty(in, prop, key, &m.Field)
		})
		messages = append(messages, m)
	})
	return messages
}

// decodeFieldProperty decodes one property of a field or message. A name
// property only counts in list form; in map form the key is the name.
func decodeFieldProperty(in *jlexer.Lexer, prop, key string, f *raw.Field) {
	switch prop {
	case "name":
		if name := in.String(); key == "" {
			f.Name = name
		}
	case "description":
		f.Description = in.String()
	case "type":
		f.Type = in.String()
	case "reference":
		f.Reference = in.String()
	case "isCollection":
		f.IsCollection = raw.Bool(in.Bool())
	case "isServiceName":
		f.IsServiceName = raw.Bool(in.Bool())
	case "required":
		f.Required = raw.Bool(in.Bool())
	case "defaultValue":
		f.DefaultValue = raw.String(scalarLiteral(in))
	case "values":
		f.Values = decodeAttributes(in)
	case "attributes":
		f.Attributes = decodeAttributes(in)
	default:
		in.SkipRecursive()
	}
}

// encodeJSON writes doc in map form with camelCase keys, indented.
func encodeJSON(doc *raw.Document) ([]byte, error) {
	w := &jwriter.Writer{}
	w.RawString(`{"name":`)
	w.String(doc.Name)
	if doc.Description != "" {
		w.RawString(`,"description":`)
		w.String(doc.Description)
	}
	if len(doc.Attributes) > 0 {
		w.RawString(`,"attributes":`)
		encodeAttributes(w, doc.Attributes)
	}
	if len(doc.Fields) > 0 {
		w.RawString(`,"fields":`)
		encodeFields(w, doc.Fields)
	}
	if len(doc.Messages) > 0 {
		w.RawString(`,"messages":`)
		w.RawByte('{')
		for i := range doc.Messages {
			m := &doc.Messages[i]
			if i > 0 {
				w.RawByte(',')
			}
			w.String(m.Name)
			w.RawByte(':')
			encodeField(w, &m.Field, m.Fields)
		}
		w.RawByte('}')
	}
	w.RawByte('}')

	data, err := w.BuildBytes()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, &pretty.Options{Indent: "  "}), nil
}

func encodeFields(w *jwriter.Writer, fields []raw.Field) {
	w.RawByte('{')
	for i := range fields {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(fields[i].Name)
		w.RawByte(':')
		encodeField(w, &fields[i], nil)
	}
	w.RawByte('}')
}

// encodeField writes a field, or a message when fields isn't nil.
func encodeField(w *jwriter.Writer, f *raw.Field, fields []raw.Field) {
	w.RawByte('{')
	first := true
	key := func(name string) {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(name)
		w.RawByte(':')
	}
	str := func(name, value string) {
		if value != "" {
			key(name)
			w.String(value)
		}
	}
	flag := func(name string, value *bool) {
		if value != nil {
			key(name)
			w.Bool(*value)
		}
	}

	str("description", f.Description)
	str("type", f.Type)
	str("reference", f.Reference)
	flag("isCollection", f.IsCollection)
	flag("isServiceName", f.IsServiceName)
	flag("required", f.Required)
	if f.DefaultValue != nil {
		key("defaultValue")
		w.String(*f.DefaultValue)
	}
	if len(f.Values) > 0 {
		key("values")
		encodeAttributes(w, f.Values)
	}
	if len(f.Attributes) > 0 {
		key("attributes")
		encodeAttributes(w, f.Attributes)
	}
	if len(fields) > 0 {
		key("fields")
		encodeFields(w, fields)
	}
	w.RawByte('}')
}

func encodeAttributes(w *jwriter.Writer, attrs []raw.Attribute) {
	w.RawByte('{')
	for i, a := range attrs {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(a.Name)
		w.RawByte(':')
		w.RawByte('{')
		if a.Type != "" {
			w.RawString(`"type":`)
			w.String(a.Type)
			w.RawByte(',')
		}
		w.RawString(`"value":`)
		w.String(a.Value)
		w.RawByte('}')
	}
	w.RawByte('}')
}
