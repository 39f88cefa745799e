package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/k6dict/dictionary/raw"
)

var errEmptyDocument = errors.New("empty document")

// yamlDecoder walks the node tree of a YAML document. Decoding into a node
// keeps duplicate keys, so duplicate entries reach raw.Document.Validate the
// same way they do for JSON.
type yamlDecoder struct {
	err error
}

func decodeYAML(data []byte) (*raw.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errEmptyDocument
	}

	d := &yamlDecoder{}
	doc := &raw.Document{}
	d.object(root.Content[0], "document", func(key string, value *yaml.Node) {
		switch key {
		case "name":
			doc.Name = d.str(value)
		case "description":
			doc.Description = d.str(value)
		case "attributes":
			doc.Attributes = d.attributes(value)
		case "fields":
			doc.Fields = d.fields(value)
		case "messages":
			doc.Messages = d.messages(value)
		}
	})
	if d.err != nil {
		return nil, d.err
	}
	return doc, nil
}

func (d *yamlDecoder) fail(n *yaml.Node, format string, a ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, a...))
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// object calls prop for every non-null property of a mapping node.
func (d *yamlDecoder) object(n *yaml.Node, what string, prop func(key string, value *yaml.Node)) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		d.fail(n, "expected a mapping for %s", what)
		return
	}
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content) && d.err == nil; i += 2 {
		key := propertyKey(n.Content[i].Value)
		if _, ok := seen[key]; ok {
			d.fail(n.Content[i], "duplicate property '%s' in %s", key, what)
			return
		}
		seen[key] = struct{}{}
		if value := resolveAlias(n.Content[i+1]); !isNull(value) {
			prop(key, value)
		}
	}
}

// collection walks a named collection in map or list form, see
// decodeCollection.
func (d *yamlDecoder) collection(n *yaml.Node, entry func(key string, value *yaml.Node)) {
	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item = resolveAlias(item); !isNull(item) && d.err == nil {
				entry("", item)
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content) && d.err == nil; i += 2 {
			if item := resolveAlias(n.Content[i+1]); !isNull(item) {
				entry(n.Content[i].Value, item)
			}
		}
	default:
		d.fail(n, "expected a mapping or a sequence")
	}
}

func (d *yamlDecoder) str(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		d.fail(n, "expected a scalar value")
		return ""
	}
	return n.Value
}

func (d *yamlDecoder) bool(n *yaml.Node) *bool {
	var b bool
	if err := n.Decode(&b); err != nil {
		d.fail(n, "expected a boolean: %s", err)
	}
	return raw.Bool(b)
}

func (d *yamlDecoder) attributes(n *yaml.Node) []raw.Attribute {
	var attrs []raw.Attribute
	d.collection(n, func(key string, value *yaml.Node) {
		a := raw.Attribute{Name: key}
		if key != "" && value.Kind == yaml.ScalarNode {
			a.Value = value.Value
			attrs = append(attrs, a)
			return
		}
		d.object(value, "attribute", func(prop string, v *yaml.Node) {
			switch prop {
			case "name":
				if key == "" {
					a.Name = d.str(v)
				}
			case "type":
				a.Type = d.str(v)
			case "value":
				a.Value = d.str(v)
			}
		})
		attrs = append(attrs, a)
	})
	return attrs
}

func (d *yamlDecoder) fields(n *yaml.Node) []raw.Field {
	var fields []raw.Field
	d.collection(n, func(key string, value *yaml.Node) {
		f := raw.Field{Name: key}
		d.object(value, "field", func(prop string, v *yaml.Node) {
			d.fieldProperty(prop, key, v, &f)
		})
		fields = append(fields, f)
	})
	return fields
}

func (d *yamlDecoder) messages(n *yaml.Node) []raw.Message {
	var messages []raw.Message
	d.collection(n, func(key string, value *yaml.Node) {
		m := raw.Message{Field: raw.Field{Name: key}}
		d.object(value, "message", func(prop string, v *yaml.Node) {
			if prop == "fields" {
				m.Fields = d.fields(v)
				return
			}
			d.fieldProperty(prop, key, v, &m.Field)
		})
		messages = append(messages, m)
	})
	return messages
}

func (d *yamlDecoder) fieldProperty(prop, key string, v *yaml.Node, f *raw.Field) {
	switch prop {
	case "name":
		if key == "" {
			f.Name = d.str(v)
		}
	case "description":
		f.Description = d.str(v)
	case "type":
		f.Type = d.str(v)
	case "reference":
		f.Reference = d.str(v)
	case "isCollection":
		f.IsCollection = d.bool(v)
	case "isServiceName":
		f.IsServiceName = d.bool(v)
	case "required":
		f.Required = d.bool(v)
	case "defaultValue":
		f.DefaultValue = raw.String(d.str(v))
	case "values":
		f.Values = d.attributes(v)
	case "attributes":
		f.Attributes = d.attributes(v)
	}
}

// encodeYAML writes doc in map form, the same layout encodeJSON uses.
func encodeYAML(doc *raw.Document) ([]byte, error) {
	root := mapping()
	put(root, "name", text(doc.Name))
	if doc.Description != "" {
		put(root, "description", text(doc.Description))
	}
	if len(doc.Attributes) > 0 {
		put(root, "attributes", attributesNode(doc.Attributes))
	}
	if len(doc.Fields) > 0 {
		put(root, "fields", fieldsNode(doc.Fields))
	}
	if len(doc.Messages) > 0 {
		messages := mapping()
		for i := range doc.Messages {
			m := &doc.Messages[i]
			put(messages, m.Name, fieldNode(&m.Field, m.Fields))
		}
		put(root, "messages", messages)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// text is always tagged as a string so literals such as "" or "true" read
// back unchanged.
func text(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolean(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func put(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, text(key), value)
}

func fieldsNode(fields []raw.Field) *yaml.Node {
	n := mapping()
	for i := range fields {
		put(n, fields[i].Name, fieldNode(&fields[i], nil))
	}
	return n
}

func fieldNode(f *raw.Field, fields []raw.Field) *yaml.Node {
	n := mapping()
	for _, p := range []struct{ key, value string }{
		{"description", f.Description},
		{"type", f.Type},
		{"reference", f.Reference},
	} {
		if p.value != "" {
			put(n, p.key, text(p.value))
		}
	}
	for _, p := range []struct {
		key   string
		value *bool
	}{
		{"isCollection", f.IsCollection},
		{"isServiceName", f.IsServiceName},
		{"required", f.Required},
	} {
		if p.value != nil {
			put(n, p.key, boolean(*p.value))
		}
	}
	if f.DefaultValue != nil {
		put(n, "defaultValue", text(*f.DefaultValue))
	}
	if len(f.Values) > 0 {
		put(n, "values", attributesNode(f.Values))
	}
	if len(f.Attributes) > 0 {
		put(n, "attributes", attributesNode(f.Attributes))
	}
	if len(fields) > 0 {
		put(n, "fields", fieldsNode(fields))
	}
	return n
}

func attributesNode(attrs []raw.Attribute) *yaml.Node {
	n := mapping()
	for _, a := range attrs {
		entry := mapping()
		if a.Type != "" {
			put(entry, "type", text(a.Type))
		}
		put(entry, "value", text(a.Value))
		put(n, a.Name, entry)
	}
	return n
}
