package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6dict/dictionary"
	"github.com/liuxd6825/k6dict/dictionary/raw"
	"github.com/liuxd6825/k6dict/internal/lib/testutils"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name)) //nolint:forbidigo
	require.NoError(t, err)
	return data
}

func loadTestdata(t *testing.T, name string) *dictionary.Dictionary {
	t.Helper()
	d, err := New(testutils.NewLogger(t), Auto).LoadSource(&SourceData{Path: name, Data: readTestdata(t, name)})
	require.NoError(t, err)
	return d
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	d := loadTestdata(t, "fix.json")
	assert.Equal(t, "FIX_4_4", d.Namespace())
	assert.Equal(t, "order entry subset", d.Description())
	assert.Equal(t, []string{"Side", "OrderSide", "Price", "MsgType", "Urgent"}, d.Fields().Names())
	assert.Equal(t, []string{"Header", "Base", "NewOrderSingle"}, d.Messages().Names())

	version, ok := d.Attributes().Get("Version")
	require.True(t, ok)
	assert.Equal(t, dictionary.Int, version.Type())
	assert.Equal(t, "44", version.Literal())

	msgType, _ := d.FieldStructure("MsgType")
	assert.True(t, msgType.IsServiceName())
	assert.True(t, msgType.IsRequired())

	urgent, _ := d.FieldStructure("Urgent")
	def, ok := urgent.DefaultValue()
	require.True(t, ok)
	assert.Equal(t, false, def.Interface())

	side, _ := d.FieldStructure("OrderSide")
	assert.Equal(t, dictionary.Char, side.Type())
	assert.Equal(t, []string{"BUY", "SELL", "CROSS"}, side.Values().Names())

	order, ok := d.MessageStructure("NewOrderSingle")
	require.True(t, ok)
	assert.Equal(t, []string{"header", "Side", "Price", "Legs"}, order.Fields().Names())
	legs, _ := order.Field("Legs")
	assert.Same(t, order, legs.Message())
	assert.True(t, legs.IsCollection())
	header, _ := order.Field("header")
	headerMessage, _ := d.MessageStructure("Header")
	assert.Same(t, headerMessage, header.Message())
	price, _ := order.Field("Price")
	assert.Equal(t, dictionary.Decimal, price.Type())
	assert.False(t, price.IsRequired())
	msgTypeAttr, _ := order.Attributes().Get("MessageType")
	assert.Equal(t, "D", msgTypeAttr.Literal())
}

func TestLoadNotationsAgree(t *testing.T) {
	t.Parallel()

	fromJSON := loadTestdata(t, "fix.json")
	fromYAML := loadTestdata(t, "fix.yaml")
	assert.True(t, fromJSON.Equal(fromYAML))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	logger := testutils.NewLogger(t)
	original := loadTestdata(t, "fix.json")

	for _, path := range [][]Notation{{YAML, JSON}, {JSON, YAML}, {JSON, JSON}, {YAML, YAML}} {
		d := original
		for _, n := range path {
			var buf bytes.Buffer
			l := New(logger, n)
			require.NoError(t, l.Store(&buf, d))
			reloaded, err := l.Load(&buf)
			require.NoError(t, err, "%v", path)
			d = reloaded
		}
		assert.True(t, original.Equal(d), "%v", path)
	}
}

func TestStoreIsStable(t *testing.T) {
	t.Parallel()

	logger := testutils.NewLogger(t)
	for _, n := range []Notation{JSON, YAML} {
		l := New(logger, n)
		var first, second bytes.Buffer
		require.NoError(t, l.Store(&first, loadTestdata(t, "fix.json")))
		d, err := l.Load(bytes.NewReader(first.Bytes()))
		require.NoError(t, err)
		require.NoError(t, l.Store(&second, d))
		assert.Equal(t, first.String(), second.String(), n.String())
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	fs := testutils.MakeMemMapFs(t, map[string][]byte{
		"/dicts/fix.yml":   readTestdata(t, "fix.yaml"),
		"/dicts/fix.dict":  readTestdata(t, "fix.json"),
		"/dicts/broken.js": []byte(`{"name": "x", "fields": {`),
	})
	l := New(testutils.NewLogger(t), Auto)

	d, err := l.LoadFile(fs, "/dicts/fix.yml")
	require.NoError(t, err)
	assert.Equal(t, "FIX_4_4", d.Namespace())

	d, err = l.LoadFile(fs, "/dicts/fix.dict")
	require.NoError(t, err)
	assert.Equal(t, "FIX_4_4", d.Namespace())

	_, err = l.LoadFile(fs, "/dicts/broken.js")
	require.Error(t, err)
	assert.True(t, dictionary.IsKind(err, dictionary.KindInput))
	assert.True(t, strings.HasPrefix(err.Error(), "Wrong input format: "), err.Error())

	_, err = l.LoadFile(fs, "/dicts/missing.json")
	require.Error(t, err)
	assert.False(t, dictionary.IsKind(err, dictionary.KindInput))
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		notation Notation
		input    string
		err      string
	}{
		{
			name:     "json duplicate field key",
			notation: JSON,
			input:    `{"name":"d","fields":{"A":{"type":"STRING"},"A":{"type":"LONG"}}}`,
			err:      "Wrong input format: duplicate key 'A' in fields",
		},
		{
			name:     "json duplicate list entry",
			notation: JSON,
			input:    `{"name":"d","messages":[{"name":"M"},{"name":"M"}]}`,
			err:      "Wrong input format: duplicate key 'M' in messages",
		},
		{
			name:     "json duplicate property",
			notation: JSON,
			input:    `{"name":"d","fields":{"A":{"type":"STRING","type":"LONG"}}}`,
			err:      "Wrong input format: duplicate property 'type' in field",
		},
		{
			name:     "json snake and camel case of one property",
			notation: JSON,
			input:    `{"name":"d","fields":{"A":{"type":"STRING","is_collection":true,"isCollection":false}}}`,
			err:      "Wrong input format: duplicate property 'isCollection' in field",
		},
		{
			name:     "json missing name",
			notation: JSON,
			input:    `{"fields":{}}`,
			err:      "Wrong input format: dictionary name is required",
		},
		{
			name:     "json object as value",
			notation: JSON,
			input:    `{"name":"d","attributes":{"A":{"value":{}}}}`,
			err:      "Wrong input format: expected a scalar value, got {}",
		},
		{
			name:     "yaml duplicate field key",
			notation: YAML,
			input:    "name: d\nfields:\n  A: {type: STRING}\n  A: {type: LONG}\n",
			err:      "Wrong input format: duplicate key 'A' in fields",
		},
		{
			name:     "yaml duplicate enum value",
			notation: YAML,
			input:    "name: d\nfields:\n  A:\n    type: LONG\n    values:\n      - {name: X, value: 1}\n      - {name: X, value: 2}\n",
			err:      "Duplicated values at A, attribute name is X",
		},
		{
			name:     "yaml duplicate property",
			notation: YAML,
			input:    "name: d\nfields:\n  A:\n    type: STRING\n    type: LONG\n",
			err:      "Wrong input format: line 5: duplicate property 'type' in field",
		},
		{
			name:     "yaml empty",
			notation: YAML,
			input:    "",
			err:      "Wrong input format: empty document",
		},
		{
			name:     "yaml not a mapping",
			notation: YAML,
			input:    "- a\n- b\n",
			err:      "Wrong input format: line 1: expected a mapping for document",
		},
		{
			name:     "yaml collection is a scalar",
			notation: YAML,
			input:    "name: d\nfields: 5\n",
			err:      "Wrong input format: line 2: expected a mapping or a sequence",
		},
		{
			name:     "resolution error",
			notation: YAML,
			input:    "name: d\nmessages:\n  M: {reference: M}\n",
			err:      "Recursion at message id: 'M' has been detected!",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, err := New(testutils.NewLogger(t), tc.notation).Load(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Nil(t, d)
			assert.Equal(t, tc.err, err.Error())
		})
	}
}

func TestDecodeForms(t *testing.T) {
	t.Parallel()

	l := New(testutils.NewLogger(t), Auto)
	mapForm, err := l.Decode([]byte(`{
		"name": "d",
		"fields": {"A": {"type": "INTEGER", "values": {"ONE": 1, "TWO": {"value": "2"}}, "default_value": 1}}
	}`))
	require.NoError(t, err)
	listForm, err := l.Decode([]byte(`{
		"name": "d",
		"fields": [{"name": "A", "type": "INTEGER", "values": [{"name": "ONE", "value": 1}, {"name": "TWO", "value": "2"}], "defaultValue": "1"}],
		"unknown": {"ignored": [1, 2, 3]}
	}`))
	require.NoError(t, err)
	assert.Equal(t, mapForm, listForm)
	require.NotNil(t, mapForm.Fields[0].DefaultValue)
	assert.Equal(t, "1", *mapForm.Fields[0].DefaultValue)

	yamlForm, err := New(testutils.NewLogger(t), YAML).Decode([]byte(
		"name: d\nfields:\n  - name: A\n    type: INTEGER\n    values: {ONE: 1, TWO: {value: '2'}}\n    default_value: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, mapForm, yamlForm)
}

func TestLoadLogs(t *testing.T) {
	t.Parallel()

	logger, hook := testutils.NewLoggerWithHook(t, logrus.DebugLevel)
	_, err := New(logger, JSON).Load(strings.NewReader(`{"name":"d"}`))
	require.NoError(t, err)

	entries := hook.Drain()
	require.True(t, testutils.LogContains(entries, logrus.DebugLevel, "Dictionary decoded"))
	assert.Equal(t, "loader", entries[0].Data["component"])
	assert.Equal(t, "d", entries[0].Data["namespace"])
}

func TestExtractNamespace(t *testing.T) {
	t.Parallel()

	l := New(testutils.NewLogger(t), Auto)
	for _, name := range []string{"fix.json", "fix.yaml"} {
		ns, err := l.ExtractNamespace(bytes.NewReader(readTestdata(t, name)))
		require.NoError(t, err)
		assert.Equal(t, "FIX_4_4", ns)
	}

	// nothing else is looked at
	ns, err := New(testutils.NewLogger(t), JSON).ExtractNamespace(
		strings.NewReader(`{"messages": {"M": {"reference": "M"}}, "name": "cyclic"}`))
	require.NoError(t, err)
	assert.Equal(t, "cyclic", ns)

	_, err = l.ExtractNamespace(strings.NewReader(`{"name": "x"`))
	require.Error(t, err)
	assert.True(t, dictionary.IsKind(err, dictionary.KindInput))

	_, err = l.ExtractNamespace(strings.NewReader("description: no name\n"))
	require.EqualError(t, err, "Wrong input format: dictionary name is required")

	ns, err = l.ExtractSourceNamespace(&SourceData{Path: "x.yaml", Data: []byte("name: fast\n")})
	require.NoError(t, err)
	assert.Equal(t, "fast", ns)
}

func TestParseNotation(t *testing.T) {
	t.Parallel()

	for in, expected := range map[string]Notation{"": Auto, "auto": Auto, "JSON": JSON, "yml": YAML, " yaml ": YAML} {
		n, err := ParseNotation(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, n, in)
	}
	_, err := ParseNotation("xml")
	require.EqualError(t, err, "unknown notation 'xml', expected one of json, yaml")

	n, ok := NotationFromPath("/a/b.YML")
	assert.True(t, ok)
	assert.Equal(t, YAML, n)
	_, ok = NotationFromPath("/a/b.txt")
	assert.False(t, ok)

	assert.Equal(t, JSON, detectNotation([]byte("\n  {}")))
	assert.Equal(t, YAML, detectNotation([]byte("name: x")))
	assert.Equal(t, "auto", Auto.String())
}

func TestEncodeJSONLayout(t *testing.T) {
	t.Parallel()

	required := true
	data, err := New(testutils.NewLogger(t), JSON).Encode(&raw.Document{
		Name:       "FIX",
		Attributes: []raw.Attribute{{Name: "Encoding", Value: "FIX"}},
		Messages: []raw.Message{{
			Field:  raw.Field{Name: "Order"},
			Fields: []raw.Field{{Name: "qty", Type: "INTEGER", Required: &required}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{
  "name": "FIX",
  "attributes": {
    "Encoding": {
      "value": "FIX"
    }
  },
  "messages": {
    "Order": {
      "fields": {
        "qty": {
          "type": "INTEGER",
          "required": true
        }
      }
    }
  }
}
`, string(data))
}
