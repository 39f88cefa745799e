package dictionary

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6dict/dictionary/raw"
)

// sampleDocument covers every feature the resolver knows about.
func sampleDocument() *raw.Document {
	side := field("Side", "CHARACTER", "")
	side.Values = []raw.Attribute{attr("BUY", "", "1"), attr("SELL", "", "2")}
	side.Attributes = []raw.Attribute{attr("tag", "INTEGER", "54")}

	orderSide := field("OrderSide", "", "Side")
	orderSide.Description = "side of the order"
	orderSide.Values = []raw.Attribute{attr("CROSS", "", "8")}

	qty := field("Qty", "DECIMAL", "")
	qty.DefaultValue = raw.String("0.5")
	qty.Required = raw.Bool(true)

	header := message("Header", "", field("MsgType", "STRING", ""))
	header.Attributes = []raw.Attribute{attr("IsHeader", "BOOLEAN", "true")}

	order := message("Order", "Base",
		field("side", "", "OrderSide"),
		raw.Field{Name: "legs", Reference: "Order", IsCollection: raw.Bool(true)},
		field("qty", "", "Qty"),
	)
	order.Description = "new order"
	order.Attributes = []raw.Attribute{attr("MessageType", "", "D")}

	base := message("Base", "", field("header", "", "Header"), field("SendingTime", "DATE_TIME", ""))
	base.Attributes = []raw.Attribute{attr("MessageType", "", "0"), attr("Version", "SHORT", "1")}

	return &raw.Document{
		Name:        "FIX_5_0",
		Description: "test dictionary",
		Attributes:  []raw.Attribute{attr("Encoding", "", "FIX")},
		Fields:      []raw.Field{orderSide, side, qty},
		Messages:    []raw.Message{order, header, base},
	}
}

func TestRawRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := Resolve(sampleDocument())
	require.NoError(t, err)

	doc := d.Raw()
	again, err := Resolve(doc)
	require.NoError(t, err)
	assert.True(t, d.Equal(again))
	assert.True(t, again.Equal(d))

	assert.Equal(t, again.Raw(), doc)

	order, _ := again.MessageStructure("Order")
	assert.Equal(t, []string{"header", "SendingTime", "side", "legs", "qty"}, order.Fields().Names())
	legs, _ := order.Field("legs")
	assert.Same(t, order, legs.Message())
	assert.True(t, legs.IsCollection())
}

func TestRawExport(t *testing.T) {
	t.Parallel()

	d, err := Resolve(sampleDocument())
	require.NoError(t, err)
	doc := d.Raw()

	assert.Equal(t, "FIX_5_0", doc.Name)
	assert.Equal(t, []raw.Attribute{attr("Encoding", "STRING", "FIX")}, doc.Attributes)

	require.Len(t, doc.Fields, 3)
	orderSide := doc.Fields[0]
	assert.Equal(t, "OrderSide", orderSide.Name)
	assert.Equal(t, "CHARACTER", orderSide.Type)
	assert.Equal(t, "Side", orderSide.Reference)
	assert.Equal(t, []raw.Attribute{
		attr("BUY", "CHARACTER", "1"), attr("SELL", "CHARACTER", "2"), attr("CROSS", "CHARACTER", "8"),
	}, orderSide.Values)
	assert.Equal(t, []raw.Attribute{attr("tag", "INTEGER", "54")}, orderSide.Attributes)

	require.Len(t, doc.Messages, 3)
	order := doc.Messages[0]
	assert.Equal(t, "Base", order.Reference)
	assert.Equal(t, []raw.Attribute{attr("MessageType", "STRING", "D"), attr("Version", "SHORT", "1")}, order.Attributes)
	require.Len(t, order.Fields, 5)
	header := order.Fields[0]
	assert.Equal(t, "Header", header.Reference)
	assert.Empty(t, header.Type)
	assert.Nil(t, header.Values)
	qty := order.Fields[4]
	assert.Equal(t, "DECIMAL", qty.Type)
	require.NotNil(t, qty.DefaultValue)
	assert.Equal(t, "0.5", *qty.DefaultValue)
	require.NotNil(t, qty.Required)
	assert.True(t, *qty.Required)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	d, err := Resolve(sampleDocument())
	require.NoError(t, err)

	changes := map[string]func(doc *raw.Document){
		"namespace":          func(doc *raw.Document) { doc.Name = "other" },
		"root attribute":     func(doc *raw.Document) { doc.Attributes[0].Value = "FAST" },
		"field order":        func(doc *raw.Document) { doc.Fields[1], doc.Fields[2] = doc.Fields[2], doc.Fields[1] },
		"field flag":         func(doc *raw.Document) { doc.Fields[2].Required = raw.Bool(false) },
		"enum value":         func(doc *raw.Document) { doc.Fields[1].Values[0].Value = "3" },
		"default value":      func(doc *raw.Document) { doc.Fields[2].DefaultValue = nil },
		"message parent":     func(doc *raw.Document) { doc.Messages[0].Reference = "" },
		"message attribute":  func(doc *raw.Document) { doc.Messages[1].Attributes[0].Value = "false" },
		"nested message":     func(doc *raw.Document) { doc.Messages[0].Fields[1].Reference = "Header" },
		"attribute type":     func(doc *raw.Document) { doc.Messages[2].Attributes[1].Type = "INTEGER" },
		"message field type": func(doc *raw.Document) { doc.Messages[1].Fields[0].Type = "CHARACTER" },
	}
	for name, change := range changes {
		name, change := name, change
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := sampleDocument()
			change(doc)
			other, err := Resolve(doc)
			require.NoError(t, err)
			assert.False(t, d.Equal(other))
			assert.False(t, other.Equal(d))
		})
	}

	assert.True(t, (*Dictionary)(nil).Equal(nil))
	assert.False(t, d.Equal(nil))
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	d, err := Resolve(sampleDocument())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, m := range d.Messages().Values() {
				m.Fields().Each(func(_ string, f *Field) bool {
					_ = f.Attributes().Names()
					_ = f.Values().Values()
					if f.IsComplex() {
						_ = f.Message().Fields().Len()
					}
					if v, ok := f.DefaultValue(); ok {
						_ = v.Interface()
					}
					return true
				})
			}
			_ = d.Raw()
		}()
	}
	wg.Wait()
}
