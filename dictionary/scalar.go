package dictionary

import "strings"

// ScalarType is the type tag of a simple field, an attribute or an
// enumerated value.
type ScalarType uint8

// Supported scalar types. Unset is only ever seen on complex fields.
const (
	Unset ScalarType = iota
	String
	Bool
	Byte
	Short
	Int
	Long
	Float
	Double
	Decimal
	Char
	Date
	Time
	DateTime
)

//nolint:gochecknoglobals
var scalarNames = [...]string{
	Unset:    "",
	String:   "STRING",
	Bool:     "BOOLEAN",
	Byte:     "BYTE",
	Short:    "SHORT",
	Int:      "INTEGER",
	Long:     "LONG",
	Float:    "FLOAT",
	Double:   "DOUBLE",
	Decimal:  "DECIMAL",
	Char:     "CHARACTER",
	Date:     "DATE",
	Time:     "TIME",
	DateTime: "DATE_TIME",
}

// scalarAliases maps lower-cased spellings to types. Dictionaries produced for
// JVM tooling name their types after the boxed java classes.
//
//nolint:gochecknoglobals
var scalarAliases = map[string]ScalarType{
	"string":    String,
	"str":       String,
	"boolean":   Bool,
	"bool":      Bool,
	"byte":      Byte,
	"int8":      Byte,
	"short":     Short,
	"int16":     Short,
	"integer":   Int,
	"int":       Int,
	"int32":     Int,
	"long":      Long,
	"int64":     Long,
	"float":     Float,
	"float32":   Float,
	"double":    Double,
	"float64":   Double,
	"decimal":   Decimal,
	"character": Char,
	"char":      Char,
	"date":      Date,
	"time":      Time,
	"date_time": DateTime,
	"datetime":  DateTime,

	"java.lang.string":        String,
	"java.lang.boolean":       Bool,
	"java.lang.byte":          Byte,
	"java.lang.short":         Short,
	"java.lang.integer":       Int,
	"java.lang.long":          Long,
	"java.lang.float":         Float,
	"java.lang.double":        Double,
	"java.math.bigdecimal":    Decimal,
	"java.lang.character":     Char,
	"java.time.localdate":     Date,
	"java.time.localtime":     Time,
	"java.time.localdatetime": DateTime,
}

// ParseScalarType returns the type with the given name. Names are matched
// case-insensitively against the canonical names and their aliases.
func ParseScalarType(name string) (ScalarType, bool) {
	t, ok := scalarAliases[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// String returns the canonical name of the type.
func (t ScalarType) String() string {
	if int(t) < len(scalarNames) {
		return scalarNames[t]
	}
	return "UNKNOWN"
}

// IsNumeric returns true for the integer, floating point and decimal types.
func (t ScalarType) IsNumeric() bool {
	switch t {
	case Byte, Short, Int, Long, Float, Double, Decimal:
		return true
	default:
		return false
	}
}
