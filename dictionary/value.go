package dictionary

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Layouts accepted for the temporal types. Fractional seconds are optional.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05.999999999"
	DateTimeLayout = "2006-01-02T15:04:05.999999999"
)

// Value is a typed literal: the text as it was declared plus its value cast
// to the Go type matching the scalar type.
//
//	String   -> string
//	Bool     -> bool
//	Byte     -> int8
//	Short    -> int16
//	Int      -> int32
//	Long     -> int64
//	Float    -> float32
//	Double   -> float64
//	Decimal  -> *big.Rat
//	Char     -> rune
//	Date, Time, DateTime -> time.Time
type Value struct {
	typ     ScalarType
	literal string
	cast    any
}

// Type returns the scalar type of the value.
func (v Value) Type() ScalarType { return v.typ }

// Literal returns the declared text of the value.
func (v Value) Literal() string { return v.literal }

// Interface returns the cast value. Decimal values are returned as a copy so
// the model can't be altered through them.
func (v Value) Interface() any {
	if r, ok := v.cast.(*big.Rat); ok {
		return new(big.Rat).Set(r)
	}
	return v.cast
}

// Int64 returns the value of any integer type widened to int64.
func (v Value) Int64() (int64, bool) {
	switch n := v.cast.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

// Float64 returns the value of a floating point or decimal type.
func (v Value) Float64() (float64, bool) {
	switch n := v.cast.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case *big.Rat:
		f, _ := n.Float64()
		return f, true
	default:
		return 0, false
	}
}

// Bool returns the value of a Bool typed value.
func (v Value) Bool() (bool, bool) {
	b, ok := v.cast.(bool)
	return b, ok
}

// Time returns the value of a Date, Time or DateTime typed value.
func (v Value) Time() (time.Time, bool) {
	t, ok := v.cast.(time.Time)
	return t, ok
}

// Equal compares type and literal.
func (v Value) Equal(o Value) bool {
	return v.typ == o.typ && v.literal == o.literal
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%s)", v.typ, v.literal)
}

var (
	errNotBool = errors.New("expected true or false")
	errNotChar = errors.New("expected exactly one character")
)

// newValue casts literal to t.
func newValue(t ScalarType, literal string) (*Value, error) {
	cast, err := castLiteral(t, literal)
	if err != nil {
		return nil, err
	}
	return &Value{typ: t, literal: literal, cast: cast}, nil
}

func castLiteral(t ScalarType, literal string) (any, error) {
	switch t {
	case String:
		return literal, nil
	case Bool:
		switch strings.ToLower(literal) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errNotBool
	case Byte:
		n, err := strconv.ParseInt(literal, 10, 8)
		return int8(n), err
	case Short:
		n, err := strconv.ParseInt(literal, 10, 16)
		return int16(n), err
	case Int:
		n, err := strconv.ParseInt(literal, 10, 32)
		return int32(n), err
	case Long:
		return strconv.ParseInt(literal, 10, 64)
	case Float:
		f, err := strconv.ParseFloat(literal, 32)
		return float32(f), err
	case Double:
		return strconv.ParseFloat(literal, 64)
	case Decimal:
		// big.Rat also reads fractions, which aren't decimal literals.
		if strings.Contains(literal, "/") {
			return nil, fmt.Errorf("invalid decimal %q", literal)
		}
		r, ok := new(big.Rat).SetString(literal)
		if !ok {
			return nil, fmt.Errorf("invalid decimal %q", literal)
		}
		return r, nil
	case Char:
		if !utf8.ValidString(literal) || utf8.RuneCountInString(literal) != 1 {
			return nil, errNotChar
		}
		r, _ := utf8.DecodeRuneInString(literal)
		return r, nil
	case Date:
		return time.Parse(DateLayout, literal)
	case Time:
		return time.Parse(TimeLayout, literal)
	case DateTime:
		return time.Parse(DateTimeLayout, literal)
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}
