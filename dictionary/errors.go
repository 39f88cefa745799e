package dictionary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/liuxd6825/k6dict/dictionary/raw"
	"github.com/liuxd6825/k6dict/errext"
	"github.com/liuxd6825/k6dict/errext/exitcodes"
)

// ErrorKind classifies dictionary errors.
type ErrorKind uint8

const (
	// KindInput is malformed input: unparsable text, duplicate keys or a
	// missing dictionary name. The parser's error is wrapped.
	KindInput ErrorKind = iota + 1
	// KindValidation is a structural problem found during resolution.
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the only error kind returned by dictionary loading. The message is
// caller facing and stable; tests and tooling match on it.
type Error struct {
	kind    ErrorKind
	message string
	cause   error
}

var (
	_ errext.HasExitCode = (*Error)(nil)
	_ errext.HasHint     = (*Error)(nil)
)

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Message returns the message without the wrapped cause.
func (e *Error) Message() string { return e.message }

// Kind returns the error classification.
func (e *Error) Kind() ErrorKind { return e.kind }

// Unwrap returns the parser error for input errors, nil otherwise.
func (e *Error) Unwrap() error { return e.cause }

// ExitCode implements errext.HasExitCode.
func (e *Error) ExitCode() exitcodes.ExitCode {
	if e.kind == KindInput {
		return exitcodes.InvalidInput
	}
	return exitcodes.InvalidDictionary
}

// Hint implements errext.HasHint.
func (e *Error) Hint() string {
	if e.kind == KindInput {
		return "the dictionary text could not be read, check its syntax and the notation it is loaded with"
	}
	return "the dictionary is unusable until the declaration named in the error is fixed"
}

// IsKind reports whether err is, or wraps, a dictionary error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var derr *Error
	return errors.As(err, &derr) && derr.kind == kind
}

// NewInputError wraps a parser error as a malformed input error.
func NewInputError(cause error) *Error {
	return &Error{kind: KindInput, message: "Wrong input format", cause: cause}
}

func validationf(format string, a ...any) *Error {
	return &Error{kind: KindValidation, message: fmt.Sprintf(format, a...)}
}

// fromRawError turns a raw.Document.Validate failure into a dictionary error.
func fromRawError(err error) *Error {
	var dv *raw.DuplicateValueError
	if errors.As(err, &dv) {
		return validationf("%s", dv.Error())
	}
	return NewInputError(err)
}

func errRecursiveFields(stack []string) *Error {
	return validationf("Recursive reference for fields with ids: [%s]", strings.Join(stack, ","))
}

func errRecursiveMessage(name string) *Error {
	return validationf("Recursion at message id: '%s' has been detected!", name)
}

func errNoTypeNorReference(field, owner string) *Error {
	if owner == "" {
		return validationf("Field [%s] in dictionary fields has neither a type nor a reference", field)
	}
	return validationf("Field [%s] in message [%s] has neither a type nor a reference", field, owner)
}

func errUnknownFieldType(field, owner, typ string) *Error {
	if owner == "" {
		return validationf("Field [%s] in dictionary fields has unknown type [%s]", field, typ)
	}
	return validationf("Field [%s] in message [%s] has unknown type [%s]", field, owner, typ)
}

func errUnknownReference(field, owner, ref string) *Error {
	if owner == "" {
		return validationf("Field [%s] in dictionary fields refers to unknown field [%s]", field, ref)
	}
	return validationf("Field [%s] in message [%s] refers to unknown field or message [%s]", field, owner, ref)
}

func errLibraryMessageReference(field, ref string) *Error {
	return validationf(
		"Field [%s] in dictionary fields refers to message [%s]; only fields can be referenced here",
		field, ref,
	)
}

func errParentIsField(message, parent string) *Error {
	return validationf("Message [%s] extends [%s] which is a field, not a message", message, parent)
}

func errUnknownParent(message, parent string) *Error {
	return validationf("Message [%s] extends unknown message [%s]", message, parent)
}

func errAttributeType(attribute, typ string) *Error {
	return validationf("Unknown type [%s] of attribute [%s]", typ, attribute)
}

func errAttributeValue(attribute, literal string, typ ScalarType) *Error {
	return validationf("Cannot parse value [%s] of attribute [%s] as %s", literal, attribute, typ)
}

func errDefaultValue(field, literal string, typ ScalarType) *Error {
	return validationf("Cannot parse default value [%s] of field [%s] as %s", literal, field, typ)
}
