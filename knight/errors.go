package knight

import "fmt"

// ErrorKind classifies a Knight runtime or parse failure.
type ErrorKind int

const (
	// ErrUndefinedVariable is raised when a variable is read before assignment.
	ErrUndefinedVariable ErrorKind = iota
	// ErrInvalidConversion is raised when a value has no coercion to the requested tag.
	ErrInvalidConversion
	// ErrInvalidType is raised when an operator receives a tag its contract disallows.
	ErrInvalidType
	// ErrNotAnAsciiInteger is raised by ASCII when an integer falls outside 0..=255.
	ErrNotAnAsciiInteger
	// ErrEmptyString is raised by ASCII on an empty string argument.
	ErrEmptyString
	// ErrDomainError covers QUIT's out-of-range exit code and negative GET/SET bounds.
	ErrDomainError
	// ErrDivisionByZero is raised by / and % with a zero divisor.
	ErrDivisionByZero
	// ErrNegativeDenominator is raised by % when the divisor is negative.
	ErrNegativeDenominator
	// ErrOverflow is raised when an integer operation overflows the 61-bit range.
	ErrOverflow
	// ErrOutOfBounds is raised by GET/SET when start+length exceeds the string length.
	ErrOutOfBounds
	// ErrEndOfStream is raised by the parser when input is exhausted mid-token.
	ErrEndOfStream
	// ErrStringDoesntEnd is raised when a quoted string literal has no closing delimiter.
	ErrStringDoesntEnd
	// ErrUnknownTokenStart is raised when the parser can't classify the next byte.
	ErrUnknownTokenStart
	// ErrIntegerLiteralOverflow is raised when an integer literal exceeds the 61-bit range.
	ErrIntegerLiteralOverflow
)

var errorKindNames = [...]string{
	ErrUndefinedVariable:      "UndefinedVariable",
	ErrInvalidConversion:      "InvalidConversion",
	ErrInvalidType:            "InvalidType",
	ErrNotAnAsciiInteger:      "NotAnAsciiInteger",
	ErrEmptyString:            "EmptyString",
	ErrDomainError:            "DomainError",
	ErrDivisionByZero:         "DivisionByZero",
	ErrNegativeDenominator:    "NegativeDenominator",
	ErrOverflow:               "Overflow",
	ErrOutOfBounds:            "OutOfBounds",
	ErrEndOfStream:            "EndOfStream",
	ErrStringDoesntEnd:        "StringDoesntEnd",
	ErrUnknownTokenStart:      "UnknownTokenStart",
	ErrIntegerLiteralOverflow: "IntegerLiteralOverflow",
}

func (k ErrorKind) String() string {
	if int(k) < 0 || int(k) >= len(errorKindNames) {
		return "Unknown"
	}
	return errorKindNames[k]
}

// Error is the single error type the core returns. All core-level failures
// are fatal to the enclosing Play invocation; nothing here is retried.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// newError builds an *Error with a formatted message.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of err if it is a *Error, and ok=false otherwise.
func KindOf(err error) (ErrorKind, bool) {
	ke, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return ke.Kind, true
}
