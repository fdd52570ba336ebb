package interp

import (
	"errors"
	"fmt"

	"tessera/internal/ir"
)

// Code identifies the type of interpreter error.
type Code int

// Stable error codes - do not change values.
const (
	CodeUnboundValue     Code = 2001 // IP2001: read of an SSA value with no binding
	CodeTypeMismatch     Code = 2002 // IP2002: bound value has the wrong dynamic type
	CodeFuelExhausted    Code = 2003 // IP2003: step budget reached zero
	CodeNoCallTarget     Code = 2004 // IP2004: call with no resolvable callee
	CodeUnresolvedBranch Code = 2005 // IP2005: branch reached the loop undecided
	CodeBadContinuation  Code = 2006 // IP2006: continuation the loop cannot act on
	CodeArity            Code = 2007 // IP2007: argument count mismatch at a control transfer
	CodeNotInterpretable Code = 2008 // IP2008: instruction without concrete semantics
)

// String returns the code as "IP2001" format.
func (c Code) String() string {
	return fmt.Sprintf("IP%d", c)
}

// Error is a recoverable interpreter error. Dialect-level errors that are not
// of this type bubble through the dispatch loop unchanged.
type Error struct {
	Code    Code
	Message string
	Stmt    ir.StmtID // statement being dispatched, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("interp %s: %s", e.Code, e.Message)
}

// Errf constructs a coded interpreter error.
func Errf(code Code, stmt ir.StmtID, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Stmt: stmt}
}

// IsCode reports whether err is an interpreter error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// ErrPaused is returned by Run/Resume/Step when an armed breakpoint halts the
// loop. The stack and frames stay intact; Resume continues past the
// breakpoint.
var ErrPaused = errors.New("interp: paused at breakpoint")
