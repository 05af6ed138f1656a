// Package fecerr defines the errors returned by encoders and decoders.
package fecerr

import "fmt"

// An ErrorCode identifies the kind of an Error.
type ErrorCode uint8

const (
	InternalError ErrorCode = iota + 1
	BufferTooSmall
	NoSymbolToGenerate
	BadMetadata
	UnimplementedEncoder
	NoNextMetadata
	UnimplementedDecoder
	UnusedRepairSymbol
	UnusedSourceSymbol
)

func (c ErrorCode) String() string {
	switch c {
	case InternalError:
		return "internal error"
	case BufferTooSmall:
		return "buffer too small"
	case NoSymbolToGenerate:
		return "no symbol to generate"
	case BadMetadata:
		return "bad metadata"
	case UnimplementedEncoder:
		return "unimplemented encoder"
	case NoNextMetadata:
		return "no next metadata"
	case UnimplementedDecoder:
		return "unimplemented decoder"
	case UnusedRepairSymbol:
		return "unused repair symbol"
	case UnusedSourceSymbol:
		return "unused source symbol"
	default:
		return fmt.Sprintf("unknown error code: %d", uint8(c))
	}
}

// A Category tells a caller how to react to an error.
type Category uint8

const (
	// CategoryCallerContract errors are caused by invalid input. The caller must fix it.
	CategoryCallerContract Category = iota + 1
	// CategoryNoOp errors are expected under loss and duplication. The input is discarded.
	CategoryNoOp
	// CategoryTransient errors mean there's nothing to do right now.
	CategoryTransient
	// CategoryInternal errors are failures of the solver or misconfigurations.
	// The call failed but the instance remains usable.
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryCallerContract:
		return "caller contract"
	case CategoryNoOp:
		return "no-op"
	case CategoryTransient:
		return "transient"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Category returns the category of the code.
func (c ErrorCode) Category() Category {
	switch c {
	case BufferTooSmall, BadMetadata:
		return CategoryCallerContract
	case UnusedRepairSymbol, UnusedSourceSymbol:
		return CategoryNoOp
	case NoSymbolToGenerate, NoNextMetadata:
		return CategoryTransient
	default:
		return CategoryInternal
	}
}

// Error is the error type returned by encoders and decoders.
type Error struct {
	Code ErrorCode
	// Detail is set for internal errors.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Is compares the error codes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Internal creates an internal error.
func Internal(format string, a ...any) *Error {
	err := fmt.Errorf(format, a...)
	return &Error{Code: InternalError, Detail: err.Error(), Err: err}
}

var (
	ErrInternal             = &Error{Code: InternalError}
	ErrBufferTooSmall       = &Error{Code: BufferTooSmall}
	ErrNoSymbolToGenerate   = &Error{Code: NoSymbolToGenerate}
	ErrBadMetadata          = &Error{Code: BadMetadata}
	ErrUnimplementedEncoder = &Error{Code: UnimplementedEncoder}
	ErrNoNextMetadata       = &Error{Code: NoNextMetadata}
	ErrUnimplementedDecoder = &Error{Code: UnimplementedDecoder}
	ErrUnusedRepairSymbol   = &Error{Code: UnusedRepairSymbol}
	ErrUnusedSourceSymbol   = &Error{Code: UnusedSourceSymbol}
)
