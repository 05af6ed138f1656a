package fecwindow

import "github.com/quic-go/fecwindow/internal/fecerr"

type (
	// Error is the error type returned by encoders and decoders.
	Error = fecerr.Error
	// ErrorCode identifies the kind of an Error.
	ErrorCode = fecerr.ErrorCode
	// ErrorCategory tells a caller how to react to an error.
	ErrorCategory = fecerr.Category
)

const (
	InternalError        = fecerr.InternalError
	BufferTooSmall       = fecerr.BufferTooSmall
	NoSymbolToGenerate   = fecerr.NoSymbolToGenerate
	BadMetadata          = fecerr.BadMetadata
	UnimplementedEncoder = fecerr.UnimplementedEncoder
	NoNextMetadata       = fecerr.NoNextMetadata
	UnimplementedDecoder = fecerr.UnimplementedDecoder
	UnusedRepairSymbol   = fecerr.UnusedRepairSymbol
	UnusedSourceSymbol   = fecerr.UnusedSourceSymbol
)

const (
	CategoryCallerContract = fecerr.CategoryCallerContract
	CategoryNoOp           = fecerr.CategoryNoOp
	CategoryTransient      = fecerr.CategoryTransient
	CategoryInternal       = fecerr.CategoryInternal
)

// Sentinel errors, to be used with errors.Is.
var (
	ErrInternal             = fecerr.ErrInternal
	ErrBufferTooSmall       = fecerr.ErrBufferTooSmall
	ErrNoSymbolToGenerate   = fecerr.ErrNoSymbolToGenerate
	ErrBadMetadata          = fecerr.ErrBadMetadata
	ErrUnimplementedEncoder = fecerr.ErrUnimplementedEncoder
	ErrNoNextMetadata       = fecerr.ErrNoNextMetadata
	ErrUnimplementedDecoder = fecerr.ErrUnimplementedDecoder
	ErrUnusedRepairSymbol   = fecerr.ErrUnusedRepairSymbol
	ErrUnusedSourceSymbol   = fecerr.ErrUnusedSourceSymbol
)
