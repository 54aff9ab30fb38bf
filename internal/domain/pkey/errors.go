package pkey

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure reported by an RSAKey.
type ErrorKind int

const (
	// KeyGenerationError means the generator rejected the parameters or failed.
	KeyGenerationError ErrorKind = iota + 1
	// KeyFormatError means no supported interpretation of the input succeeded,
	// or a parsed private structure could not yield a consistent public key.
	KeyFormatError
	// InvalidPaddingError means the padding code is outside the supported set.
	InvalidPaddingError
	// MissingKeyMaterialError means the key lacks the material an operation needs.
	MissingKeyMaterialError
	// CipherOperationError means the underlying transform or encoding failed.
	CipherOperationError
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KeyGenerationError:
		return "key generation error"
	case KeyFormatError:
		return "key format error"
	case InvalidPaddingError:
		return "invalid padding"
	case MissingKeyMaterialError:
		return "missing key material"
	case CipherOperationError:
		return "cipher operation error"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is the single error type returned by RSAKey operations.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// Sentinels for errors.Is. A sentinel matches any *Error of the same kind.
var (
	ErrKeyGeneration      = &Error{Kind: KeyGenerationError}
	ErrKeyFormat          = &Error{Kind: KeyFormatError}
	ErrInvalidPadding     = &Error{Kind: InvalidPaddingError}
	ErrMissingKeyMaterial = &Error{Kind: MissingKeyMaterialError}
	ErrCipherOperation    = &Error{Kind: CipherOperationError}
)

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("rsa: %s: %v", msg, e.Err)
	}
	return "rsa: " + msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKeyGeneration returns true if the error is or wraps a KeyGenerationError.
func IsKeyGeneration(err error) bool {
	return errors.Is(err, ErrKeyGeneration)
}

// IsKeyFormat returns true if the error is or wraps a KeyFormatError.
func IsKeyFormat(err error) bool {
	return errors.Is(err, ErrKeyFormat)
}

// IsInvalidPadding returns true if the error is or wraps an InvalidPaddingError.
func IsInvalidPadding(err error) bool {
	return errors.Is(err, ErrInvalidPadding)
}

// IsMissingKeyMaterial returns true if the error is or wraps a MissingKeyMaterialError.
func IsMissingKeyMaterial(err error) bool {
	return errors.Is(err, ErrMissingKeyMaterial)
}

// IsCipherOperation returns true if the error is or wraps a CipherOperationError.
func IsCipherOperation(err error) bool {
	return errors.Is(err, ErrCipherOperation)
}
