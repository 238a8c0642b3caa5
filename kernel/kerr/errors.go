// Package kerr defines the kernel's error taxonomy. Every transition
// failure is one of a fixed set of codes; none of them are recoverable.
package kerr

import "fmt"

// Code identifies one of the six frozen failure classes.
type Code int

const (
	// MathOverflow covers any checked arithmetic failure, including division by zero.
	MathOverflow Code = iota + 1
	// InvalidSerialization covers every canonical-JSON rejection reason.
	InvalidSerialization
	// InvalidMerkleWitness covers path-length overflow and root-mismatch on reconstruction.
	InvalidMerkleWitness
	// InvalidVdfProof covers rejection by a delegated verifier: the VDF
	// verifier, and the signature verifier used by kernel/attest.
	InvalidVdfProof
	// PayloadLimitExceeded covers combined or per-pool payload count breaches.
	PayloadLimitExceeded
	// ChainMismatch covers previous_root/epoch_number continuity violations.
	ChainMismatch
)

func (c Code) String() string {
	switch c {
	case MathOverflow:
		return "MathOverflow"
	case InvalidSerialization:
		return "InvalidSerialization"
	case InvalidMerkleWitness:
		return "InvalidMerkleWitness"
	case InvalidVdfProof:
		return "InvalidVdfProof"
	case PayloadLimitExceeded:
		return "PayloadLimitExceeded"
	case ChainMismatch:
		return "ChainMismatch"
	default:
		return "Unknown"
	}
}

// Error is the kernel's single error type. Code identifies the taxonomy
// class; Reason is a short, non-contractual human-readable detail; Cause
// is an optional wrapped underlying error.
type Error struct {
	Code   Code
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Reason, e.Cause)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target shares this error's Code, so callers can
// write errors.Is(err, kerr.New(kerr.MathOverflow, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// New constructs an *Error with the given code and reason.
func New(code Code, reason string) *Error {
	return &Error{Code: code, Reason: reason}
}

// Wrap constructs an *Error with the given code, reason, and cause.
func Wrap(code Code, reason string, cause error) *Error {
	return &Error{Code: code, Reason: reason, Cause: cause}
}
