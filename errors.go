package staplevet

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConstructed is returned by methods on a Response that was not
	// created by ParseStapled.
	ErrNotConstructed = errors.New("staplevet: response was not created by ParseStapled")

	// ErrClosed is returned by methods on a Response after Close.
	ErrClosed = errors.New("staplevet: response is closed")
)

// StatusError reports a response whose protocol-level status is not
// successful, so it carries no verifiable content.
type StatusError struct {
	Status ResponseStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("staplevet: OCSP response status is %s, expected successful", e.Status)
}

// TrustStoreError reports a failure to load the trusted CA bundle.
type TrustStoreError struct {
	Path string
	Err  error
}

func (e *TrustStoreError) Error() string {
	return fmt.Sprintf("staplevet: failed to load trust store %s: %v", e.Path, e.Err)
}

func (e *TrustStoreError) Unwrap() error { return e.Err }

// EncodeError reports a failure to re-encode the response to DER.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("staplevet: failed to encode response: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// VerificationError reports that the response failed cryptographic or
// chain-of-trust verification.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("staplevet: verification failed: %v", e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }
