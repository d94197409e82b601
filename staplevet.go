// Package staplevet validates OCSP responses stapled to TLS handshakes.
//
// A Response is created from the DER bytes delivered in the handshake plus
// the certificate chain presented by the peer. It can be dumped as text,
// re-encoded to DER, and verified against a trusted CA bundle on disk. The
// peer chain matters for verification: responders commonly omit their
// intermediates, expecting the TLS chain to fill the gap.
package staplevet

import (
	"crypto/x509"
	"sync"

	"github.com/staplevet/staplevet/internal/ocsp"
	"github.com/staplevet/staplevet/internal/truststore"
)

// ResponseStatus is the protocol-level status of an OCSP response.
type ResponseStatus = ocsp.ResponseStatus

const (
	StatusSuccessful       = ocsp.StatusSuccessful
	StatusMalformedRequest = ocsp.StatusMalformedRequest
	StatusInternalError    = ocsp.StatusInternalError
	StatusTryLater         = ocsp.StatusTryLater
	StatusSigRequired      = ocsp.StatusSigRequired
	StatusUnauthorized     = ocsp.StatusUnauthorized
)

// Response is a stapled OCSP response bound to the peer chain it arrived
// with. Create it with ParseStapled; the zero value refuses all operations.
//
// Response is safe for concurrent use. Close synchronizes with in-flight
// calls and is idempotent.
type Response struct {
	mu        sync.RWMutex
	raw       []byte
	resp      *ocsp.OCSPResponse
	peerChain []*x509.Certificate
	closed    bool
}

// ParseStapled parses the DER bytes of a stapled OCSP response. peerChain
// is the certificate chain presented by the peer during the handshake, in
// presentation order; it is borrowed, not copied, and may be nil.
func ParseStapled(der []byte, peerChain []*x509.Certificate) (*Response, error) {
	raw := make([]byte, len(der))
	copy(raw, der)

	resp, err := ocsp.ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	return &Response{
		raw:       raw,
		resp:      resp,
		peerChain: peerChain,
	}, nil
}

// guard rejects use of closed or non-factory responses. Callers hold at
// least a read lock.
func (r *Response) guard() error {
	if r.closed {
		return ErrClosed
	}
	if r.resp == nil {
		return ErrNotConstructed
	}
	return nil
}

// Status returns the protocol-level response status.
func (r *Response) Status() (ResponseStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.guard(); err != nil {
		return 0, err
	}
	return r.resp.ResponseStatus(), nil
}

// PeerChain returns the peer chain the response was constructed with, in
// the original order.
func (r *Response) PeerChain() ([]*x509.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.peerChain, nil
}

// Text renders the response the way openssl's text dump does. The result
// is a byte dump rather than a string: embedded certificates that do not
// parse are passed through as raw DER.
func (r *Response) Text() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.guard(); err != nil {
		return nil, err
	}
	return ocsp.Dump(r.resp), nil
}

// DER re-encodes the response to its canonical DER wire format.
func (r *Response) DER() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.guard(); err != nil {
		return nil, err
	}

	data, err := r.resp.Marshal()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return data, nil
}

// Verify checks the response against the trusted CA bundle at caFile:
//
//  1. The response status must be successful; anything else is a
//     *StatusError, reported before the bundle is touched.
//  2. The bundle is loaded; failure is a *TrustStoreError.
//  3. The basic response envelope is extracted and augmented with the peer
//     chain, in order, duplicates kept.
//  4. The signature and the signer's chain of trust are verified; failure
//     is a *VerificationError.
func (r *Response) Verify(caFile string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.guard(); err != nil {
		return err
	}

	if status := r.resp.ResponseStatus(); status != ocsp.StatusSuccessful {
		return &StatusError{Status: status}
	}

	store, err := truststore.Load(caFile)
	if err != nil {
		return &TrustStoreError{Path: caFile, Err: err}
	}

	basic, err := r.resp.Basic()
	if err != nil {
		return &VerificationError{Err: err}
	}

	for _, cert := range r.peerChain {
		basic.AddCert(cert)
	}

	if err := ocsp.VerifyBasic(basic, ocsp.BasicVerifyOptions{Roots: store.Pool()}); err != nil {
		return &VerificationError{Err: err}
	}

	return nil
}

// Close releases the response. Further calls on the Response return
// ErrClosed. Close is idempotent and synchronizes with in-flight reads.
// The peer chain is borrowed from the caller and is not touched beyond
// dropping the reference.
func (r *Response) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	r.raw = nil
	r.resp = nil
	r.peerChain = nil
	return nil
}
