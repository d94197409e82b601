// Package ocsp implements the RFC 6960 OCSP response structures needed to
// validate a stapled response: a DER codec, a text dump, signature and
// path verification, and a response builder used to produce test material.
package ocsp

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"time"
)

// ResponseStatus represents the status of an OCSP response.
type ResponseStatus int

const (
	StatusSuccessful       ResponseStatus = 0
	StatusMalformedRequest ResponseStatus = 1
	StatusInternalError    ResponseStatus = 2
	StatusTryLater         ResponseStatus = 3
	// 4 is not used
	StatusSigRequired  ResponseStatus = 5
	StatusUnauthorized ResponseStatus = 6
)

// String returns a human-readable status string.
func (s ResponseStatus) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusMalformedRequest:
		return "malformedRequest"
	case StatusInternalError:
		return "internalError"
	case StatusTryLater:
		return "tryLater"
	case StatusSigRequired:
		return "sigRequired"
	case StatusUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CertStatus represents the revocation status of a certificate.
type CertStatus int

const (
	CertStatusGood    CertStatus = 0
	CertStatusRevoked CertStatus = 1
	CertStatusUnknown CertStatus = 2
)

// String returns a human-readable status string.
func (s CertStatus) String() string {
	switch s {
	case CertStatusGood:
		return "good"
	case CertStatusRevoked:
		return "revoked"
	case CertStatusUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// RevocationReason per RFC 5280 §5.3.1
type RevocationReason int

const (
	ReasonUnspecified          RevocationReason = 0
	ReasonKeyCompromise        RevocationReason = 1
	ReasonCACompromise         RevocationReason = 2
	ReasonAffiliationChanged   RevocationReason = 3
	ReasonSuperseded           RevocationReason = 4
	ReasonCessationOfOperation RevocationReason = 5
	ReasonCertificateHold      RevocationReason = 6
	// 7 is not used
	ReasonRemoveFromCRL      RevocationReason = 8
	ReasonPrivilegeWithdrawn RevocationReason = 9
	ReasonAACompromise       RevocationReason = 10
)

// OCSPResponse represents an OCSP response (RFC 6960 §4.2.1).
// OCSPResponse ::= SEQUENCE {
//
//	responseStatus         OCSPResponseStatus,
//	responseBytes          [0] EXPLICIT ResponseBytes OPTIONAL }
type OCSPResponse struct {
	Status        asn1.Enumerated
	ResponseBytes responseBytes `asn1:"optional,explicit,tag:0"`
}

// responseBytes holds the actual response data.
// ResponseBytes ::= SEQUENCE {
//
//	responseType   OBJECT IDENTIFIER,
//	response       OCTET STRING }
type responseBytes struct {
	ResponseType asn1.ObjectIdentifier
	Response     []byte
}

// BasicOCSPResponse is the standard response type (RFC 6960 §4.2.1).
// BasicOCSPResponse ::= SEQUENCE {
//
//	tbsResponseData      ResponseData,
//	signatureAlgorithm   AlgorithmIdentifier,
//	signature            BIT STRING,
//	certs            [0] EXPLICIT SEQUENCE OF Certificate OPTIONAL }
type BasicOCSPResponse struct {
	TBSResponseData    ResponseData
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Signature          asn1.BitString
	Certs              []asn1.RawValue `asn1:"optional,explicit,tag:0"`
}

// ResponseData contains the response information to be signed. Raw holds
// the DER bytes as received, so the signature is checked over the exact
// octets the responder signed rather than a re-encoding.
// ResponseData ::= SEQUENCE {
//
//	version              [0] EXPLICIT Version DEFAULT v1,
//	responderID              ResponderID,
//	producedAt               GeneralizedTime,
//	responses                SEQUENCE OF SingleResponse,
//	responseExtensions   [1] EXPLICIT Extensions OPTIONAL }
type ResponseData struct {
	Raw                asn1.RawContent
	Version            int              `asn1:"optional,explicit,tag:0,default:0"`
	ResponderID        asn1.RawValue    // CHOICE: byName [1] or byKey [2]
	ProducedAt         time.Time        `asn1:"generalized"`
	Responses          []SingleResponse `asn1:"sequence"`
	ResponseExtensions []pkix.Extension `asn1:"optional,explicit,tag:1"`
}

// SingleResponse contains status for a single certificate.
// SingleResponse ::= SEQUENCE {
//
//	certID                       CertID,
//	certStatus                   CertStatus,
//	thisUpdate                   GeneralizedTime,
//	nextUpdate           [0]     EXPLICIT GeneralizedTime OPTIONAL,
//	singleExtensions     [1]     EXPLICIT Extensions OPTIONAL }
type SingleResponse struct {
	CertID           CertID
	CertStatus       asn1.RawValue
	ThisUpdate       time.Time        `asn1:"generalized"`
	NextUpdate       time.Time        `asn1:"optional,explicit,tag:0,generalized"`
	SingleExtensions []pkix.Extension `asn1:"optional,explicit,tag:1"`
}

// RevokedInfo contains revocation details.
// RevokedInfo ::= SEQUENCE {
//
//	revocationTime              GeneralizedTime,
//	revocationReason    [0]     EXPLICIT CRLReason OPTIONAL }
type RevokedInfo struct {
	RevocationTime   time.Time       `asn1:"generalized"`
	RevocationReason asn1.Enumerated `asn1:"optional,explicit,tag:0"`
}

// ParseResponse parses a DER-encoded OCSP response.
func ParseResponse(data []byte) (*OCSPResponse, error) {
	var resp OCSPResponse
	rest, err := asn1.Unmarshal(data, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OCSP response: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("trailing data after OCSP response")
	}

	return &resp, nil
}

// ResponseStatus returns the protocol-level status of the response.
func (r *OCSPResponse) ResponseStatus() ResponseStatus {
	return ResponseStatus(r.Status)
}

// Marshal re-encodes the response to its canonical DER wire format.
func (r *OCSPResponse) Marshal() ([]byte, error) {
	data, err := asn1.Marshal(*r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OCSP response: %w", err)
	}
	return data, nil
}

// Basic extracts the BasicOCSPResponse envelope carrying the signature,
// the signer identity and the per-certificate status list. Each call
// parses a fresh envelope, so mutating the result (e.g. appending
// certificates) never affects the response it came from.
func (r *OCSPResponse) Basic() (*BasicOCSPResponse, error) {
	if r.ResponseStatus() != StatusSuccessful {
		return nil, fmt.Errorf("no basic response in a %s OCSP response", r.ResponseStatus())
	}
	if !r.ResponseBytes.ResponseType.Equal(OIDOcspBasic) {
		return nil, fmt.Errorf("unsupported response type: %v", r.ResponseBytes.ResponseType)
	}

	var basic BasicOCSPResponse
	rest, err := asn1.Unmarshal(r.ResponseBytes.Response, &basic)
	if err != nil {
		return nil, fmt.Errorf("failed to parse BasicOCSPResponse: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("trailing data after BasicOCSPResponse")
	}

	return &basic, nil
}

// AddCert appends a certificate to the envelope's certificate pool so the
// path builder can see material the responder omitted (e.g. intermediates
// already delivered during the TLS handshake). Duplicates are kept.
func (b *BasicOCSPResponse) AddCert(cert *x509.Certificate) {
	b.Certs = append(b.Certs, asn1.RawValue{FullBytes: cert.Raw})
}

// Certificates parses the envelope's embedded certificates, preserving
// order and skipping entries that do not parse.
func (b *BasicOCSPResponse) Certificates() []*x509.Certificate {
	var certs []*x509.Certificate
	for _, raw := range b.Certs {
		cert, err := x509.ParseCertificate(raw.FullBytes)
		if err != nil {
			continue
		}
		certs = append(certs, cert)
	}
	return certs
}

// parseCertStatus parses the certificate status from the ASN.1 CHOICE.
func parseCertStatus(raw asn1.RawValue) (CertStatus, time.Time, RevocationReason, error) {
	switch raw.Tag {
	case 0: // good [0] IMPLICIT NULL
		return CertStatusGood, time.Time{}, 0, nil

	case 1: // revoked [1] IMPLICIT RevokedInfo
		var revokedInfo RevokedInfo
		if _, err := asn1.UnmarshalWithParams(raw.FullBytes, &revokedInfo, "tag:1"); err != nil {
			return 0, time.Time{}, 0, fmt.Errorf("failed to parse RevokedInfo: %w", err)
		}
		return CertStatusRevoked, revokedInfo.RevocationTime, RevocationReason(revokedInfo.RevocationReason), nil

	case 2: // unknown [2] IMPLICIT NULL
		return CertStatusUnknown, time.Time{}, 0, nil

	default:
		return 0, time.Time{}, 0, fmt.Errorf("unknown cert status tag: %d", raw.Tag)
	}
}
