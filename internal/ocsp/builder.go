package ocsp

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"hash"
	"time"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// ResponseBuilder helps construct OCSP responses.
type ResponseBuilder struct {
	responderCert *x509.Certificate
	signer        crypto.Signer
	producedAt    time.Time
	responses     []SingleResponse
	extensions    []pkix.Extension
	extraCerts    []*x509.Certificate
	includeCerts  bool
}

// NewResponseBuilder creates a new response builder.
func NewResponseBuilder(responderCert *x509.Certificate, signer crypto.Signer) *ResponseBuilder {
	return &ResponseBuilder{
		responderCert: responderCert,
		signer:        signer,
		producedAt:    time.Now().UTC(),
		includeCerts:  true,
	}
}

// SetProducedAt sets the producedAt time.
func (b *ResponseBuilder) SetProducedAt(t time.Time) *ResponseBuilder {
	b.producedAt = t.UTC()
	return b
}

// IncludeCerts sets whether to include the responder certificate.
func (b *ResponseBuilder) IncludeCerts(include bool) *ResponseBuilder {
	b.includeCerts = include
	return b
}

// AddCert embeds an additional certificate in the response, after the
// responder certificate.
func (b *ResponseBuilder) AddCert(cert *x509.Certificate) *ResponseBuilder {
	b.extraCerts = append(b.extraCerts, cert)
	return b
}

// AddGood adds a "good" status for a certificate.
func (b *ResponseBuilder) AddGood(certID *CertID, thisUpdate, nextUpdate time.Time) *ResponseBuilder {
	// good [0] IMPLICIT NULL
	certStatus := asn1.RawValue{
		Class:      asn1.ClassContextSpecific,
		Tag:        0,
		IsCompound: false,
		Bytes:      nil,
	}

	b.responses = append(b.responses, SingleResponse{
		CertID:     *certID,
		CertStatus: certStatus,
		ThisUpdate: thisUpdate.UTC(),
		NextUpdate: nextUpdate.UTC(),
	})
	return b
}

// AddRevoked adds a "revoked" status for a certificate.
func (b *ResponseBuilder) AddRevoked(certID *CertID, thisUpdate, nextUpdate time.Time, revocationTime time.Time, reason RevocationReason) *ResponseBuilder {
	// revoked [1] IMPLICIT RevokedInfo
	revokedInfo := RevokedInfo{
		RevocationTime:   revocationTime.UTC(),
		RevocationReason: asn1.Enumerated(reason),
	}
	revokedBytes, _ := asn1.MarshalWithParams(revokedInfo, "tag:1")

	certStatus := asn1.RawValue{FullBytes: revokedBytes}

	b.responses = append(b.responses, SingleResponse{
		CertID:     *certID,
		CertStatus: certStatus,
		ThisUpdate: thisUpdate.UTC(),
		NextUpdate: nextUpdate.UTC(),
	})
	return b
}

// AddUnknown adds an "unknown" status for a certificate.
func (b *ResponseBuilder) AddUnknown(certID *CertID, thisUpdate, nextUpdate time.Time) *ResponseBuilder {
	// unknown [2] IMPLICIT NULL
	certStatus := asn1.RawValue{
		Class:      asn1.ClassContextSpecific,
		Tag:        2,
		IsCompound: false,
		Bytes:      nil,
	}

	b.responses = append(b.responses, SingleResponse{
		CertID:     *certID,
		CertStatus: certStatus,
		ThisUpdate: thisUpdate.UTC(),
		NextUpdate: nextUpdate.UTC(),
	})
	return b
}

// AddNonce adds a nonce extension to the response.
func (b *ResponseBuilder) AddNonce(nonce []byte) *ResponseBuilder {
	if len(nonce) > 0 {
		nonceValue, _ := asn1.Marshal(nonce)
		b.extensions = append(b.extensions, pkix.Extension{
			Id:       OIDOcspNonce,
			Critical: false,
			Value:    nonceValue,
		})
	}
	return b
}

// Build creates and signs the OCSP response.
func (b *ResponseBuilder) Build() ([]byte, error) {
	if len(b.responses) == 0 {
		return nil, fmt.Errorf("no responses added")
	}

	// Build responder ID (byKey [2])
	// ResponderID ::= CHOICE {
	//    byName   [1] Name,
	//    byKey    [2] KeyHash }
	// KeyHash ::= OCTET STRING -- SHA-1 hash of responder's public key (RFC 6960)
	//
	// RFC 6960 Section 4.2.1: KeyHash is SHA-1 hash of the value of the BIT STRING
	// subjectPublicKey (excluding tag, length, and unused bits octet).
	// The [2] tag is EXPLICIT (constructed), wrapping an OCTET STRING.
	pubKeyBytes, err := subjectPublicKeyBytes(b.responderCert)
	if err != nil {
		return nil, err
	}
	keyHash := sha1.Sum(pubKeyBytes)

	octetString, err := asn1.Marshal(keyHash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key hash: %w", err)
	}

	responderID := asn1.RawValue{
		Class:      asn1.ClassContextSpecific,
		Tag:        2,
		IsCompound: true,
		Bytes:      octetString,
	}

	responseData := ResponseData{
		Version:            0,
		ResponderID:        responderID,
		ProducedAt:         b.producedAt,
		Responses:          b.responses,
		ResponseExtensions: b.extensions,
	}

	// Marshal ResponseData for signing, then pin the signed octets in Raw
	// so the outer marshal emits exactly what was signed.
	tbsData, err := asn1.Marshal(responseData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	responseData.Raw = asn1.RawContent(tbsData)

	signature, sigAlg, err := b.sign(tbsData)
	if err != nil {
		return nil, fmt.Errorf("failed to sign response: %w", err)
	}

	basicResp := BasicOCSPResponse{
		TBSResponseData:    responseData,
		SignatureAlgorithm: sigAlg,
		Signature:          asn1.BitString{Bytes: signature, BitLength: len(signature) * 8},
	}

	if b.includeCerts {
		basicResp.Certs = []asn1.RawValue{{FullBytes: b.responderCert.Raw}}
	}
	for _, cert := range b.extraCerts {
		basicResp.Certs = append(basicResp.Certs, asn1.RawValue{FullBytes: cert.Raw})
	}

	basicRespBytes, err := asn1.Marshal(basicResp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal basic response: %w", err)
	}

	response := OCSPResponse{
		Status: asn1.Enumerated(StatusSuccessful),
		ResponseBytes: responseBytes{
			ResponseType: OIDOcspBasic,
			Response:     basicRespBytes,
		},
	}

	return asn1.Marshal(response)
}

// sign signs the data with the responder's key.
func (b *ResponseBuilder) sign(data []byte) ([]byte, pkix.AlgorithmIdentifier, error) {
	pub := b.signer.Public()

	switch pubKey := pub.(type) {
	case *ecdsa.PublicKey:
		// Use SHA-256 for P-256, SHA-384 for P-384, SHA-512 for P-521
		var hashAlg crypto.Hash
		var sigAlg pkix.AlgorithmIdentifier

		switch pubKey.Curve.Params().BitSize {
		case 256:
			hashAlg = crypto.SHA256
			sigAlg = pkix.AlgorithmIdentifier{Algorithm: OIDECDSAWithSHA256}
		case 384:
			hashAlg = crypto.SHA384
			sigAlg = pkix.AlgorithmIdentifier{Algorithm: OIDECDSAWithSHA384}
		case 521:
			hashAlg = crypto.SHA512
			sigAlg = pkix.AlgorithmIdentifier{Algorithm: OIDECDSAWithSHA512}
		default:
			return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("unsupported ECDSA curve size: %d", pubKey.Curve.Params().BitSize)
		}

		digest := computeDigest(data, hashAlg)
		sig, err := b.signer.Sign(rand.Reader, digest, hashAlg)
		return sig, sigAlg, err

	case ed25519.PublicKey:
		sig, err := b.signer.Sign(rand.Reader, data, crypto.Hash(0))
		return sig, pkix.AlgorithmIdentifier{Algorithm: OIDEd25519}, err

	case *rsa.PublicKey:
		hashAlg := crypto.SHA256
		sigAlg := pkix.AlgorithmIdentifier{Algorithm: OIDSHA256WithRSA}
		digest := computeDigest(data, hashAlg)
		sig, err := b.signer.Sign(rand.Reader, digest, hashAlg)
		return sig, sigAlg, err

	case *mldsa44.PublicKey:
		sig, err := b.signer.Sign(rand.Reader, data, crypto.Hash(0))
		return sig, pkix.AlgorithmIdentifier{Algorithm: OIDMLDSA44}, err

	case *mldsa65.PublicKey:
		sig, err := b.signer.Sign(rand.Reader, data, crypto.Hash(0))
		return sig, pkix.AlgorithmIdentifier{Algorithm: OIDMLDSA65}, err

	case *mldsa87.PublicKey:
		sig, err := b.signer.Sign(rand.Reader, data, crypto.Hash(0))
		return sig, pkix.AlgorithmIdentifier{Algorithm: OIDMLDSA87}, err

	case *slhdsa.PublicKey:
		sig, err := b.signer.Sign(rand.Reader, data, crypto.Hash(0))
		return sig, pkix.AlgorithmIdentifier{Algorithm: slhdsaIDToOID(pubKey.ID)}, err

	case slhdsa.PublicKey:
		sig, err := b.signer.Sign(rand.Reader, data, crypto.Hash(0))
		return sig, pkix.AlgorithmIdentifier{Algorithm: slhdsaIDToOID(pubKey.ID)}, err

	default:
		return nil, pkix.AlgorithmIdentifier{}, fmt.Errorf("unsupported key type: %T", pub)
	}
}

// slhdsaIDToOID maps SLH-DSA ID to the corresponding OID.
func slhdsaIDToOID(id slhdsa.ID) asn1.ObjectIdentifier {
	switch id {
	case slhdsa.SHA2_128s:
		return OIDSLHDSA128s
	case slhdsa.SHA2_128f:
		return OIDSLHDSA128f
	case slhdsa.SHA2_192s:
		return OIDSLHDSA192s
	case slhdsa.SHA2_192f:
		return OIDSLHDSA192f
	case slhdsa.SHA2_256s:
		return OIDSLHDSA256s
	case slhdsa.SHA2_256f:
		return OIDSLHDSA256f
	default:
		return nil
	}
}

func computeDigest(data []byte, alg crypto.Hash) []byte {
	var h hash.Hash
	switch alg {
	case crypto.SHA256:
		h = sha256.New()
	case crypto.SHA384:
		h = sha512.New384()
	case crypto.SHA512:
		h = sha512.New()
	default:
		h = sha256.New()
	}
	h.Write(data)
	return h.Sum(nil)
}

// NewErrorResponse creates an error OCSP response (no signature).
func NewErrorResponse(status ResponseStatus) ([]byte, error) {
	if status == StatusSuccessful {
		return nil, fmt.Errorf("cannot create error response with successful status")
	}

	response := OCSPResponse{
		Status: asn1.Enumerated(status),
	}

	return asn1.Marshal(response)
}
