package ocsp

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// BasicVerifyOptions contains options for verifying a BasicOCSPResponse.
type BasicVerifyOptions struct {
	// Roots is the pool of trusted CA certificates the responder chain
	// must terminate in.
	Roots *x509.CertPool

	// CurrentTime is the time to use for chain validation (default: now).
	CurrentTime time.Time
}

// VerifyBasic verifies the signature and the signer's chain of trust on a
// BasicOCSPResponse:
//
//  1. Locate the signer among the envelope's embedded certificates by
//     matching the ResponderID (byName against the subject, byKey against
//     the SHA-1 hash of the subject public key).
//  2. Check the signature over the tbsResponseData octets.
//  3. Check the signer is authorized to sign responses (id-kp-OCSPSigning,
//     unless the signer is itself a CA; RFC 6960 Section 4.2.2.2).
//  4. Build a chain from the signer to a trusted root, using the envelope's
//     certificates as untrusted intermediates.
func VerifyBasic(basic *BasicOCSPResponse, opts BasicVerifyOptions) error {
	if opts.Roots == nil {
		return fmt.Errorf("no trusted roots provided")
	}
	if opts.CurrentTime.IsZero() {
		opts.CurrentTime = time.Now()
	}

	certs := basic.Certificates()
	if len(certs) == 0 {
		return fmt.Errorf("no certificates in response")
	}

	signer, err := findSigner(basic.TBSResponseData.ResponderID, certs)
	if err != nil {
		return err
	}

	tbsData := []byte(basic.TBSResponseData.Raw)
	if len(tbsData) == 0 {
		tbsData, err = asn1.Marshal(basic.TBSResponseData)
		if err != nil {
			return fmt.Errorf("failed to marshal TBS response data: %w", err)
		}
	}

	if err := verifySignature(tbsData, basic.Signature.Bytes, signer, basic.SignatureAlgorithm.Algorithm); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	// A delegated responder must carry the OCSP signing EKU; a CA signing
	// for its own issuees is exempt.
	if !signer.IsCA {
		if err := verifyResponderAuthorization(signer); err != nil {
			return fmt.Errorf("responder authorization failed: %w", err)
		}
	}

	intermediates := x509.NewCertPool()
	for _, cert := range certs {
		if !bytes.Equal(cert.Raw, signer.Raw) {
			intermediates.AddCert(cert)
		}
	}

	if _, err := signer.Verify(x509.VerifyOptions{
		Roots:         opts.Roots,
		Intermediates: intermediates,
		CurrentTime:   opts.CurrentTime,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); err != nil {
		return fmt.Errorf("failed to build responder chain: %w", err)
	}

	return nil
}

// findSigner locates the certificate matching the ResponderID CHOICE among
// the candidate certificates.
func findSigner(responderID asn1.RawValue, certs []*x509.Certificate) (*x509.Certificate, error) {
	switch responderID.Tag {
	case 1: // byName [1] Name
		for _, cert := range certs {
			if bytes.Equal(cert.RawSubject, responderID.Bytes) {
				return cert, nil
			}
		}

	case 2: // byKey [2] KeyHash
		var keyHash []byte
		if _, err := asn1.Unmarshal(responderID.Bytes, &keyHash); err != nil {
			return nil, fmt.Errorf("failed to parse responder key hash: %w", err)
		}
		for _, cert := range certs {
			pubKeyBytes, err := subjectPublicKeyBytes(cert)
			if err != nil {
				continue
			}
			h := sha1.Sum(pubKeyBytes)
			if bytes.Equal(h[:], keyHash) {
				return cert, nil
			}
		}

	default:
		return nil, fmt.Errorf("unknown responder ID tag: %d", responderID.Tag)
	}

	return nil, fmt.Errorf("responder certificate not found in response")
}

// verifyResponderAuthorization checks that a delegated OCSP responder has the
// required id-kp-OCSPSigning extended key usage (RFC 6960 Section 4.2.2.2).
func verifyResponderAuthorization(cert *x509.Certificate) error {
	for _, eku := range cert.ExtKeyUsage {
		if eku == x509.ExtKeyUsageOCSPSigning {
			return nil
		}
	}

	// PQC certificates land in UnknownExtKeyUsage when Go cannot parse
	// the public key.
	for _, oid := range cert.UnknownExtKeyUsage {
		if oid.Equal(OIDExtKeyUsageOCSPSigning) {
			return nil
		}
	}

	return fmt.Errorf("responder certificate does not have id-kp-OCSPSigning EKU")
}

// verifySignature verifies the signature on the response. Classical keys
// (ECDSA, RSA, Ed25519) come out of Go's certificate parser; PQC keys
// (ML-DSA, SLH-DSA) are parsed out of RawSubjectPublicKeyInfo because Go
// leaves them nil.
func verifySignature(data, signature []byte, cert *x509.Certificate, sigAlgOID asn1.ObjectIdentifier) error {
	switch pubKey := cert.PublicKey.(type) {
	case *ecdsa.PublicKey:
		var hashAlg crypto.Hash
		switch {
		case sigAlgOID.Equal(OIDECDSAWithSHA256):
			hashAlg = crypto.SHA256
		case sigAlgOID.Equal(OIDECDSAWithSHA384):
			hashAlg = crypto.SHA384
		case sigAlgOID.Equal(OIDECDSAWithSHA512):
			hashAlg = crypto.SHA512
		default:
			return fmt.Errorf("unsupported ECDSA signature algorithm: %v", sigAlgOID)
		}

		digest := computeDigest(data, hashAlg)
		if !ecdsa.VerifyASN1(pubKey, digest, signature) {
			return fmt.Errorf("ECDSA signature verification failed")
		}
		return nil

	case ed25519.PublicKey:
		if !ed25519.Verify(pubKey, data, signature) {
			return fmt.Errorf("Ed25519 signature verification failed")
		}
		return nil

	case *rsa.PublicKey:
		var hashAlg crypto.Hash
		switch {
		case sigAlgOID.Equal(OIDSHA256WithRSA):
			hashAlg = crypto.SHA256
		case sigAlgOID.Equal(OIDSHA384WithRSA):
			hashAlg = crypto.SHA384
		case sigAlgOID.Equal(OIDSHA512WithRSA):
			hashAlg = crypto.SHA512
		default:
			return fmt.Errorf("unsupported RSA signature algorithm: %v", sigAlgOID)
		}

		digest := computeDigest(data, hashAlg)
		if err := rsa.VerifyPKCS1v15(pubKey, hashAlg, digest, signature); err != nil {
			return fmt.Errorf("RSA signature verification failed: %w", err)
		}
		return nil

	default:
		return verifyPQCSignature(data, signature, cert, sigAlgOID)
	}
}

// verifyPQCSignature verifies an ML-DSA or SLH-DSA signature, pulling the
// public key out of the certificate's raw SubjectPublicKeyInfo.
func verifyPQCSignature(data, signature []byte, cert *x509.Certificate, sigAlgOID asn1.ObjectIdentifier) error {
	pubKeyBytes, err := subjectPublicKeyBytes(cert)
	if err != nil {
		return err
	}

	switch {
	case sigAlgOID.Equal(OIDMLDSA44):
		pub := new(mldsa44.PublicKey)
		if err := pub.UnmarshalBinary(pubKeyBytes); err != nil {
			return fmt.Errorf("failed to parse ML-DSA-44 public key: %w", err)
		}
		if !mldsa44.Verify(pub, data, nil, signature) {
			return fmt.Errorf("ML-DSA-44 signature verification failed")
		}
		return nil

	case sigAlgOID.Equal(OIDMLDSA65):
		pub := new(mldsa65.PublicKey)
		if err := pub.UnmarshalBinary(pubKeyBytes); err != nil {
			return fmt.Errorf("failed to parse ML-DSA-65 public key: %w", err)
		}
		if !mldsa65.Verify(pub, data, nil, signature) {
			return fmt.Errorf("ML-DSA-65 signature verification failed")
		}
		return nil

	case sigAlgOID.Equal(OIDMLDSA87):
		pub := new(mldsa87.PublicKey)
		if err := pub.UnmarshalBinary(pubKeyBytes); err != nil {
			return fmt.Errorf("failed to parse ML-DSA-87 public key: %w", err)
		}
		if !mldsa87.Verify(pub, data, nil, signature) {
			return fmt.Errorf("ML-DSA-87 signature verification failed")
		}
		return nil

	default:
		if id, ok := slhdsaOIDToID(sigAlgOID); ok {
			var pub slhdsa.PublicKey
			pub.ID = id
			if err := pub.UnmarshalBinary(pubKeyBytes); err != nil {
				return fmt.Errorf("failed to parse SLH-DSA public key: %w", err)
			}
			if !slhdsa.Verify(&pub, slhdsa.NewMessage(data), signature, nil) {
				return fmt.Errorf("SLH-DSA signature verification failed")
			}
			return nil
		}
		return fmt.Errorf("unsupported signature algorithm: %v", sigAlgOID)
	}
}

// slhdsaOIDToID maps an SLH-DSA signature OID to the circl parameter set.
func slhdsaOIDToID(oid asn1.ObjectIdentifier) (slhdsa.ID, bool) {
	switch {
	case oid.Equal(OIDSLHDSA128s):
		return slhdsa.SHA2_128s, true
	case oid.Equal(OIDSLHDSA128f):
		return slhdsa.SHA2_128f, true
	case oid.Equal(OIDSLHDSA192s):
		return slhdsa.SHA2_192s, true
	case oid.Equal(OIDSLHDSA192f):
		return slhdsa.SHA2_192f, true
	case oid.Equal(OIDSLHDSA256s):
		return slhdsa.SHA2_256s, true
	case oid.Equal(OIDSLHDSA256f):
		return slhdsa.SHA2_256f, true
	default:
		return 0, false
	}
}
