package ocsp

import (
	"crypto"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"
)

// CertID identifies the certificate a single response is about.
// CertID ::= SEQUENCE {
//
//	hashAlgorithm       AlgorithmIdentifier,
//	issuerNameHash      OCTET STRING,
//	issuerKeyHash       OCTET STRING,
//	serialNumber        CertificateSerialNumber }
type CertID struct {
	HashAlgorithm  pkix.AlgorithmIdentifier
	IssuerNameHash []byte
	IssuerKeyHash  []byte
	SerialNumber   *big.Int
}

// NewCertID creates a CertID for a certificate issued by the given issuer.
func NewCertID(hashAlg crypto.Hash, issuer, cert *x509.Certificate) (*CertID, error) {
	return NewCertIDFromSerial(hashAlg, issuer, cert.SerialNumber)
}

// NewCertIDFromSerial creates a CertID for a serial number from the given issuer.
//
// RFC 6960: issuerKeyHash is the hash of the issuer's public key, calculated
// over the value (excluding tag, length and unused bits octet) of the
// subject public key field in the issuer's certificate. This matches how
// SubjectKeyIdentifier is computed per RFC 5280.
func NewCertIDFromSerial(hashAlg crypto.Hash, issuer *x509.Certificate, serial *big.Int) (*CertID, error) {
	var hashOID asn1.ObjectIdentifier
	switch hashAlg {
	case crypto.SHA1:
		hashOID = OIDSHA1
	case crypto.SHA256:
		hashOID = OIDSHA256
	case crypto.SHA384:
		hashOID = OIDSHA384
	case crypto.SHA512:
		hashOID = OIDSHA512
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %v", hashAlg)
	}

	pubKeyBytes, err := subjectPublicKeyBytes(issuer)
	if err != nil {
		return nil, err
	}

	return &CertID{
		HashAlgorithm: pkix.AlgorithmIdentifier{
			Algorithm: hashOID,
		},
		IssuerNameHash: hashSum(hashAlg, issuer.RawSubject),
		IssuerKeyHash:  hashSum(hashAlg, pubKeyBytes),
		SerialNumber:   serial,
	}, nil
}

// subjectPublicKeyBytes extracts the subjectPublicKey BIT STRING contents
// from a certificate's SubjectPublicKeyInfo.
func subjectPublicKeyBytes(cert *x509.Certificate) ([]byte, error) {
	var spki struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(cert.RawSubjectPublicKeyInfo, &spki); err != nil {
		return nil, fmt.Errorf("failed to parse SubjectPublicKeyInfo: %w", err)
	}
	return spki.PublicKey.Bytes, nil
}

func hashSum(alg crypto.Hash, data []byte) []byte {
	switch alg {
	case crypto.SHA1:
		sum := sha1.Sum(data)
		return sum[:]
	case crypto.SHA384:
		sum := sha512.Sum384(data)
		return sum[:]
	case crypto.SHA512:
		sum := sha512.Sum512(data)
		return sum[:]
	default:
		sum := sha256.Sum256(data)
		return sum[:]
	}
}
