// Package truststore loads trusted CA certificate bundles from disk.
package truststore

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// Store holds an ordered list of trusted CA certificates and the pool built
// from them.
type Store struct {
	certs []*x509.Certificate
	pool  *x509.CertPool
}

// Load reads a CA bundle from path. PEM input may carry multiple CERTIFICATE
// blocks; input that is not PEM is tried as a single DER certificate.
// A bundle yielding zero certificates is an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trust store: %w", err)
	}

	certs, err := parseCertificates(data)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}

	pool := x509.NewCertPool()
	for _, cert := range certs {
		pool.AddCert(cert)
	}

	return &Store{certs: certs, pool: pool}, nil
}

func parseCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	if len(certs) > 0 {
		return certs, nil
	}

	// Not PEM, try raw DER
	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return []*x509.Certificate{cert}, nil
}

// Pool returns the certificate pool for chain verification.
func (s *Store) Pool() *x509.CertPool {
	return s.pool
}

// Certs returns the certificates in bundle order.
func (s *Store) Certs() []*x509.Certificate {
	return s.certs
}

// Len returns the number of trusted certificates.
func (s *Store) Len() int {
	return len(s.certs)
}
