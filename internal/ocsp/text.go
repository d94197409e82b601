package ocsp

import (
	"bytes"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"time"
)

// timeLayout mirrors OpenSSL's ASN1_GENERALIZEDTIME print format.
const timeLayout = "Jan _2 15:04:05 2006 MST"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Dump renders a parsed response in a layout close to OpenSSL's
// OCSP_RESPONSE_print. The result is a byte dump, not guaranteed UTF-8:
// embedded certificates that do not parse are written through as raw DER.
func Dump(resp *OCSPResponse) []byte {
	var buf bytes.Buffer

	status := resp.ResponseStatus()
	fmt.Fprintf(&buf, "OCSP Response Status: %s (0x%x)\n", status, int(status))
	if status != StatusSuccessful {
		return buf.Bytes()
	}

	buf.WriteString("Response Type: ")
	if resp.ResponseBytes.ResponseType.Equal(OIDOcspBasic) {
		buf.WriteString("Basic OCSP Response\n")
	} else {
		fmt.Fprintf(&buf, "%v\n", resp.ResponseBytes.ResponseType)
	}

	basic, err := resp.Basic()
	if err != nil {
		fmt.Fprintf(&buf, "Error: %v\n", err)
		return buf.Bytes()
	}

	tbs := &basic.TBSResponseData
	fmt.Fprintf(&buf, "Version: %d (0x%x)\n", tbs.Version+1, tbs.Version)
	dumpResponderID(&buf, tbs.ResponderID)
	fmt.Fprintf(&buf, "Produced At: %s\n", formatTime(tbs.ProducedAt))

	buf.WriteString("Responses:\n")
	for i := range tbs.Responses {
		dumpSingleResponse(&buf, &tbs.Responses[i])
	}

	dumpExtensions(&buf, "Response Extensions", tbs.ResponseExtensions)

	fmt.Fprintf(&buf, "Signature Algorithm: %s\n", signatureAlgorithmName(basic.SignatureAlgorithm.Algorithm))
	dumpHex(&buf, basic.Signature.Bytes)

	for _, raw := range basic.Certs {
		cert, err := x509.ParseCertificate(raw.FullBytes)
		if err != nil {
			buf.WriteString("Certificate (unparseable, raw DER follows):\n")
			buf.Write(raw.FullBytes)
			buf.WriteByte('\n')
			continue
		}
		buf.WriteString("Certificate:\n")
		fmt.Fprintf(&buf, "    Subject: %s\n", cert.Subject)
		fmt.Fprintf(&buf, "    Issuer: %s\n", cert.Issuer)
		fmt.Fprintf(&buf, "    Serial Number: %x\n", cert.SerialNumber)
		fmt.Fprintf(&buf, "    Not Before: %s\n", formatTime(cert.NotBefore))
		fmt.Fprintf(&buf, "    Not After : %s\n", formatTime(cert.NotAfter))
	}

	return buf.Bytes()
}

func dumpResponderID(buf *bytes.Buffer, responderID asn1.RawValue) {
	switch responderID.Tag {
	case 1: // byName
		if parsed := formatName(responderID.Bytes); parsed != "" {
			fmt.Fprintf(buf, "Responder Id: %s\n", parsed)
		} else {
			fmt.Fprintf(buf, "Responder Id: DN %X\n", responderID.Bytes)
		}

	case 2: // byKey
		var keyHash []byte
		if _, err := asn1.Unmarshal(responderID.Bytes, &keyHash); err == nil {
			fmt.Fprintf(buf, "Responder Id: key hash %X\n", keyHash)
		} else {
			fmt.Fprintf(buf, "Responder Id: key hash (unparseable)\n")
		}

	default:
		fmt.Fprintf(buf, "Responder Id: unknown tag %d\n", responderID.Tag)
	}
}

// formatName renders a DER-encoded X.501 Name, or "" if it does not parse.
func formatName(der []byte) string {
	var rdns pkix.RDNSequence
	if _, err := asn1.Unmarshal(der, &rdns); err != nil {
		return ""
	}
	var name pkix.Name
	name.FillFromRDNSequence(&rdns)
	return name.String()
}

func dumpSingleResponse(buf *bytes.Buffer, single *SingleResponse) {
	buf.WriteString("    Certificate ID:\n")
	fmt.Fprintf(buf, "      Hash Algorithm: %s\n", hashAlgorithmName(single.CertID.HashAlgorithm.Algorithm))
	fmt.Fprintf(buf, "      Issuer Name Hash: %X\n", single.CertID.IssuerNameHash)
	fmt.Fprintf(buf, "      Issuer Key Hash: %X\n", single.CertID.IssuerKeyHash)
	fmt.Fprintf(buf, "      Serial Number: %X\n", single.CertID.SerialNumber)

	certStatus, revTime, revReason, err := parseCertStatus(single.CertStatus)
	if err != nil {
		fmt.Fprintf(buf, "    Cert Status: unparseable (%v)\n", err)
	} else {
		fmt.Fprintf(buf, "    Cert Status: %s\n", certStatus)
		if certStatus == CertStatusRevoked {
			fmt.Fprintf(buf, "    Revocation Time: %s\n", formatTime(revTime))
			fmt.Fprintf(buf, "    Revocation Reason: %d\n", int(revReason))
		}
	}

	fmt.Fprintf(buf, "    This Update: %s\n", formatTime(single.ThisUpdate))
	if !single.NextUpdate.IsZero() {
		fmt.Fprintf(buf, "    Next Update: %s\n", formatTime(single.NextUpdate))
	}
	dumpExtensions(buf, "    Single Extensions", single.SingleExtensions)
}

func dumpExtensions(buf *bytes.Buffer, label string, exts []pkix.Extension) {
	if len(exts) == 0 {
		return
	}
	fmt.Fprintf(buf, "%s:\n", label)
	for _, ext := range exts {
		critical := ""
		if ext.Critical {
			critical = " critical"
		}
		fmt.Fprintf(buf, "    %v:%s\n", ext.Id, critical)
		dumpHex(buf, ext.Value)
	}
}

// dumpHex writes data as indented hex, 18 bytes per line like OpenSSL.
func dumpHex(buf *bytes.Buffer, data []byte) {
	const perLine = 18
	for i := 0; i < len(data); i += perLine {
		end := i + perLine
		if end > len(data) {
			end = len(data)
		}
		buf.WriteString("    ")
		for j, b := range data[i:end] {
			if j > 0 {
				buf.WriteByte(':')
			}
			fmt.Fprintf(buf, "%02x", b)
		}
		buf.WriteByte('\n')
	}
}
