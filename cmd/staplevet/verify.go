package main

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staplevet/staplevet"
	"github.com/staplevet/staplevet/internal/audit"
	"github.com/staplevet/staplevet/internal/cli"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <response-file>",
	Short: "Verify a stapled OCSP response against a CA bundle",
	Long: `Verify the signature and chain of trust of a stapled OCSP response.

The peer chain presented during the TLS handshake can be supplied with
--chain; its certificates augment the responder certificates embedded in
the response, which is how intermediates omitted by the responder are
found.

Options can also come from a YAML config file:

  ca_file: roots.pem
  chain_file: peer-chain.pem
  audit_log: audit.jsonl

Examples:
  staplevet verify response.ocsp --ca-file roots.pem
  staplevet verify response.ocsp --ca-file roots.pem --chain peer-chain.pem
  staplevet verify response.ocsp --config verify.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyCAFile    string
	verifyChainFile string
	verifyConfig    string
)

func init() {
	verifyCmd.Flags().StringVar(&verifyCAFile, "ca-file", "", "Trusted CA bundle (PEM or DER)")
	verifyCmd.Flags().StringVar(&verifyChainFile, "chain", "", "Peer certificate chain from the handshake (PEM or DER)")
	verifyCmd.Flags().StringVar(&verifyConfig, "config", "", "YAML config file (flags take precedence)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]

	caFile := verifyCAFile
	chainFile := verifyChainFile
	if verifyConfig != "" {
		cfg, err := cli.LoadVerifyConfig(verifyConfig)
		if err != nil {
			return err
		}
		if caFile == "" {
			caFile = cfg.CAFile
		}
		if chainFile == "" {
			chainFile = cfg.ChainFile
		}
		if cfg.AuditLog != "" && !audit.Enabled() {
			if err := audit.InitFile(cfg.AuditLog); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
	}
	if caFile == "" {
		return fmt.Errorf("--ca-file is required (flag or config)")
	}

	var peerChain []*x509.Certificate
	if chainFile != "" {
		certs, err := cli.LoadCertificatesFromFile(chainFile)
		if err != nil {
			return err
		}
		peerChain = certs
	}

	der, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	resp, err := staplevet.ParseStapled(der, peerChain)
	if err != nil {
		_ = audit.LogVerify(path, caFile, "", len(peerChain), false, err.Error())
		return err
	}
	defer resp.Close()

	status, err := resp.Status()
	if err != nil {
		return err
	}

	if err := resp.Verify(caFile); err != nil {
		_ = audit.LogVerify(path, caFile, status.String(), len(peerChain), false, err.Error())
		return reportVerifyError(err)
	}

	fmt.Printf("Response status: %s\n", status)
	fmt.Println("Verification: OK")

	return audit.LogVerify(path, caFile, status.String(), len(peerChain), true, "")
}

// reportVerifyError maps typed verification failures to actionable messages.
func reportVerifyError(err error) error {
	var statusErr *staplevet.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("response carries no verifiable content: status is %s", statusErr.Status)
	}

	var storeErr *staplevet.TrustStoreError
	if errors.As(err, &storeErr) {
		return fmt.Errorf("trust store %s is unusable: %w", storeErr.Path, storeErr.Err)
	}

	var verErr *staplevet.VerificationError
	if errors.As(err, &verErr) {
		return fmt.Errorf("verification failed: %w", verErr.Err)
	}

	return err
}
