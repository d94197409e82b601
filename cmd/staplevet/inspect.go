package main

import (
	"crypto/x509"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staplevet/staplevet"
	"github.com/staplevet/staplevet/internal/audit"
	"github.com/staplevet/staplevet/internal/cli"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <response-file>",
	Short: "Dump an OCSP response in text form",
	Long: `Parse a DER-encoded OCSP response and print it in a layout close to
openssl's text dump.

The output is written as raw bytes: embedded certificates that do not
parse are passed through as DER.

Examples:
  staplevet inspect response.ocsp`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var inspectChainFile string

func init() {
	inspectCmd.Flags().StringVar(&inspectChainFile, "chain", "", "Peer certificate chain from the handshake (PEM or DER)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	var peerChain []*x509.Certificate
	if inspectChainFile != "" {
		certs, err := cli.LoadCertificatesFromFile(inspectChainFile)
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
		_ = audit.LogInspect(path, "", false)
		return err
	}
	defer resp.Close()

	status, err := resp.Status()
	if err != nil {
		return err
	}

	text, err := resp.Text()
	if err != nil {
		_ = audit.LogInspect(path, status.String(), false)
		return err
	}

	if _, err := os.Stdout.Write(text); err != nil {
		return err
	}

	return audit.LogInspect(path, status.String(), true)
}
