// Command staplevet inspects and verifies stapled OCSP responses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staplevet/staplevet/internal/audit"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var auditLogPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "staplevet",
	Short: "staplevet - stapled OCSP response validation",
	Long: `staplevet inspects and verifies OCSP responses stapled to TLS handshakes
(RFC 6960).

A stapled response is validated against a trusted CA bundle, with the
peer's certificate chain filling in intermediates the responder omitted.

Examples:
  # Dump a response in openssl-like text form
  staplevet inspect response.ocsp

  # Verify a response against a CA bundle, supplying the handshake chain
  staplevet verify response.ocsp --ca-file roots.pem --chain peer-chain.pem

  # Re-encode a response to canonical DER
  staplevet export response.ocsp --out canonical.ocsp`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if auditLogPath == "" {
			auditLogPath = os.Getenv("STAPLEVET_AUDIT_LOG")
		}

		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return audit.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set STAPLEVET_AUDIT_LOG env var)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
}
