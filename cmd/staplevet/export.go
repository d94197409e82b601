package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staplevet/staplevet"
	"github.com/staplevet/staplevet/internal/audit"
)

var exportCmd = &cobra.Command{
	Use:   "export <response-file>",
	Short: "Re-encode an OCSP response to canonical DER",
	Long: `Parse a DER-encoded OCSP response and write its canonical re-encoding.

Useful for normalizing responses captured from handshakes before storing
or diffing them.

Examples:
  staplevet export response.ocsp --out canonical.ocsp`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportOut string

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (required)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]

	der, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	resp, err := staplevet.ParseStapled(der, nil)
	if err != nil {
		_ = audit.LogExport(path, exportOut, false)
		return err
	}
	defer resp.Close()

	out, err := resp.DER()
	if err != nil {
		_ = audit.LogExport(path, exportOut, false)
		return err
	}

	if err := os.WriteFile(exportOut, out, 0644); err != nil {
		_ = audit.LogExport(path, exportOut, false)
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", len(out), exportOut)

	return audit.LogExport(path, exportOut, true)
}
