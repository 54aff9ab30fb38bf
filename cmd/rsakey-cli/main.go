// Package main is the entry point for the rsakey-cli application.
// It initializes the root command, registers the RSA key sub-commands
// and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/MGTheTrain/pkey-rsa/cmd/rsakey-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "rsakey-cli",
		Short: "RSA key material CLI tool",
		Long: `rsakey-cli is a command-line tool for RSA key material.
Generates RSA key pairs, converts keys between DER and PEM (optionally
passphrase-encrypted), derives public keys and encrypts or decrypts data
with either half of a key using PKCS#1 v1.5, OAEP or no padding.

Settings are read from the file given by --config and from RSAKEY_
prefixed environment variables, e.g. RSAKEY_KEY_KEY_SIZE=4096.`,
		SilenceUsage: true,
	}

	if err := commands.InitRSACommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize RSA commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
