package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/pkey-rsa/internal/pkg/config"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/logger"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/strutil"

	"github.com/spf13/cobra"
)

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// readInput returns the bytes given by --data (as ISO-8859-1 text) or by --input-file.
func readInput(cmd *cobra.Command) ([]byte, error) {
	data, err := cmd.Flags().GetString("data")
	if err != nil {
		return nil, fmt.Errorf("invalid data flag: %w", err)
	}
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return nil, fmt.Errorf("invalid input-file flag: %w", err)
	}

	switch {
	case cmd.Flags().Changed("data") && inputFile != "":
		return nil, errors.New("--data and --input-file are mutually exclusive")
	case cmd.Flags().Changed("data"):
		return strutil.ToLatin1(data)
	case inputFile != "":
		content, err := os.ReadFile(filepath.Clean(inputFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return content, nil
	default:
		return nil, errors.New("either --data or --input-file is required")
	}
}

// writeOutput writes out to --output-file, or to stdout as hex, or as text
// when --latin1 is set.
func writeOutput(cmd *cobra.Command, out []byte) error {
	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		return fmt.Errorf("invalid output-file flag: %w", err)
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, out, 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	latin1 := false
	if cmd.Flags().Lookup("latin1") != nil {
		latin1, err = cmd.Flags().GetBool("latin1")
		if err != nil {
			return fmt.Errorf("invalid latin1 flag: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if latin1 {
		_, err = io.WriteString(w, strutil.FromLatin1(out)+"\n")
	} else {
		_, err = io.WriteString(w, hex.EncodeToString(out)+"\n")
	}
	return err
}

// writeKeyOutput writes key material to --output-file or stdout unchanged.
func writeKeyOutput(cmd *cobra.Command, out []byte) error {
	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		return fmt.Errorf("invalid output-file flag: %w", err)
	}
	if outputFile == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(outputFile, out, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
