package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MGTheTrain/pkey-rsa/internal/app"
	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/config"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RSACommandHandler encapsulates logic for handling RSA key operations via CLI.
// It is set up from the settings named by --config before any command runs.
type RSACommandHandler struct {
	settings   *config.Settings
	keyService pkey.RSAKeyService
	logger     logger.Logger
}

// Setup loads settings from configPath and wires the logger and key service.
func (commandHandler *RSACommandHandler) Setup(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loggerInstance, err := setupLogger(&settings.Logger)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	keyService, err := app.NewDefaultRSAKeyService(loggerInstance)
	if err != nil {
		return fmt.Errorf("failed to create RSA key service: %w", err)
	}

	commandHandler.settings = settings
	commandHandler.keyService = keyService
	commandHandler.logger = loggerInstance
	return nil
}

// loadKey reads the key named by --key, decrypting it with --passphrase if needed.
func (commandHandler *RSACommandHandler) loadKey(cmd *cobra.Command) (*pkey.RSAKey, error) {
	keyPath, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, fmt.Errorf("invalid key flag: %w", err)
	}
	if keyPath == "" {
		return nil, errors.New("--key is required")
	}
	passphrase, err := cmd.Flags().GetString("passphrase")
	if err != nil {
		return nil, fmt.Errorf("invalid passphrase flag: %w", err)
	}

	return commandHandler.keyService.Load(filepath.Clean(keyPath), passphraseBytes(passphrase))
}

func passphraseBytes(passphrase string) []byte {
	if passphrase == "" {
		return nil
	}
	return []byte(passphrase)
}

// cipherFlag returns --cipher, falling back to the configured cipher when
// --cipher is not given and a passphrase is.
func (commandHandler *RSACommandHandler) cipherFlag(cmd *cobra.Command, passphrase string) (string, error) {
	cipherName, err := cmd.Flags().GetString("cipher")
	if err != nil {
		return "", fmt.Errorf("invalid cipher flag: %w", err)
	}
	if !cmd.Flags().Changed("cipher") && passphrase != "" {
		cipherName = commandHandler.settings.Key.PEMCipher
	}
	return cipherName, nil
}

// paddingFlag returns --padding, or the configured padding when it is not given.
func (commandHandler *RSACommandHandler) paddingFlag(cmd *cobra.Command) (int, error) {
	if !cmd.Flags().Changed("padding") {
		return commandHandler.settings.Key.Padding, nil
	}
	padding, err := cmd.Flags().GetInt("padding")
	if err != nil {
		return 0, fmt.Errorf("invalid padding flag: %w", err)
	}
	return padding, nil
}

// GenerateRSAKeyCmd generates an RSA key pair and persists it in a selected directory
func (commandHandler *RSACommandHandler) GenerateRSAKeyCmd(cmd *cobra.Command, _ []string) error {
	keySize, err := cmd.Flags().GetInt("key-size")
	if err != nil {
		return fmt.Errorf("invalid key-size flag: %w", err)
	}
	if !cmd.Flags().Changed("key-size") {
		keySize = commandHandler.settings.Key.KeySize
	}
	exponent, err := cmd.Flags().GetInt("public-exponent")
	if err != nil {
		return fmt.Errorf("invalid public-exponent flag: %w", err)
	}
	if !cmd.Flags().Changed("public-exponent") {
		exponent = commandHandler.settings.Key.PublicExponent
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		return fmt.Errorf("invalid key-dir flag: %w", err)
	}
	passphrase, err := cmd.Flags().GetString("passphrase")
	if err != nil {
		return fmt.Errorf("invalid passphrase flag: %w", err)
	}
	cipherName, err := commandHandler.cipherFlag(cmd, passphrase)
	if err != nil {
		return err
	}

	key, err := commandHandler.keyService.Generate(keySize, exponent)
	if err != nil {
		return err
	}

	uniqueID := uuid.New()

	privateKeyFilePath := filepath.Join(keyDir, fmt.Sprintf("%s-private-key.pem", uniqueID.String()))
	if err := commandHandler.keyService.Save(key, privateKeyFilePath, cipherName, passphraseBytes(passphrase)); err != nil {
		return err
	}

	publicKeyFilePath := filepath.Join(keyDir, fmt.Sprintf("%s-public-key.pem", uniqueID.String()))
	if err := commandHandler.keyService.Save(key.PublicKey(), publicKeyFilePath, "", nil); err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), privateKeyFilePath)
	if err == nil {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), publicKeyFilePath)
	}
	return err
}

// PublicKeyCmd writes the public half of a key as PEM
func (commandHandler *RSACommandHandler) PublicKeyCmd(cmd *cobra.Command, _ []string) error {
	key, err := commandHandler.loadKey(cmd)
	if err != nil {
		return err
	}
	traditional, err := cmd.Flags().GetBool("traditional")
	if err != nil {
		return fmt.Errorf("invalid traditional flag: %w", err)
	}

	public := key.PublicKey()
	var out []byte
	if traditional {
		out, err = public.ExportTraditional("", nil)
	} else {
		out, err = public.Export("", nil)
	}
	if err != nil {
		return err
	}
	return writeKeyOutput(cmd, out)
}

// ToDerCmd writes the DER encoding of a key
func (commandHandler *RSACommandHandler) ToDerCmd(cmd *cobra.Command, _ []string) error {
	key, err := commandHandler.loadKey(cmd)
	if err != nil {
		return err
	}

	der, err := key.ToDer()
	if err != nil {
		return err
	}
	return writeOutput(cmd, der)
}

// ExportCmd re-encodes a key as PEM, optionally encrypting the private key
func (commandHandler *RSACommandHandler) ExportCmd(cmd *cobra.Command, _ []string) error {
	key, err := commandHandler.loadKey(cmd)
	if err != nil {
		return err
	}
	newPassphrase, err := cmd.Flags().GetString("new-passphrase")
	if err != nil {
		return fmt.Errorf("invalid new-passphrase flag: %w", err)
	}
	cipherName, err := commandHandler.cipherFlag(cmd, newPassphrase)
	if err != nil {
		return err
	}
	traditional, err := cmd.Flags().GetBool("traditional")
	if err != nil {
		return fmt.Errorf("invalid traditional flag: %w", err)
	}

	var out []byte
	if traditional {
		out, err = key.ExportTraditional(cipherName, passphraseBytes(newPassphrase))
	} else {
		out, err = key.Export(cipherName, passphraseBytes(newPassphrase))
	}
	if err != nil {
		return err
	}
	return writeKeyOutput(cmd, out)
}

// InspectCmd prints the kind, size, public exponent and modulus of a key
func (commandHandler *RSACommandHandler) InspectCmd(cmd *cobra.Command, _ []string) error {
	key, err := commandHandler.loadKey(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	writeLine := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format+"\n", args...)
		}
	}
	writeLine("kind: %s", key.State())
	writeLine("public: %t", key.IsPublic())
	writeLine("private: %t", key.IsPrivate())
	writeLine("bits: %d", key.Bits())
	writeLine("public exponent: %d", key.PublicExponent())
	writeLine("modulus: %X", key.Modulus())
	return err
}

// EncryptRSACmd encrypts data with the private or public half of a key
func (commandHandler *RSACommandHandler) EncryptRSACmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.transform(cmd, pkey.PrivateEncrypt, pkey.PublicEncrypt, (*pkey.RSAKey).Encrypt)
}

// DecryptRSACmd decrypts data with the private or public half of a key
func (commandHandler *RSACommandHandler) DecryptRSACmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.transform(cmd, pkey.PrivateDecrypt, pkey.PublicDecrypt, (*pkey.RSAKey).Decrypt)
}

func (commandHandler *RSACommandHandler) transform(
	cmd *cobra.Command,
	privateUse, publicUse pkey.UseKind,
	op func(*pkey.RSAKey, []byte, pkey.UseKind, int) ([]byte, error),
) error {
	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("invalid mode flag: %w", err)
	}
	var use pkey.UseKind
	switch mode {
	case "private":
		use = privateUse
	case "public":
		use = publicUse
	default:
		return fmt.Errorf("invalid mode %q: must be private or public", mode)
	}

	padding, err := commandHandler.paddingFlag(cmd)
	if err != nil {
		return err
	}
	key, err := commandHandler.loadKey(cmd)
	if err != nil {
		return err
	}
	data, err := readInput(cmd)
	if err != nil {
		return err
	}

	out, err := op(key, data, use, padding)
	if err != nil {
		return err
	}

	commandHandler.logger.Info("Completed ", use, " of ", len(data), " bytes")
	return writeOutput(cmd, out)
}

// InitRSACommands registers RSA key commands and the --config flag
func InitRSACommands(rootCmd *cobra.Command) error {
	if rootCmd == nil {
		return errors.New("root command cannot be nil")
	}
	handler := &RSACommandHandler{}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML settings file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("invalid config flag: %w", err)
		}
		return handler.Setup(configPath)
	}

	addKeyFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringP("key", "k", "", "Path to an RSA key file (DER or PEM)")
		cmd.Flags().StringP("passphrase", "", "", "Passphrase of an encrypted key file")
	}

	var generateRSAKeyCmd = &cobra.Command{
		Use:   "generate-rsa-key",
		Short: "Generate an RSA key pair",
		RunE:  handler.GenerateRSAKeyCmd,
	}
	generateRSAKeyCmd.Flags().IntP("key-size", "", 2048, "RSA modulus size in bits")
	generateRSAKeyCmd.Flags().IntP("public-exponent", "", pkey.DefaultPublicExponent, "RSA public exponent")
	generateRSAKeyCmd.Flags().StringP("key-dir", "", ".", "Directory to store the RSA keys")
	generateRSAKeyCmd.Flags().StringP("cipher", "", "", "Cipher used to encrypt the private key file")
	generateRSAKeyCmd.Flags().StringP("passphrase", "", "", "Passphrase used to encrypt the private key file")
	rootCmd.AddCommand(generateRSAKeyCmd)

	var publicKeyCmd = &cobra.Command{
		Use:   "public-key",
		Short: "Derive the public key of an RSA key",
		RunE:  handler.PublicKeyCmd,
	}
	addKeyFlags(publicKeyCmd)
	publicKeyCmd.Flags().BoolP("traditional", "", false, "Write an RSA PUBLIC KEY block")
	publicKeyCmd.Flags().StringP("output-file", "o", "", "Path to the output file")
	rootCmd.AddCommand(publicKeyCmd)

	var toDerCmd = &cobra.Command{
		Use:   "to-der",
		Short: "Convert an RSA key to DER",
		RunE:  handler.ToDerCmd,
	}
	addKeyFlags(toDerCmd)
	toDerCmd.Flags().StringP("output-file", "o", "", "Path to the output file, hex on stdout when empty")
	rootCmd.AddCommand(toDerCmd)

	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export an RSA key as PEM",
		RunE:  handler.ExportCmd,
	}
	addKeyFlags(exportCmd)
	exportCmd.Flags().StringP("cipher", "", "", "Cipher used to encrypt the exported private key")
	exportCmd.Flags().StringP("new-passphrase", "", "", "Passphrase used to encrypt the exported private key")
	exportCmd.Flags().BoolP("traditional", "", false, "Write PKCS#1 RSA PRIVATE KEY / RSA PUBLIC KEY blocks")
	exportCmd.Flags().StringP("output-file", "o", "", "Path to the output file")
	rootCmd.AddCommand(exportCmd)

	var inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print the parameters of an RSA key",
		RunE:  handler.InspectCmd,
	}
	addKeyFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)

	addTransformFlags := func(cmd *cobra.Command) {
		addKeyFlags(cmd)
		cmd.Flags().StringP("mode", "m", "public", "Key half to use: private or public")
		cmd.Flags().IntP("padding", "p", pkey.PKCS1Padding, "Padding code: 1 PKCS#1 v1.5, 2 SSLv23, 3 none, 4 OAEP")
		cmd.Flags().StringP("input-file", "i", "", "Path to the input file")
		cmd.Flags().StringP("data", "d", "", "Input given as ISO-8859-1 text")
		cmd.Flags().StringP("output-file", "o", "", "Path to the output file, hex on stdout when empty")
	}

	var encryptRSACmd = &cobra.Command{
		Use:   "encrypt-rsa",
		Short: "Encrypt data with an RSA key",
		RunE:  handler.EncryptRSACmd,
	}
	addTransformFlags(encryptRSACmd)
	rootCmd.AddCommand(encryptRSACmd)

	var decryptRSACmd = &cobra.Command{
		Use:   "decrypt-rsa",
		Short: "Decrypt data with an RSA key",
		RunE:  handler.DecryptRSACmd,
	}
	addTransformFlags(decryptRSACmd)
	decryptRSACmd.Flags().BoolP("latin1", "", false, "Print the output as ISO-8859-1 text instead of hex")
	rootCmd.AddCommand(decryptRSACmd)

	return nil
}
