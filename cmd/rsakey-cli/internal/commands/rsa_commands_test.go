//go:build unit
// +build unit

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MGTheTrain/pkey-rsa/internal/pkg/testutil"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := &cobra.Command{Use: "rsakey-cli", SilenceUsage: true, SilenceErrors: true}
	require.NoError(t, InitRSACommands(rootCmd))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func generateKeyFiles(t *testing.T, args ...string) (string, string) {
	t.Helper()

	keyDir := t.TempDir()
	out, err := executeCommand(t, append([]string{"generate-rsa-key", "--key-size", "1024", "--key-dir", keyDir}, args...)...)
	require.NoError(t, err)

	paths := strings.Fields(out)
	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], "-private-key.pem"))
	assert.True(t, strings.HasSuffix(paths[1], "-public-key.pem"))
	return paths[0], paths[1]
}

func TestGenerateRSAKeyCmd(t *testing.T) {
	privateKeyPath, publicKeyPath := generateKeyFiles(t)

	out, err := executeCommand(t, "inspect", "--key", privateKeyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: private")
	assert.Contains(t, out, "bits: 1024")
	assert.Contains(t, out, "public exponent: 65537")

	out, err = executeCommand(t, "inspect", "--key", publicKeyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: public")
	assert.Contains(t, out, "private: false")
}

func TestGenerateRSAKeyCmd_Encrypted(t *testing.T) {
	privateKeyPath, _ := generateKeyFiles(t, "--passphrase", "secret", "--cipher", "aes-128-cbc")

	content, err := os.ReadFile(privateKeyPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ENCRYPTED PRIVATE KEY")

	_, err = executeCommand(t, "inspect", "--key", privateKeyPath)
	assert.Error(t, err)

	out, err := executeCommand(t, "inspect", "--key", privateKeyPath, "--passphrase", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: private")
}

func TestEncryptDecryptRSACmd(t *testing.T) {
	privateKeyPath, publicKeyPath := generateKeyFiles(t)

	tests := []struct {
		name       string
		encryptKey string
		encryptAs  string
		decryptKey string
		decryptAs  string
		padding    string
	}{
		{"public to private PKCS1", publicKeyPath, "public", privateKeyPath, "private", "1"},
		{"public to private OAEP", publicKeyPath, "public", privateKeyPath, "private", "4"},
		{"private to public PKCS1", privateKeyPath, "private", publicKeyPath, "public", "1"},
		{"private to public none", privateKeyPath, "private", publicKeyPath, "public", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encryptedPath := filepath.Join(t.TempDir(), "encrypted.bin")

			_, err := executeCommand(t, "encrypt-rsa",
				"--key", tt.encryptKey, "--mode", tt.encryptAs, "--padding", tt.padding,
				"--data", "hello", "--output-file", encryptedPath)
			require.NoError(t, err)

			out, err := executeCommand(t, "decrypt-rsa",
				"--key", tt.decryptKey, "--mode", tt.decryptAs, "--padding", tt.padding,
				"--input-file", encryptedPath, "--latin1")
			require.NoError(t, err)
			assert.Equal(t, "hello\n", out)
		})
	}
}

func TestEncryptRSACmd_Errors(t *testing.T) {
	keyPath := testutil.FixturePath(testutil.FixturePublicPEM)

	_, err := executeCommand(t, "encrypt-rsa", "--key", keyPath, "--mode", "private", "--data", "hello")
	assert.Error(t, err)

	_, err = executeCommand(t, "encrypt-rsa", "--key", keyPath, "--padding", "9", "--data", "hello")
	assert.Error(t, err)

	_, err = executeCommand(t, "encrypt-rsa", "--key", keyPath, "--mode", "sideways", "--data", "hello")
	assert.Error(t, err)

	_, err = executeCommand(t, "encrypt-rsa", "--key", keyPath)
	assert.Error(t, err)
}

func TestToDerCmd(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "key.der")

	_, err := executeCommand(t, "to-der", "--key", testutil.FixturePath(testutil.FixturePKCS8AES256),
		"--passphrase", testutil.FixturePassphrase, "--output-file", outputPath)
	require.NoError(t, err)

	der, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, testutil.ReadFixture(t, testutil.FixturePKCS8DER), der)
}

func TestPublicKeyCmd(t *testing.T) {
	out, err := executeCommand(t, "public-key", "--key", testutil.FixturePath(testutil.FixturePKCS1DER))
	require.NoError(t, err)
	assert.Equal(t, string(testutil.ReadFixture(t, testutil.FixturePublicPEM)), out)

	out, err = executeCommand(t, "public-key", "--key", testutil.FixturePath(testutil.FixturePKCS8DER), "--traditional")
	require.NoError(t, err)
	assert.Equal(t, string(testutil.ReadFixture(t, testutil.FixturePKCS1PublicPEM)), out)
}

func TestExportCmd(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "exported.pem")

	_, err := executeCommand(t, "export", "--key", testutil.FixturePath(testutil.FixturePKCS8DER),
		"--new-passphrase", "new secret", "--traditional", "--output-file", outputPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "DEK-Info: AES-256-CBC")

	out, err := executeCommand(t, "inspect", "--key", outputPath, "--passphrase", "new secret")
	require.NoError(t, err)
	assert.Contains(t, out, "modulus: "+testutil.FixtureModulusHex)

	_, err = executeCommand(t, "export", "--key", testutil.FixturePath(testutil.FixturePublicPEM),
		"--new-passphrase", "x")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	configPath := testutil.CreateTempKeyFile(t, "config.yaml", []byte("key:\n  padding: 42\n"))

	_, err := executeCommand(t, "--config", configPath, "inspect", "--key", testutil.FixturePath(testutil.FixturePublicPEM))
	assert.Error(t, err)
}
