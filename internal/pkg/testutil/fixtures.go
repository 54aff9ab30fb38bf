package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture file names under testdata. Every RSA fixture holds the same
// 1024-bit key with public exponent 65537; encrypted ones use
// FixturePassphrase.
const (
	FixturePKCS8DER          = "rsa1024_pkcs8.der"
	FixtureSPKIDER           = "rsa1024_spki.der"
	FixturePKCS1DER          = "rsa1024_pkcs1.der"
	FixtureTraditionalAES128 = "rsa1024_traditional_aes128.pem"
	FixturePKCS8AES256       = "rsa1024_pkcs8_aes256.pem"
	FixturePKCS1PublicPEM    = "rsa1024_pkcs1_public.pem"
	FixturePublicPEM         = "rsa1024_public.pem"
	FixtureECP256            = "ec_p256.pem"

	FixturePassphrase = "secret"
)

// FixtureModulusHex is the modulus of the RSA fixtures in upper case hex.
const FixtureModulusHex = "CAC12D19E209986C1896F2F2848FAB59B7A0B445CB674E8A3FCDDFA7BEFBEBD0" +
	"715E0B65A5A6EA4DB4FD47C4DBB91FF6B86C52144AEF2B4B60E865867A30FD57" +
	"70DE75667841B319553E5E88EDE5576BF863C6AA8881BAC2460ED41D2191CC35" +
	"FC96568CAE6EF09F6D979741219641F489C657A48CE50E2F7AA8C52AD2F2D547"

// FixturePath returns the absolute path of a testdata file.
func FixturePath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// ReadFixture returns the contents of a testdata file.
func ReadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(FixturePath(name))
	require.NoError(t, err, "failed to read fixture %s", name)
	return data
}
