//go:build unit
// +build unit

package pkey_test

import (
	"bytes"
	"fmt"
	"math/big"
	"testing"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/MGTheTrain/pkey-rsa/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/pkey-rsa/internal/infrastructure/keycodec"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RSAKeyRoundTripTests struct {
	engine pkey.CipherEngine
	codec  pkey.KeyCodec
}

func NewRSAKeyRoundTripTests(t *testing.T) *RSAKeyRoundTripTests {
	log := testutil.SetupTestLogger(t)

	engine, err := cryptography.NewRSACipherEngine(log)
	require.NoError(t, err)
	codec, err := keycodec.NewKeyCodec(log)
	require.NoError(t, err)

	return &RSAKeyRoundTripTests{engine: engine, codec: codec}
}

func (rt *RSAKeyRoundTripTests) generate(t *testing.T, bits int) *pkey.RSAKey {
	t.Helper()
	key := pkey.NewRSAKey(rt.engine, rt.codec)
	require.NoError(t, key.Generate(bits, 0))
	return key
}

func (rt *RSAKeyRoundTripTests) parse(t *testing.T, encoded, passphrase []byte) *pkey.RSAKey {
	t.Helper()
	key := pkey.NewRSAKey(rt.engine, rt.codec)
	require.NoError(t, key.Parse(encoded, passphrase))
	return key
}

func TestRSAKey_DERRoundTrip(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)

	t.Run("private", func(t *testing.T) {
		der, err := key.ToDer()
		require.NoError(t, err)

		parsed := rt.parse(t, der, nil)
		assert.True(t, parsed.IsPrivate())
		assert.Equal(t, 0, key.Modulus().Cmp(parsed.Modulus()))
		assert.Equal(t, key.PublicExponent(), parsed.PublicExponent())

		again, err := parsed.ToDer()
		require.NoError(t, err)
		assert.Equal(t, der, again)
	})

	t.Run("public", func(t *testing.T) {
		der, err := key.PublicKey().ToDer()
		require.NoError(t, err)

		parsed := rt.parse(t, der, nil)
		assert.True(t, parsed.IsPublic())
		assert.False(t, parsed.IsPrivate())
		assert.Equal(t, 0, key.Modulus().Cmp(parsed.Modulus()))
	})
}

func TestRSAKey_PEMRoundTrip(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)

	for _, k := range []*pkey.RSAKey{key, key.PublicKey()} {
		t.Run(k.State().String(), func(t *testing.T) {
			der, err := k.ToDer()
			require.NoError(t, err)
			fromDER := rt.parse(t, der, nil)

			pemText, err := k.Export("", nil)
			require.NoError(t, err)
			fromPEM := rt.parse(t, pemText, nil)

			assert.Equal(t, fromDER.State(), fromPEM.State())
			a, err := fromDER.ToDer()
			require.NoError(t, err)
			b, err := fromPEM.ToDer()
			require.NoError(t, err)
			assert.Equal(t, a, b)

			traditional, err := k.ExportTraditional("", nil)
			require.NoError(t, err)
			fromTraditional := rt.parse(t, traditional, nil)
			c, err := fromTraditional.ToDer()
			require.NoError(t, err)
			assert.Equal(t, a, c)
		})
	}
}

func TestRSAKey_EncryptedPEMRoundTrip(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)
	der, err := key.ToDer()
	require.NoError(t, err)

	passphrase := []byte("passphrase")
	ciphers := []string{pkey.CipherAES128CBC, pkey.CipherAES192CBC, pkey.CipherAES256CBC, pkey.CipherDESEDE3CBC}

	for _, cipherName := range ciphers {
		for _, traditional := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s traditional=%t", cipherName, traditional), func(t *testing.T) {
				export := key.Export
				if traditional {
					export = key.ExportTraditional
				}
				pemText, err := export(cipherName, passphrase)
				require.NoError(t, err)

				parsed := rt.parse(t, pemText, passphrase)
				assert.True(t, parsed.IsPrivate())
				got, err := parsed.ToDer()
				require.NoError(t, err)
				assert.Equal(t, der, got)

				wrong := pkey.NewRSAKey(rt.engine, rt.codec)
				err = wrong.Parse(pemText, []byte("wrong passphrase"))
				assert.ErrorIs(t, err, pkey.ErrKeyFormat)
				assert.Equal(t, pkey.StateEmpty, wrong.State())

				missing := pkey.NewRSAKey(rt.engine, rt.codec)
				assert.True(t, pkey.IsKeyFormat(missing.Parse(pemText, nil)))
			})
		}
	}
}

func TestRSAKey_ExportErrors(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)

	_, err := key.Export("RC2-40-CBC", []byte("passphrase"))
	assert.ErrorIs(t, err, pkey.ErrCipherOperation)

	_, err = key.Export(pkey.CipherAES256CBC, nil)
	assert.ErrorIs(t, err, pkey.ErrCipherOperation)

	_, err = key.PublicKey().Export(pkey.CipherAES256CBC, []byte("passphrase"))
	assert.ErrorIs(t, err, pkey.ErrMissingKeyMaterial)
}

func TestRSAKey_EncryptDecryptInverse(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)
	public := key.PublicKey()

	for _, padding := range []int{pkey.PKCS1Padding, pkey.NoPadding, pkey.PKCS1OAEPPadding} {
		scheme, err := pkey.ResolvePadding(padding)
		require.NoError(t, err)
		maxLen := scheme.MaxMessageLen(key.Size())

		for _, size := range []int{1, 16, maxLen - 1} {
			message := bytes.Repeat([]byte{0x5a}, size)

			t.Run(fmt.Sprintf("%s/%d bytes", scheme, size), func(t *testing.T) {
				locked, err := key.PrivateEncrypt(message, padding)
				require.NoError(t, err)
				unlocked, err := public.PublicDecrypt(locked, padding)
				require.NoError(t, err)
				assert.Equal(t, message, unlocked)

				locked, err = public.PublicEncrypt(message, padding)
				require.NoError(t, err)
				unlocked, err = key.PrivateDecrypt(locked, padding)
				require.NoError(t, err)
				assert.Equal(t, message, unlocked)
			})
		}
	}
}

func TestRSAKey_InvalidPaddingCodes(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)

	for _, padding := range []int{0, 5, -1} {
		t.Run(fmt.Sprint(padding), func(t *testing.T) {
			_, err := key.PrivateEncrypt([]byte("data"), padding)
			assert.ErrorIs(t, err, pkey.ErrInvalidPadding)
			_, err = key.PublicDecrypt([]byte("data"), padding)
			assert.ErrorIs(t, err, pkey.ErrInvalidPadding)
		})
	}
}

func TestRSAKey_SSLv23PaddingRejected(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)

	_, err := key.PublicEncrypt([]byte("data"), pkey.SSLv23Padding)
	assert.ErrorIs(t, err, pkey.ErrCipherOperation)
}

func TestRSAKey_PublicDerivation(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)

	public := key.PublicKey()
	assert.False(t, public.IsPrivate())
	assert.True(t, public.IsPublic())
	assert.Equal(t, 0, key.Modulus().Cmp(public.Modulus()))
	assert.Equal(t, key.PublicExponent(), public.PublicExponent())
	assert.True(t, key.IsPrivate())

	_, err := public.PrivateEncrypt([]byte("data"), pkey.PKCS1Padding)
	assert.ErrorIs(t, err, pkey.ErrMissingKeyMaterial)
}

func TestRSAKey_FiveByteScenario(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 1024)
	require.True(t, key.IsPrivate())
	require.True(t, key.IsPublic())
	assert.Equal(t, 1024, key.Bits())
	assert.Equal(t, pkey.DefaultPublicExponent, key.PublicExponent())

	message := []byte("hello")
	locked, err := key.PrivateEncrypt(message, pkey.PKCS1Padding)
	require.NoError(t, err)

	unlocked, err := key.PublicDecrypt(locked, pkey.PKCS1Padding)
	require.NoError(t, err)
	assert.Equal(t, message, unlocked)
}

func TestRSAKey_ParseFixtures(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	modulus, ok := new(big.Int).SetString(testutil.FixtureModulusHex, 16)
	require.True(t, ok)
	passphrase := []byte(testutil.FixturePassphrase)

	tests := []struct {
		fixture     string
		passphrase  []byte
		wantPrivate bool
	}{
		{testutil.FixturePKCS8DER, nil, true},
		{testutil.FixtureSPKIDER, nil, false},
		{testutil.FixturePKCS1DER, nil, true},
		{testutil.FixturePublicPEM, nil, false},
		{testutil.FixturePKCS1PublicPEM, nil, false},
		{testutil.FixturePKCS8AES256, passphrase, true},
		{testutil.FixtureTraditionalAES128, passphrase, true},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			key := rt.parse(t, testutil.ReadFixture(t, tt.fixture), tt.passphrase)
			assert.True(t, key.IsPublic())
			assert.Equal(t, tt.wantPrivate, key.IsPrivate())
			assert.Equal(t, 0, modulus.Cmp(key.Modulus()))
			assert.Equal(t, 65537, key.PublicExponent())
		})
	}
}

func TestRSAKey_ParseRejectsNonRSA(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)

	for _, input := range [][]byte{
		testutil.ReadFixture(t, testutil.FixtureECP256),
		[]byte("garbage"),
		{},
	} {
		key := pkey.NewRSAKey(rt.engine, rt.codec)
		err := key.Parse(input, nil)
		assert.ErrorIs(t, err, pkey.ErrKeyFormat)
		assert.Equal(t, pkey.StateEmpty, key.State())
	}
}

func TestRSAKey_RawBoundary512(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 512)
	k := key.Size()

	inputs := map[string][]byte{
		"below modulus": append([]byte{0x01}, make([]byte, k-1)...),
		"above modulus": bytes.Repeat([]byte{0xff}, k),
		"too long":      append([]byte{0x01}, make([]byte, k)...),
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, privErr := key.PrivateEncrypt(input, pkey.NoPadding)
			_, pubErr := key.PublicEncrypt(input, pkey.NoPadding)

			assert.Equal(t, privErr == nil, pubErr == nil)
			if name == "below modulus" {
				assert.NoError(t, privErr)
			} else {
				assert.ErrorIs(t, privErr, pkey.ErrCipherOperation)
				assert.ErrorIs(t, pubErr, pkey.ErrCipherOperation)
			}
		})
	}
}

func TestRSAKey_RawZeroMessage(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 512)
	public := key.PublicKey()

	for _, message := range [][]byte{{0x00}, make([]byte, key.Size())} {
		locked, err := public.PublicEncrypt(message, pkey.NoPadding)
		require.NoError(t, err)
		unlocked, err := key.PrivateDecrypt(locked, pkey.NoPadding)
		require.NoError(t, err)
		assert.NotNil(t, unlocked)
		assert.Empty(t, unlocked)

		locked, err = key.PrivateEncrypt(message, pkey.NoPadding)
		require.NoError(t, err)
		unlocked, err = public.PublicDecrypt(locked, pkey.NoPadding)
		require.NoError(t, err)
		assert.NotNil(t, unlocked)
		assert.Empty(t, unlocked)
	}
}

// Raw decryption returns the minimal big-endian form, so leading zero bytes
// of the original message do not survive a round trip.
func TestRSAKey_RawLeadingZerosDropped(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := rt.generate(t, 512)
	public := key.PublicKey()
	message := []byte{0x00, 'a', 'b'}

	locked, err := public.PublicEncrypt(message, pkey.NoPadding)
	require.NoError(t, err)
	unlocked, err := key.PrivateDecrypt(locked, pkey.NoPadding)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), unlocked)

	locked, err = key.PrivateEncrypt(message, pkey.NoPadding)
	require.NoError(t, err)
	unlocked, err = public.PublicDecrypt(locked, pkey.NoPadding)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), unlocked)
}

func TestRSAKey_CustomExponent(t *testing.T) {
	rt := NewRSAKeyRoundTripTests(t)
	key := pkey.NewRSAKey(rt.engine, rt.codec)
	require.NoError(t, key.Generate(1024, 3))
	assert.Equal(t, 3, key.PublicExponent())

	pemText, err := key.Export("", nil)
	require.NoError(t, err)
	parsed := rt.parse(t, pemText, nil)
	assert.Equal(t, 3, parsed.PublicExponent())
}
