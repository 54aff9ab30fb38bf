//go:build unit
// +build unit

package cryptography

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" // #nosec G505
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawPrivate_CRTMatchesPlainExponent(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	plain := &rsa.PrivateKey{
		PublicKey: priv.PublicKey,
		D:         priv.D,
		Primes:    priv.Primes,
	}
	in := []byte("raw input")

	withCRT, err := rawPrivate(priv, in)
	require.NoError(t, err)
	withoutCRT, err := rawPrivate(plain, in)
	require.NoError(t, err)
	assert.Equal(t, withCRT, withoutCRT)

	back, err := rawPublic(&priv.PublicKey, withCRT)
	require.NoError(t, err)
	assert.Equal(t, in, trimLeadingZeros(back))
}

func TestRawPrivate_RejectsFaultyCRTValues(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	faulty := *priv
	faulty.Precomputed.Dp = new(big.Int).Add(priv.Precomputed.Dp, big.NewInt(2))

	out, err := rawPrivate(&faulty, []byte("raw input"))
	assert.ErrorIs(t, err, errFaultyResult)
	assert.Nil(t, out)

	out, err = rawPrivate(priv, []byte("raw input"))
	require.NoError(t, err)
	assert.Len(t, out, priv.Size())
}

func TestRawPrivate_ZeroInput(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	out, err := rawPrivate(priv, []byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, priv.Size()), out)
}

func TestTrimLeadingZeros(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x00}, trimLeadingZeros([]byte{0x00, 0x00, 0x01, 0x00}))

	allZero := trimLeadingZeros([]byte{0x00, 0x00})
	assert.NotNil(t, allZero)
	assert.Empty(t, allZero)

	single := trimLeadingZeros([]byte{0x00})
	assert.NotNil(t, single)
	assert.Empty(t, single)

	assert.Nil(t, trimLeadingZeros(nil))
}

func TestUnpadPKCS1Type1(t *testing.T) {
	valid := append([]byte{0x00, 0x01}, bytes.Repeat([]byte{0xff}, 8)...)
	valid = append(valid, 0x00, 'h', 'i')

	tests := []struct {
		name    string
		em      []byte
		want    []byte
		wantErr bool
	}{
		{"valid", valid, []byte("hi"), false},
		{"empty message", append(append([]byte{0x00, 0x01}, bytes.Repeat([]byte{0xff}, 9)...), 0x00), []byte{}, false},
		{"short padding string", append(append([]byte{0x00, 0x01}, bytes.Repeat([]byte{0xff}, 7)...), 0x00, 'a', 'b'), nil, true},
		{"wrong block type", append([]byte{0x00, 0x02}, valid[2:]...), nil, true},
		{"no separator", append([]byte{0x00, 0x01}, bytes.Repeat([]byte{0xff}, 12)...), nil, true},
		{"too short", []byte{0x00, 0x01, 0x00}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unpadPKCS1Type1(tt.em)
			if tt.wantErr {
				assert.ErrorIs(t, err, errPaddingCheck)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPadOAEP(t *testing.T) {
	const k = 128
	msg := []byte("oaep message")

	em, err := padOAEP(rand.Reader, sha1.New(), k, msg)
	require.NoError(t, err)
	assert.Len(t, em, k)
	assert.Equal(t, byte(0x00), em[0])

	got, err := unpadOAEP(sha1.New(), em)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	em[k-1] ^= 0xff
	_, err = unpadOAEP(sha1.New(), em)
	assert.ErrorIs(t, err, errPaddingCheck)

	_, err = padOAEP(rand.Reader, sha1.New(), k, make([]byte, k-41))
	assert.ErrorIs(t, err, errMessageTooLong)
}

func TestIncCounter(t *testing.T) {
	c := [4]byte{0x00, 0x00, 0x00, 0xff}
	incCounter(&c)
	assert.Equal(t, [4]byte{0x00, 0x00, 0x01, 0x00}, c)

	c = [4]byte{0x00, 0xff, 0xff, 0xff}
	incCounter(&c)
	assert.Equal(t, [4]byte{0x01, 0x00, 0x00, 0x00}, c)
}
