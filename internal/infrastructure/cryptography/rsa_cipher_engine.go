package cryptography

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" // #nosec G505 -- OAEP padding code 4 is defined over SHA-1
	"errors"
	"fmt"
	"math/big"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/logger"
)

var errUnsupportedPadding = errors.New("padding not supported for RSA transforms")

// rsaCipherEngine struct that implements the pkey.CipherEngine interface
type rsaCipherEngine struct {
	logger logger.Logger
}

// NewRSACipherEngine creates and returns a new instance of rsaCipherEngine
func NewRSACipherEngine(logger logger.Logger) (pkey.CipherEngine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &rsaCipherEngine{
		logger: logger,
	}, nil
}

// GenerateKey generates an RSA key pair with the specified modulus size and public exponent.
// The default exponent 65537 goes through rsa.GenerateKey; any other exponent builds the key
// from two random primes.
func (e *rsaCipherEngine) GenerateKey(bits, publicExponent int) (*rsa.PrivateKey, error) {
	var (
		priv *rsa.PrivateKey
		err  error
	)
	if publicExponent == pkey.DefaultPublicExponent {
		priv, err = rsa.GenerateKey(rand.Reader, bits)
	} else {
		priv, err = generateKeyWithExponent(bits, publicExponent)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA keys: %w", err)
	}

	e.logger.Info("Generated RSA key pair of ", bits, " bits with public exponent ", publicExponent)
	return priv, nil
}

// minCustomKeyBits keeps both primes large enough for rand.Prime.
const minCustomKeyBits = 64

func generateKeyWithExponent(bits, publicExponent int) (*rsa.PrivateKey, error) {
	if bits < minCustomKeyBits {
		return nil, fmt.Errorf("key size %d is too small", bits)
	}
	if publicExponent < 3 || publicExponent%2 == 0 {
		return nil, fmt.Errorf("public exponent %d must be odd and at least 3", publicExponent)
	}

	e := big.NewInt(int64(publicExponent))
	one := big.NewInt(1)
	for {
		p, err := rand.Prime(rand.Reader, bits-bits/2)
		if err != nil {
			return nil, err
		}
		q, err := rand.Prime(rand.Reader, bits/2)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		if n.BitLen() != bits {
			continue
		}
		if e.Cmp(n) >= 0 {
			return nil, fmt.Errorf("public exponent %d is too large for a %d-bit modulus", publicExponent, bits)
		}

		pMinus1 := new(big.Int).Sub(p, one)
		qMinus1 := new(big.Int).Sub(q, one)
		phi := new(big.Int).Mul(pMinus1, qMinus1)
		d := new(big.Int).ModInverse(e, phi)
		if d == nil {
			// e shares a factor with phi
			continue
		}

		priv := &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{N: n, E: publicExponent},
			D:         d,
			Primes:    []*big.Int{p, q},
		}
		priv.Precompute()
		if err := priv.Validate(); err != nil {
			return nil, err
		}
		return priv, nil
	}
}

// PublicEncrypt encrypts data with the public key.
func (e *rsaCipherEngine) PublicEncrypt(pub *rsa.PublicKey, padding pkey.PaddingScheme, data []byte) ([]byte, error) {
	if pub == nil {
		return nil, errors.New("public key cannot be nil")
	}

	var (
		out []byte
		err error
	)
	switch padding {
	case pkey.PaddingPKCS1v15:
		out, err = rsa.EncryptPKCS1v15(rand.Reader, pub, data)
	case pkey.PaddingOAEP:
		out, err = rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, data, nil)
	case pkey.PaddingNone:
		out, err = rawPublic(pub, data)
	default:
		err = fmt.Errorf("%w: %s", errUnsupportedPadding, padding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt data: %w", err)
	}

	e.logger.Debug("RSA public encryption succeeded with ", padding, " padding")
	return out, nil
}

// PrivateDecrypt decrypts data produced by PublicEncrypt with the private key.
func (e *rsaCipherEngine) PrivateDecrypt(priv *rsa.PrivateKey, padding pkey.PaddingScheme, data []byte) ([]byte, error) {
	if priv == nil {
		return nil, errors.New("private key cannot be nil")
	}

	var (
		out []byte
		err error
	)
	switch padding {
	case pkey.PaddingPKCS1v15:
		out, err = rsa.DecryptPKCS1v15(rand.Reader, priv, data)
	case pkey.PaddingOAEP:
		out, err = rsa.DecryptOAEP(sha1.New(), rand.Reader, priv, data, nil)
	case pkey.PaddingNone:
		out, err = rawPrivate(priv, data)
		out = trimLeadingZeros(out)
	default:
		err = fmt.Errorf("%w: %s", errUnsupportedPadding, padding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}

	e.logger.Debug("RSA private decryption succeeded with ", padding, " padding")
	return out, nil
}

// PrivateEncrypt encrypts data with the private key, the inverse of PublicDecrypt.
func (e *rsaCipherEngine) PrivateEncrypt(priv *rsa.PrivateKey, padding pkey.PaddingScheme, data []byte) ([]byte, error) {
	if priv == nil {
		return nil, errors.New("private key cannot be nil")
	}

	var (
		out []byte
		err error
	)
	switch padding {
	case pkey.PaddingPKCS1v15:
		// A zero hash signs data as is, which is block type 1 padding.
		out, err = rsa.SignPKCS1v15(rand.Reader, priv, crypto.Hash(0), data)
	case pkey.PaddingOAEP:
		var em []byte
		em, err = padOAEP(rand.Reader, sha1.New(), priv.Size(), data)
		if err == nil {
			out, err = rawPrivate(priv, em)
		}
	case pkey.PaddingNone:
		out, err = rawPrivate(priv, data)
	default:
		err = fmt.Errorf("%w: %s", errUnsupportedPadding, padding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt data: %w", err)
	}

	e.logger.Debug("RSA private encryption succeeded with ", padding, " padding")
	return out, nil
}

// PublicDecrypt decrypts data produced by PrivateEncrypt with the public key.
func (e *rsaCipherEngine) PublicDecrypt(pub *rsa.PublicKey, padding pkey.PaddingScheme, data []byte) ([]byte, error) {
	if pub == nil {
		return nil, errors.New("public key cannot be nil")
	}

	var (
		out []byte
		err error
	)
	switch padding {
	case pkey.PaddingPKCS1v15:
		var em []byte
		em, err = rawPublic(pub, data)
		if err == nil {
			out, err = unpadPKCS1Type1(em)
		}
	case pkey.PaddingOAEP:
		var em []byte
		em, err = rawPublic(pub, data)
		if err == nil {
			out, err = unpadOAEP(sha1.New(), em)
		}
	case pkey.PaddingNone:
		out, err = rawPublic(pub, data)
		out = trimLeadingZeros(out)
	default:
		err = fmt.Errorf("%w: %s", errUnsupportedPadding, padding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}

	e.logger.Debug("RSA public decryption succeeded with ", padding, " padding")
	return out, nil
}
