// Package keycodec reads and writes RSA keys as X.509, PKCS#8 and PKCS#1 DER
// and as PEM, including passphrase-encrypted PEM.
package keycodec

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha256" // registers crypto.SHA256 for the PBKDF2 PRF
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/logger"
	"github.com/youmark/pkcs8"
)

// PBKDF2 parameters for ENCRYPTED PRIVATE KEY output.
const (
	pbkdf2SaltSize       = 16
	pbkdf2IterationCount = 10000
)

var (
	errNotRSA             = errors.New("key is not an RSA key")
	errNoKeyBlock         = errors.New("no RSA key block found in PEM data")
	errPassphraseRequired = errors.New("passphrase required for encrypted key")
	errNilKey             = errors.New("key cannot be nil")
)

type pemCipher struct {
	pkcs8  pkcs8.Cipher
	legacy x509.PEMCipher
}

var pemCiphers = map[string]pemCipher{
	pkey.CipherAES128CBC:  {pkcs8: pkcs8.AES128CBC, legacy: x509.PEMCipherAES128},
	pkey.CipherAES192CBC:  {pkcs8: pkcs8.AES192CBC, legacy: x509.PEMCipherAES192},
	pkey.CipherAES256CBC:  {pkcs8: pkcs8.AES256CBC, legacy: x509.PEMCipherAES256},
	pkey.CipherDESEDE3CBC: {pkcs8: pkcs8.TripleDESCBC, legacy: x509.PEMCipher3DES},
}

// lookupCipher resolves a case-insensitive cipher name.
func lookupCipher(name string) (pemCipher, error) {
	c, ok := pemCiphers[strings.ToUpper(name)]
	if !ok {
		return pemCipher{}, fmt.Errorf("unsupported cipher %q", name)
	}
	return c, nil
}

// keyCodec struct that implements the pkey.KeyCodec interface
type keyCodec struct {
	logger logger.Logger
}

// NewKeyCodec creates and returns a new instance of keyCodec
func NewKeyCodec(logger logger.Logger) (pkey.KeyCodec, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &keyCodec{
		logger: logger,
	}, nil
}

// ParsePKIXPublicKey parses X.509 SubjectPublicKeyInfo DER holding an RSA key.
func (c *keyCodec) ParsePKIXPublicKey(der []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to parse public key: %w", errNotRSA)
	}
	return pub, nil
}

// ParsePKCS8PrivateKey parses unencrypted PKCS#8 PrivateKeyInfo DER holding an RSA key.
func (c *keyCodec) ParsePKCS8PrivateKey(der []byte) (*rsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("failed to parse private key: %w", errNotRSA)
	}
	return priv, nil
}

// ParsePKCS1PrivateKey parses PKCS#1 RSAPrivateKey DER.
func (c *keyCodec) ParsePKCS1PrivateKey(der []byte) (*rsa.PrivateKey, error) {
	priv, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return priv, nil
}

// ParsePKCS1PublicKey parses PKCS#1 RSAPublicKey DER.
func (c *keyCodec) ParsePKCS1PublicKey(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}

// ReadPEM decodes PEM blocks in order and returns the first RSA key found.
// Blocks of other types are skipped.
func (c *keyCodec) ReadPEM(data, passphrase []byte) (pkey.DecodedKey, error) {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return pkey.DecodedKey{}, errNoKeyBlock
		}

		switch block.Type {
		case pkey.PEMTypePublicKey:
			pub, err := c.ParsePKIXPublicKey(block.Bytes)
			return pkey.DecodedKey{Public: pub}, err
		case pkey.PEMTypeRSAPublicKey:
			pub, err := c.ParsePKCS1PublicKey(block.Bytes)
			return pkey.DecodedKey{Public: pub}, err
		case pkey.PEMTypePrivateKey:
			priv, err := c.ParsePKCS8PrivateKey(block.Bytes)
			return privateKey(priv), err
		case pkey.PEMTypeEncryptedPrivateKey:
			priv, err := c.readEncryptedPKCS8(block.Bytes, passphrase)
			return privateKey(priv), err
		case pkey.PEMTypeRSAPrivateKey:
			priv, err := c.readTraditional(block, passphrase)
			return privateKey(priv), err
		default:
			c.logger.Debug("Skipping PEM block of type ", block.Type)
		}
	}
}

func privateKey(priv *rsa.PrivateKey) pkey.DecodedKey {
	if priv == nil {
		return pkey.DecodedKey{}
	}
	return pkey.DecodedKey{Private: priv, Public: &priv.PublicKey}
}

func (c *keyCodec) readEncryptedPKCS8(der, passphrase []byte) (*rsa.PrivateKey, error) {
	if len(passphrase) == 0 {
		return nil, errPassphraseRequired
	}
	priv, err := pkcs8.ParsePKCS8PrivateKeyRSA(der, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt private key: %w", err)
	}
	c.logger.Debug("Decrypted PKCS#8 private key")
	return priv, nil
}

func (c *keyCodec) readTraditional(block *pem.Block, passphrase []byte) (*rsa.PrivateKey, error) {
	der := block.Bytes
	//nolint:staticcheck // legacy DEK-Info encryption is still produced by OpenSSL tooling
	if x509.IsEncryptedPEMBlock(block) {
		if len(passphrase) == 0 {
			return nil, errPassphraseRequired
		}
		var err error
		//nolint:staticcheck // see above
		der, err = x509.DecryptPEMBlock(block, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
		c.logger.Debug("Decrypted ", block.Headers["DEK-Info"], " private key")
	}
	return c.ParsePKCS1PrivateKey(der)
}

// DerivePublicKey rebuilds the public half from the modulus and public
// exponent of priv by a PKCS#1 encode and decode, which rejects a missing or
// non-positive modulus or exponent.
func (c *keyCodec) DerivePublicKey(priv *rsa.PrivateKey) (*rsa.PublicKey, error) {
	if priv == nil || priv.N == nil {
		return nil, fmt.Errorf("failed to derive public key: %w", errNilKey)
	}
	if priv.N.Sign() <= 0 || priv.E <= 0 {
		return nil, errors.New("failed to derive public key: modulus and public exponent must be positive")
	}
	der := x509.MarshalPKCS1PublicKey(&priv.PublicKey)
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}
	return pub, nil
}

// MarshalPKIXPublicKey encodes SubjectPublicKeyInfo DER.
func (c *keyCodec) MarshalPKIXPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, errNilKey
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return der, nil
}

// MarshalPKCS8PrivateKey encodes PrivateKeyInfo DER.
func (c *keyCodec) MarshalPKCS8PrivateKey(priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, errNilKey
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return der, nil
}

// WritePublicPEM encodes pub as a PUBLIC KEY block, or RSA PUBLIC KEY when traditional.
func (c *keyCodec) WritePublicPEM(pub *rsa.PublicKey, traditional bool) ([]byte, error) {
	if pub == nil {
		return nil, errNilKey
	}

	block := &pem.Block{Type: pkey.PEMTypeRSAPublicKey}
	if traditional {
		block.Bytes = x509.MarshalPKCS1PublicKey(pub)
	} else {
		der, err := c.MarshalPKIXPublicKey(pub)
		if err != nil {
			return nil, err
		}
		block.Type, block.Bytes = pkey.PEMTypePublicKey, der
	}

	c.logger.Debug("Encoded public key as ", block.Type, " PEM")
	return pem.EncodeToMemory(block), nil
}

// WritePrivatePEM encodes priv as PEM. Without a cipher the block is PRIVATE KEY
// (RSA PRIVATE KEY when traditional). With a cipher the key is encrypted under
// passphrase, as PBES2 ENCRYPTED PRIVATE KEY or, when traditional, as a DEK-Info
// RSA PRIVATE KEY.
func (c *keyCodec) WritePrivatePEM(priv *rsa.PrivateKey, cipherName string, passphrase []byte, traditional bool) ([]byte, error) {
	if priv == nil {
		return nil, errNilKey
	}

	if cipherName == "" {
		if traditional {
			return pem.EncodeToMemory(&pem.Block{
				Type:  pkey.PEMTypeRSAPrivateKey,
				Bytes: x509.MarshalPKCS1PrivateKey(priv),
			}), nil
		}
		der, err := c.MarshalPKCS8PrivateKey(priv)
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: pkey.PEMTypePrivateKey, Bytes: der}), nil
	}

	alg, err := lookupCipher(cipherName)
	if err != nil {
		return nil, err
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("cipher %s: %w", cipherName, errPassphraseRequired)
	}

	var block *pem.Block
	if traditional {
		//nolint:staticcheck // legacy DEK-Info encryption is still produced by OpenSSL tooling
		block, err = x509.EncryptPEMBlock(rand.Reader, pkey.PEMTypeRSAPrivateKey, x509.MarshalPKCS1PrivateKey(priv), passphrase, alg.legacy)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt private key: %w", err)
		}
	} else {
		der, err := pkcs8.MarshalPrivateKey(priv, passphrase, &pkcs8.Opts{
			Cipher: alg.pkcs8,
			KDFOpts: pkcs8.PBKDF2Opts{
				SaltSize:       pbkdf2SaltSize,
				IterationCount: pbkdf2IterationCount,
				HMACHash:       crypto.SHA256,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt private key: %w", err)
		}
		block = &pem.Block{Type: pkey.PEMTypeEncryptedPrivateKey, Bytes: der}
	}

	c.logger.Info("Encrypted private key with ", strings.ToUpper(cipherName), " as ", block.Type, " PEM")
	return pem.EncodeToMemory(block), nil
}
