package pkey

import "crypto/rsa"

// CipherEngine performs RSA key-pair generation and the four RSA transforms.
type CipherEngine interface {
	// GenerateKey generates a key pair of the given modulus size and public exponent.
	GenerateKey(bits, publicExponent int) (*rsa.PrivateKey, error)

	// PublicEncrypt locks data with the public key under the given padding.
	PublicEncrypt(pub *rsa.PublicKey, padding PaddingScheme, data []byte) ([]byte, error)

	// PrivateDecrypt unlocks data produced by PublicEncrypt.
	PrivateDecrypt(priv *rsa.PrivateKey, padding PaddingScheme, data []byte) ([]byte, error)

	// PrivateEncrypt locks data with the private key under the given padding.
	PrivateEncrypt(priv *rsa.PrivateKey, padding PaddingScheme, data []byte) ([]byte, error)

	// PublicDecrypt unlocks data produced by PrivateEncrypt.
	PublicDecrypt(pub *rsa.PublicKey, padding PaddingScheme, data []byte) ([]byte, error)
}

// DecodedKey is the result of reading key material. Public may be nil when only a
// private structure was found; Private is nil for public keys.
type DecodedKey struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// KeyCodec reads and writes RSA key material in DER and PEM encodings.
type KeyCodec interface {
	// ParsePKIXPublicKey parses X.509 SubjectPublicKeyInfo DER.
	ParsePKIXPublicKey(der []byte) (*rsa.PublicKey, error)

	// ParsePKCS8PrivateKey parses unencrypted PKCS#8 PrivateKeyInfo DER.
	ParsePKCS8PrivateKey(der []byte) (*rsa.PrivateKey, error)

	// ParsePKCS1PrivateKey parses PKCS#1 RSAPrivateKey DER.
	ParsePKCS1PrivateKey(der []byte) (*rsa.PrivateKey, error)

	// ParsePKCS1PublicKey parses PKCS#1 RSAPublicKey DER.
	ParsePKCS1PublicKey(der []byte) (*rsa.PublicKey, error)

	// ReadPEM parses the first RSA key block of PEM text, decrypting it with
	// passphrase when the block is encrypted.
	ReadPEM(data, passphrase []byte) (DecodedKey, error)

	// DerivePublicKey rebuilds a public key from the modulus and public exponent
	// of a private key.
	DerivePublicKey(priv *rsa.PrivateKey) (*rsa.PublicKey, error)

	// MarshalPKIXPublicKey encodes SubjectPublicKeyInfo DER.
	MarshalPKIXPublicKey(pub *rsa.PublicKey) ([]byte, error)

	// MarshalPKCS8PrivateKey encodes PrivateKeyInfo DER.
	MarshalPKCS8PrivateKey(priv *rsa.PrivateKey) ([]byte, error)

	// WritePublicPEM encodes a PUBLIC KEY block, or an RSA PUBLIC KEY block when
	// traditional is set.
	WritePublicPEM(pub *rsa.PublicKey, traditional bool) ([]byte, error)

	// WritePrivatePEM encodes a PRIVATE KEY block, an ENCRYPTED PRIVATE KEY block
	// when cipherName is set, or an RSA PRIVATE KEY block when traditional is set.
	WritePrivatePEM(priv *rsa.PrivateKey, cipherName string, passphrase []byte, traditional bool) ([]byte, error)
}

// RSAKeyService creates keys wired to the default engine and codec, and moves
// them between memory and files.
type RSAKeyService interface {
	// New returns an empty key.
	New() *RSAKey

	// Generate returns a freshly generated key.
	Generate(bits, publicExponent int) (*RSAKey, error)

	// Parse returns a key read from encoded material.
	Parse(encoded, passphrase []byte) (*RSAKey, error)

	// Load reads a key file and parses it.
	Load(path string, passphrase []byte) (*RSAKey, error)

	// Save exports a key as PEM to a file.
	Save(key *RSAKey, path, cipherName string, passphrase []byte) error

	// SaveDER writes the DER encoding of a key to a file.
	SaveDER(key *RSAKey, path string) error
}
