package pkey

import (
	"crypto/rsa"
	"math/big"

	"github.com/hashicorp/go-multierror"
)

// KeyState is the lifecycle state of an RSAKey.
type KeyState int

const (
	// StateEmpty is a key with no material.
	StateEmpty KeyState = iota
	// StatePublicOnly is a key holding only the public half.
	StatePublicOnly
	// StatePublicAndPrivate is a key holding both halves.
	StatePublicAndPrivate
)

func (s KeyState) String() string {
	switch s {
	case StatePublicOnly:
		return "public"
	case StatePublicAndPrivate:
		return "private"
	default:
		return "empty"
	}
}

// RSAKey is an RSA key that holds either the public half or both halves.
//
// A key is populated once, by Generate or Parse, and never changes after that.
// A populated key is safe for concurrent use.
type RSAKey struct {
	engine CipherEngine
	codec  KeyCodec

	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
}

// NewRSAKey returns an empty key that will use engine and codec once populated.
func NewRSAKey(engine CipherEngine, codec KeyCodec) *RSAKey {
	return &RSAKey{engine: engine, codec: codec}
}

// Generate populates an empty key with a new key pair. A publicExponent of 0
// selects DefaultPublicExponent.
func (k *RSAKey) Generate(bits, publicExponent int) error {
	if k.State() != StateEmpty {
		return newError(KeyGenerationError, nil, "key is already initialized")
	}
	if publicExponent == 0 {
		publicExponent = DefaultPublicExponent
	}
	if bits <= 0 {
		return newError(KeyGenerationError, nil, "invalid key size %d", bits)
	}
	if publicExponent < 0 {
		return newError(KeyGenerationError, nil, "invalid public exponent %d", publicExponent)
	}

	priv, err := k.engine.GenerateKey(bits, publicExponent)
	if err != nil {
		return newError(KeyGenerationError, err, "failed to generate %d-bit key", bits)
	}
	if priv == nil || priv.N == nil {
		return newError(KeyGenerationError, nil, "generator returned no key")
	}

	k.priv = priv
	k.pub = copyPublicKey(&priv.PublicKey)
	return nil
}

type parseAttempt struct {
	name  string
	parse func(encoded, passphrase []byte) (DecodedKey, error)
}

// parseAttempts lists the interpretations Parse tries, in order.
func (k *RSAKey) parseAttempts() []parseAttempt {
	return []parseAttempt{
		{"X.509 SubjectPublicKeyInfo DER", func(b, _ []byte) (DecodedKey, error) {
			pub, err := k.codec.ParsePKIXPublicKey(b)
			return DecodedKey{Public: pub}, err
		}},
		{"PKCS#8 PrivateKeyInfo DER", func(b, _ []byte) (DecodedKey, error) {
			priv, err := k.codec.ParsePKCS8PrivateKey(b)
			return DecodedKey{Private: priv}, err
		}},
		{"PEM", k.codec.ReadPEM},
		{"PKCS#1 RSAPrivateKey DER", func(b, _ []byte) (DecodedKey, error) {
			priv, err := k.codec.ParsePKCS1PrivateKey(b)
			return DecodedKey{Private: priv}, err
		}},
		{"PKCS#1 RSAPublicKey DER", func(b, _ []byte) (DecodedKey, error) {
			pub, err := k.codec.ParsePKCS1PublicKey(b)
			return DecodedKey{Public: pub}, err
		}},
	}
}

// Parse populates an empty key from encoded key material. The encoding is
// detected, not declared: SubjectPublicKeyInfo DER, PKCS#8 DER, PEM (optionally
// passphrase-encrypted), then PKCS#1 DER are tried in that order and the first
// that succeeds wins. passphrase is only used for encrypted PEM and may be nil.
func (k *RSAKey) Parse(encoded, passphrase []byte) error {
	if k.State() != StateEmpty {
		return newError(KeyFormatError, nil, "key is already initialized")
	}

	var (
		decoded DecodedKey
		found   bool
		errs    *multierror.Error
	)
	for _, attempt := range k.parseAttempts() {
		d, err := attempt.parse(encoded, passphrase)
		if err == nil && (d.Private != nil || d.Public != nil) {
			decoded, found = d, true
			break
		}
		if err == nil {
			err = newError(KeyFormatError, nil, "no key material")
		}
		errs = multierror.Append(errs, &attemptError{name: attempt.name, err: err})
	}
	if !found {
		return newError(KeyFormatError, errs.ErrorOrNil(), "neither a public nor a private key")
	}

	if decoded.Private == nil {
		k.pub = copyPublicKey(decoded.Public)
		return nil
	}

	derived, err := k.codec.DerivePublicKey(decoded.Private)
	if err != nil {
		return newError(KeyFormatError, err, "private key material malformed")
	}
	if decoded.Public != nil && !decoded.Public.Equal(derived) {
		return newError(KeyFormatError, nil, "private key material malformed: public half does not match")
	}
	k.priv = decoded.Private
	k.pub = copyPublicKey(derived)
	return nil
}

type attemptError struct {
	name string
	err  error
}

func (e *attemptError) Error() string {
	return e.name + ": " + e.err.Error()
}

func (e *attemptError) Unwrap() error {
	return e.err
}

// State returns the lifecycle state of the key.
func (k *RSAKey) State() KeyState {
	switch {
	case k.priv != nil:
		return StatePublicAndPrivate
	case k.pub != nil:
		return StatePublicOnly
	default:
		return StateEmpty
	}
}

// IsPublic reports whether the key holds the public half.
func (k *RSAKey) IsPublic() bool {
	return k.pub != nil
}

// IsPrivate reports whether the key holds the private half.
func (k *RSAKey) IsPrivate() bool {
	return k.priv != nil
}

// PublicKey returns a new key holding a copy of this key's public half and no
// private half. The receiver is not modified.
func (k *RSAKey) PublicKey() *RSAKey {
	return &RSAKey{
		engine: k.engine,
		codec:  k.codec,
		pub:    copyPublicKey(k.pub),
	}
}

// Modulus returns a copy of the modulus, or nil for an empty key.
func (k *RSAKey) Modulus() *big.Int {
	if k.pub == nil {
		return nil
	}
	return new(big.Int).Set(k.pub.N)
}

// PublicExponent returns the public exponent, or 0 for an empty key.
func (k *RSAKey) PublicExponent() int {
	if k.pub == nil {
		return 0
	}
	return k.pub.E
}

// Bits returns the modulus length in bits.
func (k *RSAKey) Bits() int {
	if k.pub == nil {
		return 0
	}
	return k.pub.N.BitLen()
}

// Size returns the modulus length in bytes.
func (k *RSAKey) Size() int {
	if k.pub == nil {
		return 0
	}
	return k.pub.Size()
}

// CryptoPublicKey returns a copy of the public half as a crypto/rsa key.
func (k *RSAKey) CryptoPublicKey() (*rsa.PublicKey, error) {
	if k.pub == nil {
		return nil, newError(MissingKeyMaterialError, nil, "key is empty")
	}
	return copyPublicKey(k.pub), nil
}

// ToDer returns PKCS#8 PrivateKeyInfo DER when the key holds private material
// and SubjectPublicKeyInfo DER otherwise.
func (k *RSAKey) ToDer() ([]byte, error) {
	switch k.State() {
	case StatePublicAndPrivate:
		der, err := k.codec.MarshalPKCS8PrivateKey(k.priv)
		if err != nil {
			return nil, newError(CipherOperationError, err, "failed to encode private key")
		}
		return der, nil
	case StatePublicOnly:
		der, err := k.codec.MarshalPKIXPublicKey(k.pub)
		if err != nil {
			return nil, newError(CipherOperationError, err, "failed to encode public key")
		}
		return der, nil
	default:
		return nil, newError(MissingKeyMaterialError, nil, "key is empty")
	}
}

// Export returns PEM text of the richest material the key holds. When
// cipherName is set the private key is encrypted with it under passphrase.
// A cipher is rejected for public-only keys.
func (k *RSAKey) Export(cipherName string, passphrase []byte) ([]byte, error) {
	return k.export(cipherName, passphrase, false)
}

// ExportTraditional is Export using the PKCS#1 block types, RSA PRIVATE KEY
// (legacy DEK-Info encryption when cipherName is set) and RSA PUBLIC KEY.
func (k *RSAKey) ExportTraditional(cipherName string, passphrase []byte) ([]byte, error) {
	return k.export(cipherName, passphrase, true)
}

func (k *RSAKey) export(cipherName string, passphrase []byte, traditional bool) ([]byte, error) {
	switch k.State() {
	case StatePublicAndPrivate:
		out, err := k.codec.WritePrivatePEM(k.priv, cipherName, passphrase, traditional)
		if err != nil {
			return nil, newError(CipherOperationError, err, "failed to export private key")
		}
		return out, nil
	case StatePublicOnly:
		if cipherName != "" {
			return nil, newError(MissingKeyMaterialError, nil, "cipher %s requires a private key", cipherName)
		}
		out, err := k.codec.WritePublicPEM(k.pub, traditional)
		if err != nil {
			return nil, newError(CipherOperationError, err, "failed to export public key")
		}
		return out, nil
	default:
		return nil, newError(MissingKeyMaterialError, nil, "key is empty")
	}
}

// Encrypt locks data with the key half selected by use, which must be
// PrivateEncrypt or PublicEncrypt. padding is a code accepted by ResolvePadding.
func (k *RSAKey) Encrypt(data []byte, use UseKind, padding int) ([]byte, error) {
	return k.transform(data, use, padding, true)
}

// Decrypt unlocks data with the key half selected by use, which must be
// PrivateDecrypt or PublicDecrypt. padding is a code accepted by ResolvePadding.
func (k *RSAKey) Decrypt(data []byte, use UseKind, padding int) ([]byte, error) {
	return k.transform(data, use, padding, false)
}

// PrivateEncrypt is Encrypt with PrivateEncrypt.
func (k *RSAKey) PrivateEncrypt(data []byte, padding int) ([]byte, error) {
	return k.Encrypt(data, PrivateEncrypt, padding)
}

// PublicEncrypt is Encrypt with PublicEncrypt.
func (k *RSAKey) PublicEncrypt(data []byte, padding int) ([]byte, error) {
	return k.Encrypt(data, PublicEncrypt, padding)
}

// PrivateDecrypt is Decrypt with PrivateDecrypt.
func (k *RSAKey) PrivateDecrypt(data []byte, padding int) ([]byte, error) {
	return k.Decrypt(data, PrivateDecrypt, padding)
}

// PublicDecrypt is Decrypt with PublicDecrypt.
func (k *RSAKey) PublicDecrypt(data []byte, padding int) ([]byte, error) {
	return k.Decrypt(data, PublicDecrypt, padding)
}

func (k *RSAKey) transform(data []byte, use UseKind, padding int, encrypt bool) ([]byte, error) {
	if k.State() == StateEmpty {
		return nil, newError(MissingKeyMaterialError, nil, "key is empty")
	}
	scheme, err := ResolvePadding(padding)
	if err != nil {
		return nil, err
	}
	if (encrypt && !use.IsEncrypt()) || (!encrypt && !use.IsDecrypt()) {
		return nil, newError(CipherOperationError, nil, "%s is not valid here", use)
	}
	if use.NeedsPrivate() && k.priv == nil {
		return nil, newError(MissingKeyMaterialError, nil, "private key needed")
	}

	var out []byte
	switch use {
	case PrivateEncrypt:
		out, err = k.engine.PrivateEncrypt(k.priv, scheme, data)
	case PublicEncrypt:
		out, err = k.engine.PublicEncrypt(k.pub, scheme, data)
	case PrivateDecrypt:
		out, err = k.engine.PrivateDecrypt(k.priv, scheme, data)
	case PublicDecrypt:
		out, err = k.engine.PublicDecrypt(k.pub, scheme, data)
	}
	if err != nil {
		return nil, newError(CipherOperationError, err, "%s with %s padding failed", use, scheme)
	}
	return out, nil
}

func copyPublicKey(pub *rsa.PublicKey) *rsa.PublicKey {
	if pub == nil {
		return nil
	}
	return &rsa.PublicKey{N: new(big.Int).Set(pub.N), E: pub.E}
}
