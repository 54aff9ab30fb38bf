package pkey

import "fmt"

// PaddingScheme is the padding applied around the raw RSA transform.
type PaddingScheme int

const (
	// PaddingPKCS1v15 is PKCS#1 v1.5 padding: block type 1 for private-key
	// encryption, block type 2 for public-key encryption.
	PaddingPKCS1v15 PaddingScheme = PKCS1Padding
	// PaddingSSLv23 is the legacy SSL-specific code. It resolves so the
	// enumeration stays complete, but no transform accepts it.
	PaddingSSLv23 PaddingScheme = SSLv23Padding
	// PaddingNone is the raw RSA transform.
	PaddingNone PaddingScheme = NoPadding
	// PaddingOAEP is OAEP with SHA-1, MGF1-SHA-1 and an empty label.
	PaddingOAEP PaddingScheme = PKCS1OAEPPadding
)

// ResolvePadding maps an integer padding code to its scheme.
func ResolvePadding(code int) (PaddingScheme, error) {
	switch code {
	case PKCS1Padding, SSLv23Padding, NoPadding, PKCS1OAEPPadding:
		return PaddingScheme(code), nil
	default:
		return 0, newError(InvalidPaddingError, nil, "unsupported padding code %d", code)
	}
}

// Code returns the integer code of the scheme.
func (p PaddingScheme) Code() int {
	return int(p)
}

func (p PaddingScheme) String() string {
	switch p {
	case PaddingPKCS1v15:
		return "PKCS1"
	case PaddingSSLv23:
		return "SSLv23"
	case PaddingNone:
		return "none"
	case PaddingOAEP:
		return "OAEP"
	default:
		return fmt.Sprintf("PaddingScheme(%d)", int(p))
	}
}

// MaxMessageLen returns the largest input, in bytes, the scheme can encrypt
// under a modulus of modulusLen bytes. It returns 0 for schemes no transform
// accepts.
func (p PaddingScheme) MaxMessageLen(modulusLen int) int {
	var n int
	switch p {
	case PaddingPKCS1v15:
		n = modulusLen - 11
	case PaddingNone:
		n = modulusLen
	case PaddingOAEP:
		// SHA-1 digest size is 20 bytes.
		n = modulusLen - 2*20 - 2
	}
	return max(n, 0)
}

// UseKind selects which key half a transform runs with and in which direction.
type UseKind int

const (
	// PrivateEncrypt locks data with the private key (signature-style).
	PrivateEncrypt UseKind = iota + 1
	// PublicEncrypt locks data with the public key.
	PublicEncrypt
	// PrivateDecrypt unlocks data that was locked with the public key.
	PrivateDecrypt
	// PublicDecrypt unlocks data that was locked with the private key.
	PublicDecrypt
)

func (u UseKind) String() string {
	switch u {
	case PrivateEncrypt:
		return "private_encrypt"
	case PublicEncrypt:
		return "public_encrypt"
	case PrivateDecrypt:
		return "private_decrypt"
	case PublicDecrypt:
		return "public_decrypt"
	default:
		return fmt.Sprintf("UseKind(%d)", int(u))
	}
}

// NeedsPrivate reports whether the use kind runs with the private key.
func (u UseKind) NeedsPrivate() bool {
	return u == PrivateEncrypt || u == PrivateDecrypt
}

// IsEncrypt reports whether the use kind is an encrypt direction.
func (u UseKind) IsEncrypt() bool {
	return u == PrivateEncrypt || u == PublicEncrypt
}

// IsDecrypt reports whether the use kind is a decrypt direction.
func (u UseKind) IsDecrypt() bool {
	return u == PrivateDecrypt || u == PublicDecrypt
}
