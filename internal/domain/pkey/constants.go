package pkey

// DefaultPublicExponent is the Fermat number F4, used when Generate is called without an exponent.
const DefaultPublicExponent = 65537

// Padding codes accepted by ResolvePadding.
const (
	PKCS1Padding     = 1
	SSLv23Padding    = 2
	NoPadding        = 3
	PKCS1OAEPPadding = 4
)

// PEM block types read and written by a KeyCodec.
const (
	PEMTypePublicKey           = "PUBLIC KEY"
	PEMTypeRSAPublicKey        = "RSA PUBLIC KEY"
	PEMTypePrivateKey          = "PRIVATE KEY"
	PEMTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PEMTypeRSAPrivateKey       = "RSA PRIVATE KEY"
)

// Cipher names accepted when exporting an encrypted private key.
const (
	CipherAES128CBC  = "AES-128-CBC"
	CipherAES192CBC  = "AES-192-CBC"
	CipherAES256CBC  = "AES-256-CBC"
	CipherDESEDE3CBC = "DES-EDE3-CBC"
)
