// Package pkey defines the RSA key entity and the contracts it composes with.
//
// RSAKey is a value object: it is populated exactly once, by Generate or Parse, and is
// read-only afterwards. Cryptographic work is delegated to a CipherEngine and encoding work
// to a KeyCodec, both implemented in the infrastructure layer. Failures are reported as *Error
// values carrying one ErrorKind.
package pkey
