//go:build unit
// +build unit

package pkey

import (
	"crypto/rsa"

	"github.com/stretchr/testify/mock"
)

// MockCipherEngine is a mock implementation of CipherEngine
type MockCipherEngine struct {
	mock.Mock
}

func (m *MockCipherEngine) GenerateKey(bits, publicExponent int) (*rsa.PrivateKey, error) {
	args := m.Called(bits, publicExponent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsa.PrivateKey), args.Error(1)
}

func (m *MockCipherEngine) PublicEncrypt(pub *rsa.PublicKey, padding PaddingScheme, data []byte) ([]byte, error) {
	args := m.Called(pub, padding, data)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockCipherEngine) PrivateDecrypt(priv *rsa.PrivateKey, padding PaddingScheme, data []byte) ([]byte, error) {
	args := m.Called(priv, padding, data)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockCipherEngine) PrivateEncrypt(priv *rsa.PrivateKey, padding PaddingScheme, data []byte) ([]byte, error) {
	args := m.Called(priv, padding, data)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockCipherEngine) PublicDecrypt(pub *rsa.PublicKey, padding PaddingScheme, data []byte) ([]byte, error) {
	args := m.Called(pub, padding, data)
	return bytesArg(args, 0), args.Error(1)
}

// MockKeyCodec is a mock implementation of KeyCodec
type MockKeyCodec struct {
	mock.Mock
}

func (m *MockKeyCodec) ParsePKIXPublicKey(der []byte) (*rsa.PublicKey, error) {
	args := m.Called(der)
	return publicKeyArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) ParsePKCS8PrivateKey(der []byte) (*rsa.PrivateKey, error) {
	args := m.Called(der)
	return privateKeyArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) ParsePKCS1PrivateKey(der []byte) (*rsa.PrivateKey, error) {
	args := m.Called(der)
	return privateKeyArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) ParsePKCS1PublicKey(der []byte) (*rsa.PublicKey, error) {
	args := m.Called(der)
	return publicKeyArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) ReadPEM(data, passphrase []byte) (DecodedKey, error) {
	args := m.Called(data, passphrase)
	return args.Get(0).(DecodedKey), args.Error(1)
}

func (m *MockKeyCodec) DerivePublicKey(priv *rsa.PrivateKey) (*rsa.PublicKey, error) {
	args := m.Called(priv)
	return publicKeyArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) MarshalPKIXPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	args := m.Called(pub)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) MarshalPKCS8PrivateKey(priv *rsa.PrivateKey) ([]byte, error) {
	args := m.Called(priv)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) WritePublicPEM(pub *rsa.PublicKey, traditional bool) ([]byte, error) {
	args := m.Called(pub, traditional)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockKeyCodec) WritePrivatePEM(priv *rsa.PrivateKey, cipherName string, passphrase []byte, traditional bool) ([]byte, error) {
	args := m.Called(priv, cipherName, passphrase, traditional)
	return bytesArg(args, 0), args.Error(1)
}

func bytesArg(args mock.Arguments, i int) []byte {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]byte)
}

func publicKeyArg(args mock.Arguments, i int) *rsa.PublicKey {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*rsa.PublicKey)
}

func privateKeyArg(args mock.Arguments, i int) *rsa.PrivateKey {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*rsa.PrivateKey)
}
