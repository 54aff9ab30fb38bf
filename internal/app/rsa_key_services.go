package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/MGTheTrain/pkey-rsa/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/pkey-rsa/internal/infrastructure/keycodec"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/logger"
)

// rsaKeyService implements the pkey.RSAKeyService interface
type rsaKeyService struct {
	engine pkey.CipherEngine
	codec  pkey.KeyCodec
	logger logger.Logger
}

// NewRSAKeyService creates a new instance of RSAKeyService
func NewRSAKeyService(engine pkey.CipherEngine, codec pkey.KeyCodec, logger logger.Logger) (pkey.RSAKeyService, error) {
	if engine == nil || codec == nil {
		return nil, errors.New("cipher engine and key codec are required")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &rsaKeyService{
		engine: engine,
		codec:  codec,
		logger: logger,
	}, nil
}

// NewDefaultRSAKeyService creates an RSAKeyService backed by the crypto/rsa
// cipher engine and the x509/PEM key codec
func NewDefaultRSAKeyService(logger logger.Logger) (pkey.RSAKeyService, error) {
	engine, err := cryptography.NewRSACipherEngine(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher engine: %w", err)
	}
	codec, err := keycodec.NewKeyCodec(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create key codec: %w", err)
	}
	return NewRSAKeyService(engine, codec, logger)
}

// New returns an empty key
func (s *rsaKeyService) New() *pkey.RSAKey {
	return pkey.NewRSAKey(s.engine, s.codec)
}

// Generate returns a freshly generated key
func (s *rsaKeyService) Generate(bits, publicExponent int) (*pkey.RSAKey, error) {
	key := s.New()
	if err := key.Generate(bits, publicExponent); err != nil {
		return nil, err
	}

	s.logger.Info("Generated ", key.Bits(), "-bit RSA key")
	return key, nil
}

// Parse returns a key read from encoded material
func (s *rsaKeyService) Parse(encoded, passphrase []byte) (*pkey.RSAKey, error) {
	key := s.New()
	if err := key.Parse(encoded, passphrase); err != nil {
		return nil, err
	}

	s.logger.Debug("Parsed ", key.State(), " RSA key of ", key.Bits(), " bits")
	return key, nil
}

// Load reads a key file and parses it
func (s *rsaKeyService) Load(path string, passphrase []byte) (*pkey.RSAKey, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	key, err := s.Parse(encoded, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load key from %s: %w", path, err)
	}

	s.logger.Info("Loaded RSA key from ", path)
	return key, nil
}

// Save exports a key as PEM to a file
func (s *rsaKeyService) Save(key *pkey.RSAKey, path, cipherName string, passphrase []byte) error {
	if key == nil {
		return errors.New("key cannot be nil")
	}

	pemText, err := key.Export(cipherName, passphrase)
	if err != nil {
		return err
	}
	if err := writeKeyFile(path, pemText); err != nil {
		return err
	}

	s.logger.Info("Saved ", key.State(), " RSA key to ", path)
	return nil
}

// SaveDER writes the DER encoding of a key to a file
func (s *rsaKeyService) SaveDER(key *pkey.RSAKey, path string) error {
	if key == nil {
		return errors.New("key cannot be nil")
	}

	der, err := key.ToDer()
	if err != nil {
		return err
	}
	if err := writeKeyFile(path, der); err != nil {
		return err
	}

	s.logger.Info("Saved ", key.State(), " RSA key as DER to ", path)
	return nil
}

func writeKeyFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return nil
}
