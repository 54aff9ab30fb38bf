package config

import (
	"fmt"

	"github.com/MGTheTrain/pkey-rsa/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// KeySettings holds the defaults used when generating, exporting and using RSA keys
type KeySettings struct {
	KeySize        int    `mapstructure:"key_size" validate:"rsakeysize"`
	PublicExponent int    `mapstructure:"public_exponent" validate:"rsaexponent"`
	Padding        int    `mapstructure:"padding" validate:"paddingcode"`
	PEMCipher      string `mapstructure:"pem_cipher" validate:"pemcipher"`
}

// Validate checks that all fields in KeySettings are valid
func (s *KeySettings) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for KeySettings: %w", err)
	}
	return nil
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New()
	if err := validators.Register(validate); err != nil {
		return nil, err
	}
	return validate, nil
}
