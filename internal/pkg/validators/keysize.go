package validators

import (
	"fmt"
	"strings"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/go-playground/validator/v10"
)

// Tags registered by Register.
const (
	TagRSAKeySize  = "rsakeysize"
	TagRSAExponent = "rsaexponent"
	TagPaddingCode = "paddingcode"
	TagPEMCipher   = "pemcipher"
)

// RSA modulus size bounds, in bits.
const (
	MinRSAKeySize = 512
	MaxRSAKeySize = 16384
)

// RSAKeySizeValidation validates an RSA modulus size: a multiple of 8 between
// MinRSAKeySize and MaxRSAKeySize bits.
func RSAKeySizeValidation(fl validator.FieldLevel) bool {
	keySize := fl.Field().Int()
	return keySize >= MinRSAKeySize && keySize <= MaxRSAKeySize && keySize%8 == 0
}

// RSAExponentValidation validates an RSA public exponent. Zero selects the
// default exponent; anything else must be odd and at least 3.
func RSAExponentValidation(fl validator.FieldLevel) bool {
	exponent := fl.Field().Int()
	if exponent == 0 {
		return true
	}
	return exponent >= 3 && exponent%2 == 1
}

// PaddingCodeValidation validates a padding code accepted by pkey.ResolvePadding.
func PaddingCodeValidation(fl validator.FieldLevel) bool {
	_, err := pkey.ResolvePadding(int(fl.Field().Int()))
	return err == nil
}

// PEMCipherValidation validates the cipher name used to encrypt exported
// private keys. An empty name means no encryption.
func PEMCipherValidation(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "", pkey.CipherAES128CBC, pkey.CipherAES192CBC, pkey.CipherAES256CBC, pkey.CipherDESEDE3CBC:
		return true
	default:
		return false
	}
}

// Register adds the RSA validation tags to v.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		TagRSAKeySize:  RSAKeySizeValidation,
		TagRSAExponent: RSAExponentValidation,
		TagPaddingCode: PaddingCodeValidation,
		TagPEMCipher:   PEMCipherValidation,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}
