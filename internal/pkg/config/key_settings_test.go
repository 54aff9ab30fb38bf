//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeySettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *KeySettings
		expectedError bool
	}{
		{
			name:     "defaults",
			settings: &DefaultSettings().Key,
		},
		{
			name: "zero exponent selects the default",
			settings: &KeySettings{
				KeySize: 1024,
				Padding: 4,
			},
		},
		{
			name: "lower case cipher name",
			settings: &KeySettings{
				KeySize:        2048,
				PublicExponent: 3,
				Padding:        3,
				PEMCipher:      "des-ede3-cbc",
			},
		},
		{
			name: "key size not a multiple of eight",
			settings: &KeySettings{
				KeySize: 1025,
				Padding: 1,
			},
			expectedError: true,
		},
		{
			name: "key size too small",
			settings: &KeySettings{
				KeySize: 256,
				Padding: 1,
			},
			expectedError: true,
		},
		{
			name: "even exponent",
			settings: &KeySettings{
				KeySize:        2048,
				PublicExponent: 4,
				Padding:        1,
			},
			expectedError: true,
		},
		{
			name: "unknown padding code",
			settings: &KeySettings{
				KeySize: 2048,
				Padding: 5,
			},
			expectedError: true,
		},
		{
			name: "unknown cipher",
			settings: &KeySettings{
				KeySize:   2048,
				Padding:   1,
				PEMCipher: "rc4",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				assert.Error(t, err, "expected an error")
			} else {
				assert.NoError(t, err, "expected no error")
			}
		})
	}
}
