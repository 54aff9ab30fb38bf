// Package strutil converts between Go strings and the byte strings RSA
// operates on. Each byte maps to one character of ISO-8859-1, so every byte
// sequence has a text form and back.
package strutil

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ToLatin1 encodes s as ISO-8859-1. Characters above U+00FF have no
// single-byte form and are rejected.
func ToLatin1(s string) ([]byte, error) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("text is not representable as ISO-8859-1: %w", err)
	}
	return b, nil
}

// FromLatin1 decodes b as ISO-8859-1. It never fails.
func FromLatin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// every byte is a valid ISO-8859-1 character
		return string(b)
	}
	return string(s)
}
