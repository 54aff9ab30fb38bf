package cryptography

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/subtle"
	"errors"
	"hash"
	"io"
	"math/big"
)

var (
	errMessageTooLong    = errors.New("message too long for RSA key size")
	errMessageOutOfRange = errors.New("message representative out of range for modulus")
	errPaddingCheck      = errors.New("padding check failed")
	errFaultyResult      = errors.New("private key operation produced an inconsistent result")
)

// The crypto/rsa package pads and transforms in one step and only in the
// directions it supports (public encrypt, private decrypt, and block type 1
// signing). The raw transform and the paddings below cover the remaining
// combinations: public decrypt, OAEP with the private key, and no padding.

// rawPublic computes in^e mod n. The input may be shorter than the modulus
// but not longer, and its value must be below n.
func rawPublic(pub *rsa.PublicKey, in []byte) ([]byte, error) {
	k := pub.Size()
	m, err := checkRepresentative(pub.N, k, in)
	if err != nil {
		return nil, err
	}
	c := new(big.Int).Exp(m, big.NewInt(int64(pub.E)), pub.N)
	return c.FillBytes(make([]byte, k)), nil
}

// rawPrivate computes in^d mod n, using the CRT values when the key has them.
// The input is blinded with a random r^e before exponentiation and the result
// is checked by re-encrypting it with e, so a faulty CRT computation is never
// returned. math/big is not constant time: blinding hides the input from the
// timing, not the private exponent.
func rawPrivate(priv *rsa.PrivateKey, in []byte) ([]byte, error) {
	k := priv.Size()
	c, err := checkRepresentative(priv.N, k, in)
	if err != nil {
		return nil, err
	}

	e := big.NewInt(int64(priv.E))
	r, rInv, err := blindingFactor(priv.N)
	if err != nil {
		return nil, err
	}
	blinded := new(big.Int).Exp(r, e, priv.N)
	blinded.Mul(blinded, c)
	blinded.Mod(blinded, priv.N)

	m := decryptBlinded(priv, blinded)
	m.Mul(m, rInv)
	m.Mod(m, priv.N)

	if check := new(big.Int).Exp(m, e, priv.N); check.Cmp(c) != 0 {
		return nil, errFaultyResult
	}
	return m.FillBytes(make([]byte, k)), nil
}

// blindingFactor returns a random r in [1, n) invertible mod n and its inverse.
func blindingFactor(n *big.Int) (*big.Int, *big.Int, error) {
	for {
		r, err := rand.Int(rand.Reader, n)
		if err != nil {
			return nil, nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		if rInv := new(big.Int).ModInverse(r, n); rInv != nil {
			return r, rInv, nil
		}
	}
}

func decryptBlinded(priv *rsa.PrivateKey, c *big.Int) *big.Int {
	pre := priv.Precomputed
	if len(priv.Primes) != 2 || pre.Dp == nil || pre.Dq == nil || pre.Qinv == nil {
		return new(big.Int).Exp(c, priv.D, priv.N)
	}

	p, q := priv.Primes[0], priv.Primes[1]
	m1 := new(big.Int).Exp(c, pre.Dp, p)
	m2 := new(big.Int).Exp(c, pre.Dq, q)
	h := new(big.Int).Sub(m1, m2)
	h.Mul(h, pre.Qinv)
	h.Mod(h, p)
	m := h.Mul(h, q)
	return m.Add(m, m2)
}

func checkRepresentative(n *big.Int, k int, in []byte) (*big.Int, error) {
	if len(in) > k {
		return nil, errMessageTooLong
	}
	m := new(big.Int).SetBytes(in)
	if m.Cmp(n) >= 0 {
		return nil, errMessageOutOfRange
	}
	return m, nil
}

// trimLeadingZeros returns the minimal big-endian form of b. A zero value
// yields an empty, non-nil slice; only a nil input gives nil.
func trimLeadingZeros(b []byte) []byte {
	if b == nil {
		return nil
	}
	trimmed := bytes.TrimLeft(b, "\x00")
	if trimmed == nil {
		return []byte{}
	}
	return trimmed
}

// unpadPKCS1Type1 strips EM = 0x00 || 0x01 || PS || 0x00 || M, where PS is at
// least eight 0xff bytes.
func unpadPKCS1Type1(em []byte) ([]byte, error) {
	if len(em) < 11 || em[0] != 0x00 || em[1] != 0x01 {
		return nil, errPaddingCheck
	}
	i := 2
	for ; i < len(em) && em[i] == 0xff; i++ {
	}
	if i == len(em) || em[i] != 0x00 || i-2 < 8 {
		return nil, errPaddingCheck
	}
	return em[i+1:], nil
}

// padOAEP builds EM = 0x00 || maskedSeed || maskedDB for a k-byte modulus,
// see RFC 8017 section 7.1.1. The label is empty.
func padOAEP(random io.Reader, hash hash.Hash, k int, msg []byte) ([]byte, error) {
	hLen := hash.Size()
	if len(msg) > k-2*hLen-2 {
		return nil, errMessageTooLong
	}

	hash.Reset()
	lHash := hash.Sum(nil)

	em := make([]byte, k)
	seed := em[1 : 1+hLen]
	db := em[1+hLen:]

	copy(db[:hLen], lHash)
	db[len(db)-len(msg)-1] = 0x01
	copy(db[len(db)-len(msg):], msg)

	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, err
	}

	mgf1XOR(db, hash, seed)
	mgf1XOR(seed, hash, db)
	return em, nil
}

// unpadOAEP reverses padOAEP.
func unpadOAEP(hash hash.Hash, em []byte) ([]byte, error) {
	hLen := hash.Size()
	k := len(em)
	if k < 2*hLen+2 {
		return nil, errPaddingCheck
	}

	hash.Reset()
	lHash := hash.Sum(nil)

	firstByteIsZero := subtle.ConstantTimeByteEq(em[0], 0)

	seed := make([]byte, hLen)
	copy(seed, em[1:1+hLen])
	db := make([]byte, k-hLen-1)
	copy(db, em[1+hLen:])

	mgf1XOR(seed, hash, db)
	mgf1XOR(db, hash, seed)

	lHash2Good := subtle.ConstantTimeCompare(lHash, db[:hLen])

	// The remainder of db is PS || 0x01 || M where PS is zero or more zero bytes.
	var lookingForIndex, index, invalid int
	lookingForIndex = 1
	rest := db[hLen:]
	for i := 0; i < len(rest); i++ {
		equals0 := subtle.ConstantTimeByteEq(rest[i], 0)
		equals1 := subtle.ConstantTimeByteEq(rest[i], 1)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals1, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals1, 0, lookingForIndex)
		invalid = subtle.ConstantTimeSelect(lookingForIndex&^equals0, 1, invalid)
	}

	if firstByteIsZero&lHash2Good&^invalid&^lookingForIndex != 1 {
		return nil, errPaddingCheck
	}
	return rest[index+1:], nil
}

// mgf1XOR XORs the bytes in out with a mask generated using the MGF1 function
// specified in PKCS#1 v2.1.
func mgf1XOR(out []byte, hash hash.Hash, seed []byte) {
	var counter [4]byte
	var digest []byte

	done := 0
	for done < len(out) {
		hash.Reset()
		hash.Write(seed)
		hash.Write(counter[0:4])
		digest = hash.Sum(digest[:0])

		for i := 0; i < len(digest) && done < len(out); i++ {
			out[done] ^= digest[i]
			done++
		}
		incCounter(&counter)
	}
	hash.Reset()
}

// incCounter increments a four byte, big-endian counter.
func incCounter(c *[4]byte) {
	if c[3]++; c[3] != 0 {
		return
	}
	if c[2]++; c[2] != 0 {
		return
	}
	if c[1]++; c[1] != 0 {
		return
	}
	c[0]++
}
