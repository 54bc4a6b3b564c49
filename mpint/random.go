// Package mpint provides the arbitrary-precision integer and randomness
// primitives the rest of the toolbox is built on.
package mpint

import (
	"crypto/rand"
	"math/big"
)

// EntropySource lets an operator splice an external randomness device into
// very-strong key generation, the same role drand's entropy.EntropySource
// plays during DKG.
type EntropySource interface {
	Read(p []byte) (int, error)
}

// StrongRandomNumber returns a uniform random integer in [low, high], using
// the process CSPRNG. It is the tier used for per-operation nonces: Rabin
// encryption padding, shuffle secrets, proof commitments.
func StrongRandomNumber(low, high *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(high, low)
	span.Add(span, big.NewInt(1))
	if span.Sign() <= 0 {
		return nil, ErrEmptyRange
	}
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, err
	}
	return n.Add(n, low), nil
}

// WeakRandomNumber returns a random integer in [low, high] for use in search
// loops whose output is subsequently checked (e.g. hunting for a witness).
// It is still CSPRNG-backed: "weak" here names the usage discipline from
// spec.md §5, not a weaker generator.
func WeakRandomNumber(low, high *big.Int) (*big.Int, error) {
	return StrongRandomNumber(low, high)
}

// VeryStrongRandomNumber is the tier used for long-lived key material. It
// always draws a value from the process CSPRNG; if src is non-nil, bytes
// read from it are added in modulo the range, and if that read fails the
// CSPRNG value is returned unchanged. This follows drand's
// entropy.GetRandom pattern of mixing in an operator-supplied source but
// never trusting it exclusively.
func VeryStrongRandomNumber(low, high *big.Int, src EntropySource) (*big.Int, error) {
	n, err := StrongRandomNumber(low, high)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return n, nil
	}
	span := new(big.Int).Sub(high, low)
	span.Add(span, big.NewInt(1))
	buf := make([]byte, (span.BitLen()+7)/8+8)
	if _, err := src.Read(buf); err != nil {
		// an unreliable external source degrades to the CSPRNG value,
		// it never fails key generation.
		return n, nil
	}
	extra := new(big.Int).SetBytes(buf)
	extra.Mod(extra, span)
	n.Add(n, extra)
	n.Mod(n, span)
	n.Add(n, low)
	return n, nil
}

// StrongRandomBits returns bits uniform random bits as an unsigned integer.
func StrongRandomBits(bits uint) (*big.Int, error) {
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	n := new(big.Int).SetBytes(buf)
	excess := byteLen*8 - bits
	if excess > 0 {
		n.Rsh(n, excess)
	}
	return n, nil
}

// StrongRandomBytes fills buf with CSPRNG output.
func StrongRandomBytes(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}
