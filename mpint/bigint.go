package mpint

import (
	"errors"
	"math/big"
)

// ErrEmptyRange is returned when a requested random range is empty or
// inverted.
var ErrEmptyRange = errors.New("mpint: empty random range")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Jacobi computes the Jacobi symbol (a/n) for odd positive n. It wraps
// math/big.Jacobi, which already implements the same algorithm; the wrapper
// exists so call sites read in terms of the domain vocabulary used
// throughout the spec (QR/NQR/Jacobi) rather than the stdlib name.
func Jacobi(a, n *big.Int) int {
	return big.Jacobi(a, n)
}

// ProbablyPrime reports whether n is prime with error probability at most
// 4^-reps, via Miller-Rabin plus a Baillie-PSW check (math/big's default).
func ProbablyPrime(n *big.Int, reps int) bool {
	return n.ProbablyPrime(reps)
}

// PowMod computes base^exp mod m.
func PowMod(base, exp, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, m)
}

// InverseMod computes the modular inverse of a mod m, or nil if a and m are
// not coprime.
func InverseMod(a, m *big.Int) *big.Int {
	g := new(big.Int)
	x := new(big.Int)
	g.GCD(x, nil, a, m)
	if g.Cmp(one) != 0 {
		return nil
	}
	return x.Mod(x, m)
}

// IsSafePrime reports whether p is prime and (p-1)/2 is also prime.
func IsSafePrime(p *big.Int, reps int) bool {
	if !p.ProbablyPrime(reps) {
		return false
	}
	q := new(big.Int).Sub(p, one)
	q.Rsh(q, 1)
	return q.ProbablyPrime(reps)
}

// GenerateSafePrime searches for a safe prime of the given bit length
// that is ≡3 mod 4 (bit 1 of every candidate is forced on); reps is the
// Miller-Rabin repetition count.
func GenerateSafePrime(bits int, reps int) (*big.Int, error) {
	for {
		cand, err := StrongRandomBits(uint(bits))
		if err != nil {
			return nil, err
		}
		cand.SetBit(cand, bits-1, 1) // force bit length
		cand.SetBit(cand, 0, 1)      // force odd
		cand.SetBit(cand, 1, 1)      // p ≡ 3 (mod 4)
		if IsSafePrime(cand, reps) {
			return cand, nil
		}
	}
}

// Bit returns the j-th bit (0 = LSB) of n as 0 or 1.
func Bit(n *big.Int, j int) uint {
	return n.Bit(j)
}

// ByteLen returns the minimal number of bytes needed to hold n.
func ByteLen(n *big.Int) int {
	return (n.BitLen() + 7) / 8
}
