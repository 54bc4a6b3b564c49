// Package hashelem derives uniform group elements from a hash chain, the
// building block behind every Fiat-Shamir challenge and non-interactive
// witness in the toolbox.
package hashelem

import (
	"crypto/sha256"
	"math/big"
)

// Chain is an iterated hash-based expander: each call to Next folds the
// running digest forward and returns the next block, the same
// seed-then-expand shape the teacher uses for ECIES's KDF (there via HKDF,
// here via a fixed iteration count since the grammar needs a small, exactly
// reproducible challenge rather than an arbitrary-length key).
type Chain struct {
	state []byte
	ctr   uint64
}

// NewChain seeds a hash chain from the given byte strings, concatenated.
func NewChain(seed ...[]byte) *Chain {
	h := sha256.New()
	for _, s := range seed {
		h.Write(s)
	}
	return &Chain{state: h.Sum(nil)}
}

// Next returns the next 32-byte block of the chain.
func (c *Chain) Next() []byte {
	h := sha256.New()
	h.Write(c.state)
	var ctrBuf [8]byte
	for i := 0; i < 8; i++ {
		ctrBuf[i] = byte(c.ctr >> (8 * i))
	}
	h.Write(ctrBuf[:])
	c.ctr++
	block := h.Sum(nil)
	c.state = block
	return block
}

// NextInt returns an integer assembled from enough chain blocks to cover
// bits, reduced into [0, 2^bits).
func (c *Chain) NextInt(bits int) *big.Int {
	need := (bits + 7) / 8
	buf := make([]byte, 0, need)
	for len(buf) < need {
		buf = append(buf, c.Next()...)
	}
	n := new(big.Int).SetBytes(buf[:need])
	excess := need*8 - bits
	if excess > 0 {
		n.Rsh(n, uint(excess))
	}
	return n
}

// ElementZStarM returns a uniform element of Z*_m: repeatedly hash until the
// candidate is coprime to m.
func ElementZStarM(c *Chain, m *big.Int) *big.Int {
	one := big.NewInt(1)
	for {
		cand := c.NextInt(m.BitLen())
		cand.Mod(cand, m)
		if cand.Sign() == 0 {
			continue
		}
		g := new(big.Int).GCD(nil, nil, cand, m)
		if g.Cmp(one) == 0 {
			return cand
		}
	}
}

// ElementZCircM returns a uniform element of Z°_m (Jacobi symbol = +1),
// coprime to m.
func ElementZCircM(c *Chain, m *big.Int) *big.Int {
	for {
		cand := ElementZStarM(c, m)
		if big.Jacobi(cand, m) == 1 {
			return cand
		}
	}
}

// ElementSubgroup returns a uniform element of the order-q subgroup of Z*_p
// generated by g, used to derive VTMF Fiat-Shamir commitments when a
// verifier needs to sample a group element instead of a scalar.
func ElementSubgroup(c *Chain, p, q, g *big.Int) *big.Int {
	e := c.NextInt(q.BitLen())
	e.Mod(e, q)
	return new(big.Int).Exp(g, e, p)
}

// ChallengeBit derives a single Fiat-Shamir challenge bit from the chain.
func ChallengeBit(c *Chain) int {
	return int(c.Next()[0] & 1)
}
