package key

import (
	"math/big"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/hashelem"
	"github.com/schindelhauer/tmcg/sqrt"
	"github.com/schindelhauer/tmcg/wire"
)

// NIZK is the non-interactive zero-knowledge bundle attached to a
// Schindelhauer key, proving in three Fiat-Shamir stages (spec.md §4.2)
// that m is square-free, that m is a product of exactly two primes, and
// that y is a non-residue in Z°_m.
type NIZK struct {
	S1Responses []*big.Int
	S2Responses []*big.Int
	S3Responses []*big.Int
}

func seedChain(m, y *big.Int) *hashelem.Chain {
	return hashelem.NewChain([]byte("TMCG-NIZK"), m.Bytes(), y.Bytes())
}

// ProveNIZK builds the bundle for a freshly generated secret key. It
// requires m's factorisation.
func ProveNIZK(m, y, p, q *big.Int) *NIZK {
	n := &NIZK{}
	chain := seedChain(m, y)
	phi := eulerPhi(p, q)
	mInvPhi := new(big.Int).ModInverse(m, phi)

	for i := 0; i < constants.NIZKStage1Rounds; i++ {
		c := hashelem.ElementZStarM(chain, m)
		resp := new(big.Int).Exp(c, mInvPhi, m)
		n.S1Responses = append(n.S1Responses, resp)
	}

	for i := 0; i < constants.NIZKStage2Rounds; i++ {
		c := hashelem.ElementZStarM(chain, m)
		variants := []*big.Int{
			new(big.Int).Mod(c, m),
			new(big.Int).Mod(new(big.Int).Neg(c), m),
			new(big.Int).Mod(new(big.Int).Mul(two, c), m),
			new(big.Int).Mod(new(big.Int).Neg(new(big.Int).Mul(two, c)), m),
		}
		var resp *big.Int
		for _, v := range variants {
			if sqrt.QRMN(v, p, q) {
				roots := sqrt.Roots(v, p, q, m)
				if len(roots) > 0 {
					resp = roots[0]
					break
				}
			}
		}
		if resp == nil {
			// should not happen for a well-formed (p,q): one of the four
			// variants is always a QR mod a Blum integer.
			resp = big.NewInt(0)
		}
		n.S2Responses = append(n.S2Responses, resp)
	}

	for i := 0; i < constants.NIZKStage3Rounds; i++ {
		c := hashelem.ElementZCircM(chain, m)
		var resp *big.Int
		if sqrt.QRMN(c, p, q) {
			roots := sqrt.Roots(c, p, q, m)
			resp = roots[0]
		} else {
			cy := new(big.Int).Mod(new(big.Int).Mul(c, y), m)
			roots := sqrt.Roots(cy, p, q, m)
			resp = roots[0]
		}
		n.S3Responses = append(n.S3Responses, resp)
	}
	return n
}

// VerifyNIZK re-derives every challenge from the hash chain and checks each
// response, per spec.md §4.2's three verification stages.
func VerifyNIZK(n *NIZK, m, y *big.Int) bool {
	if len(n.S1Responses) < constants.NIZKStage1Rounds ||
		len(n.S2Responses) < constants.NIZKStage2Rounds ||
		len(n.S3Responses) < constants.NIZKStage3Rounds {
		return false
	}
	chain := seedChain(m, y)

	for i := 0; i < constants.NIZKStage1Rounds; i++ {
		c := hashelem.ElementZStarM(chain, m)
		resp := n.S1Responses[i]
		lhs := new(big.Int).Exp(resp, m, m)
		if lhs.Cmp(new(big.Int).Mod(c, m)) != 0 {
			return false
		}
	}

	for i := 0; i < constants.NIZKStage2Rounds; i++ {
		c := hashelem.ElementZStarM(chain, m)
		resp := n.S2Responses[i]
		sq := new(big.Int).Mul(resp, resp)
		sq.Mod(sq, m)
		variants := []*big.Int{
			new(big.Int).Mod(c, m),
			new(big.Int).Mod(new(big.Int).Neg(c), m),
			new(big.Int).Mod(new(big.Int).Mul(two, c), m),
			new(big.Int).Mod(new(big.Int).Neg(new(big.Int).Mul(two, c)), m),
		}
		ok := false
		for _, v := range variants {
			if sq.Cmp(v) == 0 {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	for i := 0; i < constants.NIZKStage3Rounds; i++ {
		c := hashelem.ElementZCircM(chain, m)
		resp := n.S3Responses[i]
		sq := new(big.Int).Mul(resp, resp)
		sq.Mod(sq, m)
		cy := new(big.Int).Mod(new(big.Int).Mul(c, y), m)
		if sq.Cmp(new(big.Int).Mod(c, m)) != 0 && sq.Cmp(cy) != 0 {
			return false
		}
	}
	return true
}

func eulerPhi(p, q *big.Int) *big.Int {
	pm1 := new(big.Int).Sub(p, one)
	qm1 := new(big.Int).Sub(q, one)
	return new(big.Int).Mul(pm1, qm1)
}

// Serialize renders the bundle as `nzk^S1^r…^S2^r…^S3^r…^`.
func (n *NIZK) Serialize() string {
	w := wire.NewWriter("nzk^", '^')
	w.Int(big.NewInt(int64(len(n.S1Responses))))
	for _, r := range n.S1Responses {
		w.Int(r)
	}
	w.Int(big.NewInt(int64(len(n.S2Responses))))
	for _, r := range n.S2Responses {
		w.Int(r)
	}
	w.Int(big.NewInt(int64(len(n.S3Responses))))
	for _, r := range n.S3Responses {
		w.Int(r)
	}
	return w.String()
}

// ParseNIZK parses a `nzk^…^` line produced by Serialize.
func ParseNIZK(line string) (*NIZK, error) {
	r, err := wire.ParseRecord(line, "nzk^", '^')
	if err != nil {
		return nil, err
	}
	n := &NIZK{}
	for _, dst := range []*[]*big.Int{&n.S1Responses, &n.S2Responses, &n.S3Responses} {
		count, err := r.Int()
		if err != nil {
			return nil, err
		}
		if !count.IsInt64() || count.Int64() < 0 {
			return nil, wire.ErrMalformed
		}
		for i := int64(0); i < count.Int64(); i++ {
			v, err := r.Int()
			if err != nil {
				return nil, err
			}
			*dst = append(*dst, v)
		}
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return n, nil
}

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)
