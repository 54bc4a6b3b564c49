package shuffle

import (
	"errors"
	"math/big"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/mpint"
)

// errNotInvertible is returned when a sampled mask witness is not
// invertible modulo some player's m -- astronomically unlikely, but
// checked rather than assumed.
var errNotInvertible = errors.New("shuffle: mask witness not invertible modulo m")

// CardOps implements Ops for the Schindelhauer k×w matrix encoding.
type CardOps struct {
	Keys []*key.PublicKey
	W    int
}

// Fresh samples an independent (r_ij,b_ij) for every row/column.
func (o *CardOps) Fresh() (*card.Secret, error) {
	k := len(o.Keys)
	s := &card.Secret{R: make([][]*big.Int, k), B: make([][]int, k)}
	for i := 0; i < k; i++ {
		m := o.Keys[i].M
		s.R[i] = make([]*big.Int, o.W)
		s.B[i] = make([]int, o.W)
		for j := 0; j < o.W; j++ {
			r, err := mpint.StrongRandomNumber(big.NewInt(2), new(big.Int).Sub(m, big.NewInt(1)))
			if err != nil {
				return nil, err
			}
			b, err := randomBit()
			if err != nil {
				return nil, err
			}
			s.R[i][j] = r
			s.B[i][j] = b
		}
	}
	return s, nil
}

// Mask delegates to card.MaskCard.
func (o *CardOps) Mask(c *card.Card, s *card.Secret) *card.Card {
	return card.MaskCard(c, s, o.Keys)
}

// Compose returns the secret equivalent to applying inner then outer:
// r ← r_inner·r_outer·y^(b_inner∧b_outer) mod m, b ← b_inner⊕b_outer.
// The extra y factor keeps the identity z·r²·y^b exact when both
// applications toggle the bit (y² is itself a perfect square, absorbed
// back into r).
func (o *CardOps) Compose(outer, inner *card.Secret) *card.Secret {
	k := len(o.Keys)
	res := &card.Secret{R: make([][]*big.Int, k), B: make([][]int, k)}
	for i := 0; i < k; i++ {
		m, y := o.Keys[i].M, o.Keys[i].Y
		res.R[i] = make([]*big.Int, o.W)
		res.B[i] = make([]int, o.W)
		for j := 0; j < o.W; j++ {
			r := new(big.Int).Mul(inner.R[i][j], outer.R[i][j])
			if inner.B[i][j] == 1 && outer.B[i][j] == 1 {
				r.Mul(r, y)
			}
			r.Mod(r, m)
			res.R[i][j] = r
			res.B[i][j] = inner.B[i][j] ^ outer.B[i][j]
		}
	}
	return res
}

// Invert returns the secret s' with Compose(s,s') the identity secret
// (r=1,b=0) at every position: b'=b, r'=r⁻¹·y^(-b) mod m.
func (o *CardOps) Invert(s *card.Secret) (*card.Secret, error) {
	k := len(o.Keys)
	res := &card.Secret{R: make([][]*big.Int, k), B: make([][]int, k)}
	for i := 0; i < k; i++ {
		m, y := o.Keys[i].M, o.Keys[i].Y
		yInv := new(big.Int).ModInverse(y, m)
		res.R[i] = make([]*big.Int, o.W)
		res.B[i] = make([]int, o.W)
		for j := 0; j < o.W; j++ {
			rInv := new(big.Int).ModInverse(s.R[i][j], m)
			if rInv == nil {
				return nil, errNotInvertible
			}
			r := new(big.Int).Set(rInv)
			if s.B[i][j] == 1 {
				r.Mul(r, yInv)
				r.Mod(r, m)
			}
			res.R[i][j] = r
			res.B[i][j] = s.B[i][j]
		}
	}
	return res, nil
}
