package shuffle

import (
	"math/big"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/vtmf"
)

// VTMFOps implements Ops for the VTMF (c1,c2) discrete-log encoding,
// where per-position secrets are additive exponents mod the subgroup
// order q rather than Schindelhauer's (r,b) pair.
type VTMFOps struct {
	VT *vtmf.Instance
}

// Fresh samples a uniform exponent in [1,q-1].
func (o *VTMFOps) Fresh() (*card.VTMFSecret, error) {
	r, err := mpint.StrongRandomNumber(big.NewInt(1), new(big.Int).Sub(o.VT.Group.Q, big.NewInt(1)))
	if err != nil {
		return nil, err
	}
	return &card.VTMFSecret{R: r}, nil
}

// Mask delegates to card.MaskVTMFCard.
func (o *VTMFOps) Mask(c *card.VTMFCard, s *card.VTMFSecret) *card.VTMFCard {
	return card.MaskVTMFCard(o.VT, c, s)
}

// Compose adds the two exponents mod q: r ← r_inner + r_outer mod q.
func (o *VTMFOps) Compose(outer, inner *card.VTMFSecret) *card.VTMFSecret {
	r := new(big.Int).Add(inner.R, outer.R)
	r.Mod(r, o.VT.Group.Q)
	return &card.VTMFSecret{R: r}
}

// Invert negates the exponent mod q.
func (o *VTMFOps) Invert(s *card.VTMFSecret) (*card.VTMFSecret, error) {
	r := new(big.Int).Neg(s.R)
	r.Mod(r, o.VT.Group.Q)
	return &card.VTMFSecret{R: r}, nil
}
