// Package card implements the two card encodings of spec.md §3/§4.5: the
// Schindelhauer k×w matrix-of-residues encoding, and the VTMF (c1,c2)
// pair encoding, together with their mask/remask and type-recovery
// operations.
package card

import (
	"fmt"
	"math/big"

	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/sqrt"
	"github.com/schindelhauer/tmcg/vtmf"
	"github.com/schindelhauer/tmcg/wire"
)

// Card is a k×w matrix of residues, row i keyed to player i's modulus.
type Card struct {
	Z [][]*big.Int // Z[i][j]
}

// Secret holds the matching r,b matrices used to construct or mask a
// Card: r_ij ∈ Z*_{m_i}, b_ij ∈ {0,1}.
type Secret struct {
	R [][]*big.Int
	B [][]int
}

func newZeroSecret(k, w int) *Secret {
	s := &Secret{R: make([][]*big.Int, k), B: make([][]int, k)}
	for i := range s.R {
		s.R[i] = make([]*big.Int, w)
		s.B[i] = make([]int, w)
		for j := range s.R[i] {
			s.R[i][j] = big.NewInt(1)
		}
	}
	return s
}

// CreateOpenCard builds the publicly-known encoding of typ under w bits,
// using each player's non-residue witness y_i: bit j is 0 -> 1, bit j is
// 1 -> y_i (spec.md §4.5).
func CreateOpenCard(keys []*key.PublicKey, typ int, w int) *Card {
	k := len(keys)
	c := &Card{Z: make([][]*big.Int, k)}
	for i := 0; i < k; i++ {
		c.Z[i] = make([]*big.Int, w)
		for j := 0; j < w; j++ {
			if (typ>>uint(j))&1 == 0 {
				c.Z[i][j] = big.NewInt(1)
			} else {
				c.Z[i][j] = new(big.Int).Set(keys[i].Y)
			}
		}
	}
	return c
}

// CreatePrivateCard builds a card known only to owner (by seat index)
// with its secret: owner picks r_ij, b_ij; row owner gets
// z_ij = r_ij^2 * y_owner^b_ij mod m_owner, every other row is 1.
func CreatePrivateCard(keys []*key.PublicKey, owner int, typ int, w int) (*Card, *Secret, error) {
	k := len(keys)
	c := &Card{Z: make([][]*big.Int, k)}
	s := newZeroSecret(k, w)

	for i := 0; i < k; i++ {
		c.Z[i] = make([]*big.Int, w)
		if i != owner {
			for j := 0; j < w; j++ {
				c.Z[i][j] = big.NewInt(1)
			}
			continue
		}
		m := keys[i].M
		for j := 0; j < w; j++ {
			r, err := mpint.StrongRandomNumber(big.NewInt(2), new(big.Int).Sub(m, big.NewInt(1)))
			if err != nil {
				return nil, nil, err
			}
			b := (typ >> uint(j)) & 1
			s.R[i][j] = r
			s.B[i][j] = b
			c.Z[i][j] = maskValue(big.NewInt(1), r, b, keys[i].Y, m)
		}
	}
	return c, s, nil
}

// maskValue computes z * r^2 * y^b mod m.
func maskValue(z, r *big.Int, b int, y, m *big.Int) *big.Int {
	v := new(big.Int).Mul(r, r)
	v.Mod(v, m)
	if b != 0 {
		v.Mul(v, y)
		v.Mod(v, m)
	}
	v.Mul(v, z)
	v.Mod(v, m)
	return v
}

// MaskCard re-randomises c componentwise using cs (spec.md §4.5's
// MaskCard): z'_ij = z_ij * r_ij^2 * y_i^b_ij mod m_i.
func MaskCard(c *Card, cs *Secret, keys []*key.PublicKey) *Card {
	k := len(c.Z)
	out := &Card{Z: make([][]*big.Int, k)}
	for i := 0; i < k; i++ {
		w := len(c.Z[i])
		out.Z[i] = make([]*big.Int, w)
		for j := 0; j < w; j++ {
			out.Z[i][j] = maskValue(c.Z[i][j], cs.R[i][j], cs.B[i][j], keys[i].Y, keys[i].M)
		}
	}
	return out
}

// TypeOfCard recovers the card's type from its secret: bit j is the XOR
// of b_ij across every row i (spec.md §4.5).
func TypeOfCard(cs *Secret) int {
	if len(cs.B) == 0 {
		return 0
	}
	w := len(cs.B[0])
	typ := 0
	for j := 0; j < w; j++ {
		bit := 0
		for i := range cs.B {
			bit ^= cs.B[i][j]
		}
		typ |= bit << uint(j)
	}
	return typ
}

// RowIsQR reports whether z_ij is a quadratic residue modulo the row
// owner's modulus p*q — only the card's owner, holding the
// factorisation, can evaluate this (spec.md §4.6 ProofCardSecret).
func RowIsQR(c *Card, i, j int, owner *key.SecretKey) bool {
	return sqrt.QRMN(c.Z[i][j], owner.P, owner.Q)
}

// Serialize renders a Schindelhauer card as `crd|k|w|z_00|...|`.
func (c *Card) Serialize() string {
	k := len(c.Z)
	w := 0
	if k > 0 {
		w = len(c.Z[0])
	}
	wr := wire.NewWriter("crd|", '|')
	wr.Int(big.NewInt(int64(k)))
	wr.Int(big.NewInt(int64(w)))
	for i := 0; i < k; i++ {
		for j := 0; j < w; j++ {
			wr.Int(c.Z[i][j])
		}
	}
	return wr.String()
}

// ParseCard parses a `crd|k|w|...|` record.
func ParseCard(line string) (*Card, error) {
	r, err := wire.ParseRecord(line, "crd|", '|')
	if err != nil {
		return nil, err
	}
	kb, err := r.Int()
	if err != nil {
		return nil, err
	}
	wb, err := r.Int()
	if err != nil {
		return nil, err
	}
	if !kb.IsInt64() || !wb.IsInt64() || kb.Sign() < 0 || wb.Sign() < 0 {
		return nil, wire.ErrMalformed
	}
	k, w := int(kb.Int64()), int(wb.Int64())
	c := &Card{Z: make([][]*big.Int, k)}
	for i := 0; i < k; i++ {
		c.Z[i] = make([]*big.Int, w)
		for j := 0; j < w; j++ {
			v, err := r.Int()
			if err != nil {
				return nil, err
			}
			c.Z[i][j] = v
		}
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return c, nil
}

// Serialize renders a card secret as `crs|n|m|r_00|b_00|...|`.
func (s *Secret) Serialize() string {
	n := len(s.R)
	m := 0
	if n > 0 {
		m = len(s.R[0])
	}
	wr := wire.NewWriter("crs|", '|')
	wr.Int(big.NewInt(int64(n)))
	wr.Int(big.NewInt(int64(m)))
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			wr.Int(s.R[i][j])
			wr.Int(big.NewInt(int64(s.B[i][j])))
		}
	}
	return wr.String()
}

// ParseSecret parses a `crs|n|m|...|` record.
func ParseSecret(line string) (*Secret, error) {
	r, err := wire.ParseRecord(line, "crs|", '|')
	if err != nil {
		return nil, err
	}
	nb, err := r.Int()
	if err != nil {
		return nil, err
	}
	mb, err := r.Int()
	if err != nil {
		return nil, err
	}
	if !nb.IsInt64() || !mb.IsInt64() || nb.Sign() < 0 || mb.Sign() < 0 {
		return nil, wire.ErrMalformed
	}
	n, m := int(nb.Int64()), int(mb.Int64())
	s := newZeroSecret(n, m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			rv, err := r.Int()
			if err != nil {
				return nil, err
			}
			bv, err := r.Int()
			if err != nil {
				return nil, err
			}
			if !bv.IsInt64() || (bv.Int64() != 0 && bv.Int64() != 1) {
				return nil, wire.ErrMalformed
			}
			s.R[i][j] = rv
			s.B[i][j] = int(bv.Int64())
		}
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return s, nil
}

// VTMFCard is the discrete-log pair encoding (c1,c2) of spec.md §3.
type VTMFCard struct {
	C1, C2 *big.Int
}

// VTMFSecret is the scalar mask applied to a VTMFCard.
type VTMFSecret struct {
	R *big.Int
}

// CreateVTMFOpenCard embeds typ as g^typ and masks it with a fresh
// scalar, the VTMF analogue of CreateOpenCard.
func CreateVTMFOpenCard(vt *vtmf.Instance, typ int64) (*VTMFCard, *VTMFSecret, error) {
	r, err := mpint.StrongRandomNumber(big.NewInt(1), new(big.Int).Sub(vt.Group.Q, big.NewInt(1)))
	if err != nil {
		return nil, nil, err
	}
	c1, c2 := vt.EncryptType(typ, r)
	return &VTMFCard{C1: c1, C2: c2}, &VTMFSecret{R: r}, nil
}

// MaskVTMFCard re-randomises a VTMF card with a fresh scalar secret.
func MaskVTMFCard(vt *vtmf.Instance, c *VTMFCard, secret *VTMFSecret) *VTMFCard {
	c1, c2 := vt.Mask(c.C1, c.C2, secret.R)
	return &VTMFCard{C1: c1, C2: c2}
}

// TypeOfVTMFCard recovers the embedded type once every player's
// decryption share has been combined, searching [0,maxType).
func TypeOfVTMFCard(vt *vtmf.Instance, c *VTMFCard, shares []*vtmf.Share, maxType int64) (int64, error) {
	decrypted := vtmf.Decrypt(vt.Group, c.C2, shares)
	if decrypted == nil {
		return 0, fmt.Errorf("card: combined decryption share product not invertible")
	}
	return vtmf.TypeOf(vt.Group, decrypted, maxType)
}

// Serialize renders a VTMF card as `crd|c1|c2|`.
func (c *VTMFCard) Serialize() string {
	w := wire.NewWriter("crd|", '|')
	w.Int(c.C1)
	w.Int(c.C2)
	return w.String()
}

// ParseVTMFCard parses a `crd|c1|c2|` record.
func ParseVTMFCard(line string) (*VTMFCard, error) {
	r, err := wire.ParseRecord(line, "crd|", '|')
	if err != nil {
		return nil, err
	}
	c := &VTMFCard{}
	if c.C1, err = r.Int(); err != nil {
		return nil, err
	}
	if c.C2, err = r.Int(); err != nil {
		return nil, err
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return c, nil
}

// Serialize renders a VTMF card secret as `crs|r|`.
func (s *VTMFSecret) Serialize() string {
	w := wire.NewWriter("crs|", '|')
	w.Int(s.R)
	return w.String()
}

// ParseVTMFSecret parses a `crs|r|` record.
func ParseVTMFSecret(line string) (*VTMFSecret, error) {
	r, err := wire.ParseRecord(line, "crs|", '|')
	if err != nil {
		return nil, err
	}
	s := &VTMFSecret{}
	if s.R, err = r.Int(); err != nil {
		return nil, err
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return s, nil
}
