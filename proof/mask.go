package proof

import (
	"bufio"
	"io"
	"math/big"

	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/mpint"
)

// ProveMaskValue runs the prover's side of ProofMaskValue(z,zz,r,b): show
// zz = z·r²·y^b mod m without revealing (r,b). Each round commits a
// fresh (r',b') as zz' = z·r'²·y^b', then answers the challenge with
// either (r',b') directly or the values that let the verifier recompute
// zz' starting from zz instead of z.
func ProveMaskValue(w io.Writer, rd *bufio.Reader, pk *key.PublicKey, z, r *big.Int, b int, rounds int) error {
	m, y := pk.M, pk.Y
	for i := 0; i < rounds; i++ {
		rp, bp, err := maskOneWitness(m)
		if err != nil {
			return err
		}
		zzp := maskVal(z, rp, bp, y, m)
		if err := writeInt(w, zzp); err != nil {
			return err
		}

		challenge, err := readBit(rd)
		if err != nil {
			return err
		}
		var respR *big.Int
		respB := bp
		if challenge == 0 {
			respR = rp
		} else {
			rInv := new(big.Int).ModInverse(r, m)
			if rInv == nil {
				return errNotInvertible
			}
			respR = new(big.Int).Mul(rp, rInv)
			respR.Mod(respR, m)
			respB = bp ^ b
			if b == 1 && bp == 0 {
				// zz already carries y¹, so y^-1 cancels the extra y².
				respR.Mul(respR, new(big.Int).ModInverse(y, m))
				respR.Mod(respR, m)
			}
		}
		if err := writeInt(w, respR); err != nil {
			return err
		}
		if err := writeBit(w, respB); err != nil {
			return err
		}
	}
	return nil
}

// VerifyMaskValue runs the verifier's side: read zz', challenge, read
// the response, and confirm zz' is reproduced either from z (challenge
// 0) or from zz (challenge 1).
func VerifyMaskValue(w io.Writer, rd *bufio.Reader, pk *key.PublicKey, z, zz *big.Int, rounds int) bool {
	m, y := pk.M, pk.Y
	for i := 0; i < rounds; i++ {
		zzp, err := readInt(rd)
		if err != nil {
			return false
		}
		challenge, err := randomBit()
		if err != nil {
			return false
		}
		if err := writeBit(w, challenge); err != nil {
			return false
		}
		respR, err := readInt(rd)
		if err != nil {
			return false
		}
		respB, err := readBit(rd)
		if err != nil {
			return false
		}
		base := z
		if challenge == 1 {
			base = zz
		}
		got := maskVal(base, respR, respB, y, m)
		if got.Cmp(new(big.Int).Mod(zzp, m)) != 0 {
			return false
		}
	}
	return true
}

// ProveMaskOne runs ProofMaskOne(r,b): the special case z=1, proving zz
// = r²·y^b mod m is a mask of 1.
func ProveMaskOne(w io.Writer, rd *bufio.Reader, pk *key.PublicKey, r *big.Int, b int, rounds int) error {
	return ProveMaskValue(w, rd, pk, one, r, b, rounds)
}

// VerifyMaskOne runs the matching verifier side.
func VerifyMaskOne(w io.Writer, rd *bufio.Reader, pk *key.PublicKey, zz *big.Int, rounds int) bool {
	return VerifyMaskValue(w, rd, pk, one, zz, rounds)
}

// ProveMaskCard runs ProofMaskCard: the same (r,b) proof as
// ProveMaskValue, but applied componentwise across every (i,j) entry of
// a k×w card, reusing one challenge bit per round across every
// component (spec.md §4.6).
func ProveMaskCard(w io.Writer, rd *bufio.Reader, keys []*key.PublicKey, z, r [][]*big.Int, b [][]int, rounds int) error {
	k := len(z)
	for round := 0; round < rounds; round++ {
		rp := make([][]*big.Int, k)
		bp := make([][]int, k)
		zzp := make([][]*big.Int, k)
		for i := 0; i < k; i++ {
			rowW := len(z[i])
			rp[i] = make([]*big.Int, rowW)
			bp[i] = make([]int, rowW)
			zzp[i] = make([]*big.Int, rowW)
			for j := 0; j < rowW; j++ {
				var err error
				rp[i][j], bp[i][j], err = maskOneWitness(keys[i].M)
				if err != nil {
					return err
				}
				zzp[i][j] = maskVal(z[i][j], rp[i][j], bp[i][j], keys[i].Y, keys[i].M)
				if err := writeInt(w, zzp[i][j]); err != nil {
					return err
				}
			}
		}

		challenge, err := readBit(rd)
		if err != nil {
			return err
		}
		for i := 0; i < k; i++ {
			m := keys[i].M
			for j := range z[i] {
				var respR *big.Int
				respB := bp[i][j]
				if challenge == 0 {
					respR = rp[i][j]
				} else {
					rInv := new(big.Int).ModInverse(r[i][j], m)
					if rInv == nil {
						return errNotInvertible
					}
					respR = new(big.Int).Mul(rp[i][j], rInv)
					respR.Mod(respR, m)
					respB = bp[i][j] ^ b[i][j]
					if b[i][j] == 1 && bp[i][j] == 0 {
						respR.Mul(respR, new(big.Int).ModInverse(keys[i].Y, m))
						respR.Mod(respR, m)
					}
				}
				if err := writeInt(w, respR); err != nil {
					return err
				}
				if err := writeBit(w, respB); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// VerifyMaskCard runs the matching verifier side.
func VerifyMaskCard(w io.Writer, rd *bufio.Reader, keys []*key.PublicKey, z, zz [][]*big.Int, rounds int) bool {
	k := len(z)
	for round := 0; round < rounds; round++ {
		zzp := make([][]*big.Int, k)
		for i := 0; i < k; i++ {
			rowW := len(z[i])
			zzp[i] = make([]*big.Int, rowW)
			for j := 0; j < rowW; j++ {
				v, err := readInt(rd)
				if err != nil {
					return false
				}
				zzp[i][j] = v
			}
		}
		challenge, err := randomBit()
		if err != nil {
			return false
		}
		if err := writeBit(w, challenge); err != nil {
			return false
		}
		for i := 0; i < k; i++ {
			m, y := keys[i].M, keys[i].Y
			for j := range z[i] {
				respR, err := readInt(rd)
				if err != nil {
					return false
				}
				respB, err := readBit(rd)
				if err != nil {
					return false
				}
				base := z[i][j]
				if challenge == 1 {
					base = zz[i][j]
				}
				got := maskVal(base, respR, respB, y, m)
				if got.Cmp(new(big.Int).Mod(zzp[i][j], m)) != 0 {
					return false
				}
			}
		}
	}
	return true
}

func maskOneWitness(m *big.Int) (r *big.Int, b int, err error) {
	r, err = mpint.StrongRandomNumber(two, new(big.Int).Sub(m, one))
	if err != nil {
		return nil, 0, err
	}
	bit, err := randomBit()
	if err != nil {
		return nil, 0, err
	}
	return r, bit, nil
}

func maskVal(z, r *big.Int, b int, y, m *big.Int) *big.Int {
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
