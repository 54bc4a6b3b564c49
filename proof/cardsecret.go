package proof

import (
	"bufio"
	"io"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/key"
)

// ProveCardSecret runs ProofCardSecret for one row of a card: the
// secret-key holder reveals, per column, whether that entry is a
// quadratic residue modulo its own modulus, each claim backed by the
// matching QR or NQR proof so the verifier learns the bit without
// learning (r,b) directly.
func ProveCardSecret(w io.Writer, r *bufio.Reader, sk *key.SecretKey, c *card.Card, row, rounds int) error {
	for j, z := range c.Z[row] {
		isQR := card.RowIsQR(c, row, j, sk)
		bit := 0
		if !isQR {
			bit = 1
		}
		if err := writeBit(w, bit); err != nil {
			return err
		}
		if isQR {
			if err := ProveQuadraticResidue(w, r, sk, z, rounds); err != nil {
				return err
			}
		} else {
			if err := ProveNonQuadraticResidue(w, r, sk, rounds); err != nil {
				return err
			}
		}
	}
	return nil
}

// VerifyCardSecret runs the matching verifier side, returning the
// revealed bits (one per column) in order, or ok=false if any column's
// proof fails.
func VerifyCardSecret(w io.Writer, r *bufio.Reader, pk *key.PublicKey, c *card.Card, row, rounds int) (bits []int, ok bool) {
	for _, z := range c.Z[row] {
		bit, err := readBit(r)
		if err != nil {
			return nil, false
		}
		if bit == 0 {
			if !VerifyQuadraticResidue(w, r, pk, z, rounds) {
				return nil, false
			}
		} else {
			if !VerifyNonQuadraticResidue(w, r, pk.M, z, rounds) {
				return nil, false
			}
		}
		bits = append(bits, bit)
	}
	return bits, true
}
