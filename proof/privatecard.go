package proof

import (
	"bufio"
	"io"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/key"
)

// ProvePrivateCard runs ProofPrivateCard for a card created by
// CreatePrivateCard: every row other than owner is the literal value 1
// and needs no proof (it is public and directly comparable); the
// owner's row is proven column-by-column to be a genuine mask-of-one,
// convincing the verifier that exactly one row per column carries a
// hidden bit and every other row is trivial.
func ProvePrivateCard(w io.Writer, r *bufio.Reader, keys []*key.PublicKey, c *card.Card, cs *card.Secret, owner int, rounds int) error {
	pk := keys[owner]
	for j := range c.Z[owner] {
		if err := ProveMaskOne(w, r, pk, cs.R[owner][j], cs.B[owner][j], rounds); err != nil {
			return err
		}
	}
	return nil
}

// VerifyPrivateCard runs the matching verifier side: every non-owner
// row must be exactly 1, and the owner's row must pass VerifyMaskOne in
// every column.
func VerifyPrivateCard(w io.Writer, r *bufio.Reader, keys []*key.PublicKey, c *card.Card, owner int, rounds int) bool {
	for i, row := range c.Z {
		if i == owner {
			continue
		}
		for _, z := range row {
			if z.Cmp(one) != 0 {
				return false
			}
		}
	}
	pk := keys[owner]
	for _, z := range c.Z[owner] {
		if !VerifyMaskOne(w, r, pk, z, rounds) {
			return false
		}
	}
	return true
}
