package proof

import (
	"math/big"

	"github.com/schindelhauer/tmcg/vtmf"
)

// VerifyKeyShare checks a player's Schnorr proof of knowledge of its
// VTMF key share exponent, the VTMF analogue of the Schindelhauer
// key-generation NIZK (spec.md §4.4/§4.6's closing note that VTMF
// proofs become Chaum-Pedersen equality-of-discrete-logs proofs).
func VerifyKeyShare(grp *vtmf.Group, h *big.Int, p *vtmf.SchnorrProof) bool {
	return vtmf.VerifyKeyShare(grp, h, p)
}

// VerifyRevealShare checks a player's Chaum-Pedersen proof that its
// decryption share d is consistent with both its public key share h
// and the card's masked component c1, i.e. log_g(h) = log_c1(d).
func VerifyRevealShare(grp *vtmf.Group, c1, h *big.Int, share *vtmf.Share, p *vtmf.ChaumPedersenProof) bool {
	return vtmf.VerifyShare(grp, c1, h, share, p)
}
