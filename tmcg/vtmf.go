package tmcg

import (
	"bufio"
	"io"
	"math/big"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/proof"
	"github.com/schindelhauer/tmcg/shuffle"
	"github.com/schindelhauer/tmcg/stack"
	"github.com/schindelhauer/tmcg/vtmf"
)

// VTMFTMCG is the VTMF-encoding counterpart of SchindelhauerTMCG,
// binding every card/stack operation to one shared threshold-masking
// instance (spec.md §4.4/§4.5 VTMF variants).
type VTMFTMCG struct {
	VT       *vtmf.Instance
	MaxType  int64
	security int
}

// NewVTMF builds a facade over an already-assembled VTMF instance.
func NewVTMF(vt *vtmf.Instance, maxType int64, securityLevel int) *VTMFTMCG {
	return &VTMFTMCG{VT: vt, MaxType: maxType, security: securityLevel}
}

// CreateOpenCard embeds typ as g^typ under a fresh mask.
func (t *VTMFTMCG) CreateOpenCard(typ int64) (*card.VTMFCard, *card.VTMFSecret, error) {
	return card.CreateVTMFOpenCard(t.VT, typ)
}

// MaskCard re-randomises c under secret.
func (t *VTMFTMCG) MaskCard(c *card.VTMFCard, secret *card.VTMFSecret) *card.VTMFCard {
	return card.MaskVTMFCard(t.VT, c, secret)
}

// RevealShare produces this player's decryption share and its
// Chaum-Pedersen proof for card c.
func (t *VTMFTMCG) RevealShare(c *card.VTMFCard) (*vtmf.Share, *vtmf.ChaumPedersenProof, error) {
	return t.VT.RevealShare(c.C1)
}

// VerifyShare checks a revealed decryption share against player h.
func (t *VTMFTMCG) VerifyShare(c *card.VTMFCard, h *big.Int, share *vtmf.Share, p *vtmf.ChaumPedersenProof) bool {
	return proof.VerifyRevealShare(t.VT.Group, c.C1, h, share, p)
}

// TypeOfCard recovers the type embedded in c once every share has been
// collected.
func (t *VTMFTMCG) TypeOfCard(c *card.VTMFCard, shares []*vtmf.Share) (int64, error) {
	return card.TypeOfVTMFCard(t.VT, c, shares, t.MaxType)
}

func (t *VTMFTMCG) ops() *shuffle.VTMFOps {
	return &shuffle.VTMFOps{VT: t.VT}
}

// CreateStackSecret, MixStack and GlueStackSecret expose the shuffle
// core bound to the VTMF encoding.
func (t *VTMFTMCG) CreateStackSecret(cyclic bool, size int) (*stack.StackSecret[*card.VTMFSecret], error) {
	return shuffle.CreateStackSecret[*card.VTMFCard, *card.VTMFSecret](t.ops(), cyclic, size)
}

func (t *VTMFTMCG) MixStack(s *stack.Stack[*card.VTMFCard], ss *stack.StackSecret[*card.VTMFSecret]) *stack.Stack[*card.VTMFCard] {
	return shuffle.MixStack[*card.VTMFCard, *card.VTMFSecret](t.ops(), s, ss)
}

func (t *VTMFTMCG) GlueStackSecret(sigma, pi *stack.StackSecret[*card.VTMFSecret]) *stack.StackSecret[*card.VTMFSecret] {
	return shuffle.GlueStackSecret[*card.VTMFCard, *card.VTMFSecret](t.ops(), sigma, pi)
}

// ProveStackEquality / VerifyStackEquality run the cut-and-choose proof
// over VTMF-encoded stacks.
func (t *VTMFTMCG) ProveStackEquality(w io.Writer, r *bufio.Reader, s, sPrime *stack.Stack[*card.VTMFCard], ss *stack.StackSecret[*card.VTMFSecret], cyclic bool) error {
	return shuffle.ProveStackEquality[*card.VTMFCard, *card.VTMFSecret](w, r, t.ops(), s, sPrime, ss, cyclic, t.security)
}

func (t *VTMFTMCG) VerifyStackEquality(w io.Writer, r *bufio.Reader, s, sPrime *stack.Stack[*card.VTMFCard], cyclic bool) bool {
	return shuffle.VerifyStackEquality[*card.VTMFCard, *card.VTMFSecret](w, r, t.ops(), s, sPrime, card.ParseVTMFCard, card.ParseVTMFSecret, cyclic, t.security)
}
