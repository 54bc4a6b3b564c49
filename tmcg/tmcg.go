// Package tmcg ties together key, card, stack, proof and shuffle into
// the single facade spec.md §2/§6 describes: a SchindelhauerTMCG
// instance configured for one player count and type-bit width, exposing
// card creation, masking, and the proof/verify pairs as plain methods
// instead of requiring every caller to thread security-level and
// key-ring arguments by hand.
package tmcg

import (
	"bufio"
	"io"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/proof"
	"github.com/schindelhauer/tmcg/shuffle"
	"github.com/schindelhauer/tmcg/stack"
)

// SchindelhauerTMCG holds the configuration shared by every operation
// in one game: the key ring of participating players, the number of
// Σ-protocol rounds used by every proof, and the type-bit width of
// cards created through it.
type SchindelhauerTMCG struct {
	Keys          []*key.PublicKey
	SecurityLevel int
	TypeBits      int
}

// New builds a facade over keys with the given type-bit width, using
// constants.SecurityLevel rounds for every proof.
func New(keys []*key.PublicKey, typeBits int) *SchindelhauerTMCG {
	return &SchindelhauerTMCG{Keys: keys, SecurityLevel: constants.SecurityLevel, TypeBits: typeBits}
}

// CreateOpenCard builds the public encoding of typ.
func (t *SchindelhauerTMCG) CreateOpenCard(typ int) *card.Card {
	return card.CreateOpenCard(t.Keys, typ, t.TypeBits)
}

// CreatePrivateCard builds a card known only to owner, with its secret.
func (t *SchindelhauerTMCG) CreatePrivateCard(owner, typ int) (*card.Card, *card.Secret, error) {
	return card.CreatePrivateCard(t.Keys, owner, typ, t.TypeBits)
}

// MaskCard re-randomises c under cs.
func (t *SchindelhauerTMCG) MaskCard(c *card.Card, cs *card.Secret) *card.Card {
	return card.MaskCard(c, cs, t.Keys)
}

// TypeOfCard recovers the type encoded by cs.
func (t *SchindelhauerTMCG) TypeOfCard(cs *card.Secret) int {
	return card.TypeOfCard(cs)
}

// ProvePrivateCard / VerifyPrivateCard run ProofPrivateCard for a card
// created by CreatePrivateCard.
func (t *SchindelhauerTMCG) ProvePrivateCard(w io.Writer, r *bufio.Reader, c *card.Card, cs *card.Secret, owner int) error {
	return proof.ProvePrivateCard(w, r, t.Keys, c, cs, owner, t.SecurityLevel)
}

func (t *SchindelhauerTMCG) VerifyPrivateCard(w io.Writer, r *bufio.Reader, c *card.Card, owner int) bool {
	return proof.VerifyPrivateCard(w, r, t.Keys, c, owner, t.SecurityLevel)
}

// ProveMaskCard / VerifyMaskCard run ProofMaskCard between an original
// card's components z and a masked card's components zz.
func (t *SchindelhauerTMCG) ProveMaskCard(w io.Writer, r *bufio.Reader, z *card.Card, cs *card.Secret) error {
	return proof.ProveMaskCard(w, r, t.Keys, z.Z, cs.R, cs.B, t.SecurityLevel)
}

func (t *SchindelhauerTMCG) VerifyMaskCard(w io.Writer, r *bufio.Reader, z, zz *card.Card) bool {
	return proof.VerifyMaskCard(w, r, t.Keys, z.Z, zz.Z, t.SecurityLevel)
}

// ProveCardSecret / VerifyCardSecret run ProofCardSecret, revealing the
// type bits of row owned by the caller's secret key.
func (t *SchindelhauerTMCG) ProveCardSecret(w io.Writer, r *bufio.Reader, sk *key.SecretKey, c *card.Card, row int) error {
	return proof.ProveCardSecret(w, r, sk, c, row, t.SecurityLevel)
}

func (t *SchindelhauerTMCG) VerifyCardSecret(w io.Writer, r *bufio.Reader, c *card.Card, row int) ([]int, bool) {
	return proof.VerifyCardSecret(w, r, t.Keys[row], c, row, t.SecurityLevel)
}

// ops returns the shuffle.Ops implementation for this facade's key ring.
func (t *SchindelhauerTMCG) ops() *shuffle.CardOps {
	return &shuffle.CardOps{Keys: t.Keys, W: t.TypeBits}
}

// CreateStackSecret, MixStack and GlueStackSecret expose the shuffle
// core (spec.md §4.7) bound to this facade's card encoding.
func (t *SchindelhauerTMCG) CreateStackSecret(cyclic bool, size int) (*stack.StackSecret[*card.Secret], error) {
	return shuffle.CreateStackSecret[*card.Card, *card.Secret](t.ops(), cyclic, size)
}

func (t *SchindelhauerTMCG) MixStack(s *stack.Stack[*card.Card], ss *stack.StackSecret[*card.Secret]) *stack.Stack[*card.Card] {
	return shuffle.MixStack[*card.Card, *card.Secret](t.ops(), s, ss)
}

func (t *SchindelhauerTMCG) GlueStackSecret(sigma, pi *stack.StackSecret[*card.Secret]) *stack.StackSecret[*card.Secret] {
	return shuffle.GlueStackSecret[*card.Card, *card.Secret](t.ops(), sigma, pi)
}

// ProveStackEquality / VerifyStackEquality run the cut-and-choose
// ProofStackEquality protocol between s and s'=Mix(s,ss).
func (t *SchindelhauerTMCG) ProveStackEquality(w io.Writer, r *bufio.Reader, s, sPrime *stack.Stack[*card.Card], ss *stack.StackSecret[*card.Secret], cyclic bool) error {
	return shuffle.ProveStackEquality[*card.Card, *card.Secret](w, r, t.ops(), s, sPrime, ss, cyclic, t.SecurityLevel)
}

func (t *SchindelhauerTMCG) VerifyStackEquality(w io.Writer, r *bufio.Reader, s, sPrime *stack.Stack[*card.Card], cyclic bool) bool {
	return shuffle.VerifyStackEquality[*card.Card, *card.Secret](w, r, t.ops(), s, sPrime, card.ParseCard, card.ParseSecret, cyclic, t.SecurityLevel)
}
