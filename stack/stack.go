// Package stack implements the Stack, OpenStack and StackSecret
// containers of spec.md §3, parameterised over the card/secret types of
// either encoding family (card.Card/card.Secret or card.VTMFCard/
// card.VTMFSecret).
package stack

import (
	"math/big"
	"strings"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/wire"
)

// Serializable is satisfied by any card or card-secret type that knows
// how to render itself onto the wire.
type Serializable interface {
	Serialize() string
}

// Stack is a finite ordered sequence of cards, capped at
// constants.MaxCards (spec.md §3/§7: pushes past the cap are silently
// dropped, a defensive measure rather than a guaranteed limit).
type Stack[C Serializable] struct {
	Cards []C
}

// New builds an empty stack.
func New[C Serializable]() *Stack[C] {
	return &Stack[C]{}
}

// Push appends a card, dropping it silently if the stack is already at
// constants.MaxCards.
func (s *Stack[C]) Push(c C) {
	if len(s.Cards) >= constants.MaxCards {
		return
	}
	s.Cards = append(s.Cards, c)
}

// Len returns the number of cards.
func (s *Stack[C]) Len() int { return len(s.Cards) }

// At returns the card at position i.
func (s *Stack[C]) At(i int) C { return s.Cards[i] }

// Serialize renders the stack as `stk^size^card1^card2^...^`, splicing
// each card's own `crd|...|` record verbatim between carets.
func (s *Stack[C]) Serialize() string {
	var b strings.Builder
	b.WriteString("stk^")
	b.WriteString(big.NewInt(int64(len(s.Cards))).Text(wire.IOBase))
	b.WriteByte('^')
	for _, c := range s.Cards {
		b.WriteString(stripNL(c.Serialize()))
		b.WriteByte('^')
	}
	return b.String() + "\n"
}

// ParseStack parses a `stk^size^card1^...^` record, using decode to
// parse each card's own `crd|...|` sub-record.
func ParseStack[C Serializable](line string, decode func(string) (C, error)) (*Stack[C], error) {
	parts, err := splitCaretRecord(line, "stk^")
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, wire.ErrMalformed
	}
	size, ok := new(big.Int).SetString(parts[0], wire.IOBase)
	if !ok || !size.IsInt64() || size.Sign() < 0 {
		return nil, wire.ErrMalformed
	}
	n := int(size.Int64())
	if len(parts)-1 != n {
		return nil, wire.ErrMalformed
	}
	s := &Stack[C]{}
	for i := 0; i < n; i++ {
		c, err := decode(parts[1+i])
		if err != nil {
			return nil, err
		}
		s.Cards = append(s.Cards, c)
	}
	return s, nil
}

// splitCaretRecord validates magic and trailing '^', then splits the
// remaining caret-delimited fields. Individual fields may themselves
// contain '|' (a spliced crd|/crs| sub-record) but never '^'.
func splitCaretRecord(line, magic string) ([]string, error) {
	if len(line) > constants.MaxStackChars {
		return nil, wire.ErrMalformed
	}
	if !strings.HasPrefix(line, magic) {
		return nil, wire.ErrMalformed
	}
	rest := line[len(magic):]
	if rest == "" || rest[len(rest)-1] != '^' {
		return nil, wire.ErrMalformed
	}
	rest = rest[:len(rest)-1]
	if rest == "" {
		return nil, nil
	}
	return strings.Split(rest, "^"), nil
}

func stripNL(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}

// OpenStack is a finite ordered sequence of (type, card) pairs.
type OpenStack[C Serializable] struct {
	Types []int
	Cards []C
}

// NewOpenStack builds an empty open stack.
func NewOpenStack[C Serializable]() *OpenStack[C] {
	return &OpenStack[C]{}
}

// Push appends a (type, card) pair, dropping it silently past
// constants.MaxCards.
func (s *OpenStack[C]) Push(typ int, c C) {
	if len(s.Cards) >= constants.MaxCards {
		return
	}
	s.Types = append(s.Types, typ)
	s.Cards = append(s.Cards, c)
}

// Len returns the number of entries.
func (s *OpenStack[C]) Len() int { return len(s.Cards) }

// Serialize renders as `sts^size^type1^card1^type2^card2^...^`.
func (s *OpenStack[C]) Serialize() string {
	var b strings.Builder
	b.WriteString("sts^")
	b.WriteString(big.NewInt(int64(len(s.Cards))).Text(wire.IOBase))
	b.WriteByte('^')
	for i, c := range s.Cards {
		b.WriteString(big.NewInt(int64(s.Types[i])).Text(wire.IOBase))
		b.WriteByte('^')
		b.WriteString(stripNL(c.Serialize()))
		b.WriteByte('^')
	}
	return b.String() + "\n"
}

// ParseOpenStack parses a `sts^size^type1^card1^...^` record.
func ParseOpenStack[C Serializable](line string, decode func(string) (C, error)) (*OpenStack[C], error) {
	parts, err := splitCaretRecord(line, "sts^")
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, wire.ErrMalformed
	}
	size, ok := new(big.Int).SetString(parts[0], wire.IOBase)
	if !ok || !size.IsInt64() || size.Sign() < 0 {
		return nil, wire.ErrMalformed
	}
	n := int(size.Int64())
	if len(parts)-1 != 2*n {
		return nil, wire.ErrMalformed
	}
	s := &OpenStack[C]{}
	for i := 0; i < n; i++ {
		typ, ok := new(big.Int).SetString(parts[1+2*i], wire.IOBase)
		if !ok || !typ.IsInt64() {
			return nil, wire.ErrMalformed
		}
		c, err := decode(parts[2+2*i])
		if err != nil {
			return nil, err
		}
		s.Types = append(s.Types, int(typ.Int64()))
		s.Cards = append(s.Cards, c)
	}
	return s, nil
}

// Secret is one entry of a StackSecret: the source position this output
// position's card was drawn from, and the card-secret applied to it.
type Secret[S Serializable] struct {
	Index  int
	Secret S
}

// StackSecret is the permutation (as the first components, in output
// order) plus the per-position card secrets that together define a
// shuffle (spec.md §3).
type StackSecret[S Serializable] struct {
	Entries []Secret[S]
}

// Len returns the number of entries.
func (ss *StackSecret[S]) Len() int { return len(ss.Entries) }

// Permutation returns π⁻¹ as a slice: element i is Entries[i].Index, the
// input position that output position i's card came from.
func (ss *StackSecret[S]) Permutation() []int {
	p := make([]int, len(ss.Entries))
	for i, e := range ss.Entries {
		p[i] = e.Index
	}
	return p
}

// Serialize renders as `sts^size^idx1^secret1^idx2^secret2^...^` (the
// same sts^ magic as OpenStack, since both are size-prefixed sequences
// of caret-delimited pairs; spec.md §6 reuses the tag for both shapes).
func (ss *StackSecret[S]) Serialize() string {
	var b strings.Builder
	b.WriteString("sts^")
	b.WriteString(big.NewInt(int64(len(ss.Entries))).Text(wire.IOBase))
	b.WriteByte('^')
	for _, e := range ss.Entries {
		b.WriteString(big.NewInt(int64(e.Index)).Text(wire.IOBase))
		b.WriteByte('^')
		b.WriteString(stripNL(e.Secret.Serialize()))
		b.WriteByte('^')
	}
	return b.String() + "\n"
}

// ParseStackSecret parses a `sts^size^idx1^secret1^...^` record.
func ParseStackSecret[S Serializable](line string, decode func(string) (S, error)) (*StackSecret[S], error) {
	parts, err := splitCaretRecord(line, "sts^")
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, wire.ErrMalformed
	}
	size, ok := new(big.Int).SetString(parts[0], wire.IOBase)
	if !ok || !size.IsInt64() || size.Sign() < 0 {
		return nil, wire.ErrMalformed
	}
	n := int(size.Int64())
	if len(parts)-1 != 2*n {
		return nil, wire.ErrMalformed
	}
	ss := &StackSecret[S]{}
	for i := 0; i < n; i++ {
		idx, ok := new(big.Int).SetString(parts[1+2*i], wire.IOBase)
		if !ok || !idx.IsInt64() {
			return nil, wire.ErrMalformed
		}
		sec, err := decode(parts[2+2*i])
		if err != nil {
			return nil, err
		}
		ss.Entries = append(ss.Entries, Secret[S]{Index: int(idx.Int64()), Secret: sec})
	}
	return ss, nil
}
