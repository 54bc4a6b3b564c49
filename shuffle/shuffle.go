// Package shuffle implements the shuffle core of spec.md §4.7:
// generating stack secrets, applying them to mix a stack, composing two
// shuffles into one, and the cut-and-choose ProofStackEquality protocol
// that convinces a verifier a shuffle was performed honestly without
// revealing the permutation.
package shuffle

import (
	"math/big"

	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/stack"
)

// Ops abstracts the per-position secret algebra of one card encoding:
// sampling a fresh secret, applying it as a mask, composing two
// secrets in the order they were applied, and inverting one. Schindelhauer
// and VTMF provide distinct implementations (schindelhauer.go, vtmf.go).
type Ops[C stack.Serializable, S stack.Serializable] interface {
	Fresh() (S, error)
	Mask(c C, s S) C
	Compose(outer, inner S) S
	Invert(s S) (S, error)
}

// CreateStackSecret samples a fresh per-position secret for every slot
// and a permutation over [0,size) -- a uniform Fisher-Yates shuffle, or
// (if cyclic) a single random cyclic shift.
func CreateStackSecret[C stack.Serializable, S stack.Serializable](ops Ops[C, S], cyclic bool, size int) (*stack.StackSecret[S], error) {
	perm, err := permutation(cyclic, size)
	if err != nil {
		return nil, err
	}
	ss := &stack.StackSecret[S]{Entries: make([]stack.Secret[S], size)}
	for i := 0; i < size; i++ {
		sec, err := ops.Fresh()
		if err != nil {
			return nil, err
		}
		ss.Entries[i] = stack.Secret[S]{Index: perm[i], Secret: sec}
	}
	return ss, nil
}

// MixStack applies ss to s: output position i draws from input position
// ss.Entries[i].Index and is remasked with ss.Entries[i].Secret.
func MixStack[C stack.Serializable, S stack.Serializable](ops Ops[C, S], s *stack.Stack[C], ss *stack.StackSecret[S]) *stack.Stack[C] {
	out := stack.New[C]()
	for _, e := range ss.Entries {
		out.Push(ops.Mask(s.At(e.Index), e.Secret))
	}
	return out
}

// MixOpenStack applies ss to an OpenStack, carrying each entry's type
// alongside its card (masking never changes the encoded type).
func MixOpenStack[C stack.Serializable, S stack.Serializable](ops Ops[C, S], s *stack.OpenStack[C], ss *stack.StackSecret[S]) *stack.OpenStack[C] {
	out := stack.NewOpenStack[C]()
	for _, e := range ss.Entries {
		out.Push(s.Types[e.Index], ops.Mask(s.Cards[e.Index], e.Secret))
	}
	return out
}

// GlueStackSecret composes two shuffles applied in sequence -- sigma
// first, then pi -- into the single stack secret that reproduces
// Mix(Mix(s,sigma),pi) as Mix(s, GlueStackSecret(ops,sigma,pi)).
func GlueStackSecret[C stack.Serializable, S stack.Serializable](ops Ops[C, S], sigma, pi *stack.StackSecret[S]) *stack.StackSecret[S] {
	n := pi.Len()
	joint := &stack.StackSecret[S]{Entries: make([]stack.Secret[S], n)}
	for j, pe := range pi.Entries {
		se := sigma.Entries[pe.Index]
		joint.Entries[j] = stack.Secret[S]{
			Index:  se.Index,
			Secret: ops.Compose(pe.Secret, se.Secret),
		}
	}
	return joint
}

// invertStackSecret returns the stack secret that undoes ss: feeding
// Mix(s,ss) through it reproduces s.
func invertStackSecret[C stack.Serializable, S stack.Serializable](ops Ops[C, S], ss *stack.StackSecret[S]) (*stack.StackSecret[S], error) {
	n := ss.Len()
	inv := &stack.StackSecret[S]{Entries: make([]stack.Secret[S], n)}
	for i, e := range ss.Entries {
		invSecret, err := ops.Invert(e.Secret)
		if err != nil {
			return nil, err
		}
		inv.Entries[e.Index] = stack.Secret[S]{Index: i, Secret: invSecret}
	}
	return inv, nil
}

// permutation draws a uniform permutation of [0,size) by Fisher-Yates,
// or (if cyclic) a single uniformly random cyclic shift.
func permutation(cyclic bool, size int) ([]int, error) {
	if size == 0 {
		return nil, nil
	}
	if cyclic {
		offset, err := mpint.StrongRandomNumber(big.NewInt(0), big.NewInt(int64(size-1)))
		if err != nil {
			return nil, err
		}
		off := int(offset.Int64())
		perm := make([]int, size)
		for i := range perm {
			perm[i] = (i + off) % size
		}
		return perm, nil
	}
	perm := make([]int, size)
	for i := range perm {
		perm[i] = i
	}
	for i := size - 1; i > 0; i-- {
		j, err := mpint.StrongRandomNumber(big.NewInt(0), big.NewInt(int64(i)))
		if err != nil {
			return nil, err
		}
		jj := int(j.Int64())
		perm[i], perm[jj] = perm[jj], perm[i]
	}
	return perm, nil
}

// isCyclicShift reports whether ss's permutation is a single cyclic
// shift, the extra check ProofStackEquality runs when cyclic=true.
func isCyclicShift[S stack.Serializable](ss *stack.StackSecret[S]) bool {
	n := ss.Len()
	if n == 0 {
		return true
	}
	off := ((ss.Entries[0].Index - 0) % n + n) % n
	for i, e := range ss.Entries {
		want := (i + off) % n
		if e.Index != want {
			return false
		}
	}
	return true
}

func randomBit() (int, error) {
	n, err := mpint.StrongRandomNumber(big.NewInt(0), big.NewInt(1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
