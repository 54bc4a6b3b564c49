package shuffle

import (
	"bufio"
	"io"

	"github.com/schindelhauer/tmcg/stack"
	"github.com/schindelhauer/tmcg/wire"
)

// ProveStackEquality runs the prover's side of ProofStackEquality(s,
// s',ss,cyclic): s' must equal Mix(s,ss). Each of rounds parallel
// cut-and-choose rounds commits a further shuffle of s' by a fresh
// secret ρ⁻¹, then answers the verifier's challenge bit by opening
// either ρ itself or the composed shuffle ss glued with ρ⁻¹ -- whichever
// lets the verifier recompute the commitment from a stack it already
// holds without ever learning ss.
func ProveStackEquality[C stack.Serializable, S stack.Serializable](
	w io.Writer, r *bufio.Reader,
	ops Ops[C, S],
	s, sPrime *stack.Stack[C],
	ss *stack.StackSecret[S],
	cyclic bool,
	rounds int,
) error {
	size := s.Len()
	for round := 0; round < rounds; round++ {
		rho, err := CreateStackSecret[C, S](ops, cyclic, size)
		if err != nil {
			return err
		}
		rhoInv, err := invertStackSecret[C, S](ops, rho)
		if err != nil {
			return err
		}
		sDouble := MixStack(ops, sPrime, rhoInv)
		if _, err := io.WriteString(w, sDouble.Serialize()); err != nil {
			return err
		}

		challenge, err := readBit(r)
		if err != nil {
			return err
		}
		if challenge == 0 {
			if _, err := io.WriteString(w, rho.Serialize()); err != nil {
				return err
			}
		} else {
			joint := GlueStackSecret(ops, ss, rhoInv)
			if _, err := io.WriteString(w, joint.Serialize()); err != nil {
				return err
			}
		}
	}
	return nil
}

// VerifyStackEquality runs the verifier's side: for each round, read
// the commitment, send a random challenge bit, read the opened secret,
// and check the commitment is reproduced from s' (challenge 0) or from
// s (challenge 1). If cyclic, every opened permutation must itself be a
// single cyclic shift.
func VerifyStackEquality[C stack.Serializable, S stack.Serializable](
	w io.Writer, r *bufio.Reader,
	ops Ops[C, S],
	s, sPrime *stack.Stack[C],
	decodeCard func(string) (C, error),
	decodeSecret func(string) (S, error),
	cyclic bool,
	rounds int,
) bool {
	for round := 0; round < rounds; round++ {
		line, err := wire.ReadLine(r)
		if err != nil {
			return false
		}
		sDouble, err := stack.ParseStack(line, decodeCard)
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

		secretLine, err := wire.ReadLine(r)
		if err != nil {
			return false
		}
		revealed, err := stack.ParseStackSecret(secretLine, decodeSecret)
		if err != nil {
			return false
		}
		if cyclic && !isCyclicShift(revealed) {
			return false
		}

		var check *stack.Stack[C]
		if challenge == 0 {
			// the prover opened ρ itself on this branch (see
			// ProveStackEquality), so recomputing the commitment
			// s'' = Mix(s', ρ⁻¹) needs ρ inverted first.
			revealedInv, err := invertStackSecret[C, S](ops, revealed)
			if err != nil {
				return false
			}
			check = MixStack(ops, sPrime, revealedInv)
		} else {
			check = MixStack(ops, s, revealed)
		}
		if check.Serialize() != sDouble.Serialize() {
			return false
		}
	}
	return true
}

func writeBit(w io.Writer, b int) error {
	_, err := io.WriteString(w, itoa(b)+"\n")
	return err
}

func readBit(r *bufio.Reader) (int, error) {
	line, err := wire.ReadLine(r)
	if err != nil {
		return 0, err
	}
	if line == "0" {
		return 0, nil
	}
	if line == "1" {
		return 1, nil
	}
	return 0, wire.ErrMalformed
}

func itoa(b int) string {
	if b == 0 {
		return "0"
	}
	return "1"
}
